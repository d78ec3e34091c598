package entity_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/caja-market/internal/domain/entity"
)

func TestLineSubtotal(t *testing.T) {
	cases := []struct {
		qty      int
		price    string
		discount string
		want     string
	}{
		{2, "5.00", "0", "10.00"},
		{3, "3.33", "10", "8.99"},
		{1, "15.00", "100", "0.00"},
		{4, "2.50", "12.5", "8.75"},
	}
	for _, tc := range cases {
		got := entity.LineSubtotal(tc.qty, decimal.RequireFromString(tc.price), decimal.RequireFromString(tc.discount))
		assert.Equal(t, tc.want, got.StringFixed(2), "%d × %s − %s%%", tc.qty, tc.price, tc.discount)
	}
}

func TestBalances(t *testing.T) {
	var b entity.Balances
	b.Add(entity.MethodEfectivo, decimal.NewFromInt(10))
	b.Add(entity.MethodEfectivo, decimal.NewFromInt(5))
	b.Set(entity.MethodPOSBanco, decimal.NewFromInt(7))
	b.Set(entity.PaymentMethod("tarjeta"), decimal.NewFromInt(100))

	assert.True(t, b.Get(entity.MethodEfectivo).Equal(decimal.NewFromInt(15)))
	assert.True(t, b.Total().Equal(decimal.NewFromInt(22)), "el método inválido no suma")
	assert.False(t, b.HasNegative())

	b.Set(entity.MethodPlin, decimal.NewFromInt(-1))
	assert.True(t, b.HasNegative())
}

func TestCashMovement_Signed(t *testing.T) {
	in := entity.CashMovement{Direction: entity.CashIngreso, Amount: decimal.NewFromInt(8)}
	out := entity.CashMovement{Direction: entity.CashEgreso, Amount: decimal.NewFromInt(8)}

	assert.True(t, in.Signed().Equal(decimal.NewFromInt(8)))
	assert.True(t, out.Signed().Equal(decimal.NewFromInt(-8)))
}

func TestProduct_BelowReorder(t *testing.T) {
	p := entity.Product{Stock: 5, ReorderPoint: 5}
	assert.True(t, p.BelowReorder(), "en el mínimo ya cuenta como bajo stock")
	p.Stock = 6
	assert.False(t, p.BelowReorder())
}
