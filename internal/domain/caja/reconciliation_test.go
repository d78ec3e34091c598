package caja_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/caja-market/internal/domain/caja"
	"github.com/jhoicas/caja-market/internal/domain/entity"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestTotals_Expected(t *testing.T) {
	totals := caja.NewTotals([]caja.MethodTotal{
		{Method: entity.MethodEfectivo, Direction: entity.CashIngreso, Amount: d("50")},
		{Method: entity.MethodEfectivo, Direction: entity.CashEgreso, Amount: d("20")},
		{Method: entity.MethodYape, Direction: entity.CashIngreso, Amount: d("35.50")},
		{Method: entity.PaymentMethod("tarjeta"), Direction: entity.CashIngreso, Amount: d("999")},
	})

	opening := entity.Balances{Efectivo: d("100")}
	exp := totals.Expected(opening)

	assert.True(t, exp.Efectivo.Equal(d("130")), "100 + 50 − 20")
	assert.True(t, exp.Yape.Equal(d("35.50")))
	assert.True(t, exp.Plin.IsZero())
	assert.True(t, totals.TotalIngress().Equal(d("85.50")), "el método desconocido se ignora")
	assert.True(t, totals.TotalEgress().Equal(d("20")))
}

func TestReconcile_DentroDeEpsilon(t *testing.T) {
	expected := entity.Balances{Efectivo: d("130"), Yape: d("35.50")}
	counted := entity.Balances{Efectivo: d("130.01"), Yape: d("35.49")}

	r := caja.Reconcile(expected, counted, caja.DefaultEpsilon)

	assert.Equal(t, entity.SessionClosed, r.Status, "0.01 exacto sigue cuadrando")
	assert.True(t, r.Differences.Efectivo.Equal(d("0.01")))
	assert.True(t, r.Differences.Yape.Equal(d("-0.01")))
}

func TestReconcile_ConDiferencias(t *testing.T) {
	expected := entity.Balances{Efectivo: d("130")}
	counted := entity.Balances{Efectivo: d("125")}

	r := caja.Reconcile(expected, counted, caja.DefaultEpsilon)

	assert.Equal(t, entity.SessionClosedWithDiffs, r.Status)
	assert.True(t, r.Differences.Efectivo.Equal(d("-5")), "faltante con signo negativo")
	assert.True(t, r.Differences.POSBanco.IsZero())
}
