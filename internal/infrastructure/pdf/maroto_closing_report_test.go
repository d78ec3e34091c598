package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/caja-market/internal/application/cash"
	"github.com/jhoicas/caja-market/internal/domain/entity"
)

func TestFormatMoney(t *testing.T) {
	cases := map[string]string{
		"0":       "S/ 0.00",
		"5.5":     "S/ 5.50",
		"1234.5":  "S/ 1,234.50",
		"1000000": "S/ 1,000,000.00",
		"-20":     "-S/ 20.00",
		"999.999": "S/ 1,000.00",
	}
	for in, want := range cases {
		assert.Equal(t, want, formatMoney(decimal.RequireFromString(in)), "entrada %s", in)
	}
}

func TestGenerateClosingReport_DevuelvePDF(t *testing.T) {
	closedAt := time.Now()
	counted := entity.Balances{Efectivo: decimal.NewFromInt(195)}
	diffs := entity.Balances{Efectivo: decimal.NewFromInt(-5)}
	sessionID := int64(1)
	session := &entity.CashSession{
		ID:          sessionID,
		OpenedAt:    closedAt.Add(-8 * time.Hour),
		ClosedAt:    &closedAt,
		Opening:     entity.Balances{Efectivo: decimal.NewFromInt(100)},
		Counted:     &counted,
		Differences: &diffs,
		Notes:       "faltante en efectivo",
		Status:      entity.SessionClosedWithDiffs,
	}
	movs := []*entity.CashMovement{
		{ID: 1, CreatedAt: closedAt, Direction: entity.CashIngreso, Category: entity.CategoryMarket,
			Method: entity.MethodEfectivo, Amount: decimal.NewFromInt(100), Description: "Venta #1",
			SessionID: &sessionID, Status: entity.MovementActive},
		{ID: 2, CreatedAt: closedAt, Direction: entity.CashEgreso, Category: entity.CategoryGasto,
			Method: entity.MethodEfectivo, Amount: decimal.NewFromInt(10), Description: "Agua",
			SessionID: &sessionID, Status: entity.MovementReversed},
	}

	out, err := NewMarotoReportGenerator().GenerateClosingReport(context.Background(), cash.ClosingReport{
		Session:       session,
		Expected:      entity.Balances{Efectivo: decimal.NewFromInt(200)},
		Ingress:       entity.Balances{Efectivo: decimal.NewFromInt(100)},
		TotalIngress:  decimal.NewFromInt(100),
		TotalEgress:   decimal.Zero,
		Movements:     movs,
		GeneratedAt:   closedAt,
		BusinessTitle: "Gimnasio",
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")), "el resultado debe ser un PDF")
}

func TestGenerateClosingReport_SinSesion(t *testing.T) {
	_, err := NewMarotoReportGenerator().GenerateClosingReport(context.Background(), cash.ClosingReport{})
	assert.Error(t, err)
}
