package cash

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/caja-market/internal/domain/entity"
)

// ClosingReport datos del reporte de cierre de una sesión de caja.
type ClosingReport struct {
	Session       *entity.CashSession
	Expected      entity.Balances
	Ingress       entity.Balances
	Egress        entity.Balances
	TotalIngress  decimal.Decimal
	TotalEgress   decimal.Decimal
	Movements     []*entity.CashMovement
	GeneratedAt   time.Time
	BusinessTitle string
}

// ReportGenerator genera la representación PDF del cierre de caja.
type ReportGenerator interface {
	GenerateClosingReport(ctx context.Context, report ClosingReport) ([]byte, error)
}
