package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// SessionStatus estado de una sesión de caja. abierta -> {cerrada, con_diferencias}; sin retorno.
type SessionStatus string

const (
	SessionOpen            SessionStatus = "abierta"
	SessionClosed          SessionStatus = "cerrada"
	SessionClosedWithDiffs SessionStatus = "con_diferencias"
)

// CashSession turno de caja: saldos iniciales al abrir, conteo y diferencias al cerrar.
type CashSession struct {
	ID            int64
	OpenedAt      time.Time
	ClosedAt      *time.Time
	OpenedBy      *int64
	ClosedBy      *int64
	Opening       Balances
	Counted       *Balances
	SystemIngress *decimal.Decimal
	SystemEgress  *decimal.Decimal
	Differences   *Balances
	Notes         string
	Status        SessionStatus
}

// IsOpen indica si la sesión sigue abierta.
func (s *CashSession) IsOpen() bool {
	return s.Status == SessionOpen
}
