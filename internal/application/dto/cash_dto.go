package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/caja-market/internal/domain/entity"
)

// OpenSessionRequest body para POST /api/cash/sessions.
type OpenSessionRequest struct {
	Opening entity.Balances `json:"opening"`
}

// OpenSessionResult resultado de abrir caja.
type OpenSessionResult struct {
	SessionID int64  `json:"session_id"`
	Message   string `json:"message"`
}

// CloseSessionRequest body para POST /api/cash/sessions/:id/close.
type CloseSessionRequest struct {
	Counted entity.Balances `json:"counted"`
	Notes   string          `json:"notes"`
}

// CloseSessionResult resultado del cierre. Las diferencias son datos, no errores.
type CloseSessionResult struct {
	SessionID      int64           `json:"session_id"`
	Status         string          `json:"status"`
	Expected       entity.Balances `json:"expected"`
	Counted        entity.Balances `json:"counted"`
	Differences    entity.Balances `json:"differences"`
	SystemIngress  decimal.Decimal `json:"system_ingress"`
	SystemEgress   decimal.Decimal `json:"system_egress"`
	SweptMovements int64           `json:"swept_movements"`
	Message        string          `json:"message"`
}

// SessionBalancesResponse saldos esperados de una sesión.
type SessionBalancesResponse struct {
	SessionID    int64           `json:"session_id"`
	Status       string          `json:"status"`
	OpenedAt     time.Time       `json:"opened_at"`
	Opening      entity.Balances `json:"opening"`
	Ingress      entity.Balances `json:"ingress"`
	Egress       entity.Balances `json:"egress"`
	Expected     entity.Balances `json:"expected"`
	TotalIngress decimal.Decimal `json:"total_ingress"`
	TotalEgress  decimal.Decimal `json:"total_egress"`
}

// CashSessionResponse proyección de una sesión de caja.
type CashSessionResponse struct {
	ID            int64            `json:"id"`
	Status        string           `json:"status"`
	OpenedAt      time.Time        `json:"opened_at"`
	ClosedAt      *time.Time       `json:"closed_at,omitempty"`
	OpenedBy      *int64           `json:"opened_by,omitempty"`
	ClosedBy      *int64           `json:"closed_by,omitempty"`
	Opening       entity.Balances  `json:"opening"`
	Counted       *entity.Balances `json:"counted,omitempty"`
	Differences   *entity.Balances `json:"differences,omitempty"`
	SystemIngress *decimal.Decimal `json:"system_ingress,omitempty"`
	SystemEgress  *decimal.Decimal `json:"system_egress,omitempty"`
	Notes         string           `json:"notes,omitempty"`
}

// NewCashSessionResponse mapea la entidad.
func NewCashSessionResponse(s *entity.CashSession) CashSessionResponse {
	return CashSessionResponse{
		ID:            s.ID,
		Status:        string(s.Status),
		OpenedAt:      s.OpenedAt,
		ClosedAt:      s.ClosedAt,
		OpenedBy:      s.OpenedBy,
		ClosedBy:      s.ClosedBy,
		Opening:       s.Opening,
		Counted:       s.Counted,
		Differences:   s.Differences,
		SystemIngress: s.SystemIngress,
		SystemEgress:  s.SystemEgress,
		Notes:         s.Notes,
	}
}

// RecordMovementRequest body para POST /api/cash/movements (gastos, ingresos manuales, ajustes).
type RecordMovementRequest struct {
	Direction   string          `json:"direction"`
	Category    string          `json:"category"`
	Method      string          `json:"method"`
	Amount      decimal.Decimal `json:"amount"`
	RefKind     string          `json:"ref_kind,omitempty"`
	RefID       *int64          `json:"ref_id,omitempty"`
	Description string          `json:"description"`
	Notes       string          `json:"notes,omitempty"`
}

// CashMovementResult resultado de registrar un movimiento de caja.
type CashMovementResult struct {
	MovementID int64  `json:"movement_id"`
	SessionID  *int64 `json:"session_id,omitempty"`
	Message    string `json:"message"`
}

// ReverseResult resultado de un extorno.
type ReverseResult struct {
	MovementID int64  `json:"movement_id"`
	Status     string `json:"status"`
	Message    string `json:"message"`
}

// TransferRequest body para POST /api/cash/transfers (remesa entre métodos).
type TransferRequest struct {
	From        string          `json:"from"`
	To          string          `json:"to"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
}

// TransferResult identificadores del par egreso/ingreso de una remesa.
type TransferResult struct {
	OperationID string `json:"operation_id"`
	EgressID    int64  `json:"egress_id"`
	IngressID   int64  `json:"ingress_id"`
	Message     string `json:"message"`
}

// CashMovementResponse proyección de un movimiento de caja.
type CashMovementResponse struct {
	ID          int64           `json:"id"`
	OperationID string          `json:"operation_id"`
	CreatedAt   time.Time       `json:"created_at"`
	Direction   string          `json:"direction"`
	Category    string          `json:"category"`
	Method      string          `json:"method"`
	Amount      decimal.Decimal `json:"amount"`
	RefKind     string          `json:"ref_kind,omitempty"`
	RefID       *int64          `json:"ref_id,omitempty"`
	Description string          `json:"description,omitempty"`
	Notes       string          `json:"notes,omitempty"`
	UserID      *int64          `json:"user_id,omitempty"`
	SessionID   *int64          `json:"session_id,omitempty"`
	Status      string          `json:"status"`
}

// NewCashMovementResponse mapea la entidad.
func NewCashMovementResponse(m *entity.CashMovement) CashMovementResponse {
	return CashMovementResponse{
		ID:          m.ID,
		OperationID: m.OperationID,
		CreatedAt:   m.CreatedAt,
		Direction:   string(m.Direction),
		Category:    string(m.Category),
		Method:      string(m.Method),
		Amount:      m.Amount,
		RefKind:     m.RefKind,
		RefID:       m.RefID,
		Description: m.Description,
		Notes:       m.Notes,
		UserID:      m.UserID,
		SessionID:   m.SessionID,
		Status:      string(m.Status),
	}
}
