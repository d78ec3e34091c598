package repository

import (
	"context"
	"time"

	"github.com/jhoicas/caja-market/internal/domain/caja"
	"github.com/jhoicas/caja-market/internal/domain/entity"
)

// CashMovementFilter filtros para listados de movimientos de caja.
// From es inclusivo y To exclusivo.
type CashMovementFilter struct {
	From     *time.Time
	To       *time.Time
	Category entity.CashCategory  // vacío = todas
	Status   entity.MovementStatus // vacío = todos
	Limit    int
}

// CashMovementRepository puerto del libro de caja.
type CashMovementRepository interface {
	// Create persiste el movimiento y completa ID y CreatedAt.
	Create(ctx context.Context, movement *entity.CashMovement) error
	GetByID(ctx context.Context, id int64) (*entity.CashMovement, error)
	// UpdateStatus cambia el estado solo si el actual es from. Devuelve false si no hubo cambio.
	UpdateStatus(ctx context.Context, id int64, from, to entity.MovementStatus) (bool, error)
	FindByReference(ctx context.Context, refKind string, refID int64) ([]*entity.CashMovement, error)
	// ListForSession incluye los movimientos de la sesión y los aún no asignados.
	ListForSession(ctx context.Context, sessionID int64) ([]*entity.CashMovement, error)
	// TotalsForSession agrupa movimientos activos (de la sesión o sin asignar) por método y sentido.
	TotalsForSession(ctx context.Context, sessionID int64) ([]caja.MethodTotal, error)
	// AttachUnassigned asigna a la sesión todo movimiento con sesión nula. Devuelve cuántos.
	AttachUnassigned(ctx context.Context, sessionID int64) (int64, error)
	List(ctx context.Context, filter CashMovementFilter) ([]*entity.CashMovement, error)
}
