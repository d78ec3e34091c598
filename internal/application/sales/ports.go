//go:generate mockgen -source=ports.go -destination=ports_mock.go -package=sales

package sales

import (
	"context"

	"github.com/jhoicas/caja-market/internal/application/cash"
	"github.com/jhoicas/caja-market/internal/application/inventory"
	"github.com/jhoicas/caja-market/internal/domain/entity"
	"github.com/jhoicas/caja-market/internal/domain/repository"
)

// StockLedger interfaz para integrar ventas con el libro de stock.
// ApplyInTx usa los repositorios del caller (misma transacción); si retorna error
// (ej: ErrInsufficientStock) el caller debe hacer rollback.
type StockLedger interface {
	ApplyInTx(ctx context.Context, repos repository.Repositories, in inventory.MovementInput) (*entity.StockMovement, error)
}

// CashLedger interfaz para integrar ventas con el libro de caja.
type CashLedger interface {
	RecordInTx(ctx context.Context, repos repository.Repositories, in cash.RecordInput) (*entity.CashMovement, error)
	ReverseByReferenceInTx(ctx context.Context, repos repository.Repositories, refKind string, refID int64) (int, error)
}
