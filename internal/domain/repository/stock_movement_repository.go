package repository

import (
	"context"

	"github.com/jhoicas/caja-market/internal/domain/entity"
)

// StockMovementRepository puerto del libro de stock (solo inserción y lectura).
type StockMovementRepository interface {
	// Create persiste el movimiento y completa ID y CreatedAt.
	Create(ctx context.Context, movement *entity.StockMovement) error
	// ListByProduct devuelve los últimos movimientos del producto, del más reciente al más antiguo.
	ListByProduct(ctx context.Context, productID int64, limit int) ([]*entity.StockMovement, error)
	ListByReference(ctx context.Context, refKind string, refID int64) ([]*entity.StockMovement, error)
}
