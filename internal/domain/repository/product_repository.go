package repository

import (
	"context"

	"github.com/jhoicas/caja-market/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
// GetByID y GetForUpdate devuelven (nil, nil) si el producto no existe.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id int64) (*entity.Product, error)
	// GetForUpdate bloquea la fila del producto hasta el fin de la transacción (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id int64) (*entity.Product, error)
	// UpdateStock actualiza la columna cacheada. Solo la invoca el libro de stock.
	UpdateStock(ctx context.Context, id int64, stock int) error
	ListBelowReorder(ctx context.Context) ([]*entity.Product, error)
}
