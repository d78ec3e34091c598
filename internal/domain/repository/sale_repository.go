package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/caja-market/internal/domain/entity"
)

// SaleFilter filtros para el listado de ventas.
// From es inclusivo y To exclusivo.
type SaleFilter struct {
	From    *time.Time
	To      *time.Time
	BuyerID *int64
	Status  entity.SaleStatus // vacío = todas
	Limit   int
}

// ProductSales agregado de unidades e importe vendido por producto.
type ProductSales struct {
	ProductID int64
	SKU       string
	Name      string
	Quantity  int
	Amount    decimal.Decimal
}

// MethodSales agregado de ventas completadas por método de pago.
type MethodSales struct {
	Method entity.PaymentMethod
	Count  int
	Amount decimal.Decimal
}

// SaleRepository puerto de persistencia de ventas y su detalle.
type SaleRepository interface {
	// Create inserta la cabecera y todas sus líneas; completa los IDs.
	Create(ctx context.Context, sale *entity.Sale) error
	// GetByID devuelve la venta con sus líneas o (nil, nil).
	GetByID(ctx context.Context, id int64) (*entity.Sale, error)
	GetForUpdate(ctx context.Context, id int64) (*entity.Sale, error)
	UpdateStatus(ctx context.Context, id int64, status entity.SaleStatus) error
	List(ctx context.Context, filter SaleFilter) ([]*entity.Sale, error)
	TopProducts(ctx context.Context, limit int, from, to *time.Time) ([]ProductSales, error)
	TotalsByMethod(ctx context.Context, from, to *time.Time) ([]MethodSales, error)
}
