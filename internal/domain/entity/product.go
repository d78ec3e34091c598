package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del market.
// Stock es una columna cacheada: solo el libro de stock la modifica (vía StockMovement).
type Product struct {
	ID           int64
	SKU          string // código único
	Name         string
	Price        decimal.Decimal // precio base de venta
	Stock        int
	ReorderPoint int // stock mínimo; en o por debajo se considera bajo stock
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// BelowReorder indica si el producto requiere reposición.
func (p *Product) BelowReorder() bool {
	return p.Stock <= p.ReorderPoint
}
