package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/caja-market/internal/domain/entity"
)

// RegisterMovementRequest body para POST /api/inventory/movements.
// Quantity es positivo para entrada/salida; con signo para ajuste.
type RegisterMovementRequest struct {
	ProductID int64  `json:"product_id"`
	Type      string `json:"type"`
	Quantity  int    `json:"quantity"`
	Reason    string `json:"reason"`
}

// StockMovementResult resultado de aplicar un movimiento de stock.
type StockMovementResult struct {
	MovementID int64  `json:"movement_id"`
	NewStock   int    `json:"new_stock"`
	Message    string `json:"message"`
}

// StockMovementResponse proyección de auditoría de un movimiento de stock.
type StockMovementResponse struct {
	ID          int64     `json:"id"`
	OperationID string    `json:"operation_id"`
	ProductID   int64     `json:"product_id"`
	Type        string    `json:"type"`
	Quantity    int       `json:"quantity"`
	StockBefore int       `json:"stock_before"`
	StockAfter  int       `json:"stock_after"`
	Reason      string    `json:"reason"`
	UserID      *int64    `json:"user_id,omitempty"`
	RefKind     string    `json:"ref_kind,omitempty"`
	RefID       *int64    `json:"ref_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewStockMovementResponse mapea la entidad.
func NewStockMovementResponse(m *entity.StockMovement) StockMovementResponse {
	return StockMovementResponse{
		ID:          m.ID,
		OperationID: m.OperationID,
		ProductID:   m.ProductID,
		Type:        string(m.Kind),
		Quantity:    m.Quantity,
		StockBefore: m.StockBefore,
		StockAfter:  m.StockAfter,
		Reason:      m.Reason,
		UserID:      m.UserID,
		RefKind:     m.RefKind,
		RefID:       m.RefID,
		CreatedAt:   m.CreatedAt,
	}
}

// LowStockItem producto en o por debajo de su stock mínimo.
type LowStockItem struct {
	ProductID    int64           `json:"product_id"`
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	Stock        int             `json:"stock"`
	ReorderPoint int             `json:"reorder_point"`
	Deficit      int             `json:"deficit"`
	Price        decimal.Decimal `json:"price"`
}
