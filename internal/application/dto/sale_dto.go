package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/caja-market/internal/domain/entity"
)

// SaleItemRequest línea de venta. UnitPrice y DiscountPct los resuelve el módulo de precios.
type SaleItemRequest struct {
	ProductID   int64           `json:"product_id"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	DiscountPct decimal.Decimal `json:"discount_pct"`
}

// ProcessSaleRequest body para POST /api/sales.
type ProcessSaleRequest struct {
	BuyerKind string            `json:"buyer_kind"`
	BuyerID   *int64            `json:"buyer_id,omitempty"`
	Total     decimal.Decimal   `json:"total"`
	Method    string            `json:"method"`
	Items     []SaleItemRequest `json:"items"`
}

// SaleResult resultado de procesar o anular una venta.
type SaleResult struct {
	SaleID      int64  `json:"sale_id"`
	Status      string `json:"status"`
	OperationID string `json:"operation_id"`
	Message     string `json:"message"`
}

// SaleLineResponse línea de venta.
type SaleLineResponse struct {
	ID          int64           `json:"id"`
	ProductID   int64           `json:"product_id"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	DiscountPct decimal.Decimal `json:"discount_pct"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// SaleResponse venta con su detalle.
type SaleResponse struct {
	ID        int64              `json:"id"`
	CreatedAt time.Time          `json:"created_at"`
	BuyerKind string             `json:"buyer_kind"`
	BuyerID   *int64             `json:"buyer_id,omitempty"`
	Total     decimal.Decimal    `json:"total"`
	Method    string             `json:"method"`
	UserID    *int64             `json:"user_id,omitempty"`
	Status    string             `json:"status"`
	Lines     []SaleLineResponse `json:"lines,omitempty"`
}

// NewSaleResponse mapea la entidad.
func NewSaleResponse(s *entity.Sale) SaleResponse {
	resp := SaleResponse{
		ID:        s.ID,
		CreatedAt: s.CreatedAt,
		BuyerKind: string(s.BuyerKind),
		BuyerID:   s.BuyerID,
		Total:     s.Total,
		Method:    string(s.Method),
		UserID:    s.UserID,
		Status:    string(s.Status),
		Lines:     make([]SaleLineResponse, 0, len(s.Lines)),
	}
	for _, l := range s.Lines {
		resp.Lines = append(resp.Lines, SaleLineResponse{
			ID:          l.ID,
			ProductID:   l.ProductID,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			DiscountPct: l.DiscountPct,
			Subtotal:    l.Subtotal,
		})
	}
	return resp
}

// TopProductResponse producto más vendido.
type TopProductResponse struct {
	ProductID int64           `json:"product_id"`
	SKU       string          `json:"sku"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Amount    decimal.Decimal `json:"amount"`
}

// MethodTotalResponse ventas completadas por método de pago.
type MethodTotalResponse struct {
	Method string          `json:"method"`
	Count  int             `json:"count"`
	Amount decimal.Decimal `json:"amount"`
}
