package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// BuyerKind tipo de comprador.
type BuyerKind string

const (
	BuyerMember  BuyerKind = "miembro"
	BuyerVisitor BuyerKind = "visitante"
)

// Valid indica si el tipo pertenece al vocabulario.
func (k BuyerKind) Valid() bool {
	return k == BuyerMember || k == BuyerVisitor
}

// SaleStatus estado etiquetado de una venta: Completed | Cancelled.
type SaleStatus string

const (
	SaleCompleted SaleStatus = "completada"
	SaleCancelled SaleStatus = "cancelada"
)

// Sale cabecera de venta del market. Inmutable salvo el cambio a cancelada.
type Sale struct {
	ID          int64
	OperationID string
	CreatedAt   time.Time
	BuyerKind   BuyerKind
	BuyerID     *int64 // nil para visitante
	Total       decimal.Decimal
	Method      PaymentMethod
	UserID      *int64
	Status      SaleStatus
	Lines       []SaleLine
}

// SaleLine línea de detalle de una venta.
type SaleLine struct {
	ID          int64
	SaleID      int64
	ProductID   int64
	Quantity    int
	UnitPrice   decimal.Decimal
	DiscountPct decimal.Decimal // 0..100
	Subtotal    decimal.Decimal
}

var hundred = decimal.NewFromInt(100)

// LineSubtotal calcula cantidad × precio × (1 − descuento/100), redondeado a 2 decimales.
func LineSubtotal(quantity int, unitPrice, discountPct decimal.Decimal) decimal.Decimal {
	gross := unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
	factor := hundred.Sub(discountPct).Div(hundred)
	return gross.Mul(factor).Round(2)
}
