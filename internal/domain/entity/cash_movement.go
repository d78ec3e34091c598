package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// CashDirection sentido del movimiento de dinero.
type CashDirection string

const (
	CashIngreso CashDirection = "ingreso"
	CashEgreso  CashDirection = "egreso"
)

// Valid indica si el sentido pertenece al vocabulario.
func (d CashDirection) Valid() bool {
	return d == CashIngreso || d == CashEgreso
}

// CashCategory categoría contable del movimiento.
type CashCategory string

const (
	CategoryMembresia CashCategory = "membresia"
	CategoryClase     CashCategory = "clase"
	CategoryMarket    CashCategory = "market"
	CategoryGasto     CashCategory = "gasto"
	CategoryAjuste    CashCategory = "ajuste"
	CategoryRemesa    CashCategory = "remesa" // traslado entre métodos de pago
)

// Valid indica si la categoría pertenece al vocabulario.
func (c CashCategory) Valid() bool {
	switch c {
	case CategoryMembresia, CategoryClase, CategoryMarket, CategoryGasto, CategoryAjuste, CategoryRemesa:
		return true
	}
	return false
}

// MovementStatus estado etiquetado de un movimiento: Active | Reversed.
// El extorno es lógico: la fila nunca se borra.
type MovementStatus string

const (
	MovementActive   MovementStatus = "activo"
	MovementReversed MovementStatus = "extornado"
)

// CashMovement registro inmutable del libro de caja. La única mutación permitida es
// el cambio de estado activo -> extornado (y la asignación de sesión al cierre).
type CashMovement struct {
	ID          int64
	OperationID string
	CreatedAt   time.Time
	Direction   CashDirection
	Category    CashCategory
	Method      PaymentMethod
	Amount      decimal.Decimal // siempre > 0; el signo lo da Direction
	RefKind     string
	RefID       *int64
	Description string
	Notes       string // glosa
	UserID      *int64
	SessionID   *int64 // nil = aún no asignado a una sesión
	Status      MovementStatus
}

// Active indica si el movimiento cuenta para los saldos.
func (m *CashMovement) Active() bool {
	return m.Status == MovementActive
}

// Signed devuelve el monto con signo (+ingreso, -egreso).
func (m *CashMovement) Signed() decimal.Decimal {
	if m.Direction == CashEgreso {
		return m.Amount.Neg()
	}
	return m.Amount
}
