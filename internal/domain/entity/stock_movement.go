package entity

import "time"

// StockMovementKind clasifica un cambio de inventario.
type StockMovementKind string

// Tipos de movimiento de inventario.
const (
	StockEntrada StockMovementKind = "entrada" // ingreso de mercadería
	StockSalida  StockMovementKind = "salida"  // salida manual (merma, consumo interno)
	StockAjuste  StockMovementKind = "ajuste"  // corrección manual; cantidad con signo
	StockVenta   StockMovementKind = "venta"   // descuento por venta
)

// Valid indica si el tipo pertenece al vocabulario.
func (k StockMovementKind) Valid() bool {
	switch k {
	case StockEntrada, StockSalida, StockAjuste, StockVenta:
		return true
	}
	return false
}

// Referencias usadas para trazabilidad entre libros.
const (
	RefVenta        = "venta"
	RefVentaAnulada = "venta_anulada"
)

// StockMovement registro inmutable del libro de stock.
// StockBefore y StockAfter se capturan al escribir y nunca se recalculan.
type StockMovement struct {
	ID          int64
	OperationID string // agrupa las filas escritas por una misma operación
	ProductID   int64
	Kind        StockMovementKind
	Quantity    int // para ajuste: con signo; para los demás: positivo
	StockBefore int
	StockAfter  int
	Reason      string
	UserID      *int64
	RefKind     string // vacío = sin referencia
	RefID       *int64
	CreatedAt   time.Time
}
