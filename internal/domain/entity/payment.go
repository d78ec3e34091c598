package entity

import "github.com/shopspring/decimal"

// PaymentMethod método de pago aceptado en caja. Vocabulario fijo, sensible a mayúsculas.
type PaymentMethod string

const (
	MethodEfectivo PaymentMethod = "efectivo"
	MethodYape     PaymentMethod = "yape"
	MethodPlin     PaymentMethod = "plin"
	MethodPOSBanco PaymentMethod = "pos_banco"
)

// PaymentMethods lista los métodos en el orden en que se muestran en cierres y reportes.
var PaymentMethods = []PaymentMethod{MethodEfectivo, MethodYape, MethodPlin, MethodPOSBanco}

// Valid indica si el método pertenece al vocabulario.
func (m PaymentMethod) Valid() bool {
	switch m {
	case MethodEfectivo, MethodYape, MethodPlin, MethodPOSBanco:
		return true
	}
	return false
}

// Balances montos por método de pago (saldos iniciales, contados, esperados o diferencias).
type Balances struct {
	Efectivo decimal.Decimal `json:"efectivo"`
	Yape     decimal.Decimal `json:"yape"`
	Plin     decimal.Decimal `json:"plin"`
	POSBanco decimal.Decimal `json:"pos_banco"`
}

// Get devuelve el monto del método; cero si el método no es válido.
func (b Balances) Get(m PaymentMethod) decimal.Decimal {
	switch m {
	case MethodEfectivo:
		return b.Efectivo
	case MethodYape:
		return b.Yape
	case MethodPlin:
		return b.Plin
	case MethodPOSBanco:
		return b.POSBanco
	}
	return decimal.Zero
}

// Set asigna el monto del método. Métodos inválidos se ignoran.
func (b *Balances) Set(m PaymentMethod, v decimal.Decimal) {
	switch m {
	case MethodEfectivo:
		b.Efectivo = v
	case MethodYape:
		b.Yape = v
	case MethodPlin:
		b.Plin = v
	case MethodPOSBanco:
		b.POSBanco = v
	}
}

// Add suma v al monto del método.
func (b *Balances) Add(m PaymentMethod, v decimal.Decimal) {
	b.Set(m, b.Get(m).Add(v))
}

// Total suma los cuatro métodos.
func (b Balances) Total() decimal.Decimal {
	return b.Efectivo.Add(b.Yape).Add(b.Plin).Add(b.POSBanco)
}

// HasNegative indica si algún método tiene monto negativo.
func (b Balances) HasNegative() bool {
	for _, m := range PaymentMethods {
		if b.Get(m).IsNegative() {
			return true
		}
	}
	return false
}
