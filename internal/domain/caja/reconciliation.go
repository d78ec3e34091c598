// Package caja contiene las reglas puras de cuadre de caja: saldos esperados,
// diferencias contra el conteo físico y el estado resultante del cierre.
package caja

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/caja-market/internal/domain/entity"
)

// DefaultEpsilon tolerancia de cuadre (0.01 unidades monetarias).
var DefaultEpsilon = decimal.NewFromFloat(0.01)

// MethodTotal suma de movimientos activos para un (método, sentido).
type MethodTotal struct {
	Method    entity.PaymentMethod
	Direction entity.CashDirection
	Amount    decimal.Decimal
}

// Totals ingresos y egresos activos por método de pago.
type Totals struct {
	Ingress entity.Balances
	Egress  entity.Balances
}

// NewTotals agrupa los totales crudos del repositorio. Métodos fuera del vocabulario se ignoran.
func NewTotals(rows []MethodTotal) Totals {
	var t Totals
	for _, r := range rows {
		if !r.Method.Valid() {
			continue
		}
		switch r.Direction {
		case entity.CashIngreso:
			t.Ingress.Add(r.Method, r.Amount)
		case entity.CashEgreso:
			t.Egress.Add(r.Method, r.Amount)
		}
	}
	return t
}

// TotalIngress total de ingresos del sistema.
func (t Totals) TotalIngress() decimal.Decimal { return t.Ingress.Total() }

// TotalEgress total de egresos del sistema.
func (t Totals) TotalEgress() decimal.Decimal { return t.Egress.Total() }

// Expected saldo esperado por método: inicial + ingresos − egresos.
func (t Totals) Expected(opening entity.Balances) entity.Balances {
	var out entity.Balances
	for _, m := range entity.PaymentMethods {
		out.Set(m, opening.Get(m).Add(t.Ingress.Get(m)).Sub(t.Egress.Get(m)))
	}
	return out
}

// Reconciliation resultado del cuadre.
type Reconciliation struct {
	Expected    entity.Balances
	Counted     entity.Balances
	Differences entity.Balances // contado − esperado, con signo
	Status      entity.SessionStatus
}

// Reconcile compara lo contado contra lo esperado. El estado es cerrada si todas las
// diferencias están dentro de epsilon (inclusive), con_diferencias en otro caso.
func Reconcile(expected, counted entity.Balances, epsilon decimal.Decimal) Reconciliation {
	r := Reconciliation{Expected: expected, Counted: counted, Status: entity.SessionClosed}
	for _, m := range entity.PaymentMethods {
		diff := counted.Get(m).Sub(expected.Get(m))
		r.Differences.Set(m, diff)
		if diff.Abs().GreaterThan(epsilon) {
			r.Status = entity.SessionClosedWithDiffs
		}
	}
	return r
}
