package inventory

import (
	"github.com/jhoicas/caja-market/internal/domain"
	"github.com/jhoicas/caja-market/internal/domain/entity"
)

// Delta devuelve el efecto con signo de un movimiento sobre el stock.
// entrada suma; salida y venta restan; ajuste usa la cantidad con su signo.
func Delta(kind entity.StockMovementKind, quantity int) (int, error) {
	switch kind {
	case entity.StockEntrada:
		if quantity <= 0 {
			return 0, domain.ErrInvalidQuantity
		}
		return quantity, nil
	case entity.StockSalida, entity.StockVenta:
		if quantity <= 0 {
			return 0, domain.ErrInvalidQuantity
		}
		return -quantity, nil
	case entity.StockAjuste:
		if quantity == 0 {
			return 0, domain.ErrInvalidQuantity
		}
		return quantity, nil
	}
	return 0, domain.ErrInvalidInput
}

// NextStock calcula el stock resultante. Nunca recorta a cero: si el resultado
// sería negativo devuelve ErrInsufficientStock.
func NextStock(kind entity.StockMovementKind, current, quantity int) (int, error) {
	delta, err := Delta(kind, quantity)
	if err != nil {
		return current, err
	}
	next := current + delta
	if next < 0 {
		return current, domain.ErrInsufficientStock
	}
	return next, nil
}
