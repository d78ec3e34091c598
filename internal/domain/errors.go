package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound      = errors.New("recurso no encontrado")
	ErrInvalidInput  = errors.New("entrada inválida")
	ErrUnauthorized  = errors.New("no autorizado")
	ErrForbidden     = errors.New("acceso denegado")
	ErrConflict      = errors.New("conflicto con el estado actual")

	// Validaciones específicas; todas envuelven ErrInvalidInput para que errors.Is las agrupe.
	ErrInvalidAmount   = wrapInvalid("monto inválido: debe ser mayor a cero")
	ErrInvalidQuantity = wrapInvalid("cantidad inválida")
	ErrInvalidMethod   = wrapInvalid("método de pago inválido")

	ErrInsufficientStock  = errors.New("stock insuficiente")
	ErrSessionAlreadyOpen = errors.New("ya existe una caja abierta")
	ErrNoOpenSession      = errors.New("no hay una caja abierta")
	ErrAlreadyCancelled   = errors.New("la venta ya fue anulada")
	ErrAlreadyReversed    = errors.New("el movimiento ya fue extornado")
	ErrSaleMovement       = errors.New("el movimiento pertenece a una venta: anule la venta")
)

type validationError struct {
	msg string
}

func (e *validationError) Error() string { return e.msg }

func (e *validationError) Unwrap() error { return ErrInvalidInput }

func wrapInvalid(msg string) error {
	return &validationError{msg: msg}
}
