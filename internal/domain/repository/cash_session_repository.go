package repository

import (
	"context"

	"github.com/jhoicas/caja-market/internal/domain/entity"
)

// CashSessionRepository puerto de sesiones de caja.
type CashSessionRepository interface {
	// Create inserta una sesión abierta. Devuelve domain.ErrSessionAlreadyOpen si ya existe
	// una abierta (restricción única parcial sobre estado = 'abierta').
	Create(ctx context.Context, session *entity.CashSession) error
	GetByID(ctx context.Context, id int64) (*entity.CashSession, error)
	GetForUpdate(ctx context.Context, id int64) (*entity.CashSession, error)
	// GetOpen devuelve la sesión abierta o (nil, nil).
	GetOpen(ctx context.Context) (*entity.CashSession, error)
	// Close persiste los datos de cierre. Solo afecta sesiones abiertas; devuelve
	// domain.ErrNoOpenSession si la sesión ya no estaba abierta.
	Close(ctx context.Context, session *entity.CashSession) error
}
