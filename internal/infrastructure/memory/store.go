// Package memory implementa los puertos de repositorio en memoria.
// Una transacción toma el candado del store completo hasta terminar (serializable) y
// guarda una copia del estado al iniciar; si falla o se cancela el contexto se restaura.
package memory

import (
	"context"

	"github.com/jhoicas/caja-market/internal/domain/entity"
	"github.com/jhoicas/caja-market/internal/domain/repository"
)

type sequences struct {
	product  int64
	stockMov int64
	cashMov  int64
	session  int64
	sale     int64
	saleLine int64
}

type state struct {
	products  map[int64]entity.Product
	stockMovs []entity.StockMovement
	cashMovs  []entity.CashMovement
	sessions  map[int64]entity.CashSession
	sales     map[int64]entity.Sale
	seq       sequences
}

func newState() *state {
	return &state{
		products: make(map[int64]entity.Product),
		sessions: make(map[int64]entity.CashSession),
		sales:    make(map[int64]entity.Sale),
	}
}

func (st *state) clone() *state {
	c := &state{
		products:  make(map[int64]entity.Product, len(st.products)),
		stockMovs: append([]entity.StockMovement(nil), st.stockMovs...),
		cashMovs:  append([]entity.CashMovement(nil), st.cashMovs...),
		sessions:  make(map[int64]entity.CashSession, len(st.sessions)),
		sales:     make(map[int64]entity.Sale, len(st.sales)),
		seq:       st.seq,
	}
	for k, v := range st.products {
		c.products[k] = v
	}
	for k, v := range st.sessions {
		c.sessions[k] = v
	}
	for k, v := range st.sales {
		v.Lines = append([]entity.SaleLine(nil), v.Lines...)
		c.sales[k] = v
	}
	return c
}

// Store almacén en memoria. El candado es un semáforo de capacidad 1 para poder
// abandonar la espera si el contexto se cancela.
type Store struct {
	sem  chan struct{}
	data *state
}

// New crea un store vacío.
func New() *Store {
	return &Store{
		sem:  make(chan struct{}, 1),
		data: newState(),
	}
}

func (s *Store) lock(ctx context.Context) error {
	select {
	case s.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Store) unlock() { <-s.sem }

// view acceso al estado; dentro de una transacción el candado ya está tomado.
type view struct {
	store *Store
	inTx  bool
}

func (v view) do(ctx context.Context, fn func(st *state) error) error {
	if !v.inTx {
		if err := v.store.lock(ctx); err != nil {
			return err
		}
		defer v.store.unlock()
	}
	return fn(v.store.data)
}

// Repositories devuelve los repositorios fuera de transacción (cada llamada toma el candado).
func (s *Store) Repositories() repository.Repositories {
	return s.repositories(false)
}

func (s *Store) repositories(inTx bool) repository.Repositories {
	v := view{store: s, inTx: inTx}
	return repository.Repositories{
		Products:       &productRepo{v},
		StockMovements: &stockMovementRepo{v},
		CashMovements:  &cashMovementRepo{v},
		CashSessions:   &cashSessionRepo{v},
		Sales:          &saleRepo{v},
	}
}
