package memory

import (
	"context"

	"github.com/jhoicas/caja-market/internal/domain/repository"
)

// TxRunner implementa repository.TxRunner sobre el Store.
type TxRunner struct {
	store *Store
}

// NewTxRunner crea el runner.
func NewTxRunner(store *Store) *TxRunner {
	return &TxRunner{store: store}
}

// Run ejecuta fn con el store bloqueado. Si fn falla, entra en pánico o el contexto se
// cancela, el estado vuelve a la copia tomada al iniciar.
func (r *TxRunner) Run(ctx context.Context, fn func(ctx context.Context, repos repository.Repositories) error) (err error) {
	if err := r.store.lock(ctx); err != nil {
		return err
	}
	defer r.store.unlock()

	snapshot := r.store.data.clone()
	defer func() {
		if p := recover(); p != nil {
			r.store.data = snapshot
			panic(p)
		}
		if err != nil {
			r.store.data = snapshot
		}
	}()

	if err = fn(ctx, r.store.repositories(true)); err != nil {
		return err
	}
	return ctx.Err()
}
