package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/caja-market/internal/domain"
	"github.com/jhoicas/caja-market/internal/domain/entity"
)

type productRepo struct{ v view }

func (r *productRepo) Create(ctx context.Context, p *entity.Product) error {
	return r.v.do(ctx, func(st *state) error {
		for _, existing := range st.products {
			if existing.SKU == p.SKU {
				return domain.ErrConflict
			}
		}
		st.seq.product++
		now := time.Now()
		p.ID = st.seq.product
		p.CreatedAt, p.UpdatedAt = now, now
		st.products[p.ID] = *p
		return nil
	})
}

func (r *productRepo) GetByID(ctx context.Context, id int64) (*entity.Product, error) {
	var out *entity.Product
	err := r.v.do(ctx, func(st *state) error {
		if p, ok := st.products[id]; ok {
			out = &p
		}
		return nil
	})
	return out, err
}

// GetForUpdate equivale a GetByID: el candado del store ya serializa la transacción.
func (r *productRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

func (r *productRepo) UpdateStock(ctx context.Context, id int64, stock int) error {
	return r.v.do(ctx, func(st *state) error {
		p, ok := st.products[id]
		if !ok {
			return domain.ErrNotFound
		}
		if stock < 0 {
			return domain.ErrInsufficientStock
		}
		p.Stock = stock
		p.UpdatedAt = time.Now()
		st.products[id] = p
		return nil
	})
}

func (r *productRepo) ListBelowReorder(ctx context.Context) ([]*entity.Product, error) {
	var out []*entity.Product
	err := r.v.do(ctx, func(st *state) error {
		for _, p := range st.products {
			if p.Active && p.BelowReorder() {
				out = append(out, &p)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, err
}
