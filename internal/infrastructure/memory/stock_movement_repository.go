package memory

import (
	"context"
	"time"

	"github.com/jhoicas/caja-market/internal/domain/entity"
)

type stockMovementRepo struct{ v view }

func (r *stockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	return r.v.do(ctx, func(st *state) error {
		st.seq.stockMov++
		m.ID = st.seq.stockMov
		m.CreatedAt = time.Now()
		st.stockMovs = append(st.stockMovs, *m)
		return nil
	})
}

func (r *stockMovementRepo) ListByProduct(ctx context.Context, productID int64, limit int) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	err := r.v.do(ctx, func(st *state) error {
		for i := len(st.stockMovs) - 1; i >= 0; i-- {
			if limit > 0 && len(out) >= limit {
				break
			}
			if m := st.stockMovs[i]; m.ProductID == productID {
				out = append(out, &m)
			}
		}
		return nil
	})
	return out, err
}

func (r *stockMovementRepo) ListByReference(ctx context.Context, refKind string, refID int64) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	err := r.v.do(ctx, func(st *state) error {
		for _, m := range st.stockMovs {
			if m.RefKind == refKind && m.RefID != nil && *m.RefID == refID {
				out = append(out, &m)
			}
		}
		return nil
	})
	return out, err
}
