package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/caja-market/internal/domain"
	"github.com/jhoicas/caja-market/internal/domain/entity"
	"github.com/jhoicas/caja-market/internal/domain/repository"
)

type saleRepo struct{ v view }

func (r *saleRepo) Create(ctx context.Context, s *entity.Sale) error {
	return r.v.do(ctx, func(st *state) error {
		st.seq.sale++
		s.ID = st.seq.sale
		s.CreatedAt = time.Now()
		for i := range s.Lines {
			st.seq.saleLine++
			s.Lines[i].ID = st.seq.saleLine
			s.Lines[i].SaleID = s.ID
		}
		stored := *s
		stored.Lines = append([]entity.SaleLine(nil), s.Lines...)
		st.sales[s.ID] = stored
		return nil
	})
}

func (r *saleRepo) GetByID(ctx context.Context, id int64) (*entity.Sale, error) {
	var out *entity.Sale
	err := r.v.do(ctx, func(st *state) error {
		if s, ok := st.sales[id]; ok {
			out = copySale(s)
		}
		return nil
	})
	return out, err
}

func (r *saleRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Sale, error) {
	return r.GetByID(ctx, id)
}

func (r *saleRepo) UpdateStatus(ctx context.Context, id int64, status entity.SaleStatus) error {
	return r.v.do(ctx, func(st *state) error {
		s, ok := st.sales[id]
		if !ok {
			return domain.ErrNotFound
		}
		s.Status = status
		st.sales[id] = s
		return nil
	})
}

func (r *saleRepo) List(ctx context.Context, f repository.SaleFilter) ([]*entity.Sale, error) {
	var out []*entity.Sale
	err := r.v.do(ctx, func(st *state) error {
		for _, s := range st.sales {
			if !inRange(s.CreatedAt, f.From, f.To) {
				continue
			}
			if f.BuyerID != nil && (s.BuyerID == nil || *s.BuyerID != *f.BuyerID) {
				continue
			}
			if f.Status != "" && s.Status != f.Status {
				continue
			}
			out = append(out, copySale(s))
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, err
}

func (r *saleRepo) TopProducts(ctx context.Context, limit int, from, to *time.Time) ([]repository.ProductSales, error) {
	var out []repository.ProductSales
	err := r.v.do(ctx, func(st *state) error {
		idx := make(map[int64]int)
		for _, s := range st.sales {
			if s.Status != entity.SaleCompleted || !inRange(s.CreatedAt, from, to) {
				continue
			}
			for _, l := range s.Lines {
				i, ok := idx[l.ProductID]
				if !ok {
					p := st.products[l.ProductID]
					i = len(out)
					idx[l.ProductID] = i
					out = append(out, repository.ProductSales{ProductID: l.ProductID, SKU: p.SKU, Name: p.Name})
				}
				out[i].Quantity += l.Quantity
				out[i].Amount = out[i].Amount.Add(l.Subtotal)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].Quantity != out[j].Quantity {
			return out[i].Quantity > out[j].Quantity
		}
		return out[i].ProductID < out[j].ProductID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, err
}

func (r *saleRepo) TotalsByMethod(ctx context.Context, from, to *time.Time) ([]repository.MethodSales, error) {
	byMethod := make(map[entity.PaymentMethod]*repository.MethodSales)
	err := r.v.do(ctx, func(st *state) error {
		for _, s := range st.sales {
			if s.Status != entity.SaleCompleted || !inRange(s.CreatedAt, from, to) {
				continue
			}
			agg, ok := byMethod[s.Method]
			if !ok {
				agg = &repository.MethodSales{Method: s.Method}
				byMethod[s.Method] = agg
			}
			agg.Count++
			agg.Amount = agg.Amount.Add(s.Total)
		}
		return nil
	})
	var out []repository.MethodSales
	for _, m := range entity.PaymentMethods {
		if agg, ok := byMethod[m]; ok {
			out = append(out, *agg)
		}
	}
	return out, err
}

func copySale(s entity.Sale) *entity.Sale {
	s.Lines = append([]entity.SaleLine(nil), s.Lines...)
	return &s
}

// inRange from inclusivo, to exclusivo.
func inRange(t time.Time, from, to *time.Time) bool {
	if from != nil && t.Before(*from) {
		return false
	}
	if to != nil && !t.Before(*to) {
		return false
	}
	return true
}
