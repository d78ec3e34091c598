package memory

import (
	"context"
	"time"

	"github.com/jhoicas/caja-market/internal/domain"
	"github.com/jhoicas/caja-market/internal/domain/entity"
)

type cashSessionRepo struct{ v view }

func (r *cashSessionRepo) Create(ctx context.Context, s *entity.CashSession) error {
	return r.v.do(ctx, func(st *state) error {
		for _, existing := range st.sessions {
			if existing.IsOpen() {
				return domain.ErrSessionAlreadyOpen
			}
		}
		st.seq.session++
		s.ID = st.seq.session
		s.OpenedAt = time.Now()
		s.Status = entity.SessionOpen
		st.sessions[s.ID] = *s
		return nil
	})
}

func (r *cashSessionRepo) GetByID(ctx context.Context, id int64) (*entity.CashSession, error) {
	var out *entity.CashSession
	err := r.v.do(ctx, func(st *state) error {
		if s, ok := st.sessions[id]; ok {
			out = &s
		}
		return nil
	})
	return out, err
}

func (r *cashSessionRepo) GetForUpdate(ctx context.Context, id int64) (*entity.CashSession, error) {
	return r.GetByID(ctx, id)
}

func (r *cashSessionRepo) GetOpen(ctx context.Context) (*entity.CashSession, error) {
	var out *entity.CashSession
	err := r.v.do(ctx, func(st *state) error {
		for _, s := range st.sessions {
			if s.IsOpen() {
				out = &s
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *cashSessionRepo) Close(ctx context.Context, s *entity.CashSession) error {
	return r.v.do(ctx, func(st *state) error {
		current, ok := st.sessions[s.ID]
		if !ok {
			return domain.ErrNotFound
		}
		if !current.IsOpen() {
			return domain.ErrNoOpenSession
		}
		if s.Status == entity.SessionOpen {
			return domain.ErrInvalidInput
		}
		current.ClosedAt = s.ClosedAt
		current.ClosedBy = s.ClosedBy
		current.Counted = s.Counted
		current.SystemIngress = s.SystemIngress
		current.SystemEgress = s.SystemEgress
		current.Differences = s.Differences
		current.Notes = s.Notes
		current.Status = s.Status
		st.sessions[s.ID] = current
		return nil
	})
}
