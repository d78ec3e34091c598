package memory

import (
	"context"
	"time"

	"github.com/jhoicas/caja-market/internal/domain"
	"github.com/jhoicas/caja-market/internal/domain/caja"
	"github.com/jhoicas/caja-market/internal/domain/entity"
	"github.com/jhoicas/caja-market/internal/domain/repository"
)

type cashMovementRepo struct{ v view }

func (r *cashMovementRepo) Create(ctx context.Context, m *entity.CashMovement) error {
	return r.v.do(ctx, func(st *state) error {
		if !m.Amount.IsPositive() {
			return domain.ErrInvalidAmount
		}
		st.seq.cashMov++
		m.ID = st.seq.cashMov
		m.CreatedAt = time.Now()
		st.cashMovs = append(st.cashMovs, *m)
		return nil
	})
}

func (r *cashMovementRepo) GetByID(ctx context.Context, id int64) (*entity.CashMovement, error) {
	var out *entity.CashMovement
	err := r.v.do(ctx, func(st *state) error {
		if i := findCashMovement(st, id); i >= 0 {
			m := st.cashMovs[i]
			out = &m
		}
		return nil
	})
	return out, err
}

func (r *cashMovementRepo) UpdateStatus(ctx context.Context, id int64, from, to entity.MovementStatus) (bool, error) {
	changed := false
	err := r.v.do(ctx, func(st *state) error {
		i := findCashMovement(st, id)
		if i < 0 {
			return domain.ErrNotFound
		}
		if st.cashMovs[i].Status != from {
			return nil
		}
		st.cashMovs[i].Status = to
		changed = true
		return nil
	})
	return changed, err
}

func (r *cashMovementRepo) FindByReference(ctx context.Context, refKind string, refID int64) ([]*entity.CashMovement, error) {
	return r.filter(ctx, func(m entity.CashMovement) bool {
		return m.RefKind == refKind && m.RefID != nil && *m.RefID == refID
	})
}

func (r *cashMovementRepo) ListForSession(ctx context.Context, sessionID int64) ([]*entity.CashMovement, error) {
	return r.filter(ctx, func(m entity.CashMovement) bool {
		return belongsTo(m, sessionID)
	})
}

func (r *cashMovementRepo) TotalsForSession(ctx context.Context, sessionID int64) ([]caja.MethodTotal, error) {
	type key struct {
		method    entity.PaymentMethod
		direction entity.CashDirection
	}
	var out []caja.MethodTotal
	err := r.v.do(ctx, func(st *state) error {
		idx := make(map[key]int)
		for _, m := range st.cashMovs {
			if !m.Active() || !belongsTo(m, sessionID) {
				continue
			}
			k := key{m.Method, m.Direction}
			i, ok := idx[k]
			if !ok {
				i = len(out)
				idx[k] = i
				out = append(out, caja.MethodTotal{Method: m.Method, Direction: m.Direction})
			}
			out[i].Amount = out[i].Amount.Add(m.Amount)
		}
		return nil
	})
	return out, err
}

func (r *cashMovementRepo) AttachUnassigned(ctx context.Context, sessionID int64) (int64, error) {
	var n int64
	err := r.v.do(ctx, func(st *state) error {
		for i := range st.cashMovs {
			if st.cashMovs[i].SessionID == nil {
				id := sessionID
				st.cashMovs[i].SessionID = &id
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r *cashMovementRepo) List(ctx context.Context, f repository.CashMovementFilter) ([]*entity.CashMovement, error) {
	var out []*entity.CashMovement
	err := r.v.do(ctx, func(st *state) error {
		for i := len(st.cashMovs) - 1; i >= 0; i-- {
			if f.Limit > 0 && len(out) >= f.Limit {
				break
			}
			m := st.cashMovs[i]
			if f.From != nil && m.CreatedAt.Before(*f.From) {
				continue
			}
			if f.To != nil && !m.CreatedAt.Before(*f.To) {
				continue
			}
			if f.Category != "" && m.Category != f.Category {
				continue
			}
			if f.Status != "" && m.Status != f.Status {
				continue
			}
			out = append(out, &m)
		}
		return nil
	})
	return out, err
}

func (r *cashMovementRepo) filter(ctx context.Context, keep func(entity.CashMovement) bool) ([]*entity.CashMovement, error) {
	var out []*entity.CashMovement
	err := r.v.do(ctx, func(st *state) error {
		for _, m := range st.cashMovs {
			if keep(m) {
				out = append(out, &m)
			}
		}
		return nil
	})
	return out, err
}

func belongsTo(m entity.CashMovement, sessionID int64) bool {
	return m.SessionID == nil || *m.SessionID == sessionID
}

// findCashMovement los ids son secuenciales y nunca se borran filas.
func findCashMovement(st *state, id int64) int {
	i := int(id) - 1
	if i < 0 || i >= len(st.cashMovs) || st.cashMovs[i].ID != id {
		return -1
	}
	return i
}
