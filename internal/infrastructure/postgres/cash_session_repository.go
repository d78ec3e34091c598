package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/caja-market/internal/domain"
	"github.com/jhoicas/caja-market/internal/domain/entity"
	"github.com/jhoicas/caja-market/internal/domain/repository"
)

var _ repository.CashSessionRepository = (*CashSessionRepo)(nil)

const cashSessionColumns = `id, fecha_apertura, fecha_cierre, usuario_apertura_id, usuario_cierre_id,
	efectivo_inicial, yape_inicial, plin_inicial, pos_banco_inicial,
	efectivo_cierre, yape_cierre, plin_cierre, pos_banco_cierre,
	total_ingresos_sistema, total_egresos_sistema,
	diferencia_efectivo, diferencia_yape, diferencia_plin, diferencia_pos_banco,
	observaciones, estado`

// CashSessionRepo sesiones de caja sobre caja_sesiones.
type CashSessionRepo struct {
	q Querier
}

// NewCashSessionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCashSessionRepository(q Querier) *CashSessionRepo {
	return &CashSessionRepo{q: q}
}

// Create abre una sesión. El índice único parcial uq_caja_sesion_abierta impide dos abiertas.
func (r *CashSessionRepo) Create(ctx context.Context, s *entity.CashSession) error {
	query := `
		INSERT INTO caja_sesiones (usuario_apertura_id, efectivo_inicial, yape_inicial, plin_inicial, pos_banco_inicial, estado)
		VALUES ($1, $2, $3, $4, $5, 'abierta')
		RETURNING id, fecha_apertura`
	err := r.q.QueryRow(ctx, query,
		s.OpenedBy, s.Opening.Efectivo, s.Opening.Yape, s.Opening.Plin, s.Opening.POSBanco,
	).Scan(&s.ID, &s.OpenedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrSessionAlreadyOpen
		}
		return fmt.Errorf("create cash session: %w", err)
	}
	s.Status = entity.SessionOpen
	return nil
}

// GetByID obtiene la sesión por ID.
func (r *CashSessionRepo) GetByID(ctx context.Context, id int64) (*entity.CashSession, error) {
	return r.get(ctx, `SELECT `+cashSessionColumns+` FROM caja_sesiones WHERE id = $1`, id)
}

// GetForUpdate obtiene la sesión y bloquea la fila (cierre).
func (r *CashSessionRepo) GetForUpdate(ctx context.Context, id int64) (*entity.CashSession, error) {
	return r.get(ctx, `SELECT `+cashSessionColumns+` FROM caja_sesiones WHERE id = $1 FOR UPDATE`, id)
}

// GetOpen devuelve la sesión abierta. FOR SHARE hace que un registro concurrente espere a
// que termine un cierre en curso y, tras él, ya no vea la sesión como abierta.
func (r *CashSessionRepo) GetOpen(ctx context.Context) (*entity.CashSession, error) {
	return r.get(ctx, `SELECT `+cashSessionColumns+` FROM caja_sesiones WHERE estado = 'abierta' FOR SHARE`)
}

func (r *CashSessionRepo) get(ctx context.Context, query string, args ...any) (*entity.CashSession, error) {
	s, err := scanCashSession(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cash session: %w", err)
	}
	return s, nil
}

// Close persiste el cierre solo si la sesión sigue abierta.
func (r *CashSessionRepo) Close(ctx context.Context, s *entity.CashSession) error {
	if s.Counted == nil || s.Differences == nil {
		return domain.ErrInvalidInput
	}
	query := `
		UPDATE caja_sesiones SET
			fecha_cierre = $2, usuario_cierre_id = $3,
			efectivo_cierre = $4, yape_cierre = $5, plin_cierre = $6, pos_banco_cierre = $7,
			total_ingresos_sistema = $8, total_egresos_sistema = $9,
			diferencia_efectivo = $10, diferencia_yape = $11, diferencia_plin = $12, diferencia_pos_banco = $13,
			observaciones = $14, estado = $15
		WHERE id = $1 AND estado = 'abierta'`
	tag, err := r.q.Exec(ctx, query,
		s.ID, s.ClosedAt, s.ClosedBy,
		s.Counted.Efectivo, s.Counted.Yape, s.Counted.Plin, s.Counted.POSBanco,
		nullDecimal(s.SystemIngress), nullDecimal(s.SystemEgress),
		s.Differences.Efectivo, s.Differences.Yape, s.Differences.Plin, s.Differences.POSBanco,
		s.Notes, string(s.Status),
	)
	if err != nil {
		return fmt.Errorf("close cash session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNoOpenSession
	}
	return nil
}

func scanCashSession(row pgx.Row) (*entity.CashSession, error) {
	var s entity.CashSession
	var counted, diffs [4]decimal.NullDecimal
	var ingress, egress decimal.NullDecimal
	var status string
	err := row.Scan(&s.ID, &s.OpenedAt, &s.ClosedAt, &s.OpenedBy, &s.ClosedBy,
		&s.Opening.Efectivo, &s.Opening.Yape, &s.Opening.Plin, &s.Opening.POSBanco,
		&counted[0], &counted[1], &counted[2], &counted[3],
		&ingress, &egress,
		&diffs[0], &diffs[1], &diffs[2], &diffs[3],
		&s.Notes, &status,
	)
	if err != nil {
		return nil, err
	}
	s.Status = entity.SessionStatus(status)
	s.Counted = balancesFromNull(counted)
	s.Differences = balancesFromNull(diffs)
	s.SystemIngress = decimalPtr(ingress)
	s.SystemEgress = decimalPtr(egress)
	return &s, nil
}

// balancesFromNull nil si las columnas de cierre aún no tienen valor.
func balancesFromNull(v [4]decimal.NullDecimal) *entity.Balances {
	if !v[0].Valid {
		return nil
	}
	var b entity.Balances
	for i, m := range entity.PaymentMethods {
		b.Set(m, v[i].Decimal)
	}
	return &b
}
