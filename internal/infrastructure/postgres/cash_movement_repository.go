package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/caja-market/internal/domain"
	"github.com/jhoicas/caja-market/internal/domain/caja"
	"github.com/jhoicas/caja-market/internal/domain/entity"
	"github.com/jhoicas/caja-market/internal/domain/repository"
)

var _ repository.CashMovementRepository = (*CashMovementRepo)(nil)

const cashMovementColumns = `id, operation_id, fecha_hora, tipo, categoria, metodo_pago, monto, referencia_tipo,
	referencia_id, descripcion, glosa, usuario_id, caja_sesion_id, estado`

// CashMovementRepo libro de caja sobre cash_movements.
type CashMovementRepo struct {
	q Querier
}

// NewCashMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCashMovementRepository(q Querier) *CashMovementRepo {
	return &CashMovementRepo{q: q}
}

// Create persiste el movimiento.
func (r *CashMovementRepo) Create(ctx context.Context, m *entity.CashMovement) error {
	query := `
		INSERT INTO cash_movements (operation_id, tipo, categoria, metodo_pago, monto, referencia_tipo, referencia_id,
			descripcion, glosa, usuario_id, caja_sesion_id, estado)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, fecha_hora`
	err := r.q.QueryRow(ctx, query,
		m.OperationID, string(m.Direction), string(m.Category), string(m.Method), m.Amount, m.RefKind, m.RefID,
		m.Description, m.Notes, m.UserID, m.SessionID, string(m.Status),
	).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		if isCheckViolation(err) {
			return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
		return fmt.Errorf("create cash movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID.
func (r *CashMovementRepo) GetByID(ctx context.Context, id int64) (*entity.CashMovement, error) {
	m, err := scanCashMovement(r.q.QueryRow(ctx, `SELECT `+cashMovementColumns+` FROM cash_movements WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cash movement: %w", err)
	}
	return m, nil
}

// UpdateStatus cambia el estado de forma condicional (WHERE estado = from).
func (r *CashMovementRepo) UpdateStatus(ctx context.Context, id int64, from, to entity.MovementStatus) (bool, error) {
	tag, err := r.q.Exec(ctx,
		`UPDATE cash_movements SET estado = $3 WHERE id = $1 AND estado = $2`, id, string(from), string(to))
	if err != nil {
		return false, fmt.Errorf("update cash movement status: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// FindByReference movimientos con la referencia dada.
func (r *CashMovementRepo) FindByReference(ctx context.Context, refKind string, refID int64) ([]*entity.CashMovement, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+cashMovementColumns+`
		FROM cash_movements
		WHERE referencia_tipo = $1 AND referencia_id = $2
		ORDER BY id`, refKind, refID)
	if err != nil {
		return nil, fmt.Errorf("find cash movements by reference: %w", err)
	}
	return collectCashMovements(rows)
}

// ListForSession movimientos de la sesión y los aún no asignados, en orden cronológico.
func (r *CashMovementRepo) ListForSession(ctx context.Context, sessionID int64) ([]*entity.CashMovement, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+cashMovementColumns+`
		FROM cash_movements
		WHERE caja_sesion_id = $1 OR caja_sesion_id IS NULL
		ORDER BY id`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list cash movements for session: %w", err)
	}
	return collectCashMovements(rows)
}

// TotalsForSession suma de movimientos activos por método y sentido.
func (r *CashMovementRepo) TotalsForSession(ctx context.Context, sessionID int64) ([]caja.MethodTotal, error) {
	rows, err := r.q.Query(ctx, `
		SELECT metodo_pago, tipo, COALESCE(SUM(monto), 0)
		FROM cash_movements
		WHERE estado = 'activo' AND (caja_sesion_id = $1 OR caja_sesion_id IS NULL)
		GROUP BY metodo_pago, tipo
		ORDER BY metodo_pago, tipo`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("totals for session: %w", err)
	}
	defer rows.Close()

	var out []caja.MethodTotal
	for rows.Next() {
		var t caja.MethodTotal
		var method, direction string
		if err := rows.Scan(&method, &direction, &t.Amount); err != nil {
			return nil, fmt.Errorf("scan totals: %w", err)
		}
		t.Method = entity.PaymentMethod(method)
		t.Direction = entity.CashDirection(direction)
		out = append(out, t)
	}
	return out, rows.Err()
}

// AttachUnassigned asigna a la sesión los movimientos sin sesión.
func (r *CashMovementRepo) AttachUnassigned(ctx context.Context, sessionID int64) (int64, error) {
	tag, err := r.q.Exec(ctx,
		`UPDATE cash_movements SET caja_sesion_id = $1 WHERE caja_sesion_id IS NULL`, sessionID)
	if err != nil {
		return 0, fmt.Errorf("attach unassigned: %w", err)
	}
	return tag.RowsAffected(), nil
}

// List movimientos filtrados, del más reciente al más antiguo.
func (r *CashMovementRepo) List(ctx context.Context, f repository.CashMovementFilter) ([]*entity.CashMovement, error) {
	query := `SELECT ` + cashMovementColumns + ` FROM cash_movements WHERE TRUE`
	var args []any
	query, args = rangeClause(query, args, "fecha_hora", f.From, f.To)
	if f.Category != "" {
		args = append(args, string(f.Category))
		query += fmt.Sprintf(" AND categoria = $%d", len(args))
	}
	if f.Status != "" {
		args = append(args, string(f.Status))
		query += fmt.Sprintf(" AND estado = $%d", len(args))
	}
	query += " ORDER BY id DESC"
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list cash movements: %w", err)
	}
	return collectCashMovements(rows)
}

func scanCashMovement(row pgx.Row) (*entity.CashMovement, error) {
	var m entity.CashMovement
	var direction, category, method, status string
	err := row.Scan(&m.ID, &m.OperationID, &m.CreatedAt, &direction, &category, &method, &m.Amount, &m.RefKind,
		&m.RefID, &m.Description, &m.Notes, &m.UserID, &m.SessionID, &status)
	if err != nil {
		return nil, err
	}
	m.Direction = entity.CashDirection(direction)
	m.Category = entity.CashCategory(category)
	m.Method = entity.PaymentMethod(method)
	m.Status = entity.MovementStatus(status)
	return &m, nil
}

func collectCashMovements(rows pgx.Rows) ([]*entity.CashMovement, error) {
	defer rows.Close()
	var list []*entity.CashMovement
	for rows.Next() {
		m, err := scanCashMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan cash movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}
