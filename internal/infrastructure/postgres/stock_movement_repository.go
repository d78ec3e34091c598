package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/caja-market/internal/domain/entity"
	"github.com/jhoicas/caja-market/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

const stockMovementColumns = `id, operation_id, producto_id, tipo_movimiento, cantidad, stock_anterior, stock_nuevo,
	motivo, referencia_tipo, referencia_id, usuario_id, fecha_hora`

// StockMovementRepo libro de stock sobre inventario_movimientos (solo INSERT y SELECT).
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create persiste un movimiento de stock.
func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	query := `
		INSERT INTO inventario_movimientos (operation_id, producto_id, tipo_movimiento, cantidad, stock_anterior, stock_nuevo,
			motivo, referencia_tipo, referencia_id, usuario_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, fecha_hora`
	err := r.q.QueryRow(ctx, query,
		m.OperationID, m.ProductID, string(m.Kind), m.Quantity, m.StockBefore, m.StockAfter,
		m.Reason, m.RefKind, m.RefID, m.UserID,
	).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return fmt.Errorf("create stock movement: %w", err)
	}
	return nil
}

// ListByProduct últimos movimientos del producto, del más reciente al más antiguo.
func (r *StockMovementRepo) ListByProduct(ctx context.Context, productID int64, limit int) ([]*entity.StockMovement, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+stockMovementColumns+`
		FROM inventario_movimientos
		WHERE producto_id = $1
		ORDER BY id DESC
		LIMIT $2`, productID, limit)
	if err != nil {
		return nil, fmt.Errorf("list stock movements: %w", err)
	}
	return collectStockMovements(rows)
}

// ListByReference movimientos ligados a una referencia (ej. venta #id).
func (r *StockMovementRepo) ListByReference(ctx context.Context, refKind string, refID int64) ([]*entity.StockMovement, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+stockMovementColumns+`
		FROM inventario_movimientos
		WHERE referencia_tipo = $1 AND referencia_id = $2
		ORDER BY id`, refKind, refID)
	if err != nil {
		return nil, fmt.Errorf("list stock movements by reference: %w", err)
	}
	return collectStockMovements(rows)
}

func collectStockMovements(rows pgx.Rows) ([]*entity.StockMovement, error) {
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		var kind string
		if err := rows.Scan(&m.ID, &m.OperationID, &m.ProductID, &kind, &m.Quantity, &m.StockBefore, &m.StockAfter,
			&m.Reason, &m.RefKind, &m.RefID, &m.UserID, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		m.Kind = entity.StockMovementKind(kind)
		list = append(list, &m)
	}
	return list, rows.Err()
}
