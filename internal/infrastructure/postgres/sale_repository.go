package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/caja-market/internal/domain"
	"github.com/jhoicas/caja-market/internal/domain/entity"
	"github.com/jhoicas/caja-market/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

const saleColumns = `id, operation_id, fecha_hora, cliente_tipo, cliente_id, total, metodo_pago, usuario_id, estado`

// SaleRepo ventas y su detalle sobre ventas / ventas_detalle.
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Create inserta la cabecera y todas las líneas. Debe llamarse dentro de una transacción.
func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO ventas (operation_id, cliente_tipo, cliente_id, total, metodo_pago, usuario_id, estado)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, fecha_hora`,
		s.OperationID, string(s.BuyerKind), s.BuyerID, s.Total, string(s.Method), s.UserID, string(s.Status),
	).Scan(&s.ID, &s.CreatedAt)
	if err != nil {
		if isCheckViolation(err) {
			return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
		return fmt.Errorf("insert sale: %w", err)
	}

	for i := range s.Lines {
		l := &s.Lines[i]
		l.SaleID = s.ID
		err := r.q.QueryRow(ctx, `
			INSERT INTO ventas_detalle (venta_id, producto_id, cantidad, precio_unitario, descuento_porcentaje, subtotal)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id`,
			l.SaleID, l.ProductID, l.Quantity, l.UnitPrice, l.DiscountPct, l.Subtotal,
		).Scan(&l.ID)
		if err != nil {
			if isCheckViolation(err) {
				return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
			}
			return fmt.Errorf("insert sale line: %w", err)
		}
	}
	return nil
}

// GetByID obtiene la venta con sus líneas.
func (r *SaleRepo) GetByID(ctx context.Context, id int64) (*entity.Sale, error) {
	return r.get(ctx, `SELECT `+saleColumns+` FROM ventas WHERE id = $1`, id)
}

// GetForUpdate obtiene la venta con sus líneas bloqueando la cabecera.
func (r *SaleRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Sale, error) {
	return r.get(ctx, `SELECT `+saleColumns+` FROM ventas WHERE id = $1 FOR UPDATE`, id)
}

func (r *SaleRepo) get(ctx context.Context, query string, id int64) (*entity.Sale, error) {
	s, err := scanSale(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	if s.Lines, err = r.lines(ctx, s.ID); err != nil {
		return nil, err
	}
	return s, nil
}

func (r *SaleRepo) lines(ctx context.Context, saleID int64) ([]entity.SaleLine, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, venta_id, producto_id, cantidad, precio_unitario, descuento_porcentaje, subtotal
		FROM ventas_detalle WHERE venta_id = $1 ORDER BY id`, saleID)
	if err != nil {
		return nil, fmt.Errorf("list sale lines: %w", err)
	}
	defer rows.Close()

	var out []entity.SaleLine
	for rows.Next() {
		var l entity.SaleLine
		if err := rows.Scan(&l.ID, &l.SaleID, &l.ProductID, &l.Quantity, &l.UnitPrice, &l.DiscountPct, &l.Subtotal); err != nil {
			return nil, fmt.Errorf("scan sale line: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// UpdateStatus cambia el estado de la venta.
func (r *SaleRepo) UpdateStatus(ctx context.Context, id int64, status entity.SaleStatus) error {
	tag, err := r.q.Exec(ctx, `UPDATE ventas SET estado = $2 WHERE id = $1`, id, string(status))
	if err != nil {
		return fmt.Errorf("update sale status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List ventas filtradas (sin líneas), de la más reciente a la más antigua.
func (r *SaleRepo) List(ctx context.Context, f repository.SaleFilter) ([]*entity.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM ventas WHERE TRUE`
	var args []any
	query, args = rangeClause(query, args, "fecha_hora", f.From, f.To)
	if f.BuyerID != nil {
		args = append(args, *f.BuyerID)
		query += fmt.Sprintf(" AND cliente_id = $%d", len(args))
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
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()

	var list []*entity.Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// TopProducts productos más vendidos en ventas completadas.
func (r *SaleRepo) TopProducts(ctx context.Context, limit int, from, to *time.Time) ([]repository.ProductSales, error) {
	query := `
		SELECT p.id, p.codigo, p.nombre, SUM(d.cantidad), SUM(d.subtotal)
		FROM ventas_detalle d
		JOIN ventas v ON v.id = d.venta_id
		JOIN productos p ON p.id = d.producto_id
		WHERE v.estado = 'completada'`
	var args []any
	query, args = rangeClause(query, args, "v.fecha_hora", from, to)
	args = append(args, limit)
	query += fmt.Sprintf(" GROUP BY p.id, p.codigo, p.nombre ORDER BY SUM(d.cantidad) DESC, p.id LIMIT $%d", len(args))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("top products: %w", err)
	}
	defer rows.Close()

	var out []repository.ProductSales
	for rows.Next() {
		var ps repository.ProductSales
		if err := rows.Scan(&ps.ProductID, &ps.SKU, &ps.Name, &ps.Quantity, &ps.Amount); err != nil {
			return nil, fmt.Errorf("scan top product: %w", err)
		}
		out = append(out, ps)
	}
	return out, rows.Err()
}

// TotalsByMethod cantidad e importe de ventas completadas por método.
func (r *SaleRepo) TotalsByMethod(ctx context.Context, from, to *time.Time) ([]repository.MethodSales, error) {
	query := `SELECT metodo_pago, COUNT(*), COALESCE(SUM(total), 0) FROM ventas WHERE estado = 'completada'`
	var args []any
	query, args = rangeClause(query, args, "fecha_hora", from, to)
	query += " GROUP BY metodo_pago ORDER BY metodo_pago"

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("totals by method: %w", err)
	}
	defer rows.Close()

	var out []repository.MethodSales
	for rows.Next() {
		var ms repository.MethodSales
		var method string
		if err := rows.Scan(&method, &ms.Count, &ms.Amount); err != nil {
			return nil, fmt.Errorf("scan totals by method: %w", err)
		}
		ms.Method = entity.PaymentMethod(method)
		out = append(out, ms)
	}
	return out, rows.Err()
}

func scanSale(row pgx.Row) (*entity.Sale, error) {
	var s entity.Sale
	var buyerKind, method, status string
	err := row.Scan(&s.ID, &s.OperationID, &s.CreatedAt, &buyerKind, &s.BuyerID, &s.Total, &method, &s.UserID, &status)
	if err != nil {
		return nil, err
	}
	s.BuyerKind = entity.BuyerKind(buyerKind)
	s.Method = entity.PaymentMethod(method)
	s.Status = entity.SaleStatus(status)
	return &s, nil
}
