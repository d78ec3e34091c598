package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// migration versión del esquema; se aplica una sola vez y queda registrada en schema_migrations.
type migration struct {
	Version string
	Name    string
	SQL     string
}

var migrations = []migration{
	{
		Version: "20250101000001",
		Name:    "create_productos",
		SQL: `
CREATE TABLE IF NOT EXISTS productos (
    id           BIGSERIAL PRIMARY KEY,
    codigo       TEXT NOT NULL UNIQUE,
    nombre       TEXT NOT NULL,
    precio       NUMERIC(12,2) NOT NULL DEFAULT 0 CHECK (precio >= 0),
    stock_actual INTEGER NOT NULL DEFAULT 0 CHECK (stock_actual >= 0),
    stock_minimo INTEGER NOT NULL DEFAULT 0,
    activo       BOOLEAN NOT NULL DEFAULT TRUE,
    created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
);`,
	},
	{
		Version: "20250101000002",
		Name:    "create_inventario_movimientos",
		SQL: `
CREATE TABLE IF NOT EXISTS inventario_movimientos (
    id              BIGSERIAL PRIMARY KEY,
    operation_id    TEXT NOT NULL,
    producto_id     BIGINT NOT NULL REFERENCES productos (id),
    tipo_movimiento TEXT NOT NULL CHECK (tipo_movimiento IN ('entrada', 'salida', 'ajuste', 'venta')),
    cantidad        INTEGER NOT NULL,
    stock_anterior  INTEGER NOT NULL CHECK (stock_anterior >= 0),
    stock_nuevo     INTEGER NOT NULL CHECK (stock_nuevo >= 0),
    motivo          TEXT NOT NULL DEFAULT '',
    referencia_tipo TEXT NOT NULL DEFAULT '',
    referencia_id   BIGINT,
    usuario_id      BIGINT,
    fecha_hora      TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_inv_mov_producto ON inventario_movimientos (producto_id, id DESC);
CREATE INDEX IF NOT EXISTS idx_inv_mov_referencia ON inventario_movimientos (referencia_tipo, referencia_id);`,
	},
	{
		Version: "20250101000003",
		Name:    "create_caja_sesiones",
		SQL: `
CREATE TABLE IF NOT EXISTS caja_sesiones (
    id                     BIGSERIAL PRIMARY KEY,
    fecha_apertura         TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    fecha_cierre           TIMESTAMPTZ,
    usuario_apertura_id    BIGINT,
    usuario_cierre_id      BIGINT,
    efectivo_inicial       NUMERIC(12,2) NOT NULL DEFAULT 0,
    yape_inicial           NUMERIC(12,2) NOT NULL DEFAULT 0,
    plin_inicial           NUMERIC(12,2) NOT NULL DEFAULT 0,
    pos_banco_inicial      NUMERIC(12,2) NOT NULL DEFAULT 0,
    efectivo_cierre        NUMERIC(12,2),
    yape_cierre            NUMERIC(12,2),
    plin_cierre            NUMERIC(12,2),
    pos_banco_cierre       NUMERIC(12,2),
    total_ingresos_sistema NUMERIC(12,2),
    total_egresos_sistema  NUMERIC(12,2),
    diferencia_efectivo    NUMERIC(12,2),
    diferencia_yape        NUMERIC(12,2),
    diferencia_plin        NUMERIC(12,2),
    diferencia_pos_banco   NUMERIC(12,2),
    observaciones          TEXT NOT NULL DEFAULT '',
    estado                 TEXT NOT NULL DEFAULT 'abierta' CHECK (estado IN ('abierta', 'cerrada', 'con_diferencias'))
);

CREATE UNIQUE INDEX IF NOT EXISTS uq_caja_sesion_abierta ON caja_sesiones (estado) WHERE estado = 'abierta';`,
	},
	{
		Version: "20250101000004",
		Name:    "create_cash_movements",
		SQL: `
CREATE TABLE IF NOT EXISTS cash_movements (
    id              BIGSERIAL PRIMARY KEY,
    operation_id    TEXT NOT NULL,
    fecha_hora      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    tipo            TEXT NOT NULL CHECK (tipo IN ('ingreso', 'egreso')),
    categoria       TEXT NOT NULL CHECK (categoria IN ('membresia', 'clase', 'market', 'gasto', 'ajuste', 'remesa')),
    metodo_pago     TEXT NOT NULL CHECK (metodo_pago IN ('efectivo', 'yape', 'plin', 'pos_banco')),
    monto           NUMERIC(12,2) NOT NULL CHECK (monto > 0),
    referencia_tipo TEXT NOT NULL DEFAULT '',
    referencia_id   BIGINT,
    descripcion     TEXT NOT NULL DEFAULT '',
    glosa           TEXT NOT NULL DEFAULT '',
    usuario_id      BIGINT,
    caja_sesion_id  BIGINT REFERENCES caja_sesiones (id),
    estado          TEXT NOT NULL DEFAULT 'activo' CHECK (estado IN ('activo', 'extornado'))
);

CREATE INDEX IF NOT EXISTS idx_cash_mov_sesion ON cash_movements (caja_sesion_id);
CREATE INDEX IF NOT EXISTS idx_cash_mov_sin_sesion ON cash_movements (id) WHERE caja_sesion_id IS NULL;
CREATE INDEX IF NOT EXISTS idx_cash_mov_referencia ON cash_movements (referencia_tipo, referencia_id);
CREATE INDEX IF NOT EXISTS idx_cash_mov_fecha ON cash_movements (fecha_hora);`,
	},
	{
		Version: "20250101000005",
		Name:    "create_ventas",
		SQL: `
CREATE TABLE IF NOT EXISTS ventas (
    id           BIGSERIAL PRIMARY KEY,
    operation_id TEXT NOT NULL,
    fecha_hora   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    cliente_tipo TEXT NOT NULL CHECK (cliente_tipo IN ('miembro', 'visitante')),
    cliente_id   BIGINT,
    total        NUMERIC(12,2) NOT NULL CHECK (total >= 0),
    metodo_pago  TEXT NOT NULL CHECK (metodo_pago IN ('efectivo', 'yape', 'plin', 'pos_banco')),
    usuario_id   BIGINT,
    estado       TEXT NOT NULL DEFAULT 'completada' CHECK (estado IN ('completada', 'cancelada'))
);

CREATE TABLE IF NOT EXISTS ventas_detalle (
    id                   BIGSERIAL PRIMARY KEY,
    venta_id             BIGINT NOT NULL REFERENCES ventas (id) ON DELETE CASCADE,
    producto_id          BIGINT NOT NULL REFERENCES productos (id),
    cantidad             INTEGER NOT NULL CHECK (cantidad > 0),
    precio_unitario      NUMERIC(12,2) NOT NULL CHECK (precio_unitario >= 0),
    descuento_porcentaje NUMERIC(5,2) NOT NULL DEFAULT 0 CHECK (descuento_porcentaje BETWEEN 0 AND 100),
    subtotal             NUMERIC(12,2) NOT NULL CHECK (subtotal >= 0)
);

CREATE INDEX IF NOT EXISTS idx_ventas_fecha ON ventas (fecha_hora);
CREATE INDEX IF NOT EXISTS idx_ventas_detalle_venta ON ventas_detalle (venta_id);`,
	},
}

// Migrate aplica, en orden y dentro de una transacción cada una, las migraciones pendientes.
func Migrate(ctx context.Context, pool *pgxpool.Pool) (applied int, err error) {
	_, err = pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS schema_migrations (
    version    TEXT PRIMARY KEY,
    name       TEXT NOT NULL,
    applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`)
	if err != nil {
		return 0, fmt.Errorf("crear schema_migrations: %w", err)
	}

	for _, m := range migrations {
		err := pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
			var exists bool
			if err := tx.QueryRow(ctx,
				`SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE version = $1)`, m.Version,
			).Scan(&exists); err != nil {
				return err
			}
			if exists {
				return nil
			}
			if _, err := tx.Exec(ctx, m.SQL); err != nil {
				return err
			}
			if _, err := tx.Exec(ctx,
				`INSERT INTO schema_migrations (version, name) VALUES ($1, $2)`, m.Version, m.Name,
			); err != nil {
				return err
			}
			applied++
			return nil
		})
		if err != nil {
			return applied, fmt.Errorf("migración %s (%s): %w", m.Version, m.Name, err)
		}
	}
	return applied, nil
}
