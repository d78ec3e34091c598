package inventory

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/caja-market/internal/application/dto"
	"github.com/jhoicas/caja-market/internal/domain"
	"github.com/jhoicas/caja-market/internal/domain/entity"
	"github.com/jhoicas/caja-market/internal/domain/inventory"
	"github.com/jhoicas/caja-market/internal/domain/repository"
)

// DefaultHistoryLimit tope de filas para el historial de auditoría cuando el caller no indica uno.
const DefaultHistoryLimit = 50

const maxHistoryLimit = 500

// StockLedger libro de stock: único componente que escribe Product.Stock.
// Cada cambio deja un StockMovement inmutable con stock anterior y nuevo.
type StockLedger struct {
	txRunner     repository.TxRunner
	productRepo  repository.ProductRepository
	movRepo      repository.StockMovementRepository
	historyLimit int
	log          zerolog.Logger
}

// NewStockLedger construye el libro de stock. productRepo y movRepo se usan para lecturas
// fuera de transacción; las escrituras usan los repos que entrega el TxRunner.
func NewStockLedger(
	txRunner repository.TxRunner,
	productRepo repository.ProductRepository,
	movRepo repository.StockMovementRepository,
	historyLimit int,
	log zerolog.Logger,
) *StockLedger {
	if historyLimit <= 0 {
		historyLimit = DefaultHistoryLimit
	}
	return &StockLedger{
		txRunner:     txRunner,
		productRepo:  productRepo,
		movRepo:      movRepo,
		historyLimit: historyLimit,
		log:          log.With().Str("component", "stock_ledger").Logger(),
	}
}

// MovementInput entrada para aplicar un movimiento de stock.
type MovementInput struct {
	OperationID string // vacío = se genera uno
	ProductID   int64
	Kind        entity.StockMovementKind
	Quantity    int
	Reason      string
	RefKind     string
	RefID       *int64
	UserID      *int64
}

// ApplyMovement aplica el movimiento en su propia transacción.
func (l *StockLedger) ApplyMovement(ctx context.Context, in MovementInput) (*dto.StockMovementResult, error) {
	if in.OperationID == "" {
		in.OperationID = uuid.New().String()
	}
	var mov *entity.StockMovement
	err := l.txRunner.Run(ctx, func(ctx context.Context, repos repository.Repositories) error {
		var err error
		mov, err = l.ApplyInTx(ctx, repos, in)
		return err
	})
	if err != nil {
		return nil, err
	}
	l.log.Info().
		Int64("product_id", mov.ProductID).
		Str("kind", string(mov.Kind)).
		Int("quantity", mov.Quantity).
		Int("stock_after", mov.StockAfter).
		Msg("movimiento de stock registrado")
	return &dto.StockMovementResult{
		MovementID: mov.ID,
		NewStock:   mov.StockAfter,
		Message:    "movimiento registrado",
	}, nil
}

// ApplyInTx aplica el movimiento usando los repositorios de la transacción del caller.
// Bloquea la fila del producto (SELECT FOR UPDATE), calcula el nuevo stock, inserta el
// movimiento y actualiza la columna cacheada. Si el stock quedaría negativo devuelve
// ErrInsufficientStock sin escribir nada; el caller debe hacer rollback.
func (l *StockLedger) ApplyInTx(ctx context.Context, repos repository.Repositories, in MovementInput) (*entity.StockMovement, error) {
	if in.ProductID <= 0 || !in.Kind.Valid() {
		return nil, domain.ErrInvalidInput
	}
	if _, err := inventory.Delta(in.Kind, in.Quantity); err != nil {
		return nil, err
	}

	product, err := repos.Products.GetForUpdate(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("producto %d: %w", in.ProductID, domain.ErrNotFound)
	}

	next, err := inventory.NextStock(in.Kind, product.Stock, in.Quantity)
	if err != nil {
		return nil, fmt.Errorf("producto %s (stock %d, solicitado %d): %w", product.SKU, product.Stock, in.Quantity, err)
	}

	mov := &entity.StockMovement{
		OperationID: in.OperationID,
		ProductID:   product.ID,
		Kind:        in.Kind,
		Quantity:    in.Quantity,
		StockBefore: product.Stock,
		StockAfter:  next,
		Reason:      in.Reason,
		UserID:      in.UserID,
		RefKind:     in.RefKind,
		RefID:       in.RefID,
	}
	if mov.OperationID == "" {
		mov.OperationID = uuid.New().String()
	}
	if err := repos.StockMovements.Create(ctx, mov); err != nil {
		return nil, err
	}
	if err := repos.Products.UpdateStock(ctx, product.ID, next); err != nil {
		return nil, err
	}
	return mov, nil
}

// History devuelve los últimos movimientos del producto (más reciente primero), acotado a limit.
func (l *StockLedger) History(ctx context.Context, productID int64, limit int) ([]dto.StockMovementResponse, error) {
	if limit <= 0 {
		limit = l.historyLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	product, err := l.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	movs, err := l.movRepo.ListByProduct(ctx, productID, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StockMovementResponse, 0, len(movs))
	for _, m := range movs {
		out = append(out, dto.NewStockMovementResponse(m))
	}
	return out, nil
}

// ByReference movimientos ligados a una venta o a su anulación, en orden de escritura.
func (l *StockLedger) ByReference(ctx context.Context, refKind string, refID int64) ([]dto.StockMovementResponse, error) {
	if refKind != entity.RefVenta && refKind != entity.RefVentaAnulada {
		return nil, domain.ErrInvalidInput
	}
	movs, err := l.movRepo.ListByReference(ctx, refKind, refID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StockMovementResponse, 0, len(movs))
	for _, m := range movs {
		out = append(out, dto.NewStockMovementResponse(m))
	}
	return out, nil
}
