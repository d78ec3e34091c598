// Package cash contiene los casos de uso del libro de caja y de las sesiones de caja.
package cash

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/caja-market/internal/application/dto"
	"github.com/jhoicas/caja-market/internal/domain"
	"github.com/jhoicas/caja-market/internal/domain/caja"
	"github.com/jhoicas/caja-market/internal/domain/entity"
	"github.com/jhoicas/caja-market/internal/domain/repository"
)

// Ledger libro de caja. Los movimientos nunca se borran ni se editan; el extorno solo
// cambia el estado de activo a extornado.
type Ledger struct {
	txRunner repository.TxRunner
	movRepo  repository.CashMovementRepository
	log      zerolog.Logger
}

// NewLedger construye el libro de caja.
func NewLedger(txRunner repository.TxRunner, movRepo repository.CashMovementRepository, log zerolog.Logger) *Ledger {
	return &Ledger{
		txRunner: txRunner,
		movRepo:  movRepo,
		log:      log.With().Str("component", "cash_ledger").Logger(),
	}
}

// RecordInput datos de un movimiento de caja.
type RecordInput struct {
	OperationID string
	Direction   entity.CashDirection
	Category    entity.CashCategory
	Method      entity.PaymentMethod
	Amount      decimal.Decimal
	RefKind     string
	RefID       *int64
	Description string
	Notes       string
	UserID      *int64
}

func (in RecordInput) validate() error {
	if !in.Amount.IsPositive() {
		return domain.ErrInvalidAmount
	}
	if !in.Method.Valid() {
		return domain.ErrInvalidMethod
	}
	if !in.Direction.Valid() || !in.Category.Valid() {
		return domain.ErrInvalidInput
	}
	return nil
}

// Record registra el movimiento en su propia transacción.
func (l *Ledger) Record(ctx context.Context, in RecordInput) (*dto.CashMovementResult, error) {
	var mov *entity.CashMovement
	err := l.txRunner.Run(ctx, func(ctx context.Context, repos repository.Repositories) error {
		var err error
		mov, err = l.RecordInTx(ctx, repos, in)
		return err
	})
	if err != nil {
		return nil, err
	}
	l.log.Info().
		Int64("movement_id", mov.ID).
		Str("direction", string(mov.Direction)).
		Str("category", string(mov.Category)).
		Str("method", string(mov.Method)).
		Str("amount", mov.Amount.StringFixed(2)).
		Msg("movimiento de caja registrado")

	msg := "movimiento registrado"
	if mov.SessionID == nil {
		msg = "movimiento registrado sin caja abierta; se asignará al próximo cierre"
	}
	return &dto.CashMovementResult{MovementID: mov.ID, SessionID: mov.SessionID, Message: msg}, nil
}

// RecordInTx registra el movimiento en la transacción del caller. La sesión se resuelve
// dentro de la misma transacción; si no hay caja abierta queda sin asignar.
func (l *Ledger) RecordInTx(ctx context.Context, repos repository.Repositories, in RecordInput) (*entity.CashMovement, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	open, err := repos.CashSessions.GetOpen(ctx)
	if err != nil {
		return nil, err
	}
	mov := &entity.CashMovement{
		OperationID: in.OperationID,
		Direction:   in.Direction,
		Category:    in.Category,
		Method:      in.Method,
		Amount:      in.Amount.Round(2),
		RefKind:     in.RefKind,
		RefID:       in.RefID,
		Description: in.Description,
		Notes:       in.Notes,
		UserID:      in.UserID,
		Status:      entity.MovementActive,
	}
	if mov.OperationID == "" {
		mov.OperationID = uuid.New().String()
	}
	if open != nil {
		id := open.ID
		mov.SessionID = &id
	}
	if err := repos.CashMovements.Create(ctx, mov); err != nil {
		return nil, err
	}
	return mov, nil
}

// RecordFromRequest registra un movimiento manual (gasto, ingreso, ajuste).
// Las remesas van por Transfer para que siempre queden en pares.
func (l *Ledger) RecordFromRequest(ctx context.Context, userID *int64, req dto.RecordMovementRequest) (*dto.CashMovementResult, error) {
	category := entity.CashCategory(req.Category)
	if category == entity.CategoryRemesa {
		return nil, fmt.Errorf("%w: use la transferencia para remesas", domain.ErrInvalidInput)
	}
	return l.Record(ctx, RecordInput{
		Direction:   entity.CashDirection(req.Direction),
		Category:    category,
		Method:      entity.PaymentMethod(req.Method),
		Amount:      req.Amount,
		RefKind:     req.RefKind,
		RefID:       req.RefID,
		Description: req.Description,
		Notes:       req.Notes,
		UserID:      userID,
	})
}

// Reverse extorna el movimiento en su propia transacción.
func (l *Ledger) Reverse(ctx context.Context, movementID int64) (*dto.ReverseResult, error) {
	err := l.txRunner.Run(ctx, func(ctx context.Context, repos repository.Repositories) error {
		return l.ReverseInTx(ctx, repos, movementID)
	})
	if err != nil {
		return nil, err
	}
	l.log.Info().Int64("movement_id", movementID).Msg("movimiento de caja extornado")
	return &dto.ReverseResult{
		MovementID: movementID,
		Status:     string(entity.MovementReversed),
		Message:    "movimiento extornado",
	}, nil
}

// ReverseInTx cambia el estado a extornado. ErrNotFound si no existe,
// ErrAlreadyReversed si ya no estaba activo. El ingreso de una venta solo se extorna
// anulando la venta (ErrSaleMovement).
func (l *Ledger) ReverseInTx(ctx context.Context, repos repository.Repositories, movementID int64) error {
	mov, err := repos.CashMovements.GetByID(ctx, movementID)
	if err != nil {
		return err
	}
	if mov == nil {
		return domain.ErrNotFound
	}
	if !mov.Active() {
		return domain.ErrAlreadyReversed
	}
	if mov.RefKind == entity.RefVenta {
		return domain.ErrSaleMovement
	}
	changed, err := repos.CashMovements.UpdateStatus(ctx, movementID, entity.MovementActive, entity.MovementReversed)
	if err != nil {
		return err
	}
	if !changed {
		return domain.ErrAlreadyReversed
	}
	return nil
}

// ReverseByReferenceInTx extorna todos los movimientos activos con la referencia dada y
// devuelve cuántos cambió. Los ya extornados se respetan (0 sin error); ErrNotFound si no
// hay ninguno con esa referencia.
func (l *Ledger) ReverseByReferenceInTx(ctx context.Context, repos repository.Repositories, refKind string, refID int64) (int, error) {
	movs, err := repos.CashMovements.FindByReference(ctx, refKind, refID)
	if err != nil {
		return 0, err
	}
	if len(movs) == 0 {
		return 0, fmt.Errorf("movimiento de caja %s #%d: %w", refKind, refID, domain.ErrNotFound)
	}
	reversed := 0
	for _, m := range movs {
		if !m.Active() {
			continue
		}
		changed, err := repos.CashMovements.UpdateStatus(ctx, m.ID, entity.MovementActive, entity.MovementReversed)
		if err != nil {
			return 0, err
		}
		if changed {
			reversed++
		}
	}
	return reversed, nil
}

// Transfer registra una remesa: egreso en from e ingreso en to por el mismo monto,
// ambos con el mismo operation_id y en una sola transacción.
func (l *Ledger) Transfer(ctx context.Context, userID *int64, req dto.TransferRequest) (*dto.TransferResult, error) {
	from := entity.PaymentMethod(req.From)
	to := entity.PaymentMethod(req.To)
	if !from.Valid() || !to.Valid() {
		return nil, domain.ErrInvalidMethod
	}
	if from == to {
		return nil, fmt.Errorf("%w: origen y destino deben ser distintos", domain.ErrInvalidInput)
	}
	if !req.Amount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}
	desc := req.Description
	if desc == "" {
		desc = fmt.Sprintf("Remesa %s -> %s", from, to)
	}

	opID := uuid.New().String()
	var egress, ingress *entity.CashMovement
	err := l.txRunner.Run(ctx, func(ctx context.Context, repos repository.Repositories) error {
		var err error
		egress, err = l.RecordInTx(ctx, repos, RecordInput{
			OperationID: opID,
			Direction:   entity.CashEgreso,
			Category:    entity.CategoryRemesa,
			Method:      from,
			Amount:      req.Amount,
			Description: desc,
			UserID:      userID,
		})
		if err != nil {
			return err
		}
		ingress, err = l.RecordInTx(ctx, repos, RecordInput{
			OperationID: opID,
			Direction:   entity.CashIngreso,
			Category:    entity.CategoryRemesa,
			Method:      to,
			Amount:      req.Amount,
			Description: desc,
			UserID:      userID,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	l.log.Info().
		Str("operation_id", opID).
		Str("from", string(from)).
		Str("to", string(to)).
		Str("amount", req.Amount.StringFixed(2)).
		Msg("remesa registrada")
	return &dto.TransferResult{
		OperationID: opID,
		EgressID:    egress.ID,
		IngressID:   ingress.ID,
		Message:     "remesa registrada",
	}, nil
}

// MovementsForSession movimientos de la sesión más los aún no asignados.
func (l *Ledger) MovementsForSession(ctx context.Context, sessionID int64) ([]dto.CashMovementResponse, error) {
	movs, err := l.movRepo.ListForSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return toMovementResponses(movs), nil
}

// TotalsByMethodAndDirection suma movimientos activos por método y sentido.
func (l *Ledger) TotalsByMethodAndDirection(ctx context.Context, sessionID int64) (caja.Totals, error) {
	rows, err := l.movRepo.TotalsForSession(ctx, sessionID)
	if err != nil {
		return caja.Totals{}, err
	}
	return caja.NewTotals(rows), nil
}

// List lista movimientos filtrados por período, categoría y estado.
func (l *Ledger) List(ctx context.Context, filter repository.CashMovementFilter) ([]dto.CashMovementResponse, error) {
	if filter.Category != "" && !filter.Category.Valid() {
		return nil, domain.ErrInvalidInput
	}
	if filter.Status != "" && filter.Status != entity.MovementActive && filter.Status != entity.MovementReversed {
		return nil, domain.ErrInvalidInput
	}
	page := dto.PageRequest{Limit: filter.Limit}
	page.DefaultPage()
	filter.Limit = page.Limit
	movs, err := l.movRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return toMovementResponses(movs), nil
}

func toMovementResponses(movs []*entity.CashMovement) []dto.CashMovementResponse {
	out := make([]dto.CashMovementResponse, 0, len(movs))
	for _, m := range movs {
		out = append(out, dto.NewCashMovementResponse(m))
	}
	return out
}
