// Package sales orquesta una venta del market como una sola unidad atómica:
// cabecera y detalle, salida de stock por línea e ingreso en caja.
package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/caja-market/internal/application/cash"
	"github.com/jhoicas/caja-market/internal/application/dto"
	"github.com/jhoicas/caja-market/internal/application/inventory"
	"github.com/jhoicas/caja-market/internal/domain"
	"github.com/jhoicas/caja-market/internal/domain/entity"
	"github.com/jhoicas/caja-market/internal/domain/repository"
)

var hundred = decimal.NewFromInt(100)

// Orchestrator caso de uso de ventas.
type Orchestrator struct {
	txRunner repository.TxRunner
	saleRepo repository.SaleRepository
	stock    StockLedger
	cash     CashLedger
	log      zerolog.Logger
}

// NewOrchestrator construye el orquestador inyectando los libros de stock y caja.
func NewOrchestrator(
	txRunner repository.TxRunner,
	saleRepo repository.SaleRepository,
	stock StockLedger,
	cashLedger CashLedger,
	log zerolog.Logger,
) *Orchestrator {
	return &Orchestrator{
		txRunner: txRunner,
		saleRepo: saleRepo,
		stock:    stock,
		cash:     cashLedger,
		log:      log.With().Str("component", "sales").Logger(),
	}
}

// ProcessSale registra la venta en una sola transacción:
//  1. valida el request
//  2. inserta la venta (completada) y sus líneas
//  3. aplica una salida de stock tipo venta por línea
//  4. registra el ingreso en caja (categoría market) por el total
//
// Cualquier error (stock insuficiente incluido) revierte todo.
func (o *Orchestrator) ProcessSale(ctx context.Context, userID *int64, req dto.ProcessSaleRequest) (*dto.SaleResult, error) {
	sale, err := buildSale(userID, req)
	if err != nil {
		return nil, err
	}

	err = o.txRunner.Run(ctx, func(ctx context.Context, repos repository.Repositories) error {
		if err := repos.Sales.Create(ctx, sale); err != nil {
			return err
		}
		ref := sale.ID
		for _, line := range sale.Lines {
			_, err := o.stock.ApplyInTx(ctx, repos, inventory.MovementInput{
				OperationID: sale.OperationID,
				ProductID:   line.ProductID,
				Kind:        entity.StockVenta,
				Quantity:    line.Quantity,
				Reason:      fmt.Sprintf("Venta #%d", sale.ID),
				RefKind:     entity.RefVenta,
				RefID:       &ref,
				UserID:      userID,
			})
			if err != nil {
				return err
			}
		}
		_, err := o.cash.RecordInTx(ctx, repos, cash.RecordInput{
			OperationID: sale.OperationID,
			Direction:   entity.CashIngreso,
			Category:    entity.CategoryMarket,
			Method:      sale.Method,
			Amount:      sale.Total,
			RefKind:     entity.RefVenta,
			RefID:       &ref,
			Description: fmt.Sprintf("Venta #%d", sale.ID),
			UserID:      userID,
		})
		return err
	})
	if err != nil {
		o.log.Warn().Err(err).Str("operation_id", sale.OperationID).Msg("venta revertida")
		return nil, err
	}

	o.log.Info().
		Int64("sale_id", sale.ID).
		Str("operation_id", sale.OperationID).
		Str("total", sale.Total.StringFixed(2)).
		Str("method", string(sale.Method)).
		Int("lines", len(sale.Lines)).
		Msg("venta registrada")
	return &dto.SaleResult{
		SaleID:      sale.ID,
		Status:      string(sale.Status),
		OperationID: sale.OperationID,
		Message:     "venta registrada",
	}, nil
}

// ReverseSale anula la venta en una sola transacción: cambia el estado a cancelada,
// devuelve el stock de cada línea y extorna el ingreso en caja.
// ErrNotFound si la venta no existe; ErrAlreadyCancelled si ya estaba anulada (sin escribir nada).
func (o *Orchestrator) ReverseSale(ctx context.Context, userID *int64, saleID int64) (*dto.SaleResult, error) {
	opID := uuid.New().String()
	err := o.txRunner.Run(ctx, func(ctx context.Context, repos repository.Repositories) error {
		sale, err := repos.Sales.GetForUpdate(ctx, saleID)
		if err != nil {
			return err
		}
		if sale == nil {
			return domain.ErrNotFound
		}
		if sale.Status == entity.SaleCancelled {
			return domain.ErrAlreadyCancelled
		}
		if err := repos.Sales.UpdateStatus(ctx, saleID, entity.SaleCancelled); err != nil {
			return err
		}
		ref := saleID
		for _, line := range sale.Lines {
			_, err := o.stock.ApplyInTx(ctx, repos, inventory.MovementInput{
				OperationID: opID,
				ProductID:   line.ProductID,
				Kind:        entity.StockEntrada,
				Quantity:    line.Quantity,
				Reason:      fmt.Sprintf("Anulación Venta #%d", saleID),
				RefKind:     entity.RefVentaAnulada,
				RefID:       &ref,
				UserID:      userID,
			})
			if err != nil {
				return err
			}
		}
		_, err = o.cash.ReverseByReferenceInTx(ctx, repos, entity.RefVenta, saleID)
		return err
	})
	if err != nil {
		o.log.Warn().Err(err).Int64("sale_id", saleID).Msg("anulación revertida")
		return nil, err
	}

	o.log.Info().Int64("sale_id", saleID).Str("operation_id", opID).Msg("venta anulada")
	return &dto.SaleResult{
		SaleID:      saleID,
		Status:      string(entity.SaleCancelled),
		OperationID: opID,
		Message:     "venta anulada",
	}, nil
}

// buildSale valida el request y arma la venta con sus subtotales.
func buildSale(userID *int64, req dto.ProcessSaleRequest) (*entity.Sale, error) {
	method := entity.PaymentMethod(req.Method)
	if !method.Valid() {
		return nil, domain.ErrInvalidMethod
	}
	if !req.Total.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("%w: la venta no tiene productos", domain.ErrInvalidInput)
	}

	buyerKind := entity.BuyerKind(req.BuyerKind)
	buyerID := req.BuyerID
	switch buyerKind {
	case entity.BuyerMember:
		if buyerID == nil || *buyerID <= 0 {
			return nil, fmt.Errorf("%w: la venta a miembro requiere buyer_id", domain.ErrInvalidInput)
		}
	case entity.BuyerVisitor:
		buyerID = nil
	default:
		return nil, fmt.Errorf("%w: tipo de comprador %q", domain.ErrInvalidInput, req.BuyerKind)
	}

	sale := &entity.Sale{
		OperationID: uuid.New().String(),
		BuyerKind:   buyerKind,
		BuyerID:     buyerID,
		Total:       req.Total.Round(2),
		Method:      method,
		UserID:      userID,
		Status:      entity.SaleCompleted,
		Lines:       make([]entity.SaleLine, 0, len(req.Items)),
	}
	for i, it := range req.Items {
		if it.ProductID <= 0 {
			return nil, fmt.Errorf("%w: línea %d sin producto", domain.ErrInvalidInput, i+1)
		}
		if it.Quantity <= 0 {
			return nil, fmt.Errorf("línea %d: %w", i+1, domain.ErrInvalidQuantity)
		}
		if it.UnitPrice.IsNegative() {
			return nil, fmt.Errorf("línea %d: %w", i+1, domain.ErrInvalidAmount)
		}
		if it.DiscountPct.IsNegative() || it.DiscountPct.GreaterThan(hundred) {
			return nil, fmt.Errorf("%w: línea %d descuento fuera de rango", domain.ErrInvalidInput, i+1)
		}
		sale.Lines = append(sale.Lines, entity.SaleLine{
			ProductID:   it.ProductID,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			DiscountPct: it.DiscountPct,
			Subtotal:    entity.LineSubtotal(it.Quantity, it.UnitPrice, it.DiscountPct),
		})
	}
	return sale, nil
}

// GetSale devuelve la venta con su detalle.
func (o *Orchestrator) GetSale(ctx context.Context, saleID int64) (*dto.SaleResponse, error) {
	sale, err := o.saleRepo.GetByID(ctx, saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	resp := dto.NewSaleResponse(sale)
	return &resp, nil
}

// ListSales lista ventas por período, comprador y estado (más recientes primero).
func (o *Orchestrator) ListSales(ctx context.Context, filter repository.SaleFilter) ([]dto.SaleResponse, error) {
	if filter.Status != "" && filter.Status != entity.SaleCompleted && filter.Status != entity.SaleCancelled {
		return nil, domain.ErrInvalidInput
	}
	page := dto.PageRequest{Limit: filter.Limit}
	page.DefaultPage()
	filter.Limit = page.Limit
	list, err := o.saleRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SaleResponse, 0, len(list))
	for _, s := range list {
		out = append(out, dto.NewSaleResponse(s))
	}
	return out, nil
}

// TopProducts productos más vendidos (solo ventas completadas) en el período.
func (o *Orchestrator) TopProducts(ctx context.Context, limit int, from, to *time.Time) ([]dto.TopProductResponse, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := o.saleRepo.TopProducts(ctx, limit, from, to)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TopProductResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.TopProductResponse{
			ProductID: r.ProductID,
			SKU:       r.SKU,
			Name:      r.Name,
			Quantity:  r.Quantity,
			Amount:    r.Amount,
		})
	}
	return out, nil
}

// TotalsByMethod cantidad e importe de ventas completadas por método de pago.
func (o *Orchestrator) TotalsByMethod(ctx context.Context, from, to *time.Time) ([]dto.MethodTotalResponse, error) {
	rows, err := o.saleRepo.TotalsByMethod(ctx, from, to)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MethodTotalResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.MethodTotalResponse{Method: string(r.Method), Count: r.Count, Amount: r.Amount})
	}
	return out, nil
}
