package inventory

import (
	"context"
	"sort"

	"github.com/jhoicas/caja-market/internal/application/dto"
	"github.com/jhoicas/caja-market/internal/domain"
	"github.com/jhoicas/caja-market/internal/domain/entity"
)

// RegisterFromRequest adapta el request HTTP a ApplyMovement para movimientos manuales.
// Las ventas solo las registra el orquestador de ventas, por eso "venta" se rechaza aquí.
func (l *StockLedger) RegisterFromRequest(ctx context.Context, userID *int64, in dto.RegisterMovementRequest) (*dto.StockMovementResult, error) {
	kind := entity.StockMovementKind(in.Type)
	if !kind.Valid() || kind == entity.StockVenta {
		return nil, domain.ErrInvalidInput
	}
	reason := in.Reason
	if reason == "" {
		reason = "Movimiento manual: " + in.Type
	}
	return l.ApplyMovement(ctx, MovementInput{
		ProductID: in.ProductID,
		Kind:      kind,
		Quantity:  in.Quantity,
		Reason:    reason,
		UserID:    userID,
	})
}

// LowStock devuelve los productos activos en o por debajo de su stock mínimo,
// ordenados por mayor déficit primero.
func (l *StockLedger) LowStock(ctx context.Context) ([]dto.LowStockItem, error) {
	products, err := l.productRepo.ListBelowReorder(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.LowStockItem, 0, len(products))
	for _, p := range products {
		items = append(items, dto.LowStockItem{
			ProductID:    p.ID,
			SKU:          p.SKU,
			Name:         p.Name,
			Stock:        p.Stock,
			ReorderPoint: p.ReorderPoint,
			Deficit:      p.ReorderPoint - p.Stock,
			Price:        p.Price,
		})
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Deficit != items[j].Deficit {
			return items[i].Deficit > items[j].Deficit
		}
		return items[i].SKU < items[j].SKU
	})
	return items, nil
}
