package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/caja-market/internal/domain"
	"github.com/jhoicas/caja-market/internal/domain/entity"
	"github.com/jhoicas/caja-market/internal/domain/repository"
)

// CatalogItem fila de catálogo para la carga inicial de productos.
type CatalogItem struct {
	SKU          string
	Name         string
	Price        decimal.Decimal
	Stock        int // stock inicial; se registra como movimiento de entrada
	ReorderPoint int
}

// ImportResult resumen de una carga de catálogo.
type ImportResult struct {
	Created int
	Skipped int // SKU ya existente
}

// ImportCatalog crea los productos que no existen. El stock inicial entra por el libro
// (movimiento "entrada") para que stock_actual siga siendo la suma de sus movimientos.
func (l *StockLedger) ImportCatalog(ctx context.Context, userID *int64, items []CatalogItem) (ImportResult, error) {
	var res ImportResult
	for _, it := range items {
		if it.SKU == "" || it.Name == "" || it.Price.IsNegative() || it.Stock < 0 || it.ReorderPoint < 0 {
			return res, fmt.Errorf("%w: fila de catálogo %q", domain.ErrInvalidInput, it.SKU)
		}
		err := l.txRunner.Run(ctx, func(ctx context.Context, repos repository.Repositories) error {
			p := &entity.Product{
				SKU:          it.SKU,
				Name:         it.Name,
				Price:        it.Price.Round(2),
				ReorderPoint: it.ReorderPoint,
				Active:       true,
			}
			if err := repos.Products.Create(ctx, p); err != nil {
				return err
			}
			if it.Stock == 0 {
				return nil
			}
			_, err := l.ApplyInTx(ctx, repos, MovementInput{
				ProductID: p.ID,
				Kind:      entity.StockEntrada,
				Quantity:  it.Stock,
				Reason:    "Stock inicial",
				UserID:    userID,
			})
			return err
		})
		switch {
		case errors.Is(err, domain.ErrConflict):
			res.Skipped++
		case err != nil:
			return res, fmt.Errorf("importar %s: %w", it.SKU, err)
		default:
			res.Created++
		}
	}
	l.log.Info().Int("created", res.Created).Int("skipped", res.Skipped).Msg("catálogo importado")
	return res, nil
}

// DemoCatalog productos de ejemplo para el modo en memoria.
func DemoCatalog() []CatalogItem {
	return []CatalogItem{
		{SKU: "AGUA-625", Name: "Agua mineral 625ml", Price: decimal.RequireFromString("2.50"), Stock: 48, ReorderPoint: 12},
		{SKU: "ISO-500", Name: "Bebida isotónica 500ml", Price: decimal.RequireFromString("4.00"), Stock: 24, ReorderPoint: 10},
		{SKU: "PROT-BAR", Name: "Barra de proteína", Price: decimal.RequireFromString("6.50"), Stock: 30, ReorderPoint: 8},
		{SKU: "WHEY-SCP", Name: "Scoop de proteína whey", Price: decimal.RequireFromString("5.00"), Stock: 60, ReorderPoint: 15},
		{SKU: "TOALLA", Name: "Toalla de mano", Price: decimal.RequireFromString("15.00"), Stock: 6, ReorderPoint: 5},
		{SKU: "CANDADO", Name: "Candado para casillero", Price: decimal.RequireFromString("12.00"), Stock: 3, ReorderPoint: 4},
	}
}
