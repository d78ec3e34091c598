package inventory_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/caja-market/internal/application/dto"
	"github.com/jhoicas/caja-market/internal/application/inventory"
	"github.com/jhoicas/caja-market/internal/domain"
	"github.com/jhoicas/caja-market/internal/domain/entity"
	"github.com/jhoicas/caja-market/internal/domain/repository"
	"github.com/jhoicas/caja-market/internal/infrastructure/memory"
)

func newLedger(t *testing.T) (*inventory.StockLedger, repository.Repositories) {
	t.Helper()
	store := memory.New()
	repos := store.Repositories()
	ledger := inventory.NewStockLedger(memory.NewTxRunner(store), repos.Products, repos.StockMovements, 0, zerolog.Nop())
	return ledger, repos
}

func createProduct(t *testing.T, repos repository.Repositories, sku string, reorder int) int64 {
	t.Helper()
	p := &entity.Product{SKU: sku, Name: sku, Price: decimal.NewFromInt(3), ReorderPoint: reorder, Active: true}
	require.NoError(t, repos.Products.Create(context.Background(), p))
	return p.ID
}

func TestRegisterFromRequest_EntradaSalidaAjuste(t *testing.T) {
	ctx := context.Background()
	ledger, repos := newLedger(t)
	id := createProduct(t, repos, "AGUA", 0)
	admin := int64(1)

	res, err := ledger.RegisterFromRequest(ctx, &admin, dto.RegisterMovementRequest{ProductID: id, Type: "entrada", Quantity: 10})
	require.NoError(t, err)
	assert.Equal(t, 10, res.NewStock)

	res, err = ledger.RegisterFromRequest(ctx, &admin, dto.RegisterMovementRequest{ProductID: id, Type: "salida", Quantity: 3, Reason: "merma"})
	require.NoError(t, err)
	assert.Equal(t, 7, res.NewStock)

	res, err = ledger.RegisterFromRequest(ctx, &admin, dto.RegisterMovementRequest{ProductID: id, Type: "ajuste", Quantity: -2})
	require.NoError(t, err)
	assert.Equal(t, 5, res.NewStock)

	hist, err := ledger.History(ctx, id, 0)
	require.NoError(t, err)
	require.Len(t, hist, 3)
	assert.Equal(t, "ajuste", hist[0].Type, "más reciente primero")
	assert.Equal(t, 7, hist[0].StockBefore)
	assert.Equal(t, 5, hist[0].StockAfter)
	assert.Equal(t, "Movimiento manual: ajuste", hist[0].Reason)
	assert.Equal(t, "merma", hist[1].Reason)
	require.NotNil(t, hist[2].UserID)
	assert.Equal(t, admin, *hist[2].UserID)

	// La cadena de movimientos cuadra con el stock cacheado.
	sum := 0
	for _, h := range hist {
		sum += h.StockAfter - h.StockBefore
	}
	p, _ := repos.Products.GetByID(ctx, id)
	assert.Equal(t, p.Stock, sum)
}

func TestRegisterFromRequest_Rechazos(t *testing.T) {
	ctx := context.Background()
	ledger, repos := newLedger(t)
	id := createProduct(t, repos, "AGUA", 0)

	_, err := ledger.RegisterFromRequest(ctx, nil, dto.RegisterMovementRequest{ProductID: id, Type: "venta", Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "las ventas solo entran por el orquestador")

	_, err = ledger.RegisterFromRequest(ctx, nil, dto.RegisterMovementRequest{ProductID: id, Type: "salida", Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock, "no se recorta a cero")

	_, err = ledger.RegisterFromRequest(ctx, nil, dto.RegisterMovementRequest{ProductID: 404, Type: "entrada", Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = ledger.RegisterFromRequest(ctx, nil, dto.RegisterMovementRequest{ProductID: id, Type: "entrada", Quantity: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	hist, err := ledger.History(ctx, id, 10)
	require.NoError(t, err)
	assert.Empty(t, hist, "ningún rechazo deja movimiento")

	_, err = ledger.History(ctx, 404, 10)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestHistory_RespetaLimite(t *testing.T) {
	ctx := context.Background()
	ledger, repos := newLedger(t)
	id := createProduct(t, repos, "AGUA", 0)
	for i := 0; i < 5; i++ {
		_, err := ledger.ApplyMovement(ctx, inventory.MovementInput{ProductID: id, Kind: entity.StockEntrada, Quantity: 1})
		require.NoError(t, err)
	}

	hist, err := ledger.History(ctx, id, 2)
	require.NoError(t, err)
	require.Len(t, hist, 2)
	assert.Equal(t, 5, hist[0].StockAfter)
}

func TestLowStock_OrdenadoPorDeficit(t *testing.T) {
	ctx := context.Background()
	ledger, repos := newLedger(t)
	createProduct(t, repos, "A", 2)
	b := createProduct(t, repos, "B", 10)
	c := createProduct(t, repos, "C", 1)
	_, err := ledger.ApplyMovement(ctx, inventory.MovementInput{ProductID: b, Kind: entity.StockEntrada, Quantity: 4})
	require.NoError(t, err)
	_, err = ledger.ApplyMovement(ctx, inventory.MovementInput{ProductID: c, Kind: entity.StockEntrada, Quantity: 5})
	require.NoError(t, err)

	items, err := ledger.LowStock(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2, "C está por encima de su mínimo")
	assert.Equal(t, "B", items[0].SKU)
	assert.Equal(t, 6, items[0].Deficit)
	assert.Equal(t, "A", items[1].SKU)
}

func TestImportCatalog_StockInicialComoEntrada(t *testing.T) {
	ctx := context.Background()
	ledger, repos := newLedger(t)
	createProduct(t, repos, "AGUA-625", 0)

	res, err := ledger.ImportCatalog(ctx, nil, inventory.DemoCatalog())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Skipped, "el SKU existente se omite")
	assert.Equal(t, len(inventory.DemoCatalog())-1, res.Created)

	items, err := ledger.LowStock(ctx)
	require.NoError(t, err)
	skus := make([]string, 0, len(items))
	for _, it := range items {
		skus = append(skus, it.SKU)
	}
	assert.Contains(t, skus, "CANDADO", "3 unidades con mínimo 4")

	hist, err := ledger.History(ctx, 2, 0)
	require.NoError(t, err)
	require.Len(t, hist, 1)
	assert.Equal(t, "entrada", hist[0].Type)
	assert.Equal(t, "Stock inicial", hist[0].Reason)

	_, err = ledger.ImportCatalog(ctx, nil, []inventory.CatalogItem{{SKU: "X", Name: "X", Price: decimal.NewFromInt(-1)}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestByReference_MovimientosDeUnaVenta(t *testing.T) {
	ctx := context.Background()
	ledger, repos := newLedger(t)
	agua := createProduct(t, repos, "AGUA", 0)
	toalla := createProduct(t, repos, "TOALLA", 0)
	for _, id := range []int64{agua, toalla} {
		_, err := ledger.ApplyMovement(ctx, inventory.MovementInput{ProductID: id, Kind: entity.StockEntrada, Quantity: 10})
		require.NoError(t, err)
	}

	saleID := int64(7)
	for _, id := range []int64{agua, toalla} {
		_, err := ledger.ApplyMovement(ctx, inventory.MovementInput{
			ProductID: id, Kind: entity.StockVenta, Quantity: 2, Reason: "Venta #7",
			RefKind: entity.RefVenta, RefID: &saleID,
		})
		require.NoError(t, err)
	}

	movs, err := ledger.ByReference(ctx, entity.RefVenta, saleID)
	require.NoError(t, err)
	require.Len(t, movs, 2)
	assert.Equal(t, agua, movs[0].ProductID)
	assert.Equal(t, 8, movs[0].StockAfter)

	movs, err = ledger.ByReference(ctx, entity.RefVentaAnulada, saleID)
	require.NoError(t, err)
	assert.Empty(t, movs, "la venta no fue anulada")

	_, err = ledger.ByReference(ctx, "compra", saleID)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
