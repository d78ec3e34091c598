package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/caja-market/internal/application/cash"
	"github.com/jhoicas/caja-market/internal/application/inventory"
	"github.com/jhoicas/caja-market/internal/application/sales"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Sales     *sales.Orchestrator
	CashBook  *cash.Ledger
	Sessions  *cash.SessionManager
	Stock     *inventory.StockLedger
	JWTSecret string
}

// Router registra las rutas de la API. Todas requieren Bearer Token.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))
	adminOnly := RequireRole(RoleAdmin)

	// Ventas
	saleHandler := NewSaleHandler(deps.Sales)
	salesGroup := api.Group("/sales")
	salesGroup.Post("/", saleHandler.Process)
	salesGroup.Get("/", saleHandler.List)
	salesGroup.Get("/top-products", saleHandler.TopProducts)
	salesGroup.Get("/totals-by-method", saleHandler.TotalsByMethod)
	salesGroup.Get("/:id", saleHandler.Get)
	salesGroup.Post("/:id/cancel", saleHandler.Cancel)

	// Caja
	cashHandler := NewCashHandler(deps.CashBook, deps.Sessions)
	cashGroup := api.Group("/cash")
	cashGroup.Post("/sessions", cashHandler.OpenSession)
	cashGroup.Get("/sessions/current", cashHandler.CurrentSession)
	cashGroup.Get("/sessions/current/balances", cashHandler.CurrentBalances)
	cashGroup.Get("/sessions/:id/balances", cashHandler.SessionBalances)
	cashGroup.Get("/sessions/:id/movements", cashHandler.SessionMovements)
	cashGroup.Post("/sessions/:id/close", cashHandler.CloseSession)
	cashGroup.Get("/sessions/:id/report", cashHandler.SessionReport)
	cashGroup.Post("/movements", cashHandler.RecordMovement)
	cashGroup.Get("/movements", cashHandler.ListMovements)
	cashGroup.Post("/movements/:id/reverse", adminOnly, cashHandler.ReverseMovement)
	cashGroup.Post("/transfers", cashHandler.Transfer)

	// Inventario
	inventoryHandler := NewInventoryHandler(deps.Stock)
	invGroup := api.Group("/inventory")
	invGroup.Post("/movements", adminOnly, inventoryHandler.RegisterMovement)
	invGroup.Get("/products/:id/movements", inventoryHandler.History)
	invGroup.Get("/references/:kind/:id/movements", inventoryHandler.ByReference)
	invGroup.Get("/low-stock", inventoryHandler.LowStock)
}
