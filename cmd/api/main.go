package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/caja-market/internal/application/cash"
	"github.com/jhoicas/caja-market/internal/application/inventory"
	"github.com/jhoicas/caja-market/internal/application/sales"
	"github.com/jhoicas/caja-market/internal/domain/repository"
	"github.com/jhoicas/caja-market/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/caja-market/internal/infrastructure/pdf"
	"github.com/jhoicas/caja-market/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/caja-market/internal/interfaces/http"
	"github.com/jhoicas/caja-market/pkg/config"
	"github.com/jhoicas/caja-market/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()

	var (
		repos    repository.Repositories
		txRunner repository.TxRunner
		seedDemo bool
	)
	switch cfg.Store.Driver {
	case config.StoreMemory:
		store := memory.New()
		repos = store.Repositories()
		txRunner = memory.NewTxRunner(store)
		seedDemo = true
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if cfg.DB.AutoMigrate {
			applied, err := postgres.Migrate(ctx, pool)
			if err != nil {
				log.Fatal().Err(err).Msg("migraciones")
			}
			log.Info().Int("applied", applied).Msg("esquema al día")
		}
		repos = postgres.NewRepositories(pool)
		txRunner = postgres.NewTxRunner(pool)
	}

	zl := log.Zerolog()
	stockLedger := inventory.NewStockLedger(txRunner, repos.Products, repos.StockMovements, cfg.Cash.HistoryDefaultLimit, zl)
	cashLedger := cash.NewLedger(txRunner, repos.CashMovements, zl)
	sessions := cash.NewSessionManager(
		txRunner, repos.CashSessions, repos.CashMovements,
		infrapdf.NewMarotoReportGenerator(),
		cfg.Cash.Epsilon, cfg.App.Name, zl,
	)
	orchestrator := sales.NewOrchestrator(txRunner, repos.Sales, stockLedger, cashLedger, zl)

	if seedDemo {
		if _, err := stockLedger.ImportCatalog(ctx, nil, inventory.DemoCatalog()); err != nil {
			log.Fatal().Err(err).Msg("catálogo demo")
		}
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler,
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.HTTP.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,OPTIONS",
	}))
	app.Use(httpRouter.AccessLog(zl))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Caja Market API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "store": cfg.Store.Driver})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Sales:     orchestrator,
		CashBook:  cashLedger,
		Sessions:  sessions,
		Stock:     stockLedger,
		JWTSecret: cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
