// seed_catalog carga el catálogo de productos del market desde un CSV.
//
// Uso: go run ./cmd/seed_catalog [-latin1] [-sep ';'] catalogo.csv
// Columnas: codigo, nombre, precio, stock, stock_minimo. Los SKU existentes se omiten.
// El stock inicial se registra como movimiento de entrada.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/jhoicas/caja-market/internal/application/inventory"
	"github.com/jhoicas/caja-market/internal/infrastructure/catalog"
	"github.com/jhoicas/caja-market/internal/infrastructure/postgres"
	"github.com/jhoicas/caja-market/pkg/config"
	"github.com/jhoicas/caja-market/pkg/logger"
)

func main() {
	latin1 := flag.Bool("latin1", false, "fuerza ISO-8859-1 (por defecto se detecta la codificación)")
	sep := flag.String("sep", ",", "separador de columnas")
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "uso: seed_catalog [-latin1] [-sep ';'] catalogo.csv")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "seed_catalog"})

	f, err := os.Open(flag.Arg(0))
	if err != nil {
		log.Fatal().Err(err).Msg("abrir catálogo")
	}
	defer f.Close()

	r, _ := utf8.DecodeRuneInString(*sep)
	items, err := catalog.ReadCSV(f, catalog.Options{Latin1: *latin1, Separator: r})
	if err != nil {
		log.Fatal().Err(err).Msg("leer catálogo")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if cfg.DB.AutoMigrate {
		if _, err := postgres.Migrate(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
	}

	ledger := inventory.NewStockLedger(
		postgres.NewTxRunner(pool),
		postgres.NewProductRepository(pool),
		postgres.NewStockMovementRepository(pool),
		cfg.Cash.HistoryDefaultLimit,
		log.Zerolog(),
	)
	res, err := ledger.ImportCatalog(ctx, nil, items)
	if err != nil {
		log.Fatal().Err(err).Int("created", res.Created).Msg("importar catálogo")
	}
	fmt.Printf("Productos creados: %d, omitidos (SKU existente): %d\n", res.Created, res.Skipped)
}
