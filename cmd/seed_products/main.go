// seed_products carga productos desde una exportación CSV (UTF-8 o ISO-8859-1) a la tabla produtos.
//
// Uso: go run ./cmd/seed_products [-latin1] [-sep ';'] productos.csv
// Columnas: sku;nome;preco;fabricante;descricao (la primera fila es cabecera).
// Los SKUs ya existentes se omiten.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/caioaugustofs/api-vendas/internal/infrastructure/csvimport"
	"github.com/caioaugustofs/api-vendas/internal/infrastructure/postgres"
	"github.com/caioaugustofs/api-vendas/pkg/config"
	"github.com/caioaugustofs/api-vendas/pkg/logger"
)

func main() {
	latin1 := flag.Bool("latin1", false, "el archivo está en ISO-8859-1")
	sep := flag.String("sep", ";", "separador de columnas")
	flag.Parse()
	if flag.NArg() != 1 || len(*sep) != 1 {
		fmt.Fprintln(os.Stderr, "uso: seed_products [-latin1] [-sep ';'] productos.csv")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	f, err := os.Open(flag.Arg(0))
	if err != nil {
		log.Fatal().Err(err).Msg("abrir CSV")
	}
	defer f.Close()

	products, err := csvimport.ParseProducts(f, csvimport.Options{Sep: rune((*sep)[0]), Latin1: *latin1})
	if err != nil {
		log.Fatal().Err(err).Msg("leer CSV")
	}

	ctx := context.Background()
	if cfg.DB.AutoMigrate {
		if err := postgres.Migrate(cfg.DB.ConnectionString(), log); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
	}
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	res, err := csvimport.Import(ctx, postgres.NewProductRepository(pool), products)
	if err != nil {
		log.Fatal().Err(err).Int("creados", res.Created).Msg("insertar productos")
	}
	log.Info().Int("creados", res.Created).Int("omitidos", res.Skipped).Msg("carga de productos terminada")
}
