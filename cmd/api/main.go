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

	_ "github.com/caioaugustofs/api-vendas/docs"
	"github.com/caioaugustofs/api-vendas/internal/application/stock"
	"github.com/caioaugustofs/api-vendas/internal/domain/repository"
	"github.com/caioaugustofs/api-vendas/internal/infrastructure/cache"
	"github.com/caioaugustofs/api-vendas/internal/infrastructure/csvimport"
	"github.com/caioaugustofs/api-vendas/internal/infrastructure/events"
	"github.com/caioaugustofs/api-vendas/internal/infrastructure/memory"
	"github.com/caioaugustofs/api-vendas/internal/infrastructure/postgres"
	httpRouter "github.com/caioaugustofs/api-vendas/internal/interfaces/http"
	"github.com/caioaugustofs/api-vendas/pkg/config"
	"github.com/caioaugustofs/api-vendas/pkg/logger"
)

// @title        api-vendas
// @version      1.0
// @description  Entradas, salidas y saldos de stock por SKU.
// @BasePath     /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.App.StorageDriver).
		Msg("iniciando aplicación")
	if cfg.JWT.Secret == "" {
		log.Warn().Msg("JWT_SECRET vacío: todas las rutas protegidas responderán 401")
	}

	ctx := context.Background()

	var (
		txRunner     stock.TxRunner
		balanceRepo  repository.BalanceRepository
		movementRepo repository.MovementRepository
	)
	switch cfg.App.StorageDriver {
	case config.StorageMemory:
		store := memory.NewStore()
		if cfg.App.SeedProductsFile != "" {
			seedMemoryStore(ctx, store, cfg.App, log)
		}
		txRunner, balanceRepo, movementRepo = store, store.Balances(), store.Movements()
	default:
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
		txRunner = postgres.NewTxRunner(pool)
		balanceRepo = postgres.NewBalanceRepository(pool)
		movementRepo = postgres.NewMovementRepository(pool)
	}

	var recorderOpts []stock.RecorderOption
	var balanceCache stock.BalanceCache
	if cfg.Redis.Enabled() {
		client, err := cache.NewClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer client.Close()
		balanceCache = cache.NewRedisBalanceCache(client, cfg.Redis.BalanceTTL, log)
		recorderOpts = append(recorderOpts, stock.WithBalanceCache(balanceCache))
	}
	if cfg.Kafka.Enabled() {
		publisher := events.NewPublisher(cfg.Kafka)
		defer func() {
			if err := publisher.Close(); err != nil {
				log.Error().Err(err).Msg("cerrar publisher Kafka")
			}
		}()
		recorderOpts = append(recorderOpts, stock.WithEventPublisher(publisher))
	}

	recorder := stock.NewMovementRecorder(txRunner, log, recorderOpts...)
	query := stock.NewQueryUseCase(balanceRepo, movementRepo, balanceCache)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(cors.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "api-vendas",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Recorder:  recorder,
		Query:     query,
		JWTSecret: cfg.JWT.Secret,
		JWTIssuer: cfg.JWT.Issuer,
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

// seedMemoryStore precarga productos desde SEED_PRODUCTS_FILE (modo memoria no tiene otra vía de alta).
func seedMemoryStore(ctx context.Context, store *memory.Store, cfg config.AppConfig, log *logger.Logger) {
	f, err := os.Open(cfg.SeedProductsFile)
	if err != nil {
		log.Fatal().Err(err).Str("file", cfg.SeedProductsFile).Msg("abrir CSV de productos")
	}
	defer f.Close()

	products, err := csvimport.ParseProducts(f, csvimport.Options{Latin1: cfg.SeedProductsLatin1})
	if err != nil {
		log.Fatal().Err(err).Msg("leer CSV de productos")
	}
	res, err := csvimport.Import(ctx, store.Products(), products)
	if err != nil {
		log.Fatal().Err(err).Msg("precargar productos")
	}
	log.Info().Int("creados", res.Created).Msg("productos precargados en memoria")
}
