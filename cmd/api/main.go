package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jfigueroa/stockcore/internal/application/analytics"
	"github.com/jfigueroa/stockcore/internal/application/auth"
	"github.com/jfigueroa/stockcore/internal/application/fulfillment"
	"github.com/jfigueroa/stockcore/internal/application/ledger"
	"github.com/jfigueroa/stockcore/internal/application/transfer"
	"github.com/jfigueroa/stockcore/internal/application/usecase"
	"github.com/jfigueroa/stockcore/internal/events"
	"github.com/jfigueroa/stockcore/internal/infrastructure/postgres"
	"github.com/jfigueroa/stockcore/internal/infrastructure/rediscache"
	httpRouter "github.com/jfigueroa/stockcore/internal/interfaces/http"
	"github.com/jfigueroa/stockcore/pkg/config"
	"github.com/jfigueroa/stockcore/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("load configuration: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("starting application")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("connect to PostgreSQL")
	}
	defer pool.Close()

	redisClient, err := rediscache.NewClient(ctx, cfg.Redis)
	if err != nil {
		log.Fatal().Err(err).Msg("connect to Redis")
	}
	defer redisClient.Close()

	// Repositories
	productRepo := postgres.NewProductRepository(pool)
	warehouseRepo := postgres.NewWarehouseRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	stockRepo := postgres.NewStockEntryRepository(pool)
	movementRepo := postgres.NewStockMovementRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	backorderRepo := postgres.NewBackorderRepository(pool)
	analyticsRepo := postgres.NewAnalyticsRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Core engines
	broadcaster := events.NewBroadcaster(log)
	stockLedger := ledger.New(txRunner, broadcaster, log)
	engine := fulfillment.NewEngine(stockLedger, orderRepo, backorderRepo, broadcaster, log)
	coordinator := transfer.NewCoordinator(stockLedger, broadcaster, log)

	// Background snapshot job
	snapshotCache := rediscache.NewSnapshotCache(redisClient)
	snapshotJob := analytics.NewSnapshotJob(stockRepo, snapshotCache, analytics.JobConfig{
		BatchSize:     cfg.Analytics.BatchSize,
		Interval:      cfg.Analytics.Interval,
		RetryInterval: cfg.Analytics.RetryInterval,
		CacheTTL:      cfg.Analytics.CacheTTL,
	}, log)
	go snapshotJob.Run(ctx)

	// Use cases
	productUC := usecase.NewProductUseCase(productRepo)
	warehouseUC := usecase.NewWarehouseUseCase(warehouseRepo)
	overviewUC := analytics.NewOverviewUseCase(analyticsRepo)
	authUC := auth.New(userRepo, auth.TokenSettings{
		Secret:     cfg.JWT.Secret,
		Issuer:     cfg.JWT.Issuer,
		ExpMinutes: cfg.JWT.Expiration,
	}, log)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "StockCore API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		ProductUC:     productUC,
		WarehouseUC:   warehouseUC,
		AuthUC:        authUC,
		Ledger:        stockLedger,
		Engine:        engine,
		Coordinator:   coordinator,
		OverviewUC:    overviewUC,
		Broadcaster:   broadcaster,
		StockRepo:     stockRepo,
		MovementRepo:  movementRepo,
		OrderRepo:     orderRepo,
		BackorderRepo: backorderRepo,
		Log:           log,
		JWTSecret:     cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("HTTP server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutdown signal received, stopping server...")
	cancel() // stops the snapshot job

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}

	log.Info().Msg("application stopped")
}
