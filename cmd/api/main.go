package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/fooddash/fooddash-backend/api/routes"
	"github.com/fooddash/fooddash-backend/internal/carts"
	"github.com/fooddash/fooddash-backend/internal/catalog"
	"github.com/fooddash/fooddash-backend/internal/coupons"
	"github.com/fooddash/fooddash-backend/internal/dispatch"
	"github.com/fooddash/fooddash-backend/internal/orders"
	"github.com/fooddash/fooddash-backend/internal/pricing"
	"github.com/fooddash/fooddash-backend/internal/riders"
	"github.com/fooddash/fooddash-backend/internal/stock"
	"github.com/fooddash/fooddash-backend/internal/stores"
	"github.com/fooddash/fooddash-backend/pkg/config"
	"github.com/fooddash/fooddash-backend/pkg/db"
	"github.com/fooddash/fooddash-backend/pkg/logger"
	"github.com/fooddash/fooddash-backend/pkg/metrics"
	"github.com/fooddash/fooddash-backend/pkg/migrate"
	"github.com/fooddash/fooddash-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	registry := prometheus.NewRegistry()
	dispatchMetrics := metrics.NewDispatchMetrics(registry)

	ordersSvc, err := orders.NewService(
		orders.NewRepository(dbClient.DB()),
		dbClient,
		dispatch.NewRedisLocker(redisClient),
		stock.NewLedger(dbClient.DB()),
		coupons.NewRedeemer(dbClient.DB()),
		carts.NewRepository(dbClient.DB()),
		catalog.NewRepository(dbClient.DB()),
		stores.NewRepository(dbClient.DB()),
		riders.NewRepository(dbClient.DB()),
		pricing.NewCalculator(),
		dispatchMetrics,
		logg,
		cfg.Dispatch,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, ordersSvc, registry),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
