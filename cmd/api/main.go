package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/angelmondragon/storefront-backend/api"
	"github.com/angelmondragon/storefront-backend/api/controllers"
	"github.com/angelmondragon/storefront-backend/api/routes"
	"github.com/angelmondragon/storefront-backend/internal/address"
	"github.com/angelmondragon/storefront-backend/internal/orders"
	"github.com/angelmondragon/storefront-backend/internal/visitors"
	"github.com/angelmondragon/storefront-backend/pkg/config"
	"github.com/angelmondragon/storefront-backend/pkg/db"
	"github.com/angelmondragon/storefront-backend/pkg/envelope"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/angelmondragon/storefront-backend/pkg/metrics"
	"github.com/angelmondragon/storefront-backend/pkg/migrate"
	"github.com/angelmondragon/storefront-backend/pkg/razorpay"
	"github.com/angelmondragon/storefront-backend/pkg/redis"
	"github.com/angelmondragon/storefront-backend/pkg/shiprocket"
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
		Level:       cfg.App.LogLevel,
		WarnStack:   cfg.App.LogWarnStack,
		Format:      cfg.App.LogFormat,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	requireResource(ctx, logg, "database", err)
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	requireResource(ctx, logg, "redis", err)
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	envelopeKey, err := cfg.Envelope.KeyBytes()
	requireResource(ctx, logg, "envelope key", err)
	sealer, err := envelope.New(envelopeKey)
	requireResource(ctx, logg, "envelope", err)

	payments, err := razorpay.NewClient(cfg.Razorpay.KeyID, cfg.Razorpay.SecretKey, razorpay.WithCurrency(cfg.Razorpay.Currency))
	requireResource(ctx, logg, "razorpay", err)

	carrier, err := shiprocket.NewClient(
		cfg.Shiprocket.Email,
		cfg.Shiprocket.Password,
		shiprocket.WithBaseURL(cfg.Shiprocket.BaseURL),
		shiprocket.WithTimeout(cfg.Shiprocket.Timeout),
	)
	requireResource(ctx, logg, "shiprocket", err)

	bestSellerCache, err := redis.NewCache(redisClient, cfg.Cache.BestSellersTTL)
	requireResource(ctx, logg, "best seller cache", err)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	ordersSvc, err := orders.NewService(orders.ServiceParams{
		Repo:           orders.NewRepository(dbClient.DB()),
		Tx:             dbClient,
		Carrier:        carrier,
		Payments:       payments,
		Cache:          bestSellerCache,
		Metrics:        metrics.NewOrderMetrics(registry),
		Logger:         logg,
		ShippingCharge: cfg.Orders.ShippingChargeAmount(),
		PickupLocation: cfg.Shiprocket.PickupLocation,
	})
	requireResource(ctx, logg, "orders service", err)

	addressSvc, err := address.NewService(address.NewRepository(dbClient.DB()), dbClient)
	requireResource(ctx, logg, "address service", err)

	visitorSvc, err := visitors.NewService(redisClient)
	requireResource(ctx, logg, "visitor service", err)

	router := routes.NewRouter(
		cfg,
		logg,
		sealer,
		redisClient,
		registry,
		map[string]controllers.Pinger{"database": dbClient, "redis": redisClient},
		ordersSvc,
		addressSvc,
		visitorSvc,
	)

	server := api.NewServer(cfg, router)
	ctx = logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": server.Addr,
	})
	logg.Info(ctx, "starting api server")

	if err := api.Serve(ctx, server, logg); err != nil {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
	logg.Info(ctx, "api server stopped")
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, "failed to bootstrap "+resource, err)
	os.Exit(1)
}
