package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	catalogsvc "github.com/juicejoy/juicejoy-backend/internal/catalog"
	ordersvc "github.com/juicejoy/juicejoy-backend/internal/orders"
	"github.com/juicejoy/juicejoy-backend/internal/realtime"
	"github.com/juicejoy/juicejoy-backend/internal/scheduler"
	subssvc "github.com/juicejoy/juicejoy-backend/internal/subscriptions"
	"github.com/juicejoy/juicejoy-backend/internal/users"
	"github.com/juicejoy/juicejoy-backend/pkg/config"
	"github.com/juicejoy/juicejoy-backend/pkg/db"
	"github.com/juicejoy/juicejoy-backend/pkg/logger"
	"github.com/juicejoy/juicejoy-backend/pkg/metrics"
	"github.com/juicejoy/juicejoy-backend/pkg/migrate"
	"github.com/juicejoy/juicejoy-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "delivery-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "delivery-worker",
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

	catalogService, err := catalogsvc.NewService(catalogsvc.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}
	hub := realtime.NewHub()
	broker, err := realtime.NewBroker(redisClient, hub, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create realtime broker", err)
		os.Exit(1)
	}

	ordersService, err := ordersvc.NewService(ordersvc.ServiceParams{
		Repo:     ordersvc.NewRepository(dbClient.DB()),
		DBClient: dbClient,
		Notifier: broker,
		Logger:   logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	subscriptionsRepo := subssvc.NewRepository(dbClient.DB())

	job, err := scheduler.NewDeliveryJob(scheduler.DeliveryJobParams{
		Logger:        logg,
		Subscriptions: subscriptionsRepo,
		Orders:        ordersService,
		Users:         users.NewRepository(dbClient.DB()),
		Catalog:       catalogService,
		Marker:        redisClient,
		BatchSize:     cfg.Worker.DeliveryBatch,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create delivery job", err)
		os.Exit(1)
	}

	registry := scheduler.NewRegistry()
	registry.Register(job)

	lock, err := scheduler.NewRedisLock(redisClient, redis.LockKey("delivery-worker"), 0)
	if err != nil {
		logg.Error(context.Background(), "failed to create worker lock", err)
		os.Exit(1)
	}

	jobMetrics := metrics.NewJobMetrics(prometheus.DefaultRegisterer)
	service, err := scheduler.NewService(scheduler.ServiceParams{
		Logger:   logg,
		Registry: registry,
		Lock:     lock,
		Metrics:  jobMetrics,
		Interval: cfg.Worker.DeliveryInterval,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create scheduler", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env})

	metricsServer := &http.Server{
		Addr:    ":" + cfg.Worker.MetricsPort,
		Handler: promhttp.Handler(),
	}
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "metrics server stopped unexpectedly", err)
		}
	}()
	defer metricsServer.Close()

	logg.Info(ctx, "starting delivery worker")
	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "delivery worker stopped unexpectedly", err)
		os.Exit(1)
	}
	logg.Info(ctx, "delivery worker shutting down gracefully")
}
