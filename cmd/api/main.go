package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/juicejoy/juicejoy-backend/api/routes"
	authsvc "github.com/juicejoy/juicejoy-backend/internal/auth"
	cartsvc "github.com/juicejoy/juicejoy-backend/internal/cart"
	catalogsvc "github.com/juicejoy/juicejoy-backend/internal/catalog"
	ordersvc "github.com/juicejoy/juicejoy-backend/internal/orders"
	"github.com/juicejoy/juicejoy-backend/internal/payments"
	"github.com/juicejoy/juicejoy-backend/internal/realtime"
	subssvc "github.com/juicejoy/juicejoy-backend/internal/subscriptions"
	"github.com/juicejoy/juicejoy-backend/internal/users"
	"github.com/juicejoy/juicejoy-backend/pkg/auth/session"
	"github.com/juicejoy/juicejoy-backend/pkg/config"
	"github.com/juicejoy/juicejoy-backend/pkg/db"
	"github.com/juicejoy/juicejoy-backend/pkg/logger"
	"github.com/juicejoy/juicejoy-backend/pkg/migrate"
	"github.com/juicejoy/juicejoy-backend/pkg/redis"
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

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	authService, err := authsvc.NewService(authsvc.ServiceParams{
		UserRepo:       users.NewRepository(dbClient.DB()),
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	catalogService, err := catalogsvc.NewService(catalogsvc.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	cartService, err := cartsvc.NewService(cartsvc.NewStore(redisClient), catalogService, cfg.Checkout)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
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

	subscriptionsService, err := subssvc.NewService(subssvc.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create subscriptions service", err)
		os.Exit(1)
	}

	paymentsService, err := payments.NewService(payments.ServiceParams{
		Orders:   ordersService,
		Subs:     subscriptionsService,
		Products: catalogService,
		Logger:   logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create payments service", err)
		os.Exit(1)
	}

	paymentGuard, err := payments.NewIdempotencyGuard(redisClient, cfg.Payment.WebhookEventTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create payment guard", err)
		os.Exit(1)
	}

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Feed remote status changes into the local hub so every instance's SSE
	// streams see them.
	go func() {
		if err := broker.Run(rootCtx); err != nil && !errors.Is(err, context.Canceled) {
			logg.Error(rootCtx, "realtime broker stopped", err)
		}
	}()

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(rootCtx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:        cfg,
			Logger:        logg,
			DB:            dbClient,
			Redis:         redisClient,
			Sessions:      sessionManager,
			Auth:          authService,
			Catalog:       catalogService,
			Cart:          cartService,
			Orders:        ordersService,
			Subscriptions: subscriptionsService,
			Payments:      paymentsService,
			PaymentGuard:  paymentGuard,
			Hub:           hub,
		}),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-rootCtx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(shutdownCtx, "api server shutdown", err)
		}
		logg.Info(context.Background(), "api server stopped")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	}
}
