package main

import (
	"context"
	"net/http"
	"os"
	"strings"

	"github.com/barbarycoast/storefront-backend/api/routes"
	"github.com/barbarycoast/storefront-backend/internal/cart"
	"github.com/barbarycoast/storefront-backend/internal/catalog"
	"github.com/barbarycoast/storefront-backend/internal/device"
	"github.com/barbarycoast/storefront-backend/internal/events"
	"github.com/barbarycoast/storefront-backend/internal/notifications"
	"github.com/barbarycoast/storefront-backend/internal/orders"
	"github.com/barbarycoast/storefront-backend/internal/session"
	"github.com/barbarycoast/storefront-backend/internal/users"
	"github.com/barbarycoast/storefront-backend/pkg/config"
	"github.com/barbarycoast/storefront-backend/pkg/kvstore"
	"github.com/barbarycoast/storefront-backend/pkg/logger"
	"github.com/barbarycoast/storefront-backend/pkg/metrics"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "storefront-api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "storefront-api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx := context.Background()

	store, closeStore, err := newStore(ctx, cfg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap kv store", err)
		os.Exit(1)
	}
	defer func() {
		if err := closeStore(); err != nil {
			logg.Error(ctx, "error closing kv store", err)
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	storefrontMetrics := metrics.NewStorefrontMetrics(registry)

	catalogService, err := catalog.NewService()
	if err != nil {
		logg.Error(ctx, "failed to load catalog", err)
		os.Exit(1)
	}

	eventsService, err := events.NewService()
	if err != nil {
		logg.Error(ctx, "failed to load events", err)
		os.Exit(1)
	}

	cartService, err := cart.NewService(ctx, store, catalogService, logg, storefrontMetrics)
	if err != nil {
		logg.Error(ctx, "failed to create cart service", err)
		os.Exit(1)
	}

	ordersService, err := orders.NewService(ctx, store, catalogService, cfg.Tax, logg, storefrontMetrics)
	if err != nil {
		logg.Error(ctx, "failed to create orders service", err)
		os.Exit(1)
	}

	sessionService, err := session.NewService(device.NewRegionProvider(), cfg.Session.AllowedRegions, logg, storefrontMetrics)
	if err != nil {
		logg.Error(ctx, "failed to create session service", err)
		os.Exit(1)
	}

	usersService, err := users.NewService(cfg.Session, logg, func(loggedIn bool) {
		sessionService.SetLoggedIn(loggedIn)
	})
	if err != nil {
		logg.Error(ctx, "failed to create users service", err)
		os.Exit(1)
	}

	notificationsService, err := notifications.NewService(
		ctx,
		store,
		device.NewPermissionRequester(),
		device.NewTokenSource(),
		device.NewLogDispatcher(logg),
		cfg.Notifications,
		logg,
		storefrontMetrics,
	)
	if err != nil {
		logg.Error(ctx, "failed to create notifications service", err)
		os.Exit(1)
	}

	ordersService.Subscribe(func(order orders.Order) {
		notificationsService.HandleOrderUpdate(ctx, order)
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	startCtx := logg.WithFields(ctx, map[string]any{
		"env":        cfg.App.Env,
		"addr":       addr,
		"kv_backend": cfg.KV.Backend,
	})
	logg.Info(startCtx, "starting storefront api")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			store,
			registry,
			catalogService,
			eventsService,
			cartService,
			ordersService,
			sessionService,
			usersService,
			notificationsService,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(startCtx, "storefront api stopped unexpectedly", err)
		os.Exit(1)
	}
}

func newStore(ctx context.Context, cfg *config.Config) (kvstore.Store, func() error, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.KV.Backend)) {
	case config.KVBackendSQLite:
		store, err := kvstore.OpenSQLite(cfg.KV.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	case config.KVBackendRedis:
		store, err := kvstore.NewRedis(ctx, cfg.Redis, cfg.KV.Namespace)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	default:
		return kvstore.NewMemory(), func() error { return nil }, nil
	}
}
