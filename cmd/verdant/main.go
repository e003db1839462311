package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	vhttp "github.com/croftlabs/verdant/internal/adapter/http"
	vnats "github.com/croftlabs/verdant/internal/adapter/nats"
	"github.com/croftlabs/verdant/internal/adapter/natskv"
	"github.com/croftlabs/verdant/internal/adapter/otel"
	"github.com/croftlabs/verdant/internal/adapter/postgres"
	"github.com/croftlabs/verdant/internal/adapter/ristretto"
	"github.com/croftlabs/verdant/internal/adapter/tiered"
	"github.com/croftlabs/verdant/internal/adapter/ws"
	"github.com/croftlabs/verdant/internal/config"
	"github.com/croftlabs/verdant/internal/logger"
	"github.com/croftlabs/verdant/internal/middleware"
	"github.com/croftlabs/verdant/internal/port/cache"
	"github.com/croftlabs/verdant/internal/service"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "admin" {
		if err := runAdmin(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	log, logClose := logger.New(cfg.Logging)
	slog.SetDefault(log)
	defer logClose.Close()

	slog.Info("config loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Logging.Level,
		"auth_enabled", cfg.Auth.Enabled,
	)

	ctx := context.Background()

	// --- Telemetry ---
	otelShutdown, err := otel.Init(ctx, cfg.OTel, cfg.Logging.Service)
	if err != nil {
		return fmt.Errorf("otel: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = otelShutdown(shutdownCtx)
	}()

	metrics, err := otel.NewMetrics()
	if err != nil {
		return fmt.Errorf("metrics: %w", err)
	}

	// --- Infrastructure ---
	pool, err := postgres.NewPool(ctx, cfg.Postgres)
	if err != nil {
		return fmt.Errorf("postgres: %w", err)
	}
	defer pool.Close()
	slog.Info("postgres connected")

	if err := postgres.RunMigrations(ctx, cfg.Postgres.DSN); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	slog.Info("migrations applied")

	natsQueue, err := vnats.Connect(ctx, cfg.NATS.URL)
	if err != nil {
		return fmt.Errorf("nats: %w", err)
	}
	defer func() { _ = natsQueue.Drain() }()

	queue := otel.InstrumentQueue(natsQueue, metrics)

	// Catalog cache: in-process L1 backed by a shared NATS KV L2, so
	// invalidations reach every instance.
	l1, err := ristretto.New(cfg.Cache.MaxSizeMB)
	if err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	defer l1.Close()

	var catalogCache cache.Cache = l1
	if kv, err := natsQueue.KeyValue(ctx, "verdant-catalog", cfg.Cache.TTL); err != nil {
		slog.Warn("nats kv unavailable, catalog cache is in-process only", "error", err)
	} else {
		catalogCache = tiered.New(l1, natskv.New(kv), cfg.Cache.TTL)
	}

	// --- Services ---
	store := postgres.NewStore(pool)
	authSvc := service.NewAuthService(store, &cfg.Auth)

	hub := ws.NewHub()
	stopRelay, err := ws.Relay(ctx, queue, hub)
	if err != nil {
		return fmt.Errorf("websocket relay: %w", err)
	}
	defer stopRelay()

	handlers := &vhttp.Handlers{
		Auth:    authSvc,
		Tenants: service.NewTenantService(store, queue),
		Plots:   service.NewPlotService(store, queue),
		Plants:  service.NewPlantService(store, queue),
		Catalog: service.NewCatalogService(store, catalogCache, cfg.Cache.TTL),
		Users:   service.NewUserService(store, authSvc),
		Hub:     hub,
		Pool:    pool,
		Queue:   queue,
	}

	// --- HTTP ---
	limiter := middleware.NewRateLimiter(cfg.Rate.RequestsPerSecond, cfg.Rate.Burst)
	stopCleanup := limiter.StartCleanup(cfg.Rate.CleanupInterval, cfg.Rate.MaxIdleTime)
	defer stopCleanup()

	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(vhttp.Logger)
	r.Use(vhttp.SecurityHeaders)
	r.Use(vhttp.CORS(cfg.Server.CORSOrigin))
	r.Use(otel.HTTPMiddleware(cfg.Logging.Service))
	r.Use(otel.MetricsMiddleware(metrics))
	r.Use(limiter.Handler)
	r.Use(middleware.Auth(authSvc, cfg.Auth.Enabled))
	r.Use(chimw.Timeout(30 * time.Second))

	vhttp.MountRoutes(r, handlers)

	addr := ":" + cfg.Server.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		slog.Info("starting server", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed", "error", err)
		}
	}()

	<-done
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
