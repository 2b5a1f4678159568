package main

import (
	"AidDesk/internal/adapters/authz"
	"AidDesk/internal/adapters/eventbus"
	"AidDesk/internal/adapters/memory"
	"AidDesk/internal/adapters/postgres"
	"AidDesk/internal/adapters/redis"
	"AidDesk/internal/adapters/security"
	"AidDesk/internal/adapters/telegram"
	"AidDesk/internal/bot/moderator"
	"AidDesk/internal/core/lifecycle"
	"AidDesk/internal/core/ports"
	"AidDesk/internal/core/services"
	"AidDesk/internal/shared/config"
	"AidDesk/internal/shared/logger"
	"AidDesk/internal/shared/metrics"
	"AidDesk/internal/transport/httpapi"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("FATAL: Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Initialize Logger
	baseLogger := logger.New(cfg.IsDev())
	baseLogger.Info().
		Str("app_env", cfg.AppEnv).
		Str("http_addr", cfg.HTTPAddr).
		Bool("postgres", cfg.Postgres.URL != "").
		Bool("redis", cfg.Redis.URL != "").
		Bool("telegram", cfg.Telegram.Enabled()).
		Msg("Configuration loaded")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	// 4. Storage
	var repo ports.RequestRepository
	if cfg.Postgres.URL != "" {
		secSvc, err := security.NewAESService(cfg.EncryptionKey, &baseLogger)
		if err != nil {
			baseLogger.Fatal().Err(err).Msg("Failed to initialize security service")
		}
		db, err := postgres.NewDB(ctx, cfg.Postgres.URL, &baseLogger)
		if err != nil {
			baseLogger.Fatal().Err(err).Msg("Failed to initialize database")
		}
		defer db.Close()
		if err := db.Migrate(ctx); err != nil {
			baseLogger.Fatal().Err(err).Msg("Failed to apply schema")
		}
		repo = postgres.NewRequestRepository(db, secSvc, &baseLogger)
	} else {
		baseLogger.Warn().Msg("DATABASE_URL not set, requests are kept in memory")
		repo = memory.NewRequestRepository(&baseLogger)
	}

	// 5. Self-service limiter
	var limiter ports.AttemptLimiter
	if cfg.Redis.URL != "" {
		rc, err := redis.New(ctx, cfg.Redis.URL, &baseLogger)
		if err != nil {
			baseLogger.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer rc.Close()
		limiter = redis.NewAttemptLimiter(rc.Client, cfg.SelfService.Limit, cfg.SelfService.Window)
	} else {
		limiter = memory.NewAttemptLimiter(cfg.SelfService.Limit, cfg.SelfService.Window)
	}

	// 6. Core services
	bus := eventbus.NewInMemoryEventBus(&baseLogger)
	dispatcher := eventbus.NewDispatcher(bus)
	policy := authz.NewStaticPolicy(cfg.AdminTokens, cfg.Telegram.ModeratorIDs)

	controller := lifecycle.NewController(repo, policy, dispatcher, m, &baseLogger)
	queue := services.NewQueue(repo, policy, &baseLogger)
	svc := httpapi.Services{
		Intake:      services.NewIntake(repo, dispatcher, m, &baseLogger),
		SelfService: services.NewSelfService(repo, m, &baseLogger),
		Catalog:     services.NewCatalog(repo, &baseLogger),
		Queue:       queue,
		Curation:    services.NewCuration(repo, policy, m, &baseLogger),
		Lifecycle:   controller,
	}

	// 7. Servers
	g, gctx := errgroup.WithContext(ctx)

	srv := httpapi.NewServer(cfg.HTTPAddr, httpapi.NewRouter(svc, httpapi.Options{
		AdminTokens:       cfg.AdminTokens,
		Limiter:           limiter,
		Metrics:           m,
		Gatherer:          registry,
		TrustProxyHeaders: cfg.TrustProxyHeaders,
	}, &baseLogger))

	g.Go(func() error {
		baseLogger.Info().Str("addr", cfg.HTTPAddr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if cfg.Telegram.Enabled() {
		bot, err := telegram.NewModeratorBot(cfg.Telegram, cfg.IsDev(), policy, moderator.Deps{
			Lifecycle: controller,
			Queue:     queue,
		}, bus, &baseLogger)
		if err != nil {
			baseLogger.Fatal().Err(err).Msg("Failed to start moderator bot")
		}
		g.Go(func() error {
			return bot.Start(gctx)
		})
	} else {
		baseLogger.Info().Msg("TELEGRAM_BOT_TOKEN not set, moderator bot disabled")
	}

	baseLogger.Info().Msg("Application started")
	if err := g.Wait(); err != nil {
		baseLogger.Error().Err(err).Msg("Shutting down after error")
	}

	// Let in-flight alerts finish before the process exits.
	bus.Wait()
	baseLogger.Info().Msg("Application stopped")
}
