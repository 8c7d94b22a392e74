package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"vmr_backend/internal/auth"
	"vmr_backend/internal/brokers"
	"vmr_backend/internal/clients"
	"vmr_backend/internal/ecm"
	"vmr_backend/internal/email"
	"vmr_backend/internal/events"
	apphttp "vmr_backend/internal/http"
	"vmr_backend/internal/http/router"
	"vmr_backend/internal/leads"
	leadshandler "vmr_backend/internal/leads/handler"
	leadsrepo "vmr_backend/internal/leads/repository"
	"vmr_backend/internal/notification"
	"vmr_backend/internal/scheduler"
	"vmr_backend/internal/storage"
	"vmr_backend/migrations"
	"vmr_backend/platform/config"
	"vmr_backend/platform/db"
	"vmr_backend/platform/logger"
	"vmr_backend/platform/validator"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg, migrations.FS)
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	regenScheduler, closeScheduler := initRegenScheduler(cfg, log)
	if closeScheduler != nil {
		defer closeScheduler()
	}

	sender, err := email.NewSender(cfg)
	if err != nil {
		log.Error("failed to initialize email sender", "error", err)
		panic("failed to initialize email sender: " + err.Error())
	}

	// Shared validator instance for dependency injection
	val := validator.New()

	// Storage service for ECM source file uploads (MinIO)
	storageSvc, err := storage.New(cfg, log)
	if err != nil {
		log.Error("failed to initialize storage service", "error", err)
		panic("failed to initialize storage service: " + err.Error())
	}
	if storageSvc.Enabled() {
		if err := withRetry(ctx, log, "ensure ecm-source-files bucket", 5, 2*time.Second, func() error {
			return storageSvc.EnsureBucket(ctx)
		}); err != nil {
			log.Error("failed to ensure storage bucket exists", "error", err)
			panic("failed to ensure storage bucket exists: " + err.Error())
		}
		log.Info("storage service initialized", "bucket", cfg.GetMinioBucketECMSourceFiles())
	} else {
		log.Warn("MINIO_ENDPOINT not configured; ECM source files kept in database only")
	}

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	// Notification module subscribes to domain events (not HTTP-facing)
	notification.NewModule(eventBus, sender, cfg, log)

	authModule := auth.NewModule(pool, cfg, log)
	brokersModule := brokers.NewModule(pool, authModule.Service(), leadsrepo.New(pool), log)
	leadsModule := leads.NewModule(pool, eventBus, sender, brokersModule.Service(), authModule.Service(), regenScheduler, cfg, log)
	clientsModule := clients.NewModule(pool, leadsModule.Management(), log)
	ecmModule := ecm.NewModule(pool, storageSvc, val, log)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   db.NewPoolAdapter(pool),
		EventBus: eventBus,
		Modules: []apphttp.Module{
			authModule,
			brokersModule,
			leadsModule,
			clientsModule,
			ecmModule,
		},
	}

	engine := router.New(app)

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- engine.Run(cfg.HTTPAddr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = shutdownCtx
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

// initRegenScheduler builds the asynq client used to offload the bulk token
// regeneration batch. Returns a nil scheduler when Redis is not configured so
// the endpoint falls back to the inline batch.
func initRegenScheduler(cfg config.SchedulerConfig, log *logger.Logger) (leadshandler.RegenerationScheduler, func()) {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; async token regeneration disabled")
		return nil, nil
	}

	client, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize scheduler client", "error", err)
		return nil, nil
	}

	return client, func() {
		_ = client.Close()
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
