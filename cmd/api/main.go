package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"obsdemo/internal/config"
	"obsdemo/internal/database"
	"obsdemo/internal/database/migration"
	handlers "obsdemo/internal/http/handler"
	"obsdemo/internal/http/middleware"
	"obsdemo/internal/logging"
	"obsdemo/internal/otel"
	"obsdemo/internal/repository"
	"obsdemo/internal/repository/memory"
	"obsdemo/internal/repository/postgres"
	"obsdemo/internal/service"
	"obsdemo/internal/storage"
)

func main() {
	ctx := context.Background()

	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()
	log := logging.New()

	fatal := func(msg string, err error) {
		log.Error(ctx, msg, err, nil)
		os.Exit(1)
	}

	shutdownTracing, err := otel.Init(ctx, cfg.ServiceName, log)
	if err != nil {
		fatal("tracing_init_failed", err)
	}

	// Postgres is optional; without it work-run history lives in memory
	// and /db degrades to an in-process sleep.
	var db *sql.DB
	var repo repository.WorkRunRepository
	if cfg.Database.Enabled() {
		db, err = database.NewPostgres(cfg.Database)
		if err != nil {
			fatal("database_connect_failed", err)
		}
		defer db.Close()

		if err := migration.EnsureMigrated(ctx, db, log, cfg.Database.Host); err != nil {
			fatal("database_migration_failed", err)
		}
		repo = postgres.NewWorkRunPostgres(db)
	} else {
		repo = memory.NewWorkRunMemory(cfg.Work.HistoryCapacity)
		log.Info(ctx, "database_disabled", map[string]any{
			"history_capacity": cfg.Work.HistoryCapacity,
		})
	}

	// Object storage is optional; without it profile capture reports 503.
	var profileSvc service.ProfileService
	if cfg.MinIO.Enabled() {
		store, err := storage.NewMinIO(cfg.MinIO)
		if err != nil {
			fatal("storage_init_failed", err)
		}
		profileSvc = service.NewProfileService(store, log)
	} else {
		log.Info(ctx, "storage_disabled", nil)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	promMiddleware, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		fatal("metrics_init_failed", err)
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
	})

	// Register global middleware. Order matters: request IDs first so the
	// logger can pick them up, tracing before logging so log lines carry
	// trace context.
	app.Use(middleware.RequestID())
	app.Use(otelfiber.Middleware())
	app.Use(middleware.Logger())
	app.Use(promMiddleware.Handler())

	handlers.RegisterRoutes(app, db, reg, handlers.Services{
		Work:       service.NewWorkService(repo, log, cfg.Work),
		Downstream: service.NewDownstreamService(cfg.Downstream, log),
		DBLoad:     service.NewDBLoadService(db, cfg.Work),
		Profile:    profileSvc,
	})

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		log.Info(ctx, "shutdown_started", nil)
		_ = app.ShutdownWithTimeout(30 * time.Second)
	}()

	addr := ":" + cfg.Port
	log.Info(ctx, "server_starting", map[string]any{"addr": addr, "service": cfg.ServiceName})

	if err := app.Listen(addr); err != nil {
		fatal("server_failed", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error(shutdownCtx, "tracing_shutdown_failed", err, nil)
	}
	log.Info(ctx, "shutdown_complete", nil)
}
