package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/portiva/portiva/internal/app"
	"github.com/portiva/portiva/internal/audit"
	"github.com/portiva/portiva/internal/credential"
	"github.com/portiva/portiva/internal/guard"
	"github.com/portiva/portiva/internal/menu"
	"github.com/portiva/portiva/internal/observability"
	"github.com/portiva/portiva/internal/platform/cache"
	"github.com/portiva/portiva/internal/platform/db"
	"github.com/portiva/portiva/internal/session"
	"github.com/portiva/portiva/internal/upstream"
	"github.com/portiva/portiva/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	upstreamClient := upstream.New(cfg.UpstreamBaseURL, cfg.UpstreamTimeout, logger)
	credentialStore := credential.NewRedisStore(redisClient, cfg.SessionTTL)

	auditStore := audit.NewPostgresStore(dbpool)
	auditService := audit.NewService(auditStore, logger)

	manager := session.NewManager(credentialStore, upstreamClient, upstreamClient, menu.Default(), logger)

	metrics := observability.NewMetrics()

	sessionHandler := session.NewHandler(logger, manager, upstreamClient, auditService, metrics)
	auditHandler := audit.NewHandler(logger, auditService, guard.New(credentialStore, upstreamClient, logger))

	purgeTask, err := jobs.NewAuditPurgeTask(jobs.AuditPurgePayload{Retention: cfg.AuditRetention})
	if err != nil {
		logger.Error("build purge task", slog.Any("error", err))
		os.Exit(1)
	}
	purger := jobs.NewAuditPurger(auditService, logger)
	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskAuditPurge, Handler: purger.Handle},
		},
		Cron: []jobs.CronRegistration{
			{Spec: "0 3 * * *", Task: purgeTask, Options: []asynq.Option{asynq.Queue(jobs.QueueDefault)}},
		},
	})
	if err != nil {
		logger.Error("build worker", slog.Any("error", err))
		os.Exit(1)
	}
	go func() {
		if err := worker.Run(ctx); err != nil && ctx.Err() == nil {
			logger.Error("worker stopped", slog.Any("error", err))
		}
	}()

	router := app.NewRouter(app.RouterParams{
		Logger:         logger,
		Config:         cfg,
		SessionHandler: sessionHandler,
		AuditHandler:   auditHandler,
		Metrics:        metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
