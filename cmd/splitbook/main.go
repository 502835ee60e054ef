package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"splitbook/internal/amqp"
	"splitbook/internal/audit"
	"splitbook/internal/auth"
	"splitbook/internal/cache"
	"splitbook/internal/config"
	"splitbook/internal/dashboard"
	apphttp "splitbook/internal/http"
	"splitbook/internal/services"
	"splitbook/internal/settle"
	"splitbook/internal/storage"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	// Setup structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	logger.Info("Starting splitbook")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	// AMQP is optional: without a broker the API still runs, mail
	// notifications are skipped.
	var notifier services.Notifier
	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Warn("AMQP unavailable, notifications disabled", "error", err)
	} else {
		defer amqpClient.Close()
		notifier = amqpClient
	}

	tokens := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
	recorder := audit.NewRecorder(repo)

	profiles := services.NewProfileService(repo, notifier, tokens, cfg.ActivationBaseURL)

	snapshots := cache.NewLRU[*dashboard.Snapshot](cfg.CacheSize, cfg.CacheTTL)
	builder := dashboard.NewBuilder(profiles, repo)
	dash := dashboard.NewService(builder, snapshots)

	engine := settle.NewEngine(profiles, repo)
	expenses := services.NewExpenseService(repo, profiles, recorder, notifier, dash)
	incomes := services.NewIncomeService(repo, profiles, recorder, dash)
	groups := services.NewGroupService(repo, profiles, engine, recorder, notifier, dash)

	srv := apphttp.NewServer(":"+cfg.Port, profiles, expenses, incomes, groups, dash, tokens, repo)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	janitor := cache.NewJanitor(cfg.CacheCleanupInterval)
	janitor.Register(snapshots)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return janitor.Run(gctx)
	})

	g.Go(func() error {
		logger.Info("Starting HTTP server", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
