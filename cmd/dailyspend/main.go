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
	"golang.org/x/sync/errgroup"

	"dailyspend/internal/amqp"
	"dailyspend/internal/config"
	apphttp "dailyspend/internal/http"
	applog "dailyspend/internal/log"
	"dailyspend/internal/services"
	"dailyspend/internal/storage"
)

func main() {
	// Load .env for local development; absent in containers and that is fine.
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", applog.FieldError, err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg)
	if err != nil {
		logger.Error("Failed to initialize storage",
			applog.FieldError, err,
			"backend", cfg.DataBackend)
		os.Exit(1)
	}

	// Events are optional: without an AMQP URL writes simply do not publish.
	var events *amqp.Client
	if cfg.AMQPURL != "" {
		events, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to connect to AMQP", applog.FieldError, err)
			os.Exit(1)
		}
		logger.Info("AMQP events enabled", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	} else {
		logger.Info("AMQP events disabled - no AMQP_URL provided")
	}

	svc := services.NewLedgerService(store, events)
	defer svc.Close()

	srv := apphttp.NewServer(":"+cfg.Port, svc, cfg.CORSOrigin)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting dailyspend server",
			"port", cfg.Port,
			"backend", cfg.DataBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Server error", applog.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}

// openStore picks the storage backend from configuration.
func openStore(ctx context.Context, cfg *config.Config) (storage.Store, error) {
	switch cfg.DataBackend {
	case "postgres":
		return storage.NewPostgresStore(ctx, cfg.DatabaseURL, int32(cfg.PoolMaxConns))
	default:
		return storage.NewSQLiteStore(cfg.SQLiteDBPath)
	}
}
