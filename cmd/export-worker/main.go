package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"dailyspend/internal/amqp"
	"dailyspend/internal/config"
	"dailyspend/internal/export"
	applog "dailyspend/internal/log"
	"dailyspend/internal/services"
	"dailyspend/internal/storage"
	"dailyspend/internal/worker"
)

func main() {
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig()).WithComponent(applog.ComponentWorker)
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", applog.FieldError, err)
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the export worker")
		os.Exit(1)
	}
	if !cfg.ExportEnabled() {
		logger.Error("GOOGLE_SPREADSHEET_ID is required for the export worker")
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

	exporter, err := export.NewSheetsExporter(ctx, cfg)
	if err != nil {
		logger.Error("Failed to initialize Sheets exporter", applog.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Sheets exporter initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)

	events, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to connect to AMQP", applog.FieldError, err)
		os.Exit(1)
	}
	defer events.Close()

	// The worker reads through the same service layer as the API, but never
	// publishes events of its own.
	svc := services.NewLedgerService(store, nil)
	defer svc.Close()

	w := worker.NewExportWorker(svc, exporter, cfg.ExportInterval, cfg.ExportBatchSize)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return events.ConsumeTransactionEvents(gctx, w.HandleEvent)
	})
	g.Go(func() error {
		return w.Run(gctx)
	})

	logger.Info("Export worker started",
		"queue", cfg.AMQPQueue,
		"interval", cfg.ExportInterval.String())

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Export worker failed", applog.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Export worker stopped gracefully")
}

func openStore(ctx context.Context, cfg *config.Config) (storage.Store, error) {
	switch cfg.DataBackend {
	case "postgres":
		return storage.NewPostgresStore(ctx, cfg.DatabaseURL, int32(cfg.PoolMaxConns))
	default:
		return storage.NewSQLiteStore(cfg.SQLiteDBPath)
	}
}
