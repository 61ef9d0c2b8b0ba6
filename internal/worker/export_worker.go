// Package worker drives the asynchronous month export pipeline.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"dailyspend/internal/amqp"
	"dailyspend/internal/core"
	"dailyspend/internal/export"
	"dailyspend/internal/services"
)

// ExportWorker listens for transaction change events and re-exports the
// affected month. Events for the same month collapse into one export, so a
// burst of edits costs a single spreadsheet write per flush interval.
type ExportWorker struct {
	svc       *services.LedgerService
	exporter  export.MonthExporter
	interval  time.Duration
	batchSize int

	mu    sync.Mutex
	dirty map[monthKey]struct{}
}

type monthKey struct {
	year  int
	month int
}

// NewExportWorker flushes at most batchSize months per interval; the rest
// stay dirty for the next tick.
func NewExportWorker(svc *services.LedgerService, exporter export.MonthExporter, interval time.Duration, batchSize int) *ExportWorker {
	if batchSize < 1 {
		batchSize = 1
	}
	return &ExportWorker{
		svc:       svc,
		exporter:  exporter,
		interval:  interval,
		batchSize: batchSize,
		dirty:     make(map[monthKey]struct{}),
	}
}

// HandleEvent records the event's month as needing a re-export. Invalid
// periods are dropped rather than retried: the event is malformed, a redelivery
// would not fix it.
func (w *ExportWorker) HandleEvent(ev *amqp.TransactionEvent) error {
	if _, _, err := core.MonthRange(ev.Year, ev.Month); err != nil {
		slog.Warn("Dropping event with invalid period",
			"transaction_id", ev.TransactionID,
			"action", ev.Action,
			"year", ev.Year,
			"month", ev.Month)
		return nil
	}
	w.mu.Lock()
	w.dirty[monthKey{year: ev.Year, month: ev.Month}] = struct{}{}
	w.mu.Unlock()

	slog.Debug("Month marked for export",
		"transaction_id", ev.TransactionID,
		"action", ev.Action,
		"year", ev.Year,
		"month", ev.Month)
	return nil
}

// Run flushes dirty months on a ticker until the context is cancelled. A
// final flush runs on shutdown so acknowledged events are not lost.
func (w *ExportWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			flushCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			w.Flush(flushCtx)
			cancel()
			return ctx.Err()
		case <-ticker.C:
			w.Flush(ctx)
		}
	}
}

// Flush exports up to batchSize dirty months. Months that fail stay dirty
// and are retried on the next tick.
func (w *ExportWorker) Flush(ctx context.Context) {
	w.mu.Lock()
	pending := make([]monthKey, 0, len(w.dirty))
	for k := range w.dirty {
		if len(pending) == w.batchSize {
			break
		}
		pending = append(pending, k)
		delete(w.dirty, k)
	}
	w.mu.Unlock()

	for _, k := range pending {
		if err := w.exportMonth(ctx, k.year, k.month); err != nil {
			slog.ErrorContext(ctx, "Month export failed",
				"year", k.year,
				"month", k.month,
				"error", err)
			w.mu.Lock()
			w.dirty[k] = struct{}{}
			w.mu.Unlock()
			continue
		}
		slog.InfoContext(ctx, "Month exported", "year", k.year, "month", k.month)
	}
}

func (w *ExportWorker) exportMonth(ctx context.Context, year, month int) error {
	txns, err := w.svc.ListMonth(ctx, year, month, "", 0)
	if err != nil {
		return fmt.Errorf("list month: %w", err)
	}
	sum, err := w.svc.SummarizeMonth(ctx, year, month)
	if err != nil {
		return fmt.Errorf("summarize month: %w", err)
	}
	return w.exporter.ExportMonth(ctx, year, month, txns, sum)
}
