// Package services holds the boundary between the HTTP layer and the
// store: request validation, referential checks and event publishing.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"dailyspend/internal/amqp"
	"dailyspend/internal/core"
	"dailyspend/internal/storage"
)

// LedgerService validates writes before they reach the store and fans
// successful transaction writes out as change events. A nil events client
// disables publishing.
type LedgerService struct {
	store  storage.Store
	events *amqp.Client
}

func NewLedgerService(store storage.Store, events *amqp.Client) *LedgerService {
	return &LedgerService{
		store:  store,
		events: events,
	}
}

func (s *LedgerService) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

func (s *LedgerService) CreateCategory(ctx context.Context, in core.CategoryInput) (core.Category, error) {
	in = in.Normalized()
	if err := in.Validate(); err != nil {
		return core.Category{}, err
	}
	return s.store.CreateCategory(ctx, in)
}

// ListCategories returns all categories, optionally narrowed by type.
func (s *LedgerService) ListCategories(ctx context.Context, typeFilter core.CategoryType) ([]core.Category, error) {
	if typeFilter != "" && !typeFilter.Valid() {
		return nil, core.InvalidInput("invalid type")
	}
	return s.store.ListCategories(ctx, typeFilter)
}

func (s *LedgerService) UpdateCategory(ctx context.Context, id int64, in core.CategoryInput) (core.Category, error) {
	in = in.Normalized()
	if err := in.ValidateUpdate(); err != nil {
		return core.Category{}, err
	}
	return s.store.UpdateCategory(ctx, id, in)
}

func (s *LedgerService) DeleteCategory(ctx context.Context, id int64) error {
	return s.store.DeleteCategory(ctx, id)
}

// CreateTransaction validates the request shape, resolves the category
// and enforces that the transaction type matches the category type, all
// before the single store write.
func (s *LedgerService) CreateTransaction(ctx context.Context, in core.TransactionInput) (core.Transaction, error) {
	if err := s.checkTransaction(ctx, in); err != nil {
		return core.Transaction{}, err
	}
	txn, err := s.store.CreateTransaction(ctx, in)
	if err != nil {
		return core.Transaction{}, err
	}
	s.publishEvent(ctx, txn, amqp.ActionCreated)
	return txn, nil
}

func (s *LedgerService) UpdateTransaction(ctx context.Context, id int64, in core.TransactionInput) (core.Transaction, error) {
	if err := s.checkTransaction(ctx, in); err != nil {
		return core.Transaction{}, err
	}
	txn, err := s.store.UpdateTransaction(ctx, id, in)
	if err != nil {
		return core.Transaction{}, err
	}
	s.publishEvent(ctx, txn, amqp.ActionUpdated)
	return txn, nil
}

func (s *LedgerService) DeleteTransaction(ctx context.Context, id int64) error {
	// Read first so the event can carry the affected month.
	txn, err := s.store.GetTransaction(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.DeleteTransaction(ctx, id); err != nil {
		return err
	}
	s.publishEvent(ctx, txn, amqp.ActionDeleted)
	return nil
}

// ListMonth returns the month's transactions, newest first, ties broken
// by id descending.
func (s *LedgerService) ListMonth(ctx context.Context, year, month int, typeFilter core.CategoryType, categoryID int64) ([]core.Transaction, error) {
	if typeFilter != "" && !typeFilter.Valid() {
		return nil, core.InvalidInput("invalid type")
	}
	from, to, err := core.MonthRange(year, month)
	if err != nil {
		return nil, err
	}
	return s.store.ListTransactions(ctx, core.TransactionFilter{
		From:       from,
		To:         to,
		Type:       typeFilter,
		CategoryID: categoryID,
	})
}

// SummarizeMonth aggregates one month's transactions into per-category
// totals and a net balance.
func (s *LedgerService) SummarizeMonth(ctx context.Context, year, month int) (core.MonthSummary, error) {
	txns, err := s.ListMonth(ctx, year, month, "", 0)
	if err != nil {
		return core.MonthSummary{}, err
	}
	return core.Summarize(year, month, txns), nil
}

func (s *LedgerService) checkTransaction(ctx context.Context, in core.TransactionInput) error {
	if err := in.Validate(); err != nil {
		return err
	}
	cat, err := s.store.GetCategory(ctx, in.CategoryID)
	if errors.Is(err, core.ErrNotFound) {
		return core.InvalidInput("unknown category")
	}
	if err != nil {
		return fmt.Errorf("resolve category: %w", err)
	}
	if cat.Type != in.Type {
		return core.InvalidInput("category type mismatch")
	}
	return nil
}

// publishEvent never fails the request; a broker hiccup is logged and the
// write stands.
func (s *LedgerService) publishEvent(ctx context.Context, txn core.Transaction, action string) {
	if s.events == nil {
		return
	}
	ev := amqp.NewTransactionEvent(txn.ID, action, txn.TxnDate.Year(), int(txn.TxnDate.Month()))
	if err := s.events.PublishTransactionEvent(ctx, ev); err != nil {
		slog.ErrorContext(ctx, "Failed to publish transaction event",
			"transaction_id", txn.ID, "action", action, "error", err)
	}
}

// Close releases the store and the events client.
func (s *LedgerService) Close() error {
	var errs []error
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("store: %w", err))
		}
	}
	if s.events != nil {
		if err := s.events.Close(); err != nil {
			errs = append(errs, fmt.Errorf("events: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("close ledger service: %v", errs)
	}
	return nil
}
