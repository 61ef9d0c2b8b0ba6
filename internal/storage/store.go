// Package storage implements the persistence-facing Store interface over
// SQLite (default) and Postgres backends. Both enforce category name
// uniqueness and the transaction→category foreign key at the schema level
// as a backstop for the check-then-write paths.
package storage

import (
	"context"

	"dailyspend/internal/core"
)

// Store is the persistence interface the service layer talks to. All ids
// are assigned by the store on creation; callers never choose them.
type Store interface {
	CreateCategory(ctx context.Context, in core.CategoryInput) (core.Category, error)
	ListCategories(ctx context.Context, typeFilter core.CategoryType) ([]core.Category, error)
	GetCategory(ctx context.Context, id int64) (core.Category, error)
	UpdateCategory(ctx context.Context, id int64, in core.CategoryInput) (core.Category, error)
	DeleteCategory(ctx context.Context, id int64) error

	CreateTransaction(ctx context.Context, in core.TransactionInput) (core.Transaction, error)
	GetTransaction(ctx context.Context, id int64) (core.Transaction, error)
	ListTransactions(ctx context.Context, f core.TransactionFilter) ([]core.Transaction, error)
	UpdateTransaction(ctx context.Context, id int64, in core.TransactionInput) (core.Transaction, error)
	DeleteTransaction(ctx context.Context, id int64) error

	Ping(ctx context.Context) error
	Close() error
}

// optional turns an empty string into a NULL-able value for the method
// and note columns.
func optional(s string) any {
	if s == "" {
		return nil
	}
	return s
}
