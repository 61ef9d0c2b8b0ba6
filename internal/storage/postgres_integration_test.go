package storage

import (
	"context"
	"errors"
	"os"
	"testing"

	"dailyspend/internal/core"
)

// Requires a reachable Postgres; set DAILYSPEND_TEST_DATABASE_URL to run.
func TestPostgresStoreIntegration(t *testing.T) {
	url := os.Getenv("DAILYSPEND_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("DAILYSPEND_TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	store, err := NewPostgresStore(ctx, url, 4)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()

	cat, err := store.CreateCategory(ctx, core.CategoryInput{Name: "it-groceries", Type: core.Spend})
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	defer store.DeleteCategory(ctx, cat.ID)

	if _, err := store.CreateCategory(ctx, core.CategoryInput{Name: "it-groceries", Type: core.Spend}); !errors.Is(err, core.ErrConflict) {
		t.Fatalf("expected ErrConflict for duplicate name, got %v", err)
	}

	txn, err := store.CreateTransaction(ctx, core.TransactionInput{
		Type:       core.Spend,
		CategoryID: cat.ID,
		Amount:     &core.Money{Cents: 5000},
		TxnDate:    core.NewDate(2025, 3, 5),
	})
	if err != nil {
		t.Fatalf("create transaction: %v", err)
	}
	if txn.CategoryName != "it-groceries" {
		t.Fatalf("expected joined category name, got %q", txn.CategoryName)
	}

	if err := store.DeleteCategory(ctx, cat.ID); !errors.Is(err, core.ErrConflict) {
		t.Fatalf("expected ErrConflict while referenced, got %v", err)
	}

	if err := store.DeleteTransaction(ctx, txn.ID); err != nil {
		t.Fatalf("delete transaction: %v", err)
	}
}
