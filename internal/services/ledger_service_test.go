package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"dailyspend/internal/core"
	"dailyspend/internal/storage"
)

func newTestService(t *testing.T) *LedgerService {
	t.Helper()
	store, err := storage.NewSQLiteStore(filepath.Join(t.TempDir(), "dailyspend.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	svc := NewLedgerService(store, nil)
	t.Cleanup(func() { svc.Close() })
	return svc
}

func TestCreateTransactionTypeMismatch(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	cat, err := svc.CreateCategory(ctx, core.CategoryInput{Name: "Salary", Type: core.Income})
	if err != nil {
		t.Fatalf("create category: %v", err)
	}

	_, err = svc.CreateTransaction(ctx, core.TransactionInput{
		Type:       core.Spend,
		CategoryID: cat.ID,
		Amount:     &core.Money{Cents: 100},
		TxnDate:    core.NewDate(2025, 3, 5),
	})
	if !errors.Is(err, core.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if err.Error() != "category type mismatch" {
		t.Fatalf("expected mismatch reason, got %q", err.Error())
	}

	// Nothing persisted.
	txns, err := svc.ListMonth(ctx, 2025, 3, "", 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(txns) != 0 {
		t.Fatalf("expected no transactions, got %d", len(txns))
	}
}

func TestCreateTransactionUnknownCategory(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.CreateTransaction(context.Background(), core.TransactionInput{
		Type:       core.Spend,
		CategoryID: 77,
		Amount:     &core.Money{Cents: 100},
		TxnDate:    core.NewDate(2025, 3, 5),
	})
	if !errors.Is(err, core.ErrInvalidInput) || err.Error() != "unknown category" {
		t.Fatalf("expected unknown category, got %v", err)
	}
}

func TestCategoryNameTrimmedOnCreate(t *testing.T) {
	svc := newTestService(t)
	cat, err := svc.CreateCategory(context.Background(), core.CategoryInput{Name: "  Groceries  ", Type: core.Spend})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if cat.Name != "Groceries" {
		t.Fatalf("expected trimmed name, got %q", cat.Name)
	}
}

func TestListCategoriesInvalidFilter(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.ListCategories(context.Background(), "WEIRD")
	if !errors.Is(err, core.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestListMonthRequiresPeriod(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.ListMonth(context.Background(), 0, 0, "", 0)
	if !errors.Is(err, core.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestSummarizeMonthEndToEnd(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	groceries, err := svc.CreateCategory(ctx, core.CategoryInput{Name: "Groceries", Type: core.Spend})
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	salary, err := svc.CreateCategory(ctx, core.CategoryInput{Name: "Salary", Type: core.Income})
	if err != nil {
		t.Fatalf("create category: %v", err)
	}

	for _, c := range []struct {
		typ   core.CategoryType
		catID int64
		cents int64
	}{
		{core.Spend, groceries.ID, 5000},
		{core.Spend, groceries.ID, 2500},
		{core.Income, salary.ID, 250000},
	} {
		if _, err := svc.CreateTransaction(ctx, core.TransactionInput{
			Type:       c.typ,
			CategoryID: c.catID,
			Amount:     &core.Money{Cents: c.cents},
			TxnDate:    core.NewDate(2025, 3, 5),
		}); err != nil {
			t.Fatalf("create transaction: %v", err)
		}
	}

	sum, err := svc.SummarizeMonth(ctx, 2025, 3)
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if sum.TotalSpend.Cents != 7500 || sum.TotalIncome.Cents != 250000 || sum.Net.Cents != 242500 {
		t.Fatalf("unexpected summary: %+v", sum)
	}
	if len(sum.SpendByCategory) != 1 || sum.SpendByCategory[0].Category != "Groceries" {
		t.Fatalf("unexpected spend rows: %+v", sum.SpendByCategory)
	}
}
