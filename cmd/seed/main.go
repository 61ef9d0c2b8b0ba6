// Command seed fills the database with demo categories and transactions so
// the dashboard has something to show on a fresh install.
package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/joho/godotenv"

	"dailyspend/internal/config"
	"dailyspend/internal/core"
	applog "dailyspend/internal/log"
	"dailyspend/internal/services"
	"dailyspend/internal/storage"
)

var seedCategories = []core.CategoryInput{
	{Name: "Groceries", Type: core.Spend},
	{Name: "Rent", Type: core.Spend},
	{Name: "Transport", Type: core.Spend},
	{Name: "Eating out", Type: core.Spend},
	{Name: "Utilities", Type: core.Spend},
	{Name: "Salary", Type: core.Income},
	{Name: "Freelance", Type: core.Income},
}

var methods = []string{"card", "cash", "transfer", ""}

func main() {
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig()).WithComponent(applog.ComponentSeed)
	applog.SetDefault(logger)

	count := flag.Int("transactions", 120, "number of transactions to generate")
	months := flag.Int("months", 3, "spread transactions over the last N months")
	seed := flag.Int64("seed", 0, "random seed (0 = random)")
	flag.Parse()

	if *seed != 0 {
		gofakeit.Seed(*seed)
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", applog.FieldError, err)
		os.Exit(1)
	}

	ctx := context.Background()

	store, err := openStore(ctx, cfg)
	if err != nil {
		logger.Error("Failed to initialize storage",
			applog.FieldError, err,
			"backend", cfg.DataBackend)
		os.Exit(1)
	}

	svc := services.NewLedgerService(store, nil)
	defer svc.Close()

	categories := make([]core.Category, 0, len(seedCategories))
	for _, in := range seedCategories {
		cat, err := svc.CreateCategory(ctx, in)
		if err != nil {
			// Re-running the seeder against an existing database is fine;
			// pick up the category that is already there.
			if errors.Is(err, core.ErrConflict) {
				existing, lookupErr := findCategory(ctx, svc, in)
				if lookupErr != nil {
					logger.Error("Failed to look up existing category",
						applog.FieldCategoryName, in.Name,
						applog.FieldError, lookupErr)
					os.Exit(1)
				}
				categories = append(categories, existing)
				continue
			}
			logger.Error("Failed to create category",
				applog.FieldCategoryName, in.Name,
				applog.FieldError, err)
			os.Exit(1)
		}
		categories = append(categories, cat)
	}
	logger.Info("Categories ready", "count", len(categories))

	created := 0
	now := time.Now()
	for i := 0; i < *count; i++ {
		cat := categories[gofakeit.Number(0, len(categories)-1)]

		var cents int64
		var note string
		if cat.Type == core.Income {
			cents = int64(gofakeit.Number(50000, 350000))
			note = "payout"
		} else {
			cents = int64(gofakeit.Number(100, 20000))
			note = gofakeit.ProductName()
		}

		daysBack := gofakeit.Number(0, *months*30-1)
		day := now.AddDate(0, 0, -daysBack)
		amount := core.Money{Cents: cents}

		_, err := svc.CreateTransaction(ctx, core.TransactionInput{
			Type:       cat.Type,
			CategoryID: cat.ID,
			Amount:     &amount,
			Method:     methods[gofakeit.Number(0, len(methods)-1)],
			Note:       note,
			TxnDate:    core.NewDate(day.Year(), int(day.Month()), day.Day()),
		})
		if err != nil {
			logger.Error("Failed to create transaction", applog.FieldError, err)
			os.Exit(1)
		}
		created++
	}

	logger.Info("Seed complete",
		"categories", len(categories),
		"transactions", created,
		"months", *months)
}

func findCategory(ctx context.Context, svc *services.LedgerService, in core.CategoryInput) (core.Category, error) {
	list, err := svc.ListCategories(ctx, in.Type)
	if err != nil {
		return core.Category{}, err
	}
	for _, c := range list {
		if c.Name == in.Name {
			return c, nil
		}
	}
	return core.Category{}, core.NotFound("not found")
}

func openStore(ctx context.Context, cfg *config.Config) (storage.Store, error) {
	switch cfg.DataBackend {
	case "postgres":
		return storage.NewPostgresStore(ctx, cfg.DatabaseURL, int32(cfg.PoolMaxConns))
	default:
		return storage.NewSQLiteStore(cfg.SQLiteDBPath)
	}
}
