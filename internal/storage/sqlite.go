package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"dailyspend/internal/core"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store over a file-backed SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if necessary) the database at dbPath and
// runs pending migrations. Foreign keys are enforced so the schema backs
// up the check-then-delete path on categories.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	dsn := "file:" + dbPath + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := migrateSchema(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteStore) CreateCategory(ctx context.Context, in core.CategoryInput) (core.Category, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO categories (name, type) VALUES (?, ?)`,
		in.Name, string(in.Type))
	if err != nil {
		return core.Category{}, mapSQLiteError(err, "create category")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Category{}, fmt.Errorf("create category id: %w", err)
	}

	slog.InfoContext(ctx, "Category created",
		"id", id, "name", in.Name, "type", in.Type)

	return s.GetCategory(ctx, id)
}

func (s *SQLiteStore) ListCategories(ctx context.Context, typeFilter core.CategoryType) ([]core.Category, error) {
	query := `SELECT id, name, type, created_at FROM categories ORDER BY type, name`
	args := []any{}
	if typeFilter != "" {
		query = `SELECT id, name, type, created_at FROM categories WHERE type = ? ORDER BY name`
		args = append(args, string(typeFilter))
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	categories := []core.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (s *SQLiteStore) GetCategory(ctx context.Context, id int64) (core.Category, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, type, created_at FROM categories WHERE id = ?`, id)
	c, err := scanCategory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Category{}, core.NotFound("not found")
	}
	if err != nil {
		return core.Category{}, fmt.Errorf("get category: %w", err)
	}
	return c, nil
}

func (s *SQLiteStore) UpdateCategory(ctx context.Context, id int64, in core.CategoryInput) (core.Category, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE categories SET name = ?, type = ? WHERE id = ?`,
		in.Name, string(in.Type), id)
	if err != nil {
		return core.Category{}, mapSQLiteError(err, "update category")
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return core.Category{}, fmt.Errorf("update category: %w", err)
	}
	if affected == 0 {
		return core.Category{}, core.NotFound("not found")
	}
	return s.GetCategory(ctx, id)
}

// DeleteCategory refuses to remove a category that is still referenced.
// The check and the delete run in one transaction so they observe a
// consistent snapshot; the foreign key is the backstop for the narrow
// race a concurrent insert could open.
func (s *SQLiteStore) DeleteCategory(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete category: %w", err)
	}
	defer tx.Rollback()

	var ref int64
	err = tx.QueryRowContext(ctx,
		`SELECT 1 FROM transactions WHERE category_id = ? LIMIT 1`, id).Scan(&ref)
	if err == nil {
		return core.Conflict("category in use")
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("check category references: %w", err)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		if strings.Contains(err.Error(), "FOREIGN KEY constraint failed") {
			return core.Conflict("category in use")
		}
		return fmt.Errorf("delete category: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if affected == 0 {
		return core.NotFound("not found")
	}

	if err := tx.Commit(); err != nil {
		if strings.Contains(err.Error(), "FOREIGN KEY constraint failed") {
			return core.Conflict("category in use")
		}
		return fmt.Errorf("commit delete category: %w", err)
	}

	slog.InfoContext(ctx, "Category deleted", "id", id)
	return nil
}

func (s *SQLiteStore) CreateTransaction(ctx context.Context, in core.TransactionInput) (core.Transaction, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO transactions (type, category_id, amount_cents, method, note, txn_date)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		string(in.Type), in.CategoryID, in.Amount.Cents,
		optional(in.Method), optional(in.Note), in.TxnDate.String())
	if err != nil {
		return core.Transaction{}, mapSQLiteError(err, "create transaction")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Transaction{}, fmt.Errorf("create transaction id: %w", err)
	}

	slog.InfoContext(ctx, "Transaction created",
		"id", id,
		"type", in.Type,
		"category_id", in.CategoryID,
		"amount_cents", in.Amount.Cents,
		"txn_date", in.TxnDate.String())

	return s.GetTransaction(ctx, id)
}

const transactionColumns = `
	t.id, t.type, t.category_id, c.name, t.amount_cents,
	t.method, t.note, t.txn_date, t.created_at
	FROM transactions t JOIN categories c ON c.id = t.category_id`

func (s *SQLiteStore) GetTransaction(ctx context.Context, id int64) (core.Transaction, error) {
	row := s.db.QueryRowContext(ctx, `SELECT`+transactionColumns+` WHERE t.id = ?`, id)
	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, core.NotFound("not found")
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}
	return t, nil
}

func (s *SQLiteStore) ListTransactions(ctx context.Context, f core.TransactionFilter) ([]core.Transaction, error) {
	query := `SELECT` + transactionColumns + ` WHERE t.txn_date BETWEEN ? AND ?`
	args := []any{f.From.String(), f.To.String()}
	if f.Type != "" {
		query += ` AND t.type = ?`
		args = append(args, string(f.Type))
	}
	if f.CategoryID != 0 {
		query += ` AND t.category_id = ?`
		args = append(args, f.CategoryID)
	}
	query += ` ORDER BY t.txn_date DESC, t.id DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	txns := []core.Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		txns = append(txns, t)
	}
	return txns, rows.Err()
}

func (s *SQLiteStore) UpdateTransaction(ctx context.Context, id int64, in core.TransactionInput) (core.Transaction, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE transactions
		    SET type = ?, category_id = ?, amount_cents = ?, method = ?, note = ?, txn_date = ?
		  WHERE id = ?`,
		string(in.Type), in.CategoryID, in.Amount.Cents,
		optional(in.Method), optional(in.Note), in.TxnDate.String(), id)
	if err != nil {
		return core.Transaction{}, mapSQLiteError(err, "update transaction")
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return core.Transaction{}, fmt.Errorf("update transaction: %w", err)
	}
	if affected == 0 {
		return core.Transaction{}, core.NotFound("not found")
	}
	return s.GetTransaction(ctx, id)
}

func (s *SQLiteStore) DeleteTransaction(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if affected == 0 {
		return core.NotFound("not found")
	}

	slog.InfoContext(ctx, "Transaction deleted", "id", id)
	return nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanCategory(row scanner) (core.Category, error) {
	var (
		c         core.Category
		typ       string
		createdAt string
	)
	if err := row.Scan(&c.ID, &c.Name, &typ, &createdAt); err != nil {
		return core.Category{}, err
	}
	c.Type = core.CategoryType(typ)
	c.CreatedAt = parseTimestamp(createdAt)
	return c, nil
}

func scanTransaction(row scanner) (core.Transaction, error) {
	var (
		t            core.Transaction
		typ          string
		method, note sql.NullString
		txnDate      string
		createdAt    string
	)
	err := row.Scan(&t.ID, &typ, &t.CategoryID, &t.CategoryName, &t.Amount.Cents,
		&method, &note, &txnDate, &createdAt)
	if err != nil {
		return core.Transaction{}, err
	}
	t.Type = core.CategoryType(typ)
	t.Method = method.String
	t.Note = note.String
	if d, err := core.ParseDate(txnDate); err == nil {
		t.TxnDate = d
	}
	t.CreatedAt = parseTimestamp(createdAt)
	return t, nil
}

// parseTimestamp handles the formats SQLite emits for CURRENT_TIMESTAMP.
func parseTimestamp(s string) time.Time {
	for _, layout := range []string{"2006-01-02 15:04:05", time.RFC3339} {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts.UTC()
		}
	}
	return time.Time{}
}

// mapSQLiteError translates constraint violations into the domain error
// taxonomy; anything else propagates as a persistence failure.
func mapSQLiteError(err error, op string) error {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return core.Conflict("category already exists")
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return core.InvalidInput("unknown category")
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
