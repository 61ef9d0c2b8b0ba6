package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"dailyspend/internal/core"
)

// pgSchema is applied on startup. Postgres deployments usually run behind
// managed migrations; the idempotent DDL keeps a fresh database usable
// without extra tooling.
const pgSchema = `
CREATE TABLE IF NOT EXISTS categories (
    id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
    name TEXT NOT NULL UNIQUE,
    type TEXT NOT NULL CHECK (type IN ('SPEND', 'INCOME')),
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS transactions (
    id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
    type TEXT NOT NULL CHECK (type IN ('SPEND', 'INCOME')),
    category_id BIGINT NOT NULL REFERENCES categories (id),
    amount_cents BIGINT NOT NULL CHECK (amount_cents >= 0),
    method TEXT,
    note TEXT,
    txn_date DATE NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_transactions_txn_date ON transactions (txn_date);
CREATE INDEX IF NOT EXISTS idx_transactions_category_id ON transactions (category_id);
`

// PostgresStore implements Store over a pgx connection pool. The pool is
// the bounded resource of the request path: acquisition queues callers up
// to MaxConns rather than failing immediately.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects to databaseURL and applies the schema.
// maxConns <= 0 keeps the pgxpool default.
func NewPostgresStore(ctx context.Context, databaseURL string, maxConns int32) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	if maxConns > 0 {
		cfg.MaxConns = maxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pgx pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := pool.Exec(ctx, pgSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) CreateCategory(ctx context.Context, in core.CategoryInput) (core.Category, error) {
	var c core.Category
	err := s.pool.QueryRow(ctx,
		`INSERT INTO categories (name, type) VALUES ($1, $2)
		 RETURNING id, name, type, created_at`,
		in.Name, string(in.Type)).
		Scan(&c.ID, &c.Name, &c.Type, &c.CreatedAt)
	if err != nil {
		return core.Category{}, mapPostgresError(err, "create category")
	}

	slog.InfoContext(ctx, "Category created",
		"id", c.ID, "name", c.Name, "type", c.Type)
	return c, nil
}

func (s *PostgresStore) ListCategories(ctx context.Context, typeFilter core.CategoryType) ([]core.Category, error) {
	query := `SELECT id, name, type, created_at FROM categories ORDER BY type, name`
	args := []any{}
	if typeFilter != "" {
		query = `SELECT id, name, type, created_at FROM categories WHERE type = $1 ORDER BY name`
		args = append(args, string(typeFilter))
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	categories := []core.Category{}
	for rows.Next() {
		var c core.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Type, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (s *PostgresStore) GetCategory(ctx context.Context, id int64) (core.Category, error) {
	var c core.Category
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, type, created_at FROM categories WHERE id = $1`, id).
		Scan(&c.ID, &c.Name, &c.Type, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return core.Category{}, core.NotFound("not found")
	}
	if err != nil {
		return core.Category{}, fmt.Errorf("get category: %w", err)
	}
	return c, nil
}

func (s *PostgresStore) UpdateCategory(ctx context.Context, id int64, in core.CategoryInput) (core.Category, error) {
	var c core.Category
	err := s.pool.QueryRow(ctx,
		`UPDATE categories SET name = $1, type = $2 WHERE id = $3
		 RETURNING id, name, type, created_at`,
		in.Name, string(in.Type), id).
		Scan(&c.ID, &c.Name, &c.Type, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return core.Category{}, core.NotFound("not found")
	}
	if err != nil {
		return core.Category{}, mapPostgresError(err, "update category")
	}
	return c, nil
}

func (s *PostgresStore) DeleteCategory(ctx context.Context, id int64) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin delete category: %w", err)
	}
	defer tx.Rollback(ctx)

	var ref int64
	err = tx.QueryRow(ctx,
		`SELECT 1 FROM transactions WHERE category_id = $1 LIMIT 1`, id).Scan(&ref)
	if err == nil {
		return core.Conflict("category in use")
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("check category references: %w", err)
	}

	tag, err := tx.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		if isPgErr(err, "23503") {
			return core.Conflict("category in use")
		}
		return fmt.Errorf("delete category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return core.NotFound("not found")
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit delete category: %w", err)
	}

	slog.InfoContext(ctx, "Category deleted", "id", id)
	return nil
}

func (s *PostgresStore) CreateTransaction(ctx context.Context, in core.TransactionInput) (core.Transaction, error) {
	var id int64
	err := s.pool.QueryRow(ctx,
		`INSERT INTO transactions (type, category_id, amount_cents, method, note, txn_date)
		 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		string(in.Type), in.CategoryID, in.Amount.Cents,
		optional(in.Method), optional(in.Note), in.TxnDate.Time).
		Scan(&id)
	if err != nil {
		return core.Transaction{}, mapPostgresError(err, "create transaction")
	}

	slog.InfoContext(ctx, "Transaction created",
		"id", id,
		"type", in.Type,
		"category_id", in.CategoryID,
		"amount_cents", in.Amount.Cents,
		"txn_date", in.TxnDate.String())

	return s.GetTransaction(ctx, id)
}

const pgTransactionColumns = `
	t.id, t.type, t.category_id, c.name, t.amount_cents,
	t.method, t.note, t.txn_date, t.created_at
	FROM transactions t JOIN categories c ON c.id = t.category_id`

func (s *PostgresStore) GetTransaction(ctx context.Context, id int64) (core.Transaction, error) {
	row := s.pool.QueryRow(ctx, `SELECT`+pgTransactionColumns+` WHERE t.id = $1`, id)
	t, err := scanPgTransaction(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return core.Transaction{}, core.NotFound("not found")
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}
	return t, nil
}

func (s *PostgresStore) ListTransactions(ctx context.Context, f core.TransactionFilter) ([]core.Transaction, error) {
	query := `SELECT` + pgTransactionColumns + ` WHERE t.txn_date BETWEEN $1 AND $2`
	args := []any{f.From.Time, f.To.Time}
	if f.Type != "" {
		args = append(args, string(f.Type))
		query += fmt.Sprintf(` AND t.type = $%d`, len(args))
	}
	if f.CategoryID != 0 {
		args = append(args, f.CategoryID)
		query += fmt.Sprintf(` AND t.category_id = $%d`, len(args))
	}
	query += ` ORDER BY t.txn_date DESC, t.id DESC`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	txns := []core.Transaction{}
	for rows.Next() {
		t, err := scanPgTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		txns = append(txns, t)
	}
	return txns, rows.Err()
}

func (s *PostgresStore) UpdateTransaction(ctx context.Context, id int64, in core.TransactionInput) (core.Transaction, error) {
	tag, err := s.pool.Exec(ctx,
		`UPDATE transactions
		    SET type = $1, category_id = $2, amount_cents = $3, method = $4, note = $5, txn_date = $6
		  WHERE id = $7`,
		string(in.Type), in.CategoryID, in.Amount.Cents,
		optional(in.Method), optional(in.Note), in.TxnDate.Time, id)
	if err != nil {
		return core.Transaction{}, mapPostgresError(err, "update transaction")
	}
	if tag.RowsAffected() == 0 {
		return core.Transaction{}, core.NotFound("not found")
	}
	return s.GetTransaction(ctx, id)
}

func (s *PostgresStore) DeleteTransaction(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return core.NotFound("not found")
	}

	slog.InfoContext(ctx, "Transaction deleted", "id", id)
	return nil
}

// pgRow covers pgx.Row and pgx.Rows.
type pgRow interface {
	Scan(dest ...any) error
}

func scanPgTransaction(row pgRow) (core.Transaction, error) {
	var (
		t            core.Transaction
		method, note *string
	)
	err := row.Scan(&t.ID, &t.Type, &t.CategoryID, &t.CategoryName, &t.Amount.Cents,
		&method, &note, &t.TxnDate.Time, &t.CreatedAt)
	if err != nil {
		return core.Transaction{}, err
	}
	if method != nil {
		t.Method = *method
	}
	if note != nil {
		t.Note = *note
	}
	return t, nil
}

func isPgErr(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}

func mapPostgresError(err error, op string) error {
	switch {
	case isPgErr(err, "23505"): // unique_violation
		return core.Conflict("category already exists")
	case isPgErr(err, "23503"): // foreign_key_violation
		return core.InvalidInput("unknown category")
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
