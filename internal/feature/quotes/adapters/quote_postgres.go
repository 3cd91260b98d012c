package adapters

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"stock_etl/internal/feature/quotes/domain/entity"
	"stock_etl/internal/feature/quotes/usecase"
)

// CreateQuotesTableSQL creates the append-only quotes table. There is no key:
// repeated runs add duplicate rows for overlapping dates.
const CreateQuotesTableSQL = `CREATE TABLE IF NOT EXISTS quotes (
	symbol TEXT,
	open NUMERIC,
	high NUMERIC,
	low NUMERIC,
	close NUMERIC,
	volume BIGINT,
	timestamp DATE
)`

const insertQuoteSQL = `INSERT INTO quotes (symbol, open, high, low, close, volume, timestamp) VALUES ($1, $2, $3, $4, $5, $6, $7)`

// Conn is the part of *pgx.Conn the writer needs.
type Conn interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Close(ctx context.Context) error
}

// Connector opens a fresh connection.
type Connector func(ctx context.Context) (Conn, error)

// PgxConnector returns a Connector that dials connString with pgx.
func PgxConnector(connString string) Connector {
	return func(ctx context.Context) (Conn, error) {
		c, err := pgx.Connect(ctx, connString)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
}

type quotePostgres struct {
	connect Connector
}

var _ usecase.QuoteWriter = (*quotePostgres)(nil)

// NewQuoteWriter creates the relational sink. Every WriteRows call opens and
// closes its own connection.
func NewQuoteWriter(connect Connector) *quotePostgres {
	return &quotePostgres{connect: connect}
}

// WriteRows ensures the table exists and inserts quotes in order inside one
// transaction. Any failure rolls the whole batch back.
func (r *quotePostgres) WriteRows(ctx context.Context, quotes []entity.Quote) (err error) {
	conn, err := r.connect(ctx)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer func() {
		if cerr := conn.Close(context.WithoutCancel(ctx)); cerr != nil {
			slog.Warn("failed to close database connection", "error", cerr)
		}
	}()

	tx, err := conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err == nil {
			return
		}
		if rbErr := tx.Rollback(context.WithoutCancel(ctx)); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			slog.Warn("failed to roll back quotes batch", "error", rbErr)
		}
	}()

	if _, err = tx.Exec(ctx, CreateQuotesTableSQL); err != nil {
		return fmt.Errorf("create table: %w", err)
	}
	for i, q := range quotes {
		if _, err = tx.Exec(ctx, insertQuoteSQL, insertArgs(q)...); err != nil {
			return fmt.Errorf("insert row %d: %w", i, err)
		}
	}
	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// insertArgs returns the seven positional values in column order.
func insertArgs(q entity.Quote) []any {
	return []any{
		q.Symbol,
		numeric(q.Open),
		numeric(q.High),
		numeric(q.Low),
		numeric(q.Close),
		bigint(q.Volume),
		date(q.Timestamp),
	}
}

func numeric(v *float64) decimal.NullDecimal {
	if v == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(decimal.NewFromFloat(*v))
}

func bigint(v *int64) pgtype.Int8 {
	if v == nil {
		return pgtype.Int8{}
	}
	return pgtype.Int8{Int64: *v, Valid: true}
}

func date(v *time.Time) pgtype.Date {
	if v == nil {
		return pgtype.Date{}
	}
	return pgtype.Date{Time: *v, Valid: true}
}
