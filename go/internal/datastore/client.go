// Package datastore is a small select/insert/update/delete client over
// Postgres. Rows map onto structs by their db tags.
package datastore

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/debatify/go/internal/sqlutil"
)

// Executor runs statements. *pgxpool.Pool and pgx.Tx both satisfy it.
type Executor interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Client owns the connection pool.
type Client struct {
	pool *pgxpool.Pool
}

// Connect opens a pool for dsn and checks it with a ping.
func Connect(ctx context.Context, dsn string) (*Client, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Client{pool: pool}, nil
}

// Executor returns the pool for statements outside a transaction.
func (c *Client) Executor() Executor {
	return c.pool
}

// InTx runs fn in a transaction, rolling back when it returns an error.
func (c *Client) InTx(ctx context.Context, fn func(Executor) error) error {
	return sqlutil.Run(ctx, c.pool, func(tx pgx.Tx) Executor { return tx }, fn)
}

func (c *Client) Close() {
	c.pool.Close()
}

// Select returns every row matching q.
func Select[T any](ctx context.Context, ex Executor, q Query) ([]T, error) {
	sql, args, err := buildSelect(q)
	if err != nil {
		return nil, err
	}
	rows, err := ex.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", q.Table, err)
	}
	out, err := pgx.CollectRows(rows, pgx.RowToStructByName[T])
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", q.Table, err)
	}
	return out, nil
}

// SelectOne returns the single row matching q, or ErrNotFound.
func SelectOne[T any](ctx context.Context, ex Executor, q Query) (T, error) {
	var zero T
	sql, args, err := buildSelect(q)
	if err != nil {
		return zero, err
	}
	rows, err := ex.Query(ctx, sql, args...)
	if err != nil {
		return zero, fmt.Errorf("select %s: %w", q.Table, err)
	}
	return collectOne[T](q.Table, rows)
}

// Insert writes one row and returns it as stored.
func Insert[T any](ctx context.Context, ex Executor, table string, values Values) (T, error) {
	var zero T
	sql, args, err := buildInsert(table, []Values{values})
	if err != nil {
		return zero, err
	}
	rows, err := ex.Query(ctx, sql, args...)
	if err != nil {
		return zero, fmt.Errorf("insert %s: %w", table, err)
	}
	return collectOne[T](table, rows)
}

// InsertMany writes rows sharing the same columns in one statement.
func InsertMany[T any](ctx context.Context, ex Executor, table string, rows []Values) ([]T, error) {
	sql, args, err := buildInsert(table, rows)
	if err != nil {
		return nil, err
	}
	result, err := ex.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("insert %s: %w", table, err)
	}
	out, err := pgx.CollectRows(result, pgx.RowToStructByName[T])
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", table, err)
	}
	return out, nil
}

// Update applies values to the rows matching q and returns them.
func Update[T any](ctx context.Context, ex Executor, q Query, values Values) ([]T, error) {
	sql, args, err := buildUpdate(q, values)
	if err != nil {
		return nil, err
	}
	rows, err := ex.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("update %s: %w", q.Table, err)
	}
	out, err := pgx.CollectRows(rows, pgx.RowToStructByName[T])
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", q.Table, err)
	}
	return out, nil
}

// UpdateOne is Update for a filter expected to match exactly one row.
func UpdateOne[T any](ctx context.Context, ex Executor, q Query, values Values) (T, error) {
	var zero T
	sql, args, err := buildUpdate(q, values)
	if err != nil {
		return zero, err
	}
	rows, err := ex.Query(ctx, sql, args...)
	if err != nil {
		return zero, fmt.Errorf("update %s: %w", q.Table, err)
	}
	return collectOne[T](q.Table, rows)
}

// Delete removes the rows matching q and reports how many went.
func Delete(ctx context.Context, ex Executor, q Query) (int64, error) {
	sql, args, err := buildDelete(q)
	if err != nil {
		return 0, err
	}
	tag, err := ex.Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("delete %s: %w", q.Table, err)
	}
	log.Debug().Str("table", q.Table).Int64("rows", tag.RowsAffected()).Msg("deleted rows")
	return tag.RowsAffected(), nil
}

func collectOne[T any](table string, rows pgx.Rows) (T, error) {
	out, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[T])
	if errors.Is(err, pgx.ErrNoRows) {
		return out, fmt.Errorf("%s: %w", table, ErrNotFound)
	}
	if err != nil {
		return out, fmt.Errorf("scan %s: %w", table, err)
	}
	return out, nil
}
