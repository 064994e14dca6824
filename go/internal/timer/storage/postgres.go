package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/sqlc-dev/pqtype"

	"github.com/mcdev12/debatify/go/internal/timer"
)

// DefaultTable holds one row per storage key.
const DefaultTable = "timer_storage"

// PostgresStore keeps the timer record in a jsonb column.
type PostgresStore struct {
	db    *sql.DB
	table string
	key   string
}

// NewPostgresStore uses db, which must be opened with the "postgres" driver.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db, table: pq.QuoteIdentifier(DefaultTable), key: timer.StorageKey}
}

// EnsureSchema creates the storage table if it does not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	query := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	key        text PRIMARY KEY,
	value      jsonb,
	updated_at timestamptz NOT NULL DEFAULT now()
)`, s.table)

	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("create %s: %w", DefaultTable, err)
	}
	return nil
}

func (s *PostgresStore) Load(ctx context.Context) ([]byte, error) {
	var value pqtype.NullRawMessage
	err := s.db.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT value FROM %s WHERE key = $1`, s.table), s.key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, timer.ErrNoRecord
	}
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", s.key, err)
	}
	if !value.Valid {
		return nil, timer.ErrNoRecord
	}
	return value.RawMessage, nil
}

func (s *PostgresStore) Save(ctx context.Context, data []byte) error {
	value := pqtype.NullRawMessage{RawMessage: data, Valid: len(data) > 0}
	_, err := s.db.ExecContext(ctx, fmt.Sprintf(`INSERT INTO %s (key, value, updated_at)
VALUES ($1, $2, now())
ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`, s.table),
		s.key, value)
	if err != nil {
		return fmt.Errorf("upsert %s: %w", s.key, err)
	}
	return nil
}

func (s *PostgresStore) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE key = $1`, s.table), s.key)
	if err != nil {
		return fmt.Errorf("delete %s: %w", s.key, err)
	}
	return nil
}
