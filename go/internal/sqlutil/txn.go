package sqlutil

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// TxBeginner is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Run executes fn inside a pgx.Tx.
// If fn returns an error the tx rolls back, else it commits.
func Run[T any](
	ctx context.Context,
	db TxBeginner,
	bind func(pgx.Tx) T,
	fn func(q T) error,
) error {
	tx, err := db.Begin(ctx) // BEGIN
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(bind(tx)); err != nil {
		_ = tx.Rollback(ctx) // ROLLBACK
		return err
	}
	if err := tx.Commit(ctx); err != nil { // COMMIT
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
