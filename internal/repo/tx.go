package repo

import (
	"context"
	"database/sql"
	"fmt"
)

// WithTx runs fn inside a transaction and commits it, rolling back on any
// error. The final quantity checks of the sale paths run inside fn, so the
// store's isolation level is never the only guard against over-selling.
func WithTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}
