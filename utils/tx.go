package utils

import (
	"database/sql"
	"fmt"
)

// WithTransaction runs fn inside a database transaction. Multi-write engine
// operations (allocation fan-out, purchase pairs, expense deductions) must go
// through this so a partial failure never leaves the ledger half-applied.
func WithTransaction(db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback failed: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}
