package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// TransactionManager is implemented by repositories whose operations span
// several statements. Issuance and credit-note creation depend on it: number
// allocation, stamping and locking must commit or roll back together.
type TransactionManager interface {
	// Begin opens a transaction on the underlying pool.
	Begin(ctx context.Context) (pgx.Tx, error)

	// Commit finalizes the transaction.
	Commit(ctx context.Context, tx pgx.Tx) error

	// Rollback discards the transaction. Safe to call after Commit.
	Rollback(ctx context.Context, tx pgx.Tx) error
}
