package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// DBTX is the subset of database/sql shared by *sql.DB and *sql.Tx.
// Repositories are written against it so a request's reads and writes can
// all be bound to the one transaction its scope opened.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// TxRunner binds one unit of work to one all-or-nothing transaction.
type TxRunner interface {
	WithinTx(ctx context.Context, fn func(q DBTX) error) error
}

type txRunner struct {
	db *sql.DB
}

// NewTxRunner creates a TxRunner over the shared pool.
func NewTxRunner(db *sql.DB) TxRunner {
	return &txRunner{db: db}
}

// WithinTx opens a transaction, runs fn against it and commits when fn
// returns nil. Any error, panic or context cancellation rolls the
// transaction back; the connection returns to the pool on every path.
func (r *txRunner) WithinTx(ctx context.Context, fn func(q DBTX) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			return fmt.Errorf("rollback failed: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		// A constraint violation can surface here instead of at the
		// statement that caused it; callers translate it the same way.
		tx.Rollback()
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
