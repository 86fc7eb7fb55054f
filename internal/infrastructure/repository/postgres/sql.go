package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// querier is the subset of sqlx shared by *sqlx.DB and *sqlx.Tx.
// Repositories resolve it per call so the same repository works inside
// and outside a transaction.
type querier interface {
	GetContext(ctx context.Context, dest any, query string, args ...any) error
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func querierFrom(ctx context.Context, db *sqlx.DB) querier {
	if tx := txFrom(ctx); tx != nil {
		return tx
	}
	return db
}
