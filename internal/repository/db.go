package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the slice of *pgxpool.Pool the repositories depend on.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

var (
	// ErrConflict is returned when a unique constraint rejects a write.
	ErrConflict = errors.New("conflicting record")
	// ErrInvalidReference is returned when a foreign key rejects a write.
	ErrInvalidReference = errors.New("referenced record does not exist")
	// ErrInvalidID is returned when Postgres rejects an identifier that is not a UUID.
	ErrInvalidID = errors.New("malformed identifier")
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgInvalidTextRepr     = "22P02"
)

// TranslateError maps constraint violations and malformed ids onto repository sentinels.
// Errors that are already sentinels, or are not from Postgres, pass through unchanged.
func TranslateError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("%w: %s", ErrConflict, pgErr.ConstraintName)
		case pgForeignKeyViolation:
			return fmt.Errorf("%w: %s", ErrInvalidReference, pgErr.ConstraintName)
		case pgInvalidTextRepr:
			return fmt.Errorf("%w: %s", ErrInvalidID, pgErr.Message)
		}
	}
	return err
}

// withTx runs fn inside a transaction, committing on success and rolling back on any error.
func withTx(ctx context.Context, db DB, fn func(tx pgx.Tx) error) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
		return err
	}
	return tx.Commit(ctx)
}
