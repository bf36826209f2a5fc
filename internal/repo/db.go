// Package repo contains all database access logic for the Wanderkart API.
// Each resource has its own file with an interface and a Postgres implementation.
// No business logic lives here, only SQL and type mapping.
package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/pkordes/wanderkart/backend/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, *pgx.Conn, and pgx.Tx.
// Accepting it instead of *pgxpool.Pool lets integration tests pass a
// transaction that is rolled back after each test.
// Begin on a pgx.Tx opens a savepoint, so repos that need their own
// transaction work inside a test transaction too.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// scanner is satisfied by both pgx.Row and pgx.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// uniqueViolation is the Postgres SQLSTATE for unique_violation.
const uniqueViolation = "23505"

// foreignKeyViolation is the Postgres SQLSTATE for foreign_key_violation.
const foreignKeyViolation = "23503"

// checkViolation is the Postgres SQLSTATE for check_violation.
const checkViolation = "23514"

// mapError translates driver errors into domain sentinels where one applies.
func mapError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolation:
			return domain.ErrConflict
		case foreignKeyViolation:
			return domain.ErrNotFound
		case checkViolation:
			return fmt.Errorf("%w: %s rejected by %s", domain.ErrValidation, pgErr.TableName, pgErr.ConstraintName)
		}
	}
	return err
}
