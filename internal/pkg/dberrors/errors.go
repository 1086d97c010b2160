package dberrors

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL error codes
const (
	codeUniqueViolation = "23505"
	codeUndefinedTable  = "42P01"
)

func pgError(err error) (*pgconn.PgError, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr, true
	}
	return nil, false
}

// IsDuplicateConstraintError reports a unique violation on the named constraint
func IsDuplicateConstraintError(err error, constraintName string) bool {
	pgErr, ok := pgError(err)
	return ok && pgErr.Code == codeUniqueViolation && pgErr.ConstraintName == constraintName
}

// IsUndefinedTable reports a query against a table that does not exist,
// which usually means migrations have not run
func IsUndefinedTable(err error) bool {
	pgErr, ok := pgError(err)
	return ok && pgErr.Code == codeUndefinedTable
}
