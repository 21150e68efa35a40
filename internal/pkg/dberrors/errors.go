package dberrors

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL SQLSTATE codes the repositories translate
const (
	CodeNumericOutOfRange   = "22003"
	CodeForeignKeyViolation = "23503"
	CodeUniqueViolation     = "23505"
	CodeCheckViolation      = "23514"
)

// AsPgError unwraps err into a *pgconn.PgError when possible
func AsPgError(err error) (*pgconn.PgError, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr, true
	}
	return nil, false
}

// IsConstraintError checks whether err carries the given SQLSTATE code and
// constraint name. Errors raised outside a constraint (numeric overflow) have
// an empty constraint name.
func IsConstraintError(err error, code, constraintName string) bool {
	pgErr, ok := AsPgError(err)
	return ok && pgErr.Code == code && pgErr.ConstraintName == constraintName
}
