package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Sentinel errors returned by repositories. Services translate these into the
// workflow error taxonomy.
var (
	// ErrNotFound means no row matched the given id, slug or username.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate means a unique constraint (slug, username) rejected a write.
	ErrDuplicate = errors.New("duplicate")
)

const uniqueViolationCode = "23505"

// isUniqueViolation reports whether err is a Postgres unique constraint
// violation.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}
