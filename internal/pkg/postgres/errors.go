package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL error codes.
const (
	uniqueViolation = "23505"
)

// IsUniqueViolation reports whether err is a unique-constraint violation.
// Repositories use it to translate races on unique keys into the same
// AlreadyExists failures the service-layer existence checks produce.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
