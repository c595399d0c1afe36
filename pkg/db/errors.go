package db

import (
	"errors"
	"slices"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

const uniqueViolationCode = "23505"

// IsUniqueViolation reports whether err is a unique constraint violation. When
// names are given, only violations of one of those constraints match. sqlite
// has no error codes; its text names the index, or table.column for inline
// UNIQUE columns, so callers pass that form as well.
func IsUniqueViolation(err error, names ...string) bool {
	if err == nil {
		return false
	}
	names = slices.DeleteFunc(slices.Clone(names), func(n string) bool { return n == "" })
	matches := func(constraint string) bool {
		return len(names) == 0 || slices.Contains(names, constraint)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolationCode && matches(pgErr.ConstraintName)
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == uniqueViolationCode && matches(pqErr.Constraint)
	}

	msg := err.Error()
	if !strings.Contains(msg, "duplicate key value") && !strings.Contains(msg, "UNIQUE constraint failed") {
		return false
	}
	if len(names) == 0 {
		return true
	}
	for _, name := range names {
		if strings.Contains(msg, name) {
			return true
		}
	}
	return false
}
