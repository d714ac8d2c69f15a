package repository

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrCategoryNotFound         = errors.New("category not found")
	ErrCategoryAlreadyExists    = errors.New("category with this name already exists")
	ErrProductNotFound          = errors.New("product not found")
	ErrProductAlreadyExists     = errors.New("product with this SKU already exists")
	ErrProductSlugAlreadyExists = errors.New("product with this slug already exists")
)

// pgUniqueViolation is the SQLSTATE for unique-constraint violations.
const pgUniqueViolation = "23505"

// IsUniqueViolation reports whether err is (or wraps) a unique-constraint
// violation. Violations can surface at the statement that caused them or,
// when two transactions race past an application-level pre-check, at commit
// time; callers translate both into the same conflict outcome.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

// IsUniqueViolationOn reports whether err is a unique-constraint violation
// on a constraint whose name mentions the given column. Postgres names its
// default unique indexes <table>_<column>_key.
func IsUniqueViolationOn(err error, column string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation &&
		strings.Contains(pgErr.ConstraintName, column)
}
