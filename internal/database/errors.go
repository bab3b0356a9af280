package database

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const uniqueViolation = "23505"

// UniqueViolation is returned for a unique index violation. It matches
// gorm.ErrDuplicatedKey under errors.Is and keeps the name of the index.
type UniqueViolation struct {
	Constraint string
	Err        error
}

func (e *UniqueViolation) Error() string {
	return "duplicate key violates " + e.Constraint + ": " + e.Err.Error()
}

func (e *UniqueViolation) Unwrap() error { return gorm.ErrDuplicatedKey }

// ConstraintOf returns the index named by a unique violation, or "".
func ConstraintOf(err error) string {
	var uv *UniqueViolation
	if errors.As(err, &uv) {
		return uv.Constraint
	}
	return ""
}

// dialector keeps the constraint name that the postgres translator drops.
type dialector struct {
	*postgres.Dialector
}

func (d dialector) Translate(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return &UniqueViolation{Constraint: pgErr.ConstraintName, Err: err}
	}
	return d.Dialector.Translate(err)
}
