package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound is returned when the requested row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate maps a unique-constraint violation (pg 23505).
	ErrDuplicate = errors.New("duplicate row")

	// ErrReferenced maps a foreign-key restriction (pg 23503), e.g. deleting
	// a status still referenced by applications or history rows.
	ErrReferenced = errors.New("row is referenced")

	// ErrStageChanged is returned by the transition executor when the
	// application's current status no longer matches the expected stage at
	// the moment the row lock is acquired.
	ErrStageChanged = errors.New("application stage changed")
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// mapPgError folds constraint violations into the package sentinels so
// usecases never inspect driver errors.
func mapPgError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return ErrDuplicate
		case pgForeignKeyViolation:
			return ErrReferenced
		}
	}
	return err
}
