// Package repository provides the PostgreSQL Record Store for users,
// profiles, categories and tasks.
package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

var (
	// ErrNotFound is returned when no record has the requested identifier.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a write violates a uniqueness constraint.
	ErrDuplicate = errors.New("duplicate record")
	// ErrReference is returned when a write points at a missing record.
	ErrReference = errors.New("referenced record does not exist")
	// ErrCheck is returned when a write violates a check constraint.
	ErrCheck = errors.New("check constraint violated")
	// ErrOutOfRange is returned when a numeric value does not fit its column.
	ErrOutOfRange = errors.New("numeric value out of range")
)

// mapError translates driver errors into the package's sentinel errors,
// keeping the constraint name for diagnostics.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code.Name() {
		case "unique_violation":
			return fmt.Errorf("%w: %s", ErrDuplicate, pqErr.Constraint)
		case "foreign_key_violation":
			return fmt.Errorf("%w: %s", ErrReference, pqErr.Constraint)
		case "check_violation":
			return fmt.Errorf("%w: %s", ErrCheck, pqErr.Constraint)
		case "numeric_value_out_of_range":
			return fmt.Errorf("%w: %s", ErrOutOfRange, pqErr.Message)
		}
	}
	return err
}

// requireAffected turns a zero-row write into ErrNotFound.
func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
