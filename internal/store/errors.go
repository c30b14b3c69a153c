package store

import (
	"errors"

	"github.com/duckdb/duckdb-go/v2"
	"github.com/lib/pq"
)

// ErrConstraintViolation matches any CHECK, UNIQUE, NOT NULL or foreign key failure
var ErrConstraintViolation = errors.New("constraint violation")

// ConstraintError carries the driver error behind a constraint violation
type ConstraintError struct {
	Constraint string // constraint name when the driver reports one
	Err        error
}

func (e *ConstraintError) Error() string {
	if e.Constraint != "" {
		return "constraint violation (" + e.Constraint + "): " + e.Err.Error()
	}
	return "constraint violation: " + e.Err.Error()
}

func (e *ConstraintError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrConstraintViolation) match
func (e *ConstraintError) Is(target error) bool { return target == ErrConstraintViolation }

// mapError turns driver-level integrity errors into *ConstraintError
func mapError(err error) error {
	if err == nil {
		return nil
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code.Class() == "23" {
		return &ConstraintError{Constraint: pqErr.Constraint, Err: err}
	}

	var duckErr *duckdb.Error
	if errors.As(err, &duckErr) && duckErr.Type == duckdb.ErrorTypeConstraint {
		return &ConstraintError{Err: err}
	}

	return err
}
