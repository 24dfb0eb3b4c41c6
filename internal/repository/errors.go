package repository

import (
	"errors"
	"fmt"
)

// NotFoundError means no row exists for a requested id. The business layer
// recovers from it only in the documented absence-is-not-failure cases.
type NotFoundError struct {
	Entity string
	ID     int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with id %d not found", e.Entity, e.ID)
}

// ValidationError means a candidate entity violates its required-field or
// range contract. It is raised before any storage write is attempted.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// InvalidQueryError means an identifier-typed query field is malformed,
// e.g. a non-numeric category. Malformed page/sort/direction values never
// produce it; those fall back to defaults.
type InvalidQueryError struct {
	Param string
	Value string
}

func (e *InvalidQueryError) Error() string {
	return fmt.Sprintf("invalid query parameter %s=%q", e.Param, e.Value)
}

// StorageError wraps a driver-level failure. It is never swallowed.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage failure during %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func IsNotFound(err error) bool {
	var notFound *NotFoundError
	return errors.As(err, &notFound)
}
