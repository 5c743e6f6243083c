package domain

import "errors"

// Error taxonomy shared by services and adapters. Classify with errors.Is.
var (
	ErrValidation        = errors.New("validation failed")
	ErrNotFound          = errors.New("not found")
	ErrInvalidCoordinate = errors.New("invalid coordinate")
	ErrDuplicatePoint    = errors.New("location already exists in package path")

	ErrInvalidTimestamp   = errors.New("invalid timestamp")
	ErrTimestampNotFuture = errors.New("timestamp not in the future")
	ErrTimestampTooOld    = errors.New("timestamp too old")
)

// ValidationError reports the first input constraint that was violated.
// Kind optionally narrows the failure (for example ErrTimestampTooOld).
type ValidationError struct {
	Field   string
	Message string
	Kind    error
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func (e *ValidationError) Unwrap() error { return e.Kind }

// NotFoundError reports a lookup by id that matched nothing.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return e.Entity + " with specified ID does not exist"
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// CoordinateError reports a missing, out-of-range or out-of-area location.
type CoordinateError struct {
	Message string
}

func (e *CoordinateError) Error() string { return e.Message }

func (e *CoordinateError) Is(target error) bool { return target == ErrInvalidCoordinate }
