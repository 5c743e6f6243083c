package services

import (
	"delivery-tracking-service/internal/domain"
	"delivery-tracking-service/internal/ports"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// validID reports whether id can name a stored document. Anything else cannot
// exist, so callers treat it as not found.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// conflictError turns a unique-field rejection from the store into a
// validation failure. Other errors are returned unchanged.
func conflictError(err error) error {
	var ce *ports.ConflictError
	if !errors.As(err, &ce) {
		return err
	}

	field := ce.Field
	if field == "" {
		field = "value"
	}
	return &domain.ValidationError{
		Field:   field,
		Message: fmt.Sprintf("%s already exists", field),
	}
}
