package book

import (
	"errors"
	"fmt"

	"bookshelf/internal/platform/validation"
)

var (
	// ErrNotFound is returned when a book is not found.
	ErrNotFound = errors.New("book not found")

	// ErrValidation is matched by every *ValidationError.
	ErrValidation = errors.New("validation failed")

	// ErrStorage wraps failures of the underlying store.
	ErrStorage = errors.New("storage failure")
)

// ValidationError is returned for invalid input.
type ValidationError struct {
	Message string
	Details []validation.FieldError
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Is makes errors.Is(err, ErrValidation) true.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func storageError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStorage, err)
}
