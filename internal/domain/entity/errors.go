package entity

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned by repositories when no row matches a write.
	ErrNotFound = errors.New("entity not found")

	// ErrInvalidInput marks input that can never be summarized, such as empty text.
	ErrInvalidInput = errors.New("invalid input")

	// ErrValidationFailed matches every *ValidationError through errors.Is.
	ErrValidationFailed = errors.New("validation failed")
)

// ValidationError names the field of a document or request that was rejected.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidationFailed
}
