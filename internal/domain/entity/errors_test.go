package entity

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationError_Error(t *testing.T) {
	tests := []struct {
		name     string
		field    string
		message  string
		expected string
	}{
		{
			name:     "required field error",
			field:    "file",
			message:  "is required",
			expected: "validation error on field 'file': is required",
		},
		{
			name:     "length validation error",
			field:    "text",
			message:  "must not be empty",
			expected: "validation error on field 'text': must not be empty",
		},
		{
			name:     "empty field name",
			field:    "",
			message:  "test message",
			expected: "validation error on field '': test message",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := &ValidationError{Field: tt.field, Message: tt.message}
			assert.Equal(t, tt.expected, err.Error())
		})
	}
}

func TestValidationError_IsValidationFailed(t *testing.T) {
	var err error = &ValidationError{Field: "filename", Message: "is required"}
	wrapped := fmt.Errorf("upload: %w", err)

	assert.True(t, errors.Is(wrapped, ErrValidationFailed))
	assert.False(t, errors.Is(wrapped, ErrNotFound))

	var ve *ValidationError
	assert.True(t, errors.As(wrapped, &ve))
	assert.Equal(t, "filename", ve.Field)
}

func TestSentinelErrors_Distinct(t *testing.T) {
	assert.NotErrorIs(t, ErrNotFound, ErrInvalidInput)
	assert.NotErrorIs(t, ErrInvalidInput, ErrValidationFailed)
}
