package extractive

import "docsumm/internal/domain/entity"

// InvalidInputError is returned when there is nothing to summarize.
// It matches entity.ErrInvalidInput with errors.Is.
type InvalidInputError struct {
	Reason string
}

func (e *InvalidInputError) Error() string {
	return "invalid input: " + e.Reason
}

// Is reports whether target is entity.ErrInvalidInput.
func (e *InvalidInputError) Is(target error) bool {
	return target == entity.ErrInvalidInput
}
