package transaction

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound           = errors.New("transaction not found")
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// ValidationError reports a missing or malformed payload field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}

	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}

// IsValidation reports whether err carries a *ValidationError.
func IsValidation(err error) bool {
	var vErr *ValidationError
	return errors.As(err, &vErr)
}
