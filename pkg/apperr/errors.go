package apperr

import (
	"errors"
	"fmt"
)

// Sentinel errors for the expected, non-fatal outcomes of the API.
// Handlers map these onto HTTP status codes; everything else is a 500.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrRateLimited  = errors.New("daily rate limit exceeded")
	ErrNotFound     = errors.New("not found")
)

// ValidationError marks a rejected request field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func NewValidation(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
