package services

import "errors"

var (
	ErrDuplicateEmail     = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvariant marks a programming failure, e.g. superuser creation
	// losing its flags. Never mapped to a client error.
	ErrInvariant = errors.New("invariant violation")
)

// ValidationError carries the field a rejected input belongs to so handlers
// can surface field-level detail.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

func invalid(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
