package service

import "errors"

var (
	// ErrForbidden is returned when a board or task belongs to another user.
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid nickname or password")
	ErrUserExists         = errors.New("nickname or email already registered")
	ErrUnauthenticated    = errors.New("unauthenticated")
)

// ValidationError reports a rejected input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
