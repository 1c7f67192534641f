// Package apperrors holds the error taxonomy shared by models and controllers.
// Handlers map these onto HTTP statuses in one place.
package apperrors

import (
	"errors"
	"fmt"
)

var (
	ErrValidation   = errors.New("validation failed")
	ErrNotFound     = errors.New("resource not found")
	ErrConflict     = errors.New("resource already exists")
	ErrForbidden    = errors.New("permission denied")
	ErrUnauthorized = errors.New("unauthorized")
)

// Error carries a client-facing message for one of the sentinel kinds above.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

func NotFound(format string, args ...interface{}) error {
	return &Error{Kind: ErrNotFound, Message: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...interface{}) error {
	return &Error{Kind: ErrConflict, Message: fmt.Sprintf(format, args...)}
}

func Forbidden(format string, args ...interface{}) error {
	return &Error{Kind: ErrForbidden, Message: fmt.Sprintf(format, args...)}
}

func Unauthorized(format string, args ...interface{}) error {
	return &Error{Kind: ErrUnauthorized, Message: fmt.Sprintf(format, args...)}
}

// ValidationError reports bad input, optionally per field.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return ErrValidation }

// Invalid builds a ValidationError for a single field.
func Invalid(field, message string) error {
	return &ValidationError{Message: message, Fields: map[string]string{field: message}}
}

// Invalidf builds a ValidationError without field details.
func Invalidf(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}
