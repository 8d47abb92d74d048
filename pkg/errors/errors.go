package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType represents the kinds of failure a request can end in
type ErrorType string

const (
	// ErrorTypeValidation indicates a malformed field
	ErrorTypeValidation ErrorType = "VALIDATION"

	// ErrorTypeMissingField indicates a required field was absent
	ErrorTypeMissingField ErrorType = "MISSING_FIELD"

	// ErrorTypeUnauthorized indicates a bad password or missing session
	ErrorTypeUnauthorized ErrorType = "UNAUTHORIZED"

	// ErrorTypeStorage indicates the backing store failed
	ErrorTypeStorage ErrorType = "STORAGE"
)

// AppError represents an application error
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap implements the unwrap interface
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a new validation error
func NewValidationError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeValidation,
		Message: message,
	}
}

// NewMissingFieldError creates a new missing field error
func NewMissingFieldError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeMissingField,
		Message: message,
	}
}

// NewAuthError creates a new unauthorized error
func NewAuthError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeUnauthorized,
		Message: message,
	}
}

// NewStorageError creates a new storage error wrapping the store failure
func NewStorageError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeStorage,
		Message: message,
		Err:     err,
	}
}

// Is reports whether err is an AppError of the given type
func Is(err error, t ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == t
	}
	return false
}

// HTTPStatus maps an error to the status code returned to clients.
// Errors that are not AppErrors are treated as internal failures.
func HTTPStatus(err error) int {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return http.StatusInternalServerError
	}
	switch appErr.Type {
	case ErrorTypeValidation, ErrorTypeMissingField:
		return http.StatusBadRequest
	case ErrorTypeUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage returns the message safe to show to a client.
func PublicMessage(err error, fallback string) string {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	return fallback
}
