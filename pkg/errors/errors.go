package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType classifies application errors for HTTP status mapping and logging.
type ErrorType string

const (
	TypeValidation         ErrorType = "validation"
	TypeNotFound           ErrorType = "not_found"
	TypeInternal           ErrorType = "internal"
	TypeServiceUnavailable ErrorType = "service_unavailable"
)

// AppError is the error type returned by handlers and services. It carries a
// caller-safe message plus optional details and a wrapped cause.
type AppError struct {
	Type    ErrorType
	Message string
	Details map[string]interface{}
	cause   error
}

func (e *AppError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.cause
}

// Status returns the HTTP status code for the error type.
func (e *AppError) Status() int {
	switch e.Type {
	case TypeValidation:
		return http.StatusBadRequest
	case TypeNotFound:
		return http.StatusNotFound
	case TypeServiceUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// NewValidationError creates an error for malformed or invalid requests.
func NewValidationError(message string, details map[string]interface{}) *AppError {
	return &AppError{Type: TypeValidation, Message: message, Details: details}
}

// NewNotFoundError creates an error for missing resources.
func NewNotFoundError(message string, details map[string]interface{}) *AppError {
	return &AppError{Type: TypeNotFound, Message: message, Details: details}
}

// NewInternalError creates an error for unexpected failures, wrapping the cause.
func NewInternalError(message string, cause error, details map[string]interface{}) *AppError {
	return &AppError{Type: TypeInternal, Message: message, Details: details, cause: cause}
}

// NewServiceUnavailableError creates an error for unreachable upstream services.
func NewServiceUnavailableError(message string, cause error) *AppError {
	return &AppError{Type: TypeServiceUnavailable, Message: message, cause: cause}
}

// AsAppError extracts an *AppError from err, if present.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
