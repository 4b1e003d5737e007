package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType classifies application errors so the API layer can map them to statuses
type ErrorType string

const (
	ErrorTypeNotFound   ErrorType = "NOT_FOUND"
	ErrorTypeValidation ErrorType = "VALIDATION"
	ErrorTypeConflict   ErrorType = "CONFLICT"
	ErrorTypeInternal   ErrorType = "INTERNAL"

	// ErrorTypeExternal marks a failed collaborator call (LLM, web search, geocoder)
	ErrorTypeExternal ErrorType = "EXTERNAL"

	// ErrorTypeDelivery marks a notification that could not be delivered to one recipient
	ErrorTypeDelivery ErrorType = "DELIVERY"
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

func NewNotFoundError(message string) *AppError {
	return &AppError{Type: ErrorTypeNotFound, Message: message}
}

func NewValidationError(message string) *AppError {
	return &AppError{Type: ErrorTypeValidation, Message: message}
}

func NewConflictError(message string) *AppError {
	return &AppError{Type: ErrorTypeConflict, Message: message}
}

func NewInternalError(message string, err error) *AppError {
	return &AppError{Type: ErrorTypeInternal, Message: message, Err: err}
}

// NewExternalError wraps a failure returned by an outside collaborator
func NewExternalError(message string, err error) *AppError {
	return &AppError{Type: ErrorTypeExternal, Message: message, Err: err}
}

// NewDeliveryError wraps a per-recipient notification failure
func NewDeliveryError(recipient string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeDelivery,
		Message: fmt.Sprintf("failed to notify %s", recipient),
		Err:     err,
	}
}

// IsType reports whether any AppError in err's chain has the given type
func IsType(err error, t ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == t
	}
	return false
}

// HTTPStatus maps an error to the status code handlers should respond with
func HTTPStatus(err error) int {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return http.StatusInternalServerError
	}

	switch appErr.Type {
	case ErrorTypeNotFound:
		return http.StatusNotFound
	case ErrorTypeValidation:
		return http.StatusBadRequest
	case ErrorTypeConflict:
		return http.StatusConflict
	case ErrorTypeExternal, ErrorTypeDelivery:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
