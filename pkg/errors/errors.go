package errors

import (
	"fmt"
	"net/http"
)

// StandardError represents a standardized error response
type StandardError struct {
	Code    string `json:"error"`   // Error code/type (e.g., "ValidationError", "NotFound")
	Message string `json:"message"` // Human-readable error message
	Details string `json:"details"` // Additional details (field name, identifiers, etc.)
}

// Error implements the error interface
func (e *StandardError) Error() string {
	return e.Message
}

// HTTPStatus returns the appropriate HTTP status code for the error
func (e *StandardError) HTTPStatus() int {
	switch e.Code {
	case "InvalidRequest", "ValidationError":
		return http.StatusBadRequest
	case "NotFound":
		return http.StatusNotFound
	case "InsufficientStock", "Conflict":
		return http.StatusConflict
	case "Unauthorized":
		return http.StatusUnauthorized
	case "PersistenceError", "InternalError":
		return http.StatusInternalServerError
	case "BrokerConnectionError", "ServiceUnavailable":
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// NewStandardError creates a new StandardError
func NewStandardError(errorCode, message, details string) *StandardError {
	return &StandardError{
		Code:    errorCode,
		Message: message,
		Details: details,
	}
}

// Common error constructors

func NewValidationError(message, details string) *StandardError {
	return NewStandardError("ValidationError", message, details)
}

func NewNotFoundError(entity, id string) *StandardError {
	return NewStandardError("NotFound", fmt.Sprintf("%s not found", entity), id)
}

func NewInsufficientStockError(message, details string) *StandardError {
	return NewStandardError("InsufficientStock", message, details)
}

func NewPersistenceError(operation string, err error) *StandardError {
	return NewStandardError("PersistenceError", fmt.Sprintf("store operation failed: %s", operation), err.Error())
}

func NewBrokerConnectionError(err error) *StandardError {
	return NewStandardError("BrokerConnectionError", "failed to connect to event broker", err.Error())
}

func NewInternalError(message string, err error) *StandardError {
	details := ""
	if err != nil {
		details = err.Error()
	}
	return NewStandardError("InternalError", message, details)
}
