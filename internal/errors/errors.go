package errors

import (
	"fmt"
)

// ErrorType classifies an application error. Parsing errors are fatal for
// the file being imported; Validation errors are row-level and recoverable.
type ErrorType string

const (
	ErrTypeParsing    ErrorType = "PARSING"
	ErrTypeValidation ErrorType = "VALIDATION"
	ErrTypeStorage    ErrorType = "STORAGE"
	ErrTypeConfig     ErrorType = "CONFIG"
	ErrTypeNotFound   ErrorType = "NOT_FOUND"
)

// AppError represents an application-specific error
type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap allows errors.Is and errors.As to work with AppError
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewAppError creates a new application error
func NewAppError(errType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// NewParsingError creates a file-level parsing error. These abort the
// whole file; no partial result is returned.
func NewParsingError(message string, cause error) *AppError {
	return NewAppError(ErrTypeParsing, message, cause)
}

// NewValidationError creates a row-level validation error.
func NewValidationError(message string, cause error) *AppError {
	return NewAppError(ErrTypeValidation, message, cause)
}

// NewStorageError creates a storage-related error
func NewStorageError(message string, cause error) *AppError {
	return NewAppError(ErrTypeStorage, message, cause)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}

// NewNotFoundError creates a not found error
func NewNotFoundError(resource string) *AppError {
	return NewAppError(ErrTypeNotFound, fmt.Sprintf("%s not found", resource), nil)
}
