package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrTypeParsing        ErrorType = "PARSING"
	ErrTypeStorage        ErrorType = "STORAGE"
	ErrTypeValidation     ErrorType = "VALIDATION"
	ErrTypeConfig         ErrorType = "CONFIG"
	ErrTypeNotFound       ErrorType = "NOT_FOUND"
	ErrTypeInvalidMethod  ErrorType = "INVALID_METHOD"
	ErrTypeSchemaMismatch ErrorType = "SCHEMA_MISMATCH"
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

// Helper functions for common error types

// NewParsingError creates a parsing-related error
func NewParsingError(message string, cause error) *AppError {
	return NewAppError(ErrTypeParsing, message, cause)
}

// NewStorageError creates a storage-related error
func NewStorageError(message string, cause error) *AppError {
	return NewAppError(ErrTypeStorage, message, cause)
}

// NewAppValidationError creates a validation error
func NewAppValidationError(message string) *AppError {
	return NewAppError(ErrTypeValidation, message, nil)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}

// NewNotFoundError creates a not found error
func NewNotFoundError(resource string) *AppError {
	return NewAppError(ErrTypeNotFound, fmt.Sprintf("%s not found", resource), nil)
}

// NewInvalidMethodError signals an unrecognized outlier-method selector.
// Batch callers match it with IsInvalidMethod and skip the bad request
// without aborting the run.
func NewInvalidMethodError(method string) *AppError {
	return NewAppError(ErrTypeInvalidMethod,
		"outlier method must be 'iqr' or 'zscore'", nil).
		WithContext("method", method)
}

// NewSchemaMismatchError signals a merge against a health table whose schema
// lacks the expected indicator column.
func NewSchemaMismatchError(column string) *AppError {
	return NewAppError(ErrTypeSchemaMismatch,
		fmt.Sprintf("health table has no %q column", column), nil).
		WithContext("column", column)
}

// IsInvalidMethod reports whether err is an invalid-method condition.
func IsInvalidMethod(err error) bool {
	return hasType(err, ErrTypeInvalidMethod)
}

// IsSchemaMismatch reports whether err is a schema-mismatch condition.
func IsSchemaMismatch(err error) bool {
	return hasType(err, ErrTypeSchemaMismatch)
}

func hasType(err error, errType ErrorType) bool {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Type == errType
	}
	return false
}
