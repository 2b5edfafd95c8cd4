// Package errors defines common error types for the search engine.
package errors

import (
	"errors"
	"fmt"
)

// Error codes for the application.
const (
	CodeUnknown            = "UNKNOWN_ERROR"
	CodeInvariantViolation = "INVARIANT_VIOLATION"
	CodeParseError         = "PARSE_ERROR"
	CodeInvalidInput       = "INVALID_INPUT"
	CodeConfigError        = "CONFIG_ERROR"
	CodeIOError            = "IO_ERROR"
	CodeDatabaseError      = "DATABASE_ERROR"
	CodeStorageError       = "STORAGE_ERROR"
	CodeNotFound           = "NOT_FOUND"
)

// AppError represents an application error with a code and message.
type AppError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is checks if the error matches the target.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// New creates a new AppError.
func New(code string, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with an AppError.
func Wrap(code string, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common error instances.
var (
	ErrInvariantViolation = New(CodeInvariantViolation, "search invariant violated")
	ErrParseError         = New(CodeParseError, "parse error")
	ErrInvalidInput       = New(CodeInvalidInput, "invalid input")
	ErrConfigError        = New(CodeConfigError, "configuration error")
	ErrIOError            = New(CodeIOError, "i/o error")
	ErrDatabaseError      = New(CodeDatabaseError, "database error")
	ErrStorageError       = New(CodeStorageError, "storage error")
	ErrNotFound           = New(CodeNotFound, "resource not found")
)

// IsInvariantViolation checks whether err signals a programmer invariant
// violation (DAG inconsistency, hash mismatch, DP overrun). These are bugs,
// never recoverable conditions, and callers should abort rather than retry.
func IsInvariantViolation(err error) bool {
	return errors.Is(err, ErrInvariantViolation)
}

// IsParseError checks if the error is a parse error.
func IsParseError(err error) bool {
	return errors.Is(err, ErrParseError)
}

// GetErrorCode extracts the error code from an error.
func GetErrorCode(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeUnknown
}

// GetErrorMessage extracts the error message from an error.
func GetErrorMessage(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	if err != nil {
		return err.Error()
	}
	return ""
}
