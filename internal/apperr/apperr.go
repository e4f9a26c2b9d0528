package apperr

import (
	"errors"
	"fmt"
)

// AppError represents a structured application error
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return &AppError{
			Code:    appErr.Code,
			Message: message,
			Cause:   appErr,
		}
	}
	return &AppError{
		Code:    CodeInternalError,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with formatted additional context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// GetCode returns the error code if it's an AppError, otherwise "UNKNOWN"
func GetCode(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return "UNKNOWN"
}

// HasCode reports whether err carries the given code.
func HasCode(err error, code string) bool {
	return GetCode(err) == code
}

// Predefined error codes. The engine's taxonomy: validation failures are
// precondition violations, computation failures are degenerate math,
// inapplicable is not a failure, timeout belongs to the offload path only.
const (
	CodeValidation    = "VALIDATION_ERROR"
	CodeComputation   = "COMPUTATION_ERROR"
	CodeInapplicable  = "INAPPLICABLE"
	CodeTimeout       = "TIMEOUT_ERROR"
	CodeNotFound      = "NOT_FOUND"
	CodeConfigInvalid = "CONFIG_INVALID"
	CodeInternalError = "INTERNAL_ERROR"
)

// Common error constructors

func Validation(message string) *AppError {
	return New(CodeValidation, message)
}

func Validationf(format string, args ...interface{}) *AppError {
	return New(CodeValidation, fmt.Sprintf(format, args...))
}

func Computation(message string) *AppError {
	return New(CodeComputation, message)
}

func Computationf(format string, args ...interface{}) *AppError {
	return New(CodeComputation, fmt.Sprintf(format, args...))
}

func Inapplicable(message string) *AppError {
	return New(CodeInapplicable, message)
}

func Timeout(message string) *AppError {
	return New(CodeTimeout, message)
}

func Timeoutf(format string, args ...interface{}) *AppError {
	return New(CodeTimeout, fmt.Sprintf(format, args...))
}

// WrapCode wraps an error under an explicit code.
func WrapCode(err error, code, message string) error {
	if err == nil {
		return nil
	}
	return &AppError{Code: code, Message: message, Cause: err}
}

func NotFound(resource string) *AppError {
	return New(CodeNotFound, fmt.Sprintf("%s not found", resource))
}

func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}
