// Package errors provides structured error types for lutforge.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across CLI and API
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Propagation policy
//
// Structural errors (UNKNOWN_FORMAT, INVALID_INPUT_COMBINATION,
// INVALID_OUTPUT_TARGET, INVALID_SIZE) indicate a caller contract
// violation and fail the whole operation before any I/O. Per-item errors
// during batch execution (MALFORMED_LUT, IO_FAILURE) are caught at the
// work-item boundary and reported as error-status results without
// aborting sibling items.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeUnknownFormat, "unknown log format: %s", name)
//	if errors.Is(err, errors.ErrCodeUnknownFormat) {
//	    // Handle lookup failure
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeIO, origErr, "write %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput            Code = "INVALID_INPUT"
	ErrCodeInvalidInputCombination Code = "INVALID_INPUT_COMBINATION"
	ErrCodeInvalidOutputTarget     Code = "INVALID_OUTPUT_TARGET"
	ErrCodeInvalidSize             Code = "INVALID_SIZE"
	ErrCodeUnknownFormat           Code = "UNKNOWN_FORMAT"
	ErrCodeUnknownAdaptation       Code = "UNKNOWN_ADAPTATION"

	// Per-item errors
	ErrCodeMalformedLUT Code = "MALFORMED_LUT"
	ErrCodeIO           Code = "IO_FAILURE"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
