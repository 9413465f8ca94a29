// Package errors provides structured error types for utitree.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI and the lookup server
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// The codes mirror the failure taxonomy of a run:
//   - PARSE_ERROR: a source record does not have the expected shape (fatal)
//   - INVALID_EDGE: a name lists itself as a parent (recovered, logged)
//   - SOURCE_UNAVAILABLE: a page or registry tool cannot be reached (fatal)
//   - CYCLIC_GRAPH: a name is transitively its own ancestor (fatal)
//   - INVALID_*, NOT_FOUND, IO_ERROR, NETWORK_ERROR, INTERNAL_ERROR
//
// # Usage
//
//	err := errors.New(errors.ErrCodeParse, "row %d: cannot parse %q", i, cell)
//	if errors.Is(err, errors.ErrCodeParse) {
//	    // Handle parse failure
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeSourceUnavailable, origErr, "fetch %s", url)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Source data errors
	ErrCodeParse             Code = "PARSE_ERROR"
	ErrCodeInvalidEdge       Code = "INVALID_EDGE"
	ErrCodeSourceUnavailable Code = "SOURCE_UNAVAILABLE"
	ErrCodeCyclicGraph       Code = "CYCLIC_GRAPH"

	// Input validation errors
	ErrCodeInvalidInput      Code = "INVALID_INPUT"
	ErrCodeInvalidSource     Code = "INVALID_SOURCE"
	ErrCodeInvalidFormat     Code = "INVALID_FORMAT"
	ErrCodeInvalidIdentifier Code = "INVALID_IDENTIFIER"
	ErrCodeInvalidPath       Code = "INVALID_PATH"

	// Resource not found errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// I/O and network errors
	ErrCodeIO      Code = "IO_ERROR"
	ErrCodeNetwork Code = "NETWORK_ERROR"
	ErrCodeTimeout Code = "TIMEOUT"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
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

// ExitCode maps an error to a process exit status. Every failure is
// non-zero; parse and source failures get distinct codes so scripts can
// tell bad data from an unreachable source.
func ExitCode(err error) int {
	switch GetCode(err) {
	case "":
		if err == nil {
			return 0
		}
		return 1
	case ErrCodeParse, ErrCodeCyclicGraph:
		return 65 // EX_DATAERR
	case ErrCodeSourceUnavailable, ErrCodeNetwork, ErrCodeTimeout:
		return 69 // EX_UNAVAILABLE
	case ErrCodeIO, ErrCodeFileNotFound:
		return 74 // EX_IOERR
	case ErrCodeInvalidInput, ErrCodeInvalidSource, ErrCodeInvalidFormat,
		ErrCodeInvalidIdentifier, ErrCodeInvalidPath:
		return 64 // EX_USAGE
	default:
		return 1
	}
}
