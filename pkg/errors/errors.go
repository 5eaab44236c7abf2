// Package errors provides structured error types for the template designer.
//
// The layout engine distinguishes three kinds of failure:
//   - benign no-ops (an id that no longer exists) which are never errors
//   - structural errors (unknown component type, version out of range,
//     no open session) surfaced as typed *Error values
//   - external I/O failures from persistence or generation collaborators,
//     wrapped with a code while keeping the cause reachable
//
// # Usage
//
//	err := errors.New(errors.ErrCodeUnknownComponentType, "unknown component type %q", typ)
//	if errors.Is(err, errors.ErrCodeUnknownComponentType) {
//	    // show palette error
//	}
//
//	// Wrap collaborator failures
//	err := errors.Wrap(errors.ErrCodeNetwork, origErr, "save template %s", id)
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
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidName   Code = "INVALID_TEMPLATE_NAME"
	ErrCodeEmptyPrompt   Code = "EMPTY_PROMPT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"

	// Structural errors raised by the layout engine
	ErrCodeUnknownComponentType Code = "UNKNOWN_COMPONENT_TYPE"
	ErrCodeVersionNotFound      Code = "VERSION_NOT_FOUND"
	ErrCodeNoActiveSession      Code = "NO_ACTIVE_SESSION"
	ErrCodeNoPendingGeneration  Code = "NO_PENDING_GENERATION"

	// Request sequencing errors
	ErrCodeRequestInFlight Code = "REQUEST_IN_FLIGHT"
	ErrCodeStaleResponse   Code = "STALE_RESPONSE"

	// Resource errors from persistence collaborators
	ErrCodeNotFound         Code = "NOT_FOUND"
	ErrCodeTemplateNotFound Code = "TEMPLATE_NOT_FOUND"
	ErrCodeConflict         Code = "TEMPLATE_CONFLICT"

	// Network errors
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
// Only the outermost *Error in the chain is consulted, so a wrapped
// collaborator failure reports the code it was wrapped with.
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

// IsStructural reports whether err is one of the layout engine's typed
// structural failures, as opposed to a collaborator I/O failure.
func IsStructural(err error) bool {
	switch GetCode(err) {
	case ErrCodeUnknownComponentType, ErrCodeVersionNotFound, ErrCodeNoActiveSession, ErrCodeNoPendingGeneration:
		return true
	}
	return false
}
