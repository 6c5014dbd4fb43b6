// Package domainerrors provides coded errors that travel from services to the
// transport layer. Stores return sentinel errors (pkg/platform/sentinel);
// services translate those into coded errors with caller-facing messages.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code classifies an error for callers. Every code maps to one HTTP status.
type Code string

const (
	// CodeInvalidInput marks a missing or malformed field, detectable before
	// any write (maps to 400).
	CodeInvalidInput Code = "invalid_input"

	// CodeConflict marks a duplicate unique identifier detected at write
	// time (maps to 409).
	CodeConflict Code = "conflict"

	// CodeNotFound marks an absent record or a dangling foreign reference
	// (maps to 404).
	CodeNotFound Code = "not_found"

	// CodeUnauthorized marks a missing or invalid credential (maps to 401).
	CodeUnauthorized Code = "unauthorized"

	// CodeForbidden marks an authenticated caller touching another tenant's
	// records (maps to 403).
	CodeForbidden Code = "forbidden"

	// CodeInternal marks store unavailability or a programming error. The
	// caller retries with backoff; the engine never retries on its own.
	CodeInternal Code = "internal_error"
)

// Error carries a code, a caller-facing message, and an optional cause.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// New creates a coded error with a caller-facing message.
func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

// Newf creates a coded error with a formatted caller-facing message.
func Newf(code Code, format string, args ...any) error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying cause. The cause is
// preserved for errors.Is/As but never rendered to callers.
func Wrap(err error, code Code, message string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: message, cause: err}
}

// HasCode reports whether err (or anything it wraps) carries the given code.
func HasCode(err error, code Code) bool {
	var coded *Error
	if errors.As(err, &coded) {
		return coded.Code == code
	}
	return false
}

// CodeOf extracts the code from err, defaulting to CodeInternal for errors
// that were never classified.
func CodeOf(err error) Code {
	var coded *Error
	if errors.As(err, &coded) {
		return coded.Code
	}
	return CodeInternal
}

// MessageOf extracts the caller-facing message from err. Unclassified errors
// yield an empty message so internals never leak.
func MessageOf(err error) string {
	var coded *Error
	if errors.As(err, &coded) {
		return coded.Message
	}
	return ""
}
