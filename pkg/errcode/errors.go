// Package errcode defines the coded error type used across shardmap-go.
//
// Every expected failure carries a stable code of the form SM-<AREA>-<NNNN>.
// Two errors match under errors.Is when their codes are equal, so callers can
// compare against the exported sentinels even after details or causes have
// been attached.
package errcode

import (
	"errors"
	"fmt"
)

// Error is an error with a structured code.
type Error struct {
	Code    string // e.g. "SM-TBL-5070"
	Message string
	Details string
	Cause   error
}

// New creates a new Error with the given code and message.
func New(code, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error with the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithDetails returns a copy of the error with additional details.
func (e *Error) WithDetails(details string) *Error {
	return &Error{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		Cause:   e.Cause,
	}
}

// WithDetailsf is WithDetails with fmt.Sprintf formatting.
func (e *Error) WithDetailsf(format string, args ...any) *Error {
	return e.WithDetails(fmt.Sprintf(format, args...))
}

// WithCause returns a copy of the error wrapping the given cause.
func (e *Error) WithCause(cause error) *Error {
	return &Error{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
		Cause:   cause,
	}
}

// Is checks if err is an *Error with the given code.
// If code is empty, it only checks that err is an *Error.
func Is(err error, code string) bool {
	var ce *Error
	if errors.As(err, &ce) {
		if code == "" {
			return true
		}
		return ce.Code == code
	}
	return false
}

// CodeOf extracts the code from err, or "" if err carries none.
func CodeOf(err error) string {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Code
	}
	return ""
}
