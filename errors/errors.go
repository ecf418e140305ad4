// Package errors provides the coded error type shared by all tek packages.
//
// Every error produced by the library is an *Error carrying a Code, so callers
// can match categories with errors.Is against a sentinel of the same code:
//
//	if errors.Is(err, config.ErrNoSuchOption) { ... }
package errors

import (
	"errors"
	"fmt"
)

// Code identifies an error category. Codes are stable and safe to match in tests.
type Code string

const (
	// General errors
	ErrInternal       Code = "INTERNAL"
	ErrInvalidInput   Code = "INVALID_INPUT"
	ErrNotEnoughSpace Code = "NOT_ENOUGH_DISK_SPACE"
	ErrProcess        Code = "PROCESS"

	// Configuration errors
	ErrNoSuchOption       Code = "NO_SUCH_OPTION"
	ErrNoSuchSection      Code = "NO_SUCH_SECTION"
	ErrDuplicateSection   Code = "DUPLICATE_SECTION"
	ErrClientNotConnected Code = "CLIENT_NOT_CONNECTED"
	ErrInvalidValue       Code = "INVALID_VALUE"
	ErrConfigLoad         Code = "CONFIG_LOAD"
)

// Error is the base application error.
type Error struct {
	Code    Code
	Message string
	Details map[string]any
	Wrapped error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *Error) Unwrap() error {
	return e.Wrapped
}

// Is reports whether target is an *Error with the same code.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// New creates an error with the given code and message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf creates an error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap wraps err with a code and message. A nil err yields nil.
func Wrap(err error, code Code, message string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: message, Wrapped: err}
}

// Wrapf wraps err with a code and formatted message. A nil err yields nil.
func Wrapf(err error, code Code, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Wrapped: err}
}

// WithDetail attaches a key/value detail and returns the receiver.
func (e *Error) WithDetail(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// CodeOf returns the code of the first *Error in err's chain, or "" if none.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsCode reports whether err's chain contains an *Error with the given code.
func IsCode(err error, code Code) bool {
	return CodeOf(err) == code
}

// Is and As re-export the standard library helpers so callers need only one import.
func Is(err, target error) bool { return errors.Is(err, target) }

// As is errors.As.
func As(err error, target any) bool { return errors.As(err, target) }
