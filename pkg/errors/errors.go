// Package errors defines the coded errors shared by the CLI and the HTTP
// API.
//
// Codes group failures by who can fix them:
//   - INVALID_INPUT, INVALID_PATH, INVALID_LAYOUT: the caller sent a bad
//     request, depth, node cap, path or layout
//   - NOT_FOUND: a named resource (saved positions) does not exist
//   - ROOT_UNREADABLE: the document root could not be listed
//   - INTERNAL_ERROR: anything else
//
// A focus document that cannot be read is not an error. Builds return an
// empty result for it, so "nothing to show" stays distinct from "could not
// look".
//
//	if errors.Is(err, errors.ErrCodeInvalidPath) {
//	    // reject the request
//	}
package errors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Code is a machine-readable error category.
type Code string

const (
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidPath   Code = "INVALID_PATH"
	ErrCodeInvalidLayout Code = "INVALID_LAYOUT"

	ErrCodeNotFound       Code = "NOT_FOUND"
	ErrCodeRootUnreadable Code = "ROOT_UNREADABLE"

	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// HTTPStatus maps the code onto a response status.
func (c Code) HTTPStatus() int {
	switch c {
	case ErrCodeInvalidInput, ErrCodeInvalidPath, ErrCodeInvalidLayout:
		return http.StatusBadRequest
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeRootUnreadable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Error carries a Code, a message for the user and an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an Error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap returns an Error caused by cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	e := New(code, format, args...)
	e.Cause = cause
	return e
}

// Is reports whether the first *Error in err's chain has the given code.
func Is(err error, code Code) bool {
	return GetCode(err) == code
}

// GetCode returns the code of the first *Error in err's chain, or "".
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// Status returns the HTTP status for err. Cancelled and timed-out work
// reports 503 so clients retry instead of treating it as a server bug.
func Status(err error) int {
	if code := GetCode(err); code != "" {
		return code.HTTPStatus()
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// UserMessage returns err's message without the code prefix or cause.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
