// Package api
// Author: momentics <momentics@gmail.com>
//
// Common error types and error handling utilities for rtospool.

package api

import (
	"errors"
	"fmt"
)

// Common errors used across the library. Every *Error unwraps to the
// sentinel matching its code, so callers may branch with errors.Is
// instead of inspecting codes.
var (
	ErrResourceExhausted = fmt.Errorf("resource exhausted")
	ErrInvalidArgument   = fmt.Errorf("invalid argument")
	ErrNotFound          = fmt.Errorf("resource not found")
)

// ErrorCode represents specific error conditions in the library.
type ErrorCode int

const (
	ErrCodeOK ErrorCode = iota
	ErrCodeInvalidArgument
	ErrCodeResourceExhausted
	ErrCodeNotFound
	ErrCodeInternal
)

// Error represents a structured error with code and context.
type Error struct {
	Code    ErrorCode
	Message string
	Context map[string]any
}

// Error implements the error interface.
func (e *Error) Error() string {
	if len(e.Context) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s (context: %+v)", e.Message, e.Context)
}

// NewError creates a new structured error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Context: make(map[string]any),
	}
}

// Unwrap maps the code to its sentinel for errors.Is matching.
func (e *Error) Unwrap() error {
	switch e.Code {
	case ErrCodeResourceExhausted:
		return ErrResourceExhausted
	case ErrCodeInvalidArgument:
		return ErrInvalidArgument
	case ErrCodeNotFound:
		return ErrNotFound
	default:
		return nil
	}
}

// WithContext adds context information to the error.
func (e *Error) WithContext(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// UnrecoverableError marks a condition that cannot be safely continued
// past: a mis-sized static capacity or corrupted slot state. The library
// never halts on its own; callers test with IsUnrecoverable and decide
// whether to abort, typically through diag.Sink.Fail.
type UnrecoverableError struct {
	Err error
}

func (e *UnrecoverableError) Error() string { return "unrecoverable: " + e.Err.Error() }

func (e *UnrecoverableError) Unwrap() error { return e.Err }

// Unrecoverable wraps err as an UnrecoverableError.
func Unrecoverable(err error) error {
	if err == nil {
		return nil
	}
	return &UnrecoverableError{Err: err}
}

// IsUnrecoverable reports whether any error in err's chain is unrecoverable.
func IsUnrecoverable(err error) bool {
	var ue *UnrecoverableError
	return errors.As(err, &ue)
}
