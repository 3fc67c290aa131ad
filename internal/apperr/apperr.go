// Package apperr defines the error kinds returned by neovate-desk operations.
//
// Every failure is one of three kinds: the environment could not be resolved,
// caller input was rejected, or an underlying filesystem call failed. Callers
// format errors at the boundary (CLI output or the invoke bridge); packages
// only construct and wrap them.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an Error.
type Kind int

const (
	// KindUnknown is reported for errors not created by this package.
	KindUnknown Kind = iota
	// KindEnvironment means required process environment is missing.
	KindEnvironment
	// KindValidation means caller-supplied input was rejected before touching disk.
	KindValidation
	// KindIO means a filesystem operation failed.
	KindIO
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindEnvironment:
		return "environment"
	case KindValidation:
		return "validation"
	case KindIO:
		return "io"
	default:
		return "unknown"
	}
}

// Error is a classified, human-readable failure with an optional cause.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Environment returns an environment error.
func Environment(msg string) *Error {
	return &Error{Kind: KindEnvironment, Msg: msg}
}

// Validation returns a validation error with a formatted message.
func Validation(format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Msg: fmt.Sprintf(format, args...)}
}

// InvalidInput returns a validation error that wraps the parser or checker failure.
func InvalidInput(msg string, err error) *Error {
	return &Error{Kind: KindValidation, Msg: msg, Err: err}
}

// IO returns an I/O error wrapping its cause.
func IO(msg string, err error) *Error {
	return &Error{Kind: KindIO, Msg: msg, Err: err}
}

// KindOf reports the Kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
