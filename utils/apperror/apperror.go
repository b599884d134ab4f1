// Package apperror defines the error kinds shared by services and handlers.
// Every error returned across a service boundary carries exactly one kind,
// so callers can branch with errors.Is without inspecting messages.
package apperror

import (
	"errors"
	"fmt"
)

// Error kinds. Match with errors.Is.
var (
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrPreconditionFailed = errors.New("precondition failed")
	ErrConflict           = errors.New("conflict")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrInvariantViolation = errors.New("invariant violation")
)

// Error carries a kind, the failing operation and a caller-facing message.
type Error struct {
	Op      string // e.g. "purchase.Purchase"
	Kind    error
	Message string
	Err     error // underlying cause, optional
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

// Unwrap returns the cause when present, otherwise the kind.
func (e *Error) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return e.Kind
}

// Is matches the kind as well as anything in the cause chain.
func (e *Error) Is(target error) bool {
	if e.Kind != nil && errors.Is(e.Kind, target) {
		return true
	}
	if e.Err != nil && errors.Is(e.Err, target) {
		return true
	}
	return false
}

// New creates an error of the given kind.
func New(op string, kind error, message string) *Error {
	return &Error{Op: op, Kind: kind, Message: message}
}

// Wrap creates an error of the given kind around a cause.
func Wrap(op string, kind error, message string, err error) *Error {
	return &Error{Op: op, Kind: kind, Message: message, Err: err}
}

func NotFound(op, message string) *Error {
	return New(op, ErrNotFound, message)
}

func Forbidden(op, message string) *Error {
	return New(op, ErrForbidden, message)
}

func Unauthorized(op, message string) *Error {
	return New(op, ErrUnauthorized, message)
}

func PreconditionFailed(op, message string) *Error {
	return New(op, ErrPreconditionFailed, message)
}

func Conflict(op, message string) *Error {
	return New(op, ErrConflict, message)
}

func InvalidArgument(op, message string) *Error {
	return New(op, ErrInvalidArgument, message)
}

func InvariantViolation(op, message string) *Error {
	return New(op, ErrInvariantViolation, message)
}

// KindOf returns the kind of err, or nil when err carries none.
func KindOf(err error) error {
	for _, kind := range []error{
		ErrNotFound,
		ErrForbidden,
		ErrUnauthorized,
		ErrPreconditionFailed,
		ErrConflict,
		ErrInvalidArgument,
		ErrInvariantViolation,
	} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}

// MessageOf returns the caller-facing message of the outermost *Error in err.
func MessageOf(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return ""
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}
