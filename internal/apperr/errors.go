// Package apperr classifies service errors into the kinds the HTTP layer
// answers with.
package apperr

import (
	"errors"
	"fmt"
	"net/http"

	goerrors "github.com/go-errors/errors"
)

type Kind string

const (
	KindNotFound        Kind = "NOT_FOUND"
	KindInvalidInput    Kind = "INVALID_INPUT"
	KindUnauthenticated Kind = "UNAUTHENTICATED"
	KindForbidden       Kind = "FORBIDDEN"
	KindConflict        Kind = "CONFLICT"
	KindInternal        Kind = "INTERNAL"
)

// Base errors. Packages wrap these into their own sentinels, e.g.
// fmt.Errorf("job %w", apperr.ErrNotFound).
var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidInput    = errors.New("invalid input")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrConflict        = errors.New("conflict")
)

type Error struct {
	Kind    Kind
	Message string
	Err     error
	Stack   []byte
}

func (e *Error) Error() string {
	if e.Err != nil && e.Err.Error() != e.Message {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Status maps the kind onto an HTTP status code.
func (e *Error) Status() int {
	switch e.Kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindInvalidInput:
		return http.StatusBadRequest
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func New(kind Kind, message string, err error) *Error {
	var stack []byte
	if kind == KindInternal {
		if err != nil {
			if stackErr, ok := err.(*goerrors.Error); ok {
				stack = stackErr.Stack()
			} else {
				stack = goerrors.Wrap(err, 2).Stack()
			}
		} else {
			stack = goerrors.New(message).Stack()
		}
	}
	return &Error{Kind: kind, Message: message, Err: err, Stack: stack}
}

func InvalidInput(message string, err error) *Error {
	return New(KindInvalidInput, message, err)
}

func Internal(message string, err error) *Error {
	return New(KindInternal, message, err)
}

// From classifies err. Errors that wrap none of the base errors are
// internal and carry a stack.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	switch {
	case errors.Is(err, ErrNotFound):
		return New(KindNotFound, err.Error(), err)
	case errors.Is(err, ErrInvalidInput):
		return New(KindInvalidInput, err.Error(), err)
	case errors.Is(err, ErrUnauthenticated):
		return New(KindUnauthenticated, err.Error(), err)
	case errors.Is(err, ErrForbidden):
		return New(KindForbidden, err.Error(), err)
	case errors.Is(err, ErrConflict):
		return New(KindConflict, err.Error(), err)
	default:
		return New(KindInternal, "internal error", err)
	}
}
