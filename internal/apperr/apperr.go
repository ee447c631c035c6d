// Package apperr provides typed domain errors. Services return them and the
// web layer maps the Kind to an HTTP status.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind represents the category of error.
type Kind int

const (
	KindUnknown Kind = iota
	// KindValidation indicates invalid input data.
	KindValidation
	// KindBadRequest indicates a malformed request body.
	KindBadRequest
	// KindNotFound indicates a resource was not found.
	KindNotFound
	// KindUnavailable indicates an optional backend is not configured.
	KindUnavailable
	KindInternal
)

// Error is a domain error with a typed Kind for HTTP mapping.
type Error struct {
	Kind    Kind
	Message string
	Op      string
	Err     error
	// Details is sent to the client as-is, e.g. per-field validation messages.
	Details any
}

func (e *Error) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// HTTPStatus returns the HTTP status code for this error kind.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindValidation, KindBadRequest:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindUnavailable:
		return http.StatusServiceUnavailable
	case KindInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func (e *Error) WithOp(op string) *Error {
	e.Op = op
	return e
}

func (e *Error) WithDetails(details any) *Error {
	e.Details = details
	return e
}

func Validation(message string) *Error {
	return New(KindValidation, message)
}

func BadRequest(message string) *Error {
	return New(KindBadRequest, message)
}

func NotFound(message string) *Error {
	return New(KindNotFound, message)
}

func Unavailable(message string) *Error {
	return New(KindUnavailable, message)
}

func Internal(message string) *Error {
	return New(KindInternal, message)
}

// GetKind extracts the Kind from err, looking through wrapped errors.
func GetKind(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

func Is(err error, kind Kind) bool {
	return GetKind(err) == kind
}
