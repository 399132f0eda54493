// Package apierror defines the error taxonomy every handler funnels into and
// the single boundary that turns an error into an HTTP response.
package apierror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure. Every kind except Internal is operational:
// its message is safe to return to the caller verbatim.
type Kind int

const (
	Internal Kind = iota
	Validation
	DuplicateKey
	NotFound
	Unauthenticated
	Forbidden
	InvalidCredentials
	InvalidOrExpiredToken
	UpstreamFailure
)

func (k Kind) String() string {
	switch k {
	case Validation:
		return "validation"
	case DuplicateKey:
		return "duplicate_key"
	case NotFound:
		return "not_found"
	case Unauthenticated:
		return "unauthenticated"
	case Forbidden:
		return "forbidden"
	case InvalidCredentials:
		return "invalid_credentials"
	case InvalidOrExpiredToken:
		return "invalid_or_expired_token"
	case UpstreamFailure:
		return "upstream_failure"
	default:
		return "internal"
	}
}

// Status maps a kind to its HTTP status code.
func (k Kind) Status() int {
	switch k {
	case Validation, DuplicateKey:
		return http.StatusBadRequest
	case NotFound:
		return http.StatusNotFound
	case Unauthenticated, InvalidCredentials:
		return http.StatusUnauthorized
	case Forbidden:
		return http.StatusForbidden
	case InvalidOrExpiredToken:
		return http.StatusBadRequest
	case UpstreamFailure:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Error carries a classified failure through the call stack.
type Error struct {
	Kind    Kind
	Message string
	Details any   // optional, e.g. per-field validation messages
	Err     error // wrapped cause, never exposed in production
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Operational reports whether the message may be exposed to the caller.
func (e *Error) Operational() bool { return e.Kind != Internal }

// New builds an Error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap builds an Error of the given kind around a cause.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// WithDetails attaches structured detail (e.g. field errors) to e.
func (e *Error) WithDetails(d any) *Error {
	e.Details = d
	return e
}

// As extracts an *Error from err, if any.
func As(err error) (*Error, bool) {
	var ae *Error
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}
