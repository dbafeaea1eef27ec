// Package apperr defines the error kinds surfaced at the HTTP boundary and maps
// them to status codes.
package apperr

import (
	"errors"
	"net/http"
)

// Kind classifies a failure by who caused it and how the client should react.
type Kind int

const (
	// KindInternal is anything not classified below.
	KindInternal Kind = iota
	// KindValidation is bad, missing or oversized input.
	KindValidation
	// KindAuthentication covers bad credentials and missing/invalid/expired tokens.
	KindAuthentication
	// KindNotFound means the referenced entity does not exist.
	KindNotFound
	// KindRateLimited means too many attempts from the same client.
	KindRateLimited
	// KindConfiguration means a required secret or setting is absent on the server.
	KindConfiguration
	// KindConflict means the operation cannot run against the current state.
	KindConflict
	// KindForbidden means the caller is known but not allowed.
	KindForbidden
	// KindUpstream means an external service failed.
	KindUpstream
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuthentication:
		return "authentication"
	case KindNotFound:
		return "not_found"
	case KindRateLimited:
		return "rate_limited"
	case KindConfiguration:
		return "configuration"
	case KindConflict:
		return "conflict"
	case KindForbidden:
		return "forbidden"
	case KindUpstream:
		return "upstream"
	default:
		return "internal"
	}
}

// kinded is implemented by errors that know their own kind.
type kinded interface {
	Kind() Kind
}

// Error is a classified error with an optional field name and cause.
type Error struct {
	Kind    Kind
	Field   string
	Message string
	Err     error
}

// New returns a classified error without a cause.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// Wrap returns a classified error that keeps err as its cause.
func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Message: msg, Err: err}
}

func (e *Error) Error() string {
	if e.Err != nil && e.Message == "" {
		return e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf walks the chain of err and returns the first kind found.
func KindOf(err error) Kind {
	if err == nil {
		return KindInternal
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	var k kinded
	if errors.As(err, &k) {
		return k.Kind()
	}
	return KindInternal
}

// HTTPStatus maps the kind of err to a response status.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuthentication:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	case KindRateLimited:
		return http.StatusTooManyRequests
	case KindConfiguration:
		return http.StatusNotImplemented
	case KindConflict:
		return http.StatusConflict
	case KindForbidden:
		return http.StatusForbidden
	case KindUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
