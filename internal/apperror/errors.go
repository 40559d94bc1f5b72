// Package apperror defines the failure kinds shared by the services and their
// mapping to HTTP status codes.
package apperror

import (
	"errors"
	"net/http"
)

// Kind classifies a failure.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindConflict
	KindNotFound
	KindAuthentication
	KindInvalidToken
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not_found"
	case KindAuthentication:
		return "authentication"
	case KindInvalidToken:
		return "invalid_token"
	default:
		return "internal"
	}
}

// Error is a typed failure. Message is safe to show to API clients except
// for KindInternal, whose Message is replaced by a generic one at the HTTP
// boundary.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Validation reports malformed or missing input.
func Validation(message string) *Error { return newError(KindValidation, message) }

// Conflict reports a duplicate unique key.
func Conflict(message string) *Error { return newError(KindConflict, message) }

// NotFound reports a missing entity.
func NotFound(message string) *Error { return newError(KindNotFound, message) }

// Authentication reports a credential mismatch.
func Authentication(message string) *Error { return newError(KindAuthentication, message) }

// InvalidToken reports a bad, tampered or expired token.
func InvalidToken(message string) *Error { return newError(KindInvalidToken, message) }

// Internal wraps an unexpected failure.
func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Message: "internal error", Err: err}
}

// KindOf returns the kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// MessageOf returns the client-facing message of err, or fallback when err
// carries no *Error or is internal.
func MessageOf(err error, fallback string) string {
	var appErr *Error
	if errors.As(err, &appErr) && appErr.Kind != KindInternal {
		return appErr.Message
	}
	return fallback
}

// HTTPStatus maps a kind to its response status code.
func HTTPStatus(kind Kind) int {
	switch kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	case KindNotFound:
		return http.StatusNotFound
	case KindAuthentication, KindInvalidToken:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
