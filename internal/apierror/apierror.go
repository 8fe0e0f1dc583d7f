// Package apierror provides the domain error kinds and the error envelope
// returned to clients. Services return *Error for conditions the caller can
// act on; anything else is treated as internal and never reaches the client.
package apierror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a client-recoverable failure.
type Kind string

const (
	KindValidation        Kind = "VALIDATION_ERROR"
	KindInvalidState      Kind = "INVALID_STATE"
	KindInvalidTransition Kind = "INVALID_TRANSITION"
	KindNotFound          Kind = "NOT_FOUND"
	KindConflict          Kind = "CONFLICT"

	// Boundary-only codes, never produced by services.
	KindBadRequest Kind = "BAD_REQUEST"
	KindInternal   Kind = "INTERNAL"
	KindAuth       Kind = "UNAUTHORIZED"
	KindRateLimit  Kind = "RATE_LIMITED"
)

// HTTPStatus maps a kind to its response status.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindValidation:
		return http.StatusUnprocessableEntity
	case KindInvalidState, KindInvalidTransition, KindConflict:
		return http.StatusConflict
	case KindNotFound:
		return http.StatusNotFound
	case KindBadRequest:
		return http.StatusBadRequest
	case KindAuth:
		return http.StatusUnauthorized
	case KindRateLimit:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// Error is a typed domain failure. Fields is only set for validation errors.
type Error struct {
	Kind    Kind
	Message string
	Fields  map[string]string
}

func (e *Error) Error() string {
	if len(e.Fields) > 0 {
		return fmt.Sprintf("%s: %s %v", e.Kind, e.Message, e.Fields)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Is matches on Kind so callers can write errors.Is(err, apierror.ErrNotFound).
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind && t.Message == ""
}

// Sentinels for errors.Is checks.
var (
	ErrValidation        = &Error{Kind: KindValidation}
	ErrInvalidState      = &Error{Kind: KindInvalidState}
	ErrInvalidTransition = &Error{Kind: KindInvalidTransition}
	ErrNotFound          = &Error{Kind: KindNotFound}
	ErrConflict          = &Error{Kind: KindConflict}
)

func Validation(fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Message: "validation failed", Fields: fields}
}

// ValidationField is shorthand for a single-field validation error.
func ValidationField(field, msg string) *Error {
	return Validation(map[string]string{field: msg})
}

func InvalidState(format string, args ...any) *Error {
	return &Error{Kind: KindInvalidState, Message: fmt.Sprintf(format, args...)}
}

func InvalidTransition(format string, args ...any) *Error {
	return &Error{Kind: KindInvalidTransition, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...any) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

// From extracts the domain error from err's chain, if any.
func From(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Success bool              `json:"success"`
	Code    Kind              `json:"code"`
	Detail  string            `json:"detail"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func New(code Kind, msg string) *APIError {
	return &APIError{Code: code, Detail: msg}
}

// NewValidation wraps multiple field errors.
func NewValidation(fields map[string]string) *APIError {
	return &APIError{Code: KindValidation, Detail: "validation failed", Fields: fields}
}

// Envelope renders a domain error for the client.
func Envelope(e *Error) *APIError {
	return &APIError{Code: e.Kind, Detail: e.Message, Fields: e.Fields}
}
