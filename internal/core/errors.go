package core

import "errors"

// Sentinel errors partition every failure the API can return. The HTTP
// layer maps them to status codes; anything that matches none of them is
// a persistence failure and becomes a 500.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
)

// RequestError pairs a taxonomy kind with a short machine-stable reason.
// The reason is what clients see in the {error} body.
type RequestError struct {
	kind   error
	reason string
}

func (e *RequestError) Error() string { return e.reason }

func (e *RequestError) Unwrap() error { return e.kind }

// InvalidInput builds a validation failure with the given reason.
func InvalidInput(reason string) error {
	return &RequestError{kind: ErrInvalidInput, reason: reason}
}

// NotFound builds a missing-resource failure with the given reason.
func NotFound(reason string) error {
	return &RequestError{kind: ErrNotFound, reason: reason}
}

// Conflict builds a state-conflict failure with the given reason.
func Conflict(reason string) error {
	return &RequestError{kind: ErrConflict, reason: reason}
}
