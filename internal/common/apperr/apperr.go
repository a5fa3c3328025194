// Package apperr defines the error taxonomy shared by the lobby, game and
// draft services. Every rejection carries a stable machine-readable code and a
// human-readable message so the transport can answer the requesting client.
package apperr

import "errors"

// Kind classifies an error for propagation decisions
type Kind string

const (
	// KindValidation is a malformed request; it never mutates state
	KindValidation Kind = "validation"

	// KindConflict is a well-formed request that the current state rejects
	KindConflict Kind = "conflict"

	// KindNotFound is an unknown lobby, player or draft
	KindNotFound Kind = "not_found"

	// KindSessionEnded is an event for a finished or cancelled session
	KindSessionEnded Kind = "session_ended"

	// KindPersistence is a repository failure
	KindPersistence Kind = "persistence"

	// KindInternal is anything not classified above
	KindInternal Kind = "internal"
)

// Error is a classified, coded error
type Error struct {
	kind    Kind
	code    string
	message string
	cause   error
}

// New creates a classified error
func New(kind Kind, code, message string) *Error {
	return &Error{kind: kind, code: code, message: message}
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.cause != nil {
		return e.message + ": " + e.cause.Error()
	}
	return e.message
}

// Kind returns the error classification
func (e *Error) Kind() Kind { return e.kind }

// Code returns the stable error code
func (e *Error) Code() string { return e.code }

// Message returns the human-readable message without the cause
func (e *Error) Message() string { return e.message }

// Unwrap returns the wrapped cause, if any
func (e *Error) Unwrap() error { return e.cause }

// Is matches errors with the same kind and code so that sentinel values
// compare equal to their wrapped copies.
func (e *Error) Is(target error) bool {
	var other *Error
	if !errors.As(target, &other) {
		return false
	}
	return e.kind == other.kind && e.code == other.code
}

// Wrap returns a copy of e carrying cause
func (e *Error) Wrap(cause error) *Error {
	return &Error{kind: e.kind, code: e.code, message: e.message, cause: cause}
}

// Persistence wraps a repository failure
func Persistence(op string, cause error) *Error {
	return &Error{kind: KindPersistence, code: "persistence_failed", message: op + " failed", cause: cause}
}

// KindOf returns the classification of err, or KindInternal
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.kind
	}
	return KindInternal
}

// CodeOf returns the stable code of err, or "internal"
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.code
	}
	return "internal"
}

// MessageOf returns the message suitable for a client
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.message
	}
	return "internal error"
}
