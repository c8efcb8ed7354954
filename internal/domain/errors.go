package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies service errors so the HTTP layer can pick a
// status code without inspecting message strings.
type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindValidation
	KindConflict
	KindNotFound
	KindUnavailable
)

// Issue is a single itemized validation failure.
type Issue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is the error type crossing the service boundary. Message is
// safe for clients; the wrapped error carries internal detail and is
// only ever logged server-side.
type Error struct {
	Kind    ErrorKind
	Message string
	Issues  []Issue
	err     error
}

func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.err }

func ValidationError(issues ...Issue) *Error {
	return &Error{Kind: KindValidation, Message: "validation failed", Issues: issues}
}

func ConflictError(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

func NotFoundError(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func UnavailableError(message string, err error) *Error {
	return &Error{Kind: KindUnavailable, Message: message, err: err}
}

func InternalError(message string, err error) *Error {
	return &Error{Kind: KindInternal, Message: message, err: err}
}

// KindOf extracts the kind from an error chain. Anything untyped is
// treated as internal.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// AsError unwraps err to the boundary error type, if present.
func AsError(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}
