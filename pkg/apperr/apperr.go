package apperr

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies an error so the delivery layer can map it to an HTTP status
// without inspecting message strings.
type Kind int

const (
	KindUpstream Kind = iota // failed call to an external service or unknown failure
	KindNotFound
	KindForbidden
	KindUnauthorized
	KindValidation
	KindInvalid // malformed client input
)

// Error is the single error type crossing usecase boundaries.
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

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func Forbidden(message string) *Error {
	return &Error{Kind: KindForbidden, Message: message}
}

func Unauthorized(message string) *Error {
	return &Error{Kind: KindUnauthorized, Message: message}
}

func Invalid(message string) *Error {
	return &Error{Kind: KindInvalid, Message: message}
}

// Validation reports every missing field at once, not just the first.
func Validation(message string, missingFields []string) *Error {
	return &Error{
		Kind:    KindValidation,
		Message: fmt.Sprintf("%s: %s", message, strings.Join(missingFields, ", ")),
	}
}

// Upstream wraps a failure from an external collaborator, keeping its cause.
func Upstream(message string, err error) *Error {
	return &Error{Kind: KindUpstream, Message: message, Err: err}
}

// KindOf returns the kind of err, or KindUpstream for untyped errors.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindUpstream
}

// Ensure converts an untyped error into an Upstream error; typed errors pass
// through unchanged so the orchestrator never double-wraps known kinds.
func Ensure(err error, message string) error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return err
	}
	return Upstream(message, err)
}
