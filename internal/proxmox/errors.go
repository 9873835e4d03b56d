package proxmox

import (
	"errors"
	"fmt"
)

// ErrorKind is the closed set of failure classes produced by the pipeline.
type ErrorKind string

// Error kinds. Authentication and Permission are terminal: the executor
// propagates them on first occurrence and never retries them.
const (
	KindConnection     ErrorKind = "connection"
	KindAuthentication ErrorKind = "authentication"
	KindPermission     ErrorKind = "permission"
	KindNotFound       ErrorKind = "not_found"
	KindValidation     ErrorKind = "validation"
	KindAPIError       ErrorKind = "api_error"
	KindConfiguration  ErrorKind = "configuration"
)

// Error is a classified failure. It carries a kind, a human-readable message
// and a free-form context map (endpoint, status code, task id, ...) used for
// diagnostics. Errors are values returned to the caller, never panics.
type Error struct {
	Kind    ErrorKind
	Message string
	Context map[string]any

	cause error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.cause
}

// WithContext attaches a diagnostic key/value pair and returns the error.
func (e *Error) WithContext(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// Terminal reports whether the error must never be retried.
// Authentication and Permission cannot succeed on resubmission without
// caller action; the same holds for Validation and Configuration, which are
// produced before any network call.
func (e *Error) Terminal() bool {
	switch e.Kind {
	case KindAuthentication, KindPermission, KindValidation, KindConfiguration:
		return true
	}
	return false
}

func newError(kind ErrorKind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, cause: cause}
}

// NewConnectionError reports a transport-level failure: timeout, DNS failure,
// connection refused, or an exhausted retry budget wrapping the last failure.
func NewConnectionError(message string, cause error) *Error {
	return newError(KindConnection, message, cause)
}

// NewAuthenticationError reports a rejected credential (HTTP 401).
func NewAuthenticationError(message string) *Error {
	return newError(KindAuthentication, message, nil)
}

// NewPermissionError reports an authorization failure (HTTP 403).
func NewPermissionError(message string) *Error {
	return newError(KindPermission, message, nil)
}

// NewNotFoundError reports a missing resource (HTTP 404).
func NewNotFoundError(message string) *Error {
	return newError(KindNotFound, message, nil)
}

// NewValidationError reports malformed caller-supplied arguments, detected
// before any network call is made.
func NewValidationError(message string) *Error {
	return newError(KindValidation, message, nil)
}

// NewAPIError reports any other non-success API outcome, including response
// bodies that fail to parse.
func NewAPIError(message string, cause error) *Error {
	return newError(KindAPIError, message, cause)
}

// NewConfigurationError reports malformed connection configuration, detected
// at startup.
func NewConfigurationError(message string) *Error {
	return newError(KindConfiguration, message, nil)
}

// KindOf returns the ErrorKind of err, or an empty kind when err is not a
// classified *Error.
func KindOf(err error) ErrorKind {
	var perr *Error
	if errors.As(err, &perr) {
		return perr.Kind
	}
	return ""
}

// asError returns err as a classified *Error, wrapping unclassified errors
// as Connection failures so the retry loop always has a kind to act on.
func asError(err error) *Error {
	var perr *Error
	if errors.As(err, &perr) {
		return perr
	}
	return NewConnectionError("unexpected error", err)
}
