package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a domain error. Transport layers map kinds to status codes.
type ErrorKind string

const (
	KindNotFound          ErrorKind = "not_found"
	KindInvalidInput      ErrorKind = "invalid_input"
	KindConflict          ErrorKind = "conflict"
	KindInvalidTransition ErrorKind = "invalid_transition"
	KindForbidden         ErrorKind = "forbidden"
	KindUnauthorized      ErrorKind = "unauthorized"
	KindStorage           ErrorKind = "storage"
)

// Stable machine-readable error codes. Clients branch on these, never on messages.
const (
	CodeNotFound           = "RESOURCE_NOT_FOUND"
	CodeValidation         = "VALIDATION_ERROR"
	CodeBadDateFormat      = "BAD_DATE_FORMAT"
	CodeFlatUnavailable    = "FLAT_UNAVAILABLE"
	CodeDuplicatePending   = "BOOKING_DUPLICATE_PENDING"
	CodeNotPending         = "BOOKING_NOT_PENDING"
	CodeLeaseNotActive     = "LEASE_NOT_ACTIVE"
	CodeConstraint         = "CONSTRAINT_VIOLATION"
	CodeConcurrentUpdate   = "CONCURRENT_UPDATE"
	CodeEmailExists        = "AUTH_EMAIL_EXISTS"
	CodeInvalidCredentials = "AUTH_INVALID_CREDENTIALS"
	CodeUnauthorized       = "AUTH_UNAUTHORIZED"
	CodeForbidden          = "AUTH_FORBIDDEN"
	CodeStorage            = "STORAGE_ERROR"
)

// Error is the typed error returned by services and repositories.
type Error struct {
	Kind    ErrorKind
	Code    string
	Message string
	Details map[string]string
	cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error { return e.cause }

// Is matches another *Error by kind and code so errors.Is works with sentinel-style values.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Kind == t.Kind && e.Code == t.Code
}

// WithDetail returns the error with an extra detail entry.
func (e *Error) WithDetail(key, value string) *Error {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// NewNotFoundError reports a missing entity.
func NewNotFoundError(entity, id string) *Error {
	return &Error{
		Kind:    KindNotFound,
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s not found", entity),
		Details: map[string]string{"entity": entity, "id": id},
	}
}

// NewValidationError reports malformed or missing input.
func NewValidationError(message string) *Error {
	return &Error{Kind: KindInvalidInput, Code: CodeValidation, Message: message}
}

// NewInvalidInputError reports invalid input with a specific code.
func NewInvalidInputError(code, message string) *Error {
	return &Error{Kind: KindInvalidInput, Code: code, Message: message}
}

// NewConflictError reports a state conflict with a specific code.
func NewConflictError(code, message string) *Error {
	return &Error{Kind: KindConflict, Code: code, Message: message}
}

// NewInvalidTransitionError reports a status transition that is not allowed from current.
func NewInvalidTransitionError(code, message, current string) *Error {
	return &Error{
		Kind:    KindInvalidTransition,
		Code:    code,
		Message: message,
		Details: map[string]string{"current_status": current},
	}
}

// NewForbiddenError reports a caller lacking permission.
func NewForbiddenError(message string) *Error {
	return &Error{Kind: KindForbidden, Code: CodeForbidden, Message: message}
}

// NewUnauthorizedError reports a missing or invalid identity.
func NewUnauthorizedError(code, message string) *Error {
	return &Error{Kind: KindUnauthorized, Code: code, Message: message}
}

// NewStorageError wraps a persistence failure behind a generic message.
func NewStorageError(cause error) *Error {
	return &Error{Kind: KindStorage, Code: CodeStorage, Message: "storage operation failed", cause: cause}
}

// KindOf returns the kind of err, or KindStorage for errors that are not domain errors.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindStorage
}

// AsError converts err into a domain error, wrapping foreign errors as storage errors.
func AsError(err error) *Error {
	if err == nil {
		return nil
	}
	var de *Error
	if errors.As(err, &de) {
		return de
	}
	return NewStorageError(err)
}
