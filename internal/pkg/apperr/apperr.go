// Package apperr defines the error taxonomy shared by services and handlers.
// Every error carries a machine-readable kind, an HTTP status and a message
// safe to show to clients. Raw collaborator errors stay server-side as the
// wrapped cause.
package apperr

import (
	"errors"
	"net/http"
)

type Kind string

const (
	KindValidation         Kind = "VALIDATION_ERROR"
	KindConflict           Kind = "CONFLICT"
	KindNotFound           Kind = "NOT_FOUND"
	KindInvalidCredentials Kind = "INVALID_CREDENTIALS"
	KindUnauthorized       Kind = "UNAUTHORIZED"
	KindExpired            Kind = "TOKEN_EXPIRED"
	KindInternal           Kind = "INTERNAL_ERROR"
)

type Error struct {
	Kind    Kind
	Status  int
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Status: http.StatusBadRequest, Message: message}
}

func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Status: http.StatusConflict, Message: message}
}

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Status: http.StatusNotFound, Message: message}
}

func InvalidCredentials(message string) *Error {
	return &Error{Kind: KindInvalidCredentials, Status: http.StatusUnauthorized, Message: message}
}

func Unauthorized(message string) *Error {
	return &Error{Kind: KindUnauthorized, Status: http.StatusUnauthorized, Message: message}
}

func Expired(message string) *Error {
	return &Error{Kind: KindExpired, Status: http.StatusUnauthorized, Message: message}
}

// Internal wraps an unexpected collaborator failure. The client only ever
// sees the generic message; cause is kept for server-side logging.
func Internal(message string, cause error) *Error {
	return &Error{Kind: KindInternal, Status: http.StatusInternalServerError, Message: message, cause: cause}
}

// From extracts the *Error from err, or folds any foreign error into a
// generic internal one so that no raw detail reaches the client.
func From(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Internal("internal server error", err)
}
