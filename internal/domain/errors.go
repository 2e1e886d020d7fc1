package domain

import (
	"errors"
	"net/http"
)

type ErrorCode string

const (
	ErrorCodeNotFound      ErrorCode = "NOT_FOUND"
	ErrorCodeInvalid       ErrorCode = "INVALID_ARGUMENT"
	ErrorCodeForbidden     ErrorCode = "FORBIDDEN"
	ErrorCodeUsernameTaken ErrorCode = "USERNAME_TAKEN"
	ErrorCodeConflict      ErrorCode = "CONFLICT"
	ErrorCodeBadState      ErrorCode = "INVALID_STATE"
)

// DomainError is a business rule failure that the transport layer can
// surface to the caller as is.
type DomainError struct {
	Code       ErrorCode
	Message    string
	HTTPStatus int
}

func (e *DomainError) Error() string {
	return string(e.Code) + ": " + e.Message
}

func NotFound(msg string) *DomainError {
	return &DomainError{Code: ErrorCodeNotFound, Message: msg, HTTPStatus: http.StatusNotFound}
}

func Invalid(msg string) *DomainError {
	return &DomainError{Code: ErrorCodeInvalid, Message: msg, HTTPStatus: http.StatusBadRequest}
}

func Forbidden(msg string) *DomainError {
	return &DomainError{Code: ErrorCodeForbidden, Message: msg, HTTPStatus: http.StatusForbidden}
}

func Conflict(msg string) *DomainError {
	return &DomainError{Code: ErrorCodeConflict, Message: msg, HTTPStatus: http.StatusConflict}
}

func BadState(msg string) *DomainError {
	return &DomainError{Code: ErrorCodeBadState, Message: msg, HTTPStatus: http.StatusConflict}
}

// IsNotFound reports whether err is a NOT_FOUND domain error.
func IsNotFound(err error) bool {
	var de *DomainError
	return errors.As(err, &de) && de.Code == ErrorCodeNotFound
}

// ErrMalformedPayload is returned by handlers that cannot decode the payload
// of an event they subscribed to.
var ErrMalformedPayload = errors.New("malformed event payload")
