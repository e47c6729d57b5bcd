// Package apperr defines the error taxonomy surfaced by the API.
package apperr

import (
	"errors"
	"net/http"
)

// Error is an application error carrying the HTTP status it maps to.
// Every error surfaced to a client renders as {"error": Message, "status": Status}.
type Error struct {
	Status  int    `json:"status"`
	Message string `json:"error"`
}

func (e *Error) Error() string {
	return e.Message
}

// BadRequest reports malformed input or a business-rule violation.
func BadRequest(message string) *Error {
	return &Error{Status: http.StatusBadRequest, Message: message}
}

// Unauthorized reports missing or invalid credentials.
func Unauthorized(message string) *Error {
	return &Error{Status: http.StatusUnauthorized, Message: message}
}

// Forbidden reports access to a resource owned by someone else.
func Forbidden(message string) *Error {
	return &Error{Status: http.StatusForbidden, Message: message}
}

// NotFound reports a missing resource.
func NotFound(message string) *Error {
	return &Error{Status: http.StatusNotFound, Message: message}
}

// Conflict reports duplicate or conflicting data.
func Conflict(message string) *Error {
	return &Error{Status: http.StatusConflict, Message: message}
}

// RateLimited reports an exhausted daily quota.
func RateLimited(message string) *Error {
	return &Error{Status: http.StatusTooManyRequests, Message: message}
}

// Completion reports a failed or unparseable AI completion call.
func Completion(message string) *Error {
	return &Error{Status: http.StatusInternalServerError, Message: message}
}

// From unwraps err into an *Error if it is one.
func From(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
