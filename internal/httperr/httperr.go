// Package httperr carries an HTTP status alongside an error message so
// handlers can map failures from any layer onto a response code without
// inspecting error strings.
package httperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is an error with an associated HTTP status code. The Detail text is
// what ends up in the response body's "detail" field.
type Error struct {
	Status int
	Detail string
}

func (e *Error) Error() string { return e.Detail }

// New creates an Error with an explicit status code.
func New(status int, format string, args ...any) *Error {
	return &Error{Status: status, Detail: fmt.Sprintf(format, args...)}
}

// BadRequest covers invalid input: empty text, unknown providers, missing
// credentials, malformed uploads.
func BadRequest(format string, args ...any) *Error {
	return New(http.StatusBadRequest, format, args...)
}

// NotFound covers lookups of voice ids that are not in the registry.
func NotFound(format string, args ...any) *Error {
	return New(http.StatusNotFound, format, args...)
}

// PayloadTooLarge covers uploads exceeding the size ceiling.
func PayloadTooLarge(format string, args ...any) *Error {
	return New(http.StatusRequestEntityTooLarge, format, args...)
}

// Unavailable covers connection failures to a downstream provider.
func Unavailable(format string, args ...any) *Error {
	return New(http.StatusServiceUnavailable, format, args...)
}

// GatewayTimeout covers downstream calls that exceeded their deadline.
func GatewayTimeout(format string, args ...any) *Error {
	return New(http.StatusGatewayTimeout, format, args...)
}

// Upstream propagates a downstream provider's non-success status verbatim,
// keeping the vendor's own diagnostic text visible to the caller.
func Upstream(status int, format string, args ...any) *Error {
	return New(status, format, args...)
}

// StatusOf resolves any error to an HTTP status. Errors that do not carry a
// status are treated as internal server errors.
func StatusOf(err error) int {
	var he *Error
	if errors.As(err, &he) {
		return he.Status
	}
	return http.StatusInternalServerError
}
