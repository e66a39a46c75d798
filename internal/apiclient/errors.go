package apiclient

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failed call to the Rememberizer API.
type ErrorKind string

const (
	// KindUnauthorized is returned for any HTTP 401, regardless of the body
	KindUnauthorized ErrorKind = "unauthorized"

	// KindHTTPStatus is returned for every other non-2xx status
	KindHTTPStatus ErrorKind = "http_status"

	// KindConnection is returned when the request never produced a response
	KindConnection ErrorKind = "connection"

	// KindInvalidResponse is returned when a 2xx body is not valid JSON
	KindInvalidResponse ErrorKind = "invalid_response"
)

// unauthorizedMessage is surfaced verbatim to the agent on a 401.
const unauthorizedMessage = "Error: Unauthorized. Please check your REMEMBERIZER API token"

// Error is the single error type produced by Client.
type Error struct {
	// Kind is the error classification
	Kind ErrorKind

	// Method is the HTTP method of the failed call
	Method string

	// Path is the API path relative to the base URL
	Path string

	// StatusCode is set for KindUnauthorized and KindHTTPStatus
	StatusCode int

	// Cause is the underlying transport or decode error, if any
	Cause error
}

// Error returns the message shown to the caller.
func (e *Error) Error() string {
	verb := verbFor(e.Method)
	switch e.Kind {
	case KindUnauthorized:
		return unauthorizedMessage
	case KindHTTPStatus:
		return fmt.Sprintf("Failed to %s %s. Status: %d", verb, e.Path, e.StatusCode)
	case KindConnection:
		return fmt.Sprintf("Failed to %s %s. Connection error.", verb, e.Path)
	case KindInvalidResponse:
		return fmt.Sprintf("Failed to %s %s. Invalid response body.", verb, e.Path)
	default:
		return fmt.Sprintf("Failed to %s %s", verb, e.Path)
	}
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

func verbFor(method string) string {
	switch method {
	case "POST":
		return "post to"
	case "PATCH":
		return "patch"
	case "DELETE":
		return "delete"
	default:
		return "fetch"
	}
}

func kindOf(err error) (ErrorKind, bool) {
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		return "", false
	}
	return apiErr.Kind, true
}

// IsUnauthorized checks if the error is an unauthorized error
func IsUnauthorized(err error) bool {
	kind, ok := kindOf(err)
	return ok && kind == KindUnauthorized
}

// IsHTTPStatus checks if the error is a non-2xx status error other than 401.
// If statusCode is 0, any status matches.
func IsHTTPStatus(err error, statusCode int) bool {
	var apiErr *Error
	if !errors.As(err, &apiErr) || apiErr.Kind != KindHTTPStatus {
		return false
	}
	return statusCode == 0 || apiErr.StatusCode == statusCode
}

// IsConnection checks if the error is a transport-level failure
func IsConnection(err error) bool {
	kind, ok := kindOf(err)
	return ok && kind == KindConnection
}

// IsInvalidResponse checks if the error is a body decoding failure
func IsInvalidResponse(err error) bool {
	kind, ok := kindOf(err)
	return ok && kind == KindInvalidResponse
}
