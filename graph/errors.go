package graph

import (
	"errors"
	"fmt"
	"net/http"
)

// Error types for Microsoft Graph API responses.
var (
	// ErrUnauthorised indicates the access token is invalid or expired.
	ErrUnauthorised = errors.New("graph: unauthorised")

	// ErrForbidden indicates the token lacks the consent needed for the resource.
	ErrForbidden = errors.New("graph: forbidden")

	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("graph: not found")

	// ErrRateLimited indicates the request was throttled by Microsoft Graph.
	ErrRateLimited = errors.New("graph: rate limited")

	// ErrBadRequest indicates the request was malformed.
	ErrBadRequest = errors.New("graph: bad request")

	// ErrServerError indicates a server-side error from Microsoft Graph.
	ErrServerError = errors.New("graph: server error")

	// ErrUnexpectedStatus covers every other non-2xx status.
	ErrUnexpectedStatus = errors.New("graph: unexpected status")
)

// StatusError is a non-2xx response from Microsoft Graph
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("graph API error: %d", e.StatusCode)
}

// Unwrap exposes the sentinel matching the status code
func (e *StatusError) Unwrap() error {
	return WrapError(e.StatusCode)
}

// InvalidatesToken reports whether the status means the bearer token must not be reused
func (e *StatusError) InvalidatesToken() bool {
	return IsAuthFailure(e.StatusCode)
}

// WrapError converts an HTTP status code to an appropriate error.
func WrapError(statusCode int) error {
	switch statusCode {
	case http.StatusUnauthorized:
		return ErrUnauthorised
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusTooManyRequests:
		return ErrRateLimited
	case http.StatusBadRequest:
		return ErrBadRequest
	default:
		if statusCode >= 500 {
			return ErrServerError
		}
		return ErrUnexpectedStatus
	}
}

// IsAuthFailure checks if the status code means the token was rejected.
func IsAuthFailure(statusCode int) bool {
	return statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden
}
