package shared

import (
	"errors"
	"fmt"
)

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Authentication errors
	ErrAuthFailed       = fmt.Errorf("authentication failed")
	ErrNotAuthenticated = fmt.Errorf("not authenticated")
	ErrTokenExpired     = fmt.Errorf("access token expired")

	// Resolution errors
	ErrUnrecognizedLink = fmt.Errorf("unrecognized resource link")
	ErrNotFound         = fmt.Errorf("no results found")

	// API and transport errors
	ErrAPIRequest = fmt.Errorf("API request failed")
	ErrNetwork    = fmt.Errorf("network request failed")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrCancelled       = fmt.Errorf("cancelled by user")
)

// AuthError is returned when the token endpoint rejects the client credentials or cannot be reached.
//
// StatusCode is zero when no response was received; in that case Err holds a [*NetworkError].
type AuthError struct {
	StatusCode  int
	Code        string // OAuth2 error code, e.g. "invalid_client"
	Description string
	Err         error
}

func (e *AuthError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Description != "":
		return fmt.Sprintf("%v: status %d: %s (%s)", ErrAuthFailed, e.StatusCode, e.Description, e.Code)
	case e.StatusCode != 0:
		return fmt.Sprintf("%v: status %d", ErrAuthFailed, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("%v: %v", ErrAuthFailed, e.Err)
	default:
		return ErrAuthFailed.Error()
	}
}

func (e *AuthError) Unwrap() error { return e.Err }

func (e *AuthError) Is(target error) bool { return target == ErrAuthFailed }

// ParseError is returned when input looks like a provider link but matches none of the known shapes.
type ParseError struct {
	Input  string
	Reason string
}

func (e *ParseError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("%v: %q", ErrUnrecognizedLink, e.Input)
	}
	return fmt.Sprintf("%v: %q: %s", ErrUnrecognizedLink, e.Input, e.Reason)
}

func (e *ParseError) Is(target error) bool { return target == ErrUnrecognizedLink }

// NotFoundError is returned when a search yields zero results.
type NotFoundError struct {
	Query string
	Kind  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%v: no %s matching %q", ErrNotFound, e.Kind, e.Query)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// APIError carries a non-2xx response from a resource endpoint.
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%v: %s: status %d", ErrAPIRequest, e.Endpoint, e.StatusCode)
	}
	return fmt.Sprintf("%v: %s: status %d: %s", ErrAPIRequest, e.Endpoint, e.StatusCode, e.Message)
}

func (e *APIError) Is(target error) bool { return target == ErrAPIRequest }

// NetworkError wraps a transport-level failure (DNS, connection refused, TLS, timeout).
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%v: %s: %v", ErrNetwork, e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

func (e *NetworkError) Is(target error) bool { return target == ErrNetwork }

// StatusCode extracts the HTTP status carried by an [*APIError] or [*AuthError], or 0.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}

	var authErr *AuthError
	if errors.As(err, &authErr) {
		return authErr.StatusCode
	}

	return 0
}
