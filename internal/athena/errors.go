package athena

import (
	"fmt"
	"strings"
)

// AuthError is returned when the client-credentials exchange fails.
// StatusCode is zero when no HTTP response was received.
type AuthError struct {
	StatusCode int
	Body       string
	Err        error
}

// Error implements the error interface
func (e *AuthError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("Authentication failed: %v", e.Err)
	}
	return fmt.Sprintf("Authentication failed: %d - %s", e.StatusCode, e.Body)
}

// Unwrap returns the underlying cause, if any.
func (e *AuthError) Unwrap() error {
	return e.Err
}

// APIError is returned when a resource call fails: a non-2xx status, a transport
// failure (StatusCode zero) or a success response that is not valid JSON.
type APIError struct {
	StatusCode int
	Body       string
	Err        error
}

// Error implements the error interface
func (e *APIError) Error() string {
	switch {
	case e.StatusCode == 0:
		return fmt.Sprintf("API request failed: %v", e.Err)
	case e.Err != nil:
		return fmt.Sprintf("API request failed: %d - %v", e.StatusCode, e.Err)
	default:
		return fmt.Sprintf("API request failed: %d - %s", e.StatusCode, e.Body)
	}
}

// Unwrap returns the underlying cause, if any.
func (e *APIError) Unwrap() error {
	return e.Err
}

// ValidationError is returned when tool arguments fail validation.
// No network call is made when it is returned.
type ValidationError struct {
	// Fields lists the offending argument names.
	Fields []string
	// Reason describes the failure, e.g. "missing required arguments".
	Reason string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Reason, strings.Join(e.Fields, ", "))
}
