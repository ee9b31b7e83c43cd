package ballchasing

import (
	"errors"
	"fmt"
	"strings"
)

// Common errors
var (
	// ErrInvalidConfig indicates invalid client configuration
	ErrInvalidConfig = errors.New("invalid ballchasing configuration")
	// ErrInvalidArgument indicates a request parameter outside its allowed set
	ErrInvalidArgument = errors.New("invalid argument")
)

// ArgumentError reports a filter or field value rejected before any request
// was sent.
type ArgumentError struct {
	Param   string
	Value   string
	Allowed []string
}

// Error implements the error interface
func (e *ArgumentError) Error() string {
	if len(e.Allowed) == 0 {
		return fmt.Sprintf("invalid value for %q: %s", e.Param, e.Value)
	}
	return fmt.Sprintf("invalid value for %q: %q (allowed: %s)",
		e.Param, e.Value, strings.Join(e.Allowed, ", "))
}

// Unwrap allows errors.Is(err, ErrInvalidArgument)
func (e *ArgumentError) Unwrap() error {
	return ErrInvalidArgument
}

// APIError represents an error response from the ballchasing API
type APIError struct {
	StatusCode int
	Message    string
	Body       string
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("ballchasing API error: status %d: %s", e.StatusCode, e.Message)
}

// IsNotFound checks if the error indicates a missing resource
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == 404
}

// IsConflict checks if the error indicates a duplicate resource
func (e *APIError) IsConflict() bool {
	return e.StatusCode == 409
}

// IsRateLimited checks if the error indicates the API rate limit was hit
func (e *APIError) IsRateLimited() bool {
	return e.StatusCode == 429
}

// IsUnauthorized checks if the error indicates an authentication failure
func (e *APIError) IsUnauthorized() bool {
	return e.StatusCode == 401 || e.StatusCode == 403
}

// IsNotFound reports whether err is an APIError for a missing resource.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.IsNotFound()
}

// IsConflict reports whether err is an APIError for a duplicate resource.
func IsConflict(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.IsConflict()
}

// IsRateLimited reports whether err is an APIError for an exhausted rate limit.
func IsRateLimited(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.IsRateLimited()
}
