package controlplane

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError is returned for any response outside the 2xx range.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	// Body is the (possibly truncated) response body, useful in logs.
	Body string
}

// Error returns a compact description including the status code.
func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s %s: HTTP %d %s", e.Method, e.Path, e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("%s %s: HTTP %d %s: %s", e.Method, e.Path, e.StatusCode, http.StatusText(e.StatusCode), e.Body)
}

// Is allows errors.Is() to match any *APIError.
func (e *APIError) Is(target error) bool {
	_, ok := target.(*APIError)
	return ok
}

// StatusCode extracts the HTTP status from err, or 0 when err is not an
// *APIError.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// IsConflict reports whether err is a 409 Conflict from the control plane.
func IsConflict(err error) bool {
	return StatusCode(err) == http.StatusConflict
}
