package analyze

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions.
var (
	// ErrNoModel is returned when the model is required but missing.
	ErrNoModel = errors.New("analyze: model required")

	// ErrProviderUnavailable is returned when the provider cannot be reached.
	ErrProviderUnavailable = errors.New("analyze: provider unavailable")

	// ErrBusy is returned when an analysis is already in flight.
	ErrBusy = errors.New("analyze: analysis already in flight")
)

// APIError represents an error response from the inference API.
type APIError struct {
	// StatusCode is the HTTP status code.
	StatusCode int

	// Message is the error message from the API.
	Message string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("analyze: API error %d: %s", e.StatusCode, e.Message)
}

// IsRateLimited returns true if this is a rate limit error (HTTP 429).
func (e *APIError) IsRateLimited() bool {
	return e.StatusCode == 429
}

// IsServerError returns true if this is a server-side error (HTTP 5xx).
func (e *APIError) IsServerError() bool {
	return e.StatusCode >= 500 && e.StatusCode < 600
}

// IsRetryable returns true if the request should be retried.
func (e *APIError) IsRetryable() bool {
	return e.IsRateLimited() || e.IsServerError()
}
