package scheduleapi

import (
	"context"
	"errors"
	"fmt"
	"net"
)

var (
	// ErrMalformedResponse indicates a 2xx response whose body is not JSON.
	// A JSON body that merely lacks a usable "schedule" field is not an error,
	// see NormalizeScheduleResponse.
	ErrMalformedResponse = errors.New("malformed schedule response")
)

// NetworkError is a transport-level failure talking to the schedule service
// (DNS, connection refused, timeout, cancelled context).
type NetworkError struct {
	Method string
	URL    string
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("schedule service unreachable (%s %s): %v", e.Method, e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// Timeout reports whether the failure was a deadline or client timeout
func (e *NetworkError) Timeout() bool {
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(e.Err, &netErr) && netErr.Timeout()
}

// BackendError is a non-2xx response from POST /schedule. Body holds the
// (truncated) response text for diagnostics and is never parsed.
type BackendError struct {
	StatusCode int
	Body       string
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("schedule service returned status %d", e.StatusCode)
}

// HealthCheckError is returned by CheckHealth for any failure
type HealthCheckError struct {
	StatusCode int // zero when no response was received
	Err        error
}

func (e *HealthCheckError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("health check failed with status %d", e.StatusCode)
	}
	return fmt.Sprintf("health check failed: %v", e.Err)
}

func (e *HealthCheckError) Unwrap() error {
	return e.Err
}

// IsNetworkError checks if an error is a transport failure
func IsNetworkError(err error) bool {
	var netErr *NetworkError
	return errors.As(err, &netErr)
}

// IsBackendError checks if an error is a non-2xx response from the service
func IsBackendError(err error) bool {
	var backendErr *BackendError
	return errors.As(err, &backendErr)
}
