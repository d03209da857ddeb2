package gateway

import (
	"errors"
	"fmt"
)

// ErrSessionExpired is returned when the coordinated token refresh fails, or
// when a call still gets 401 after its one refresh-triggered retry. Callers
// must send the user back through login; no structured upstream detail is
// attached on purpose, so unrelated calls don't leak the refresh endpoint's
// raw failure.
var ErrSessionExpired = errors.New("session expired, sign in again")

// APIError is any non-2xx response from the backend, carrying the status and
// a best-effort message parsed from the JSON error body.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend returned %d: %s", e.Status, e.Message)
}

// NetworkError means the backend could not be reached at all (DNS failure,
// connection refused). Distinguished from authorization failures so the UI
// can say "server unreachable" instead of "please log in again".
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("backend unreachable: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// IsNetworkError reports whether err is a reachability failure.
func IsNetworkError(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}

// StatusOf returns the HTTP status carried by err, or 0 when err is not an
// APIError.
func StatusOf(err error) int {
	var ae *APIError
	if errors.As(err, &ae) {
		return ae.Status
	}
	return 0
}
