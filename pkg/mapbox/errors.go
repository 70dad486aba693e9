package mapbox

import (
	"errors"
	"fmt"
)

// ErrNoAccessToken is returned when a Mapbox call is attempted without an
// access token configured. It is a configuration error, not a provider
// error: no network request is made.
var ErrNoAccessToken = errors.New("mapbox access token not configured")

// APIError represents a failure communicating with a Mapbox service:
// a transport error, a non-200 status, or a malformed response body.
type APIError struct {
	Service    string // The API service name (e.g., "searchbox", "directions")
	StatusCode int    // HTTP status code, zero for transport failures
	Message    string // Error message
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("mapbox %s error (%d): %s", e.Service, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("mapbox %s error: %s", e.Service, e.Message)
}
