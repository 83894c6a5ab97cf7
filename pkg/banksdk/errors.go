package banksdk

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ErrNoAccount is returned when the account endpoint answers successfully
// but carries no account (an empty collection).
var ErrNoAccount = errors.New("banksdk: no account returned")

// APIError is the normalized form of any non-success backend response.
// It carries the HTTP status and the backend's message envelope when the
// response had one, or a status-text fallback otherwise.
type APIError struct {
	// StatusCode is the HTTP status code of the failed response
	StatusCode int `json:"-"`

	// Message is the human-readable message from the backend
	Message string `json:"message"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("banking api: %s (HTTP %d)", e.Message, e.StatusCode)
}

// Unauthorized reports whether the failure was an authentication rejection.
func (e *APIError) Unauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized
}

// parseErrorResponse converts a non-success HTTP response into an *APIError.
// The backend wraps failures in a {"message": ...} envelope; responses
// without one fall back to the HTTP status text.
func parseErrorResponse(resp *http.Response, body []byte) error {
	var envelope struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Message != "" {
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    envelope.Message,
		}
	}

	return &APIError{
		StatusCode: resp.StatusCode,
		Message:    fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
	}
}
