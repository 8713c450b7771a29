package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors returned by the client. Match them with errors.Is.
var (
	// ErrUnauthorized means the backend rejected the session. The stored
	// token has already been cleared when it is returned.
	ErrUnauthorized = errors.New("session expired or unauthorized")
	// ErrNotFound means the addressed item does not exist.
	ErrNotFound = errors.New("not found")
	// ErrNotAuthenticated means a request needing a session was attempted
	// while signed out.
	ErrNotAuthenticated = errors.New("not signed in")
)

// APIError is a non-2xx response or a {"success": false} envelope.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("API request failed with status %d", e.StatusCode)
	}

	return fmt.Sprintf("API request failed with status %d: %s", e.StatusCode, e.Message)
}

// Is maps status codes onto the package sentinels.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	default:
		return false
	}
}

// IsUnauthorized reports whether err means the session is gone.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}
