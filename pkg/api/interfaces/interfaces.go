// Package interfaces defines the core interfaces shared by the shoptui API
// client and the application that embeds it.
//
// The interfaces keep logging, configuration and session storage
// behind small abstractions so the client can be tested with in-memory
// implementations and wired to file-backed ones in the application.
package interfaces

import (
	"sync"
	"time"
)

// Logger defines the interface for leveled logging.
//
// The format parameter follows fmt.Printf conventions.
//
// Example usage:
//
//	logger.Debug("Fetching %s page %d", resource, page)
//	logger.Error("Bulk update failed for %s: %v", id, err)
type Logger interface {
	// Debug logs debug-level messages, shown only when debug is enabled.
	Debug(format string, args ...interface{})

	// Info logs informational messages about normal application flow.
	Info(format string, args ...interface{})

	// Error logs error messages for exceptional conditions.
	Error(format string, args ...interface{})
}

// Config defines the connection settings the API client needs.
type Config interface {
	// GetAPIURL returns the backend base URL, e.g. "http://localhost:5000/api".
	GetAPIURL() string

	// GetTimeout returns the per-request timeout.
	GetTimeout() time.Duration

	// GetInsecure reports whether TLS verification should be skipped.
	GetInsecure() bool
}

// Session holds the process-wide authentication state.
//
// The token is set on login, read on every request and cleared on logout or
// when the backend answers 401.
type Session interface {
	// Token returns the current bearer token, or "" when signed out.
	Token() string

	// SetToken stores a new bearer token.
	SetToken(token string) error

	// Clear removes the stored token.
	Clear() error
}

// NoOpLogger is a logger that discards all messages.
//
// Useful in tests and when the embedding application logs elsewhere.
type NoOpLogger struct{}

// Debug discards the debug message.
func (n *NoOpLogger) Debug(format string, args ...interface{}) {}

// Info discards the info message.
func (n *NoOpLogger) Info(format string, args ...interface{}) {}

// Error discards the error message.
func (n *NoOpLogger) Error(format string, args ...interface{}) {}

// MemorySession is an in-memory Session, used when no persistent store is
// configured and in tests.
type MemorySession struct {
	mu    sync.RWMutex
	token string
}

// Token returns the stored token.
func (m *MemorySession) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.token
}

// SetToken stores the token in memory.
func (m *MemorySession) SetToken(token string) error {
	m.mu.Lock()
	m.token = token
	m.mu.Unlock()

	return nil
}

// Clear forgets the token.
func (m *MemorySession) Clear() error {
	return m.SetToken("")
}
