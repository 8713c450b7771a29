package api

import (
	"net/http"

	"github.com/devnullvoid/shoptui/pkg/api/interfaces"
)

// ClientOptions holds optional dependencies for the API client.
type ClientOptions struct {
	Logger     interfaces.Logger
	Session    interfaces.Session
	HTTPClient *http.Client
	// Retries is the number of GET attempts; 1 disables retrying.
	Retries   int
	UserAgent string
}

// ClientOption is a function that configures ClientOptions.
type ClientOption func(*ClientOptions)

// WithLogger sets a custom logger for the client.
func WithLogger(logger interfaces.Logger) ClientOption {
	return func(opts *ClientOptions) {
		opts.Logger = logger
	}
}

// WithSession sets the session store the bearer token is read from.
func WithSession(session interfaces.Session) ClientOption {
	return func(opts *ClientOptions) {
		opts.Session = session
	}
}

// WithHTTPClient replaces the underlying http.Client, e.g. an httptest
// server's client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(opts *ClientOptions) {
		opts.HTTPClient = client
	}
}

// WithRetries sets how many attempts a GET may take.
func WithRetries(n int) ClientOption {
	return func(opts *ClientOptions) {
		opts.Retries = n
	}
}

// WithUserAgent sets the User-Agent header of every request.
func WithUserAgent(ua string) ClientOption {
	return func(opts *ClientOptions) {
		if ua != "" {
			opts.UserAgent = ua
		}
	}
}

// defaultOptions returns ClientOptions with sensible defaults.
func defaultOptions() *ClientOptions {
	return &ClientOptions{
		Logger:    &interfaces.NoOpLogger{},
		Session:   &interfaces.MemorySession{},
		Retries:   1,
		UserAgent: UserAgent,
	}
}
