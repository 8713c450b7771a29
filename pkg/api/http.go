package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/devnullvoid/shoptui/pkg/api/interfaces"
)

const (
	// maxResponseBytes caps how much of a response body is read.
	maxResponseBytes = 16 << 20
	retryBaseDelay   = 400 * time.Millisecond
)

// HTTPClient sends JSON requests to the backend, attaching the bearer
// token and turning non-2xx answers into *APIError.
type HTTPClient struct {
	client      *http.Client
	authManager *AuthManager
	baseURL     string
	logger      interfaces.Logger
	userAgent   string
}

// NewHTTPClient creates a client for the API rooted at baseURL.
func NewHTTPClient(httpClient *http.Client, baseURL string, logger interfaces.Logger) *HTTPClient {
	if logger == nil {
		logger = &interfaces.NoOpLogger{}
	}

	return &HTTPClient{
		client:    httpClient,
		baseURL:   strings.TrimRight(baseURL, "/"),
		logger:    logger,
		userAgent: UserAgent,
	}
}

// SetAuthManager sets where bearer tokens come from and which session is
// cleared on 401.
func (hc *HTTPClient) SetAuthManager(authManager *AuthManager) {
	hc.authManager = authManager
}

// request is one call to the backend.
type request struct {
	method string
	path   string
	query  url.Values
	body   interface{}
	// attempts is the total number of tries; only reads are retried.
	attempts int
}

// Get performs a single GET request and returns the raw response body.
func (hc *HTTPClient) Get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	return hc.do(ctx, request{method: http.MethodGet, path: path, query: query})
}

// GetWithRetry performs a GET, retrying transport errors and 5xx answers
// for up to attempts tries in total.
func (hc *HTTPClient) GetWithRetry(ctx context.Context, path string, query url.Values, attempts int) ([]byte, error) {
	return hc.do(ctx, request{method: http.MethodGet, path: path, query: query, attempts: attempts})
}

// Post sends data as JSON with POST.
func (hc *HTTPClient) Post(ctx context.Context, path string, data interface{}) ([]byte, error) {
	return hc.do(ctx, request{method: http.MethodPost, path: path, body: data})
}

// Put sends data as JSON with PUT.
func (hc *HTTPClient) Put(ctx context.Context, path string, data interface{}) ([]byte, error) {
	return hc.do(ctx, request{method: http.MethodPut, path: path, body: data})
}

// Patch sends data as JSON with PATCH.
func (hc *HTTPClient) Patch(ctx context.Context, path string, data interface{}) ([]byte, error) {
	return hc.do(ctx, request{method: http.MethodPatch, path: path, body: data})
}

// Delete performs a DELETE request.
func (hc *HTTPClient) Delete(ctx context.Context, path string) ([]byte, error) {
	return hc.do(ctx, request{method: http.MethodDelete, path: path})
}

func (hc *HTTPClient) do(ctx context.Context, r request) ([]byte, error) {
	if r.attempts < 1 || r.method != http.MethodGet {
		r.attempts = 1
	}

	var (
		body []byte
		err  error
		n    int
	)

	for n = 1; n <= r.attempts; n++ {
		if n > 1 {
			wait := retryDelay(n)
			hc.logger.Debug("Retrying %s %s in %v (%d/%d): %v", r.method, r.path, wait, n, r.attempts, err)

			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		body, err = hc.send(ctx, r)
		if err == nil || !shouldRetry(err, n, r.attempts) {
			break
		}
	}

	if err != nil && r.attempts > 1 {
		return nil, fmt.Errorf("%s %s failed after %d attempt(s): %w", r.method, r.path, min(n, r.attempts), err)
	}

	return body, err
}

// retryDelay grows linearly with the attempt number, plus up to 25% jitter
// so concurrent page fetches do not retry in lockstep.
func retryDelay(attempt int) time.Duration {
	d := time.Duration(attempt-1) * retryBaseDelay

	return d + rand.N(d/4+1)
}

func (hc *HTTPClient) endpoint(path string, query url.Values) string {
	u := hc.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	return u
}

func (hc *HTTPClient) send(ctx context.Context, r request) ([]byte, error) {
	var payload io.Reader
	if r.body != nil {
		raw, err := json.Marshal(r.body)
		if err != nil {
			return nil, fmt.Errorf("encode %s body: %w", r.path, err)
		}
		payload = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, hc.endpoint(r.path, r.query), payload)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	id := uuid.NewString()

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", hc.userAgent)
	req.Header.Set(HeaderRequestID, id)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if hc.authManager != nil {
		if token := hc.authManager.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	start := time.Now()

	resp, err := hc.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", r.method, r.path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", r.path, err)
	}

	hc.logger.Debug("%s %s -> %d in %v [%s]", r.method, r.path, resp.StatusCode, time.Since(start).Round(time.Millisecond), id)

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		hc.logger.Info("Backend rejected the session on %s %s", r.method, r.path)
		if hc.authManager != nil {
			hc.authManager.ClearToken()
		}
		fallthrough
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, &APIError{StatusCode: resp.StatusCode, Message: errorMessage(raw)}
	}

	return raw, nil
}

// errorMessage picks the message of an error envelope, or the trimmed body
// when it is not one.
func errorMessage(body []byte) string {
	var env envelope
	if json.Unmarshal(body, &env) == nil {
		for _, msg := range []string{env.Message, env.Error} {
			if msg != "" {
				return msg
			}
		}
	}

	return strings.TrimSpace(string(body))
}

// shouldRetry reports whether a failed attempt may be repeated: only 5xx
// answers and network errors, and never past the last attempt.
func shouldRetry(err error, attempt, attempts int) bool {
	if attempt >= attempts {
		return false
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode >= http.StatusInternalServerError
	}

	var netErr net.Error

	return errors.As(err, &netErr)
}
