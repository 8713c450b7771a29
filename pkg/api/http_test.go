package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devnullvoid/shoptui/pkg/api/interfaces"
	"github.com/devnullvoid/shoptui/pkg/api/testutils"
)

func newAuthedHTTPClient(t *testing.T, server *httptest.Server, token string) (*HTTPClient, *interfaces.MemorySession) {
	t.Helper()

	session := &interfaces.MemorySession{}
	require.NoError(t, session.SetToken(token))

	logger := testutils.NewTestLogger()
	client := NewHTTPClient(server.Client(), server.URL, logger)
	client.SetAuthManager(NewAuthManager(server.URL, server.Client(), session, logger))

	return client, session
}

func TestNewHTTPClient(t *testing.T) {
	httpClient := &http.Client{}
	logger := testutils.NewTestLogger()

	client := NewHTTPClient(httpClient, "https://shop.example.com/api/", logger)

	assert.NotNil(t, client)
	assert.Equal(t, httpClient, client.client)
	assert.Equal(t, "https://shop.example.com/api", client.baseURL)
	assert.Equal(t, logger, client.logger)
	assert.Nil(t, client.authManager)
}

func TestHTTPClient_Get_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/orders", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, UserAgent, r.Header.Get("User-Agent"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Equal(t, "Bearer secret-token", r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.Header.Get(HeaderRequestID))

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"success":true,"items":[]}`)
	}))
	defer server.Close()

	client, _ := newAuthedHTTPClient(t, server, "secret-token")

	body, err := client.Get(context.Background(), "/orders", ListParams{Page: 2}.Query())

	require.NoError(t, err)
	assert.JSONEq(t, `{"success":true,"items":[]}`, string(body))
}

func TestHTTPClient_Put_SendsJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		raw, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		assert.JSONEq(t, `{"status":"shipped","notes":"tracking 123"}`, string(raw))

		_, _ = io.WriteString(w, `{"success":true}`)
	}))
	defer server.Close()

	client, _ := newAuthedHTTPClient(t, server, "t")

	_, err := client.Put(context.Background(), "orders/ORD-001/status", StatusUpdate{Status: "shipped", Notes: "tracking 123"})
	require.NoError(t, err)
}

func TestHTTPClient_Unauthorized_ClearsSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"success":false,"message":"Token expired"}`)
	}))
	defer server.Close()

	client, session := newAuthedHTTPClient(t, server, "stale")

	_, err := client.Get(context.Background(), "/orders", nil)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnauthorized))
	assert.Contains(t, err.Error(), "Token expired")
	assert.Empty(t, session.Token())
}

func TestHTTPClient_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such order", http.StatusNotFound)
	}))
	defer server.Close()

	client, session := newAuthedHTTPClient(t, server, "t")

	_, err := client.Get(context.Background(), "/orders/ORD-999", nil)

	assert.ErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, "t", session.Token())

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "no such order", apiErr.Message)
}

func TestHTTPClient_GetWithRetry(t *testing.T) {
	var calls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}

		_, _ = io.WriteString(w, `{"success":true}`)
	}))
	defer server.Close()

	client, _ := newAuthedHTTPClient(t, server, "t")

	_, err := client.GetWithRetry(context.Background(), "/orders", nil, 2)

	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestHTTPClient_NoRetryOnClientError(t *testing.T) {
	var calls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	client, _ := newAuthedHTTPClient(t, server, "t")

	_, err := client.GetWithRetry(context.Background(), "/orders", nil, 3)

	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
	assert.Contains(t, err.Error(), "GET /orders failed after 1 attempt(s)")
}

func TestShouldRetry(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		attempt int
		want    bool
	}{
		{"server error", &APIError{StatusCode: 503}, 1, true},
		{"client error", &APIError{StatusCode: 422}, 1, false},
		{"last attempt", &APIError{StatusCode: 503}, 3, false},
		{"plain error", errors.New("boom"), 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, shouldRetry(tt.err, tt.attempt, 3))
		})
	}
}

func TestHTTPClient_RetriesExhausted(t *testing.T) {
	var calls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client, _ := newAuthedHTTPClient(t, server, "t")

	_, err := client.GetWithRetry(context.Background(), "/orders", nil, 2)

	require.Error(t, err)
	assert.Equal(t, int32(2), calls.Load())
	assert.Contains(t, err.Error(), "GET /orders failed after 2 attempt(s)")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusServiceUnavailable, apiErr.StatusCode)
}

func TestHTTPClient_WritesAreNotRetried(t *testing.T) {
	var calls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NotEmpty(t, r.Header.Get(HeaderRequestID))
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client, _ := newAuthedHTTPClient(t, server, "t")

	_, err := client.Put(context.Background(), "/orders/ORD-001/status", map[string]string{"status": "shipped"})

	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestRetryDelay(t *testing.T) {
	for attempt := 2; attempt <= 4; attempt++ {
		base := time.Duration(attempt-1) * retryBaseDelay
		d := retryDelay(attempt)

		assert.GreaterOrEqual(t, d, base)
		assert.LessOrEqual(t, d, base+base/4)
	}
}
