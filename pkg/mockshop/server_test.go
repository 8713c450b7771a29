package mockshop

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*Server, *httptest.Server, string) {
	t.Helper()

	srv, err := NewServer(context.Background(), nil)
	require.NoError(t, err)

	ts := httptest.NewServer(srv)
	t.Cleanup(func() {
		srv.Close()
		ts.Close()
	})

	return srv, ts, srv.State.IssueToken()
}

func do(t *testing.T, ts *httptest.Server, method, path, token, body string) (int, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req, err := http.NewRequest(method, ts.URL+path, reader)
	require.NoError(t, err)

	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))

	return resp.StatusCode, out
}

func TestEmbeddedDocumentIsValid(t *testing.T) {
	v, err := NewValidator(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, v.doc.Paths.Find("/orders/{id}/status"))
}

func TestListEnvelopes(t *testing.T) {
	_, ts, token := newTestServer(t)

	status, body := do(t, ts, http.MethodGet, "/api/orders?limit=10&page=3", token, "")
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["items"], 5)
	assert.Equal(t, map[string]interface{}{"page": float64(3), "totalPages": float64(3), "total": float64(25)}, body["pagination"])

	status, body = do(t, ts, http.MethodGet, "/api/admins", token, "")
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["admins"], 4)
	assert.Equal(t, float64(4), body["count"])
}

func TestListFilters(t *testing.T) {
	_, ts, token := newTestServer(t)

	_, body := do(t, ts, http.MethodGet, "/api/orders?status=pending&limit=100", token, "")
	for _, raw := range body["items"].([]interface{}) {
		assert.Equal(t, "pending", raw.(map[string]interface{})["status"])
	}

	_, body = do(t, ts, http.MethodGet, "/api/products?category=fragrance", "", "")
	assert.Len(t, body["items"], 2)
}

func TestAuthRequired(t *testing.T) {
	_, ts, _ := newTestServer(t)

	status, body := do(t, ts, http.MethodGet, "/api/orders", "", "")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, false, body["success"])

	status, _ = do(t, ts, http.MethodGet, "/api/orders", "forged", "")
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestLogin(t *testing.T) {
	srv, ts, _ := newTestServer(t)

	status, body := do(t, ts, http.MethodPost, "/api/auth/login", "",
		`{"email":"`+DefaultEmail+`","password":"`+DefaultPassword+`"}`)
	require.Equal(t, http.StatusOK, status)

	token, _ := body["token"].(string)
	assert.True(t, srv.State.ValidToken(token))

	status, _ = do(t, ts, http.MethodPost, "/api/auth/login", "", `{"email":"`+DefaultEmail+`","password":"nope"}`)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestRequestValidation(t *testing.T) {
	_, ts, token := newTestServer(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{"bad enum", http.MethodPut, "/api/orders/ORD-001/status", `{"status":"lost"}`, http.StatusBadRequest},
		{"missing field", http.MethodPut, "/api/orders/ORD-001/status", `{"notes":"x"}`, http.StatusBadRequest},
		{"bad page", http.MethodGet, "/api/orders?page=0", "", http.StatusBadRequest},
		{"undocumented", http.MethodGet, "/api/coupons", "", http.StatusNotFound},
		{"valid", http.MethodPut, "/api/orders/ORD-001/status", `{"status":"processing"}`, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, _ := do(t, ts, tt.method, tt.path, token, tt.body)
			assert.Equal(t, tt.want, status)
		})
	}
}

func TestInjectedFailures(t *testing.T) {
	srv, ts, token := newTestServer(t)
	srv.State.FailMutations(http.StatusServiceUnavailable, "ORD-002")

	status, _ := do(t, ts, http.MethodPut, "/api/orders/ORD-002/status", token, `{"status":"shipped"}`)
	assert.Equal(t, http.StatusServiceUnavailable, status)

	status, _ = do(t, ts, http.MethodPut, "/api/orders/ORD-001/status", token, `{"status":"shipped"}`)
	assert.Equal(t, http.StatusOK, status)

	srv.State.ResetFailures()
	status, _ = do(t, ts, http.MethodPut, "/api/orders/ORD-002/status", token, `{"status":"shipped"}`)
	assert.Equal(t, http.StatusOK, status)

	assert.Equal(t, 2, srv.State.Calls(http.MethodPut, "/api/orders/ORD-002/status"))
}

func TestFallbackGeneratesFromSchema(t *testing.T) {
	_, ts, token := newTestServer(t)

	status, body := do(t, ts, http.MethodGet, "/api/dashboard/stats", token, "")

	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(1), body["totalOrders"])
	assert.Equal(t, 1.5, body["totalRevenue"])
}

func TestGenerateMockData(t *testing.T) {
	createSchema := func(jsonSchema string) *openapi3.Schema {
		schema := &openapi3.Schema{}
		require.NoError(t, json.Unmarshal([]byte(jsonSchema), schema))
		return schema
	}

	t.Run("string enum", func(t *testing.T) {
		s := createSchema(`{"type": "string", "enum": ["pending", "shipped"]}`)
		assert.Equal(t, "pending", generateMockData(s, 0))
	})

	t.Run("date-time", func(t *testing.T) {
		s := createSchema(`{"type": "string", "format": "date-time"}`)
		assert.Equal(t, "2025-01-01T00:00:00Z", generateMockData(s, 0))
	})

	t.Run("oneOf", func(t *testing.T) {
		s := createSchema(`{"oneOf": [{"type": "integer"}, {"type": "string"}]}`)
		assert.Equal(t, 1, generateMockData(s, 0))
	})

	t.Run("allOf objects", func(t *testing.T) {
		s := createSchema(`{"allOf": [
			{"type": "object", "properties": {"a": {"type": "integer"}}},
			{"type": "object", "properties": {"b": {"type": "string"}}}
		]}`)
		obj, ok := generateMockData(s, 0).(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, 1, obj["a"])
		assert.Equal(t, "mock_string", obj["b"])
	})

	t.Run("recursion limit", func(t *testing.T) {
		s := &openapi3.Schema{Type: &openapi3.Types{"array"}}
		s.Items = &openapi3.SchemaRef{Value: s}

		assert.NotNil(t, generateMockData(s, 0))
	})
}
