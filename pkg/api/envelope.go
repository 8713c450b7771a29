package api

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/goccy/go-json"
)

// envelope is the common wrapper of backend responses. Collections come in
// one of two shapes:
//
//	{"success": true, "items": [...], "pagination": {"page": 1, "totalPages": 3, "total": 25}}
//	{"success": true, "orders": [...], "count": 25}
type envelope struct {
	Success    *bool       `json:"success"`
	Message    string      `json:"message"`
	Error      string      `json:"error"`
	Pagination *pagination `json:"pagination"`
	Count      *int        `json:"count"`
	Total      *int        `json:"total"`
}

type pagination struct {
	Page       int `json:"page"`
	TotalPages int `json:"totalPages"`
	Total      int `json:"total"`
}

func (e envelope) failure() error {
	if e.Success == nil || *e.Success {
		return nil
	}

	msg := e.Message
	if msg == "" {
		msg = e.Error
	}

	return &APIError{StatusCode: http.StatusOK, Message: msg}
}

// decodePage normalizes a collection response into a Page. The item array is
// looked up under "items", then under the resource name, then "data". A bare
// JSON array is accepted too. A missing total is inferred from the array.
func decodePage[T any](body []byte, resource Resource) (Page[T], error) {
	var page Page[T]

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &page.Items); err != nil {
			return page, fmt.Errorf("failed to parse %s list: %w", resource, err)
		}

		page.Total = len(page.Items)
		page.Page, page.TotalPages = 1, 1

		return page, nil
	}

	var env envelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return page, fmt.Errorf("failed to parse %s response: %w", resource, err)
	}

	if err := env.failure(); err != nil {
		return page, err
	}

	raw, err := lookupField(trimmed, "items", string(resource), "data")
	if err != nil {
		return page, fmt.Errorf("failed to parse %s response: %w", resource, err)
	}

	if raw == nil {
		return page, fmt.Errorf("%s response has no item array", resource)
	}

	if err := json.Unmarshal(raw, &page.Items); err != nil {
		return page, fmt.Errorf("failed to parse %s items: %w", resource, err)
	}

	page.Total = len(page.Items)
	page.Page, page.TotalPages = 1, 1

	switch {
	case env.Pagination != nil:
		page.Total = max(env.Pagination.Total, len(page.Items))
		page.Page = max(env.Pagination.Page, 1)
		page.TotalPages = max(env.Pagination.TotalPages, 1)
	case env.Count != nil:
		page.Total = max(*env.Count, len(page.Items))
	case env.Total != nil:
		page.Total = max(*env.Total, len(page.Items))
	}

	return page, nil
}

// decodeItem extracts a single object stored under one of keys, falling back
// to the whole body when the backend returns the object unwrapped.
func decodeItem[T any](body []byte, keys ...string) (T, error) {
	var item T

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return item, fmt.Errorf("failed to parse response: %w", err)
	}

	if err := env.failure(); err != nil {
		return item, err
	}

	raw, err := lookupField(body, append(keys, "data")...)
	if err != nil {
		return item, fmt.Errorf("failed to parse response: %w", err)
	}

	if raw == nil {
		raw = body
	}

	if err := json.Unmarshal(raw, &item); err != nil {
		return item, fmt.Errorf("failed to parse response: %w", err)
	}

	return item, nil
}

// checkEnvelope returns an APIError for a {"success": false} body. Empty and
// non-JSON bodies are accepted.
func checkEnvelope(body []byte) error {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil
	}

	var env envelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return nil
	}

	return env.failure()
}

func lookupField(body []byte, keys ...string) (json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, err
	}

	for _, k := range keys {
		if raw, ok := fields[k]; ok && !bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			return raw, nil
		}
	}

	return nil, nil
}
