package mockshop

import (
	"context"
	_ "embed"
	"fmt"
	"log"
	"net/http"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/gorillamux"
)

//go:embed openapi.yaml
var openAPIDoc []byte

// Validator checks requests against the embedded OpenAPI document.
type Validator struct {
	doc    *openapi3.T
	router routers.Router
}

// NewValidator loads and validates the embedded document.
func NewValidator(ctx context.Context) (*Validator, error) {
	loader := openapi3.NewLoader()

	doc, err := loader.LoadFromData(openAPIDoc)
	if err != nil {
		return nil, fmt.Errorf("failed to load OpenAPI document: %w", err)
	}

	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("invalid OpenAPI document: %w", err)
	}

	router, err := gorillamux.NewRouter(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to create openapi router: %w", err)
	}

	return &Validator{doc: doc, router: router}, nil
}

// Middleware rejects requests that do not match a documented operation with
// 400, or 404 for undocumented routes.
func (v *Validator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route, pathParams, err := v.router.FindRoute(r)
		if err != nil {
			writeError(w, http.StatusNotFound, "Not Found")
			return
		}

		input := &openapi3filter.RequestValidationInput{
			Request:    r,
			PathParams: pathParams,
			Route:      route,
			Options: &openapi3filter.Options{
				AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
			},
		}

		if err := openapi3filter.ValidateRequest(r.Context(), input); err != nil {
			log.Printf("mock-api: rejected %s %s: %v", r.Method, r.URL.Path, err)
			writeError(w, http.StatusBadRequest, firstLine(err.Error()))
			return
		}

		next.ServeHTTP(w, r)
	})
}

// Fallback answers documented routes that have no stateful handler with data
// generated from the response schema.
func (v *Validator) Fallback() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		route, _, err := v.router.FindRoute(r)
		if err != nil || route.Operation == nil {
			writeError(w, http.StatusNotFound, "Not Found")
			return
		}

		statusCode, schema := successSchema(route.Operation)
		if schema == nil {
			writeJSON(w, statusCode, map[string]interface{}{"success": true})
			return
		}

		writeJSON(w, statusCode, generateMockData(schema, 0))
	}
}

// successSchema picks the lowest documented 2xx response.
func successSchema(op *openapi3.Operation) (int, *openapi3.Schema) {
	responses := op.Responses.Map()

	keys := make([]string, 0, len(responses))
	for k := range responses {
		if strings.HasPrefix(k, "2") {
			keys = append(keys, k)
		}
	}

	sort.Strings(keys)

	if len(keys) == 0 {
		return http.StatusOK, nil
	}

	statusCode := http.StatusOK
	if _, err := fmt.Sscanf(keys[0], "%d", &statusCode); err != nil {
		log.Printf("mock-api: failed to parse status code %s: %v", keys[0], err)
		statusCode = http.StatusOK
	}

	ref := responses[keys[0]]
	if ref == nil || ref.Value == nil {
		return statusCode, nil
	}

	content := ref.Value.Content.Get("application/json")
	if content == nil || content.Schema == nil {
		return statusCode, nil
	}

	return statusCode, content.Schema.Value
}

func generateMockData(schema *openapi3.Schema, depth int) interface{} {
	if schema == nil || depth > 10 {
		return nil
	}

	if len(schema.OneOf) > 0 && schema.OneOf[0].Value != nil {
		return generateMockData(schema.OneOf[0].Value, depth+1)
	}

	if len(schema.AnyOf) > 0 && schema.AnyOf[0].Value != nil {
		return generateMockData(schema.AnyOf[0].Value, depth+1)
	}

	if len(schema.AllOf) > 0 {
		result := make(map[string]interface{})
		for _, subRef := range schema.AllOf {
			if subRef.Value == nil {
				continue
			}

			if subMap, ok := generateMockData(subRef.Value, depth+1).(map[string]interface{}); ok {
				for k, v := range subMap {
					result[k] = v
				}
			}
		}

		for k, v := range generateProperties(schema, depth) {
			result[k] = v
		}

		if len(result) > 0 {
			return result
		}
	}

	if schema.Type != nil {
		switch {
		case schema.Type.Is("boolean"):
			return true
		case schema.Type.Is("integer"):
			return 1
		case schema.Type.Is("number"):
			return 1.5
		case schema.Type.Is("string"):
			if len(schema.Enum) > 0 {
				return schema.Enum[0]
			}

			if schema.Format == "date-time" {
				return "2025-01-01T00:00:00Z"
			}

			return "mock_string"
		case schema.Type.Is("array"):
			if schema.Items != nil && schema.Items.Value != nil {
				return []interface{}{generateMockData(schema.Items.Value, depth+1)}
			}

			return []interface{}{}
		case schema.Type.Is("object"):
			return generateProperties(schema, depth)
		}
	}

	if len(schema.Properties) > 0 {
		return generateProperties(schema, depth)
	}

	return nil
}

func generateProperties(schema *openapi3.Schema, depth int) map[string]interface{} {
	res := make(map[string]interface{})
	for name, propRef := range schema.Properties {
		if propRef.Value != nil {
			res[name] = generateMockData(propRef.Value, depth+1)
		}
	}

	return res
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
