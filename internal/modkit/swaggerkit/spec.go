package swaggerkit

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"
)

// SpecMutator adjusts the parsed OpenAPI document before it is served
type SpecMutator func(map[string]any)

var (
	mu       sync.Mutex
	mutators []SpecMutator
)

// Register adds a spec mutator, modules call it while being built
func Register(m SpecMutator) {
	if m == nil {
		return
	}
	mu.Lock()
	mutators = append(mutators, m)
	mu.Unlock()
}

func serveDocJSON() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var spec map[string]any
		if err := json.Unmarshal([]byte(docReader()), &spec); err != nil {
			http.Error(w, "spec parse error", http.StatusInternalServerError)
			return
		}
		decorate(spec)

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		_ = json.NewEncoder(w).Encode(spec)
	}
}

func decorate(spec map[string]any) {
	normalizeVersion(spec)
	if _, ok := spec["servers"]; !ok {
		spec["servers"] = []any{map[string]any{"url": "/api/v1"}}
	}

	schemas := child(child(spec, "components"), "schemas")
	if _, ok := schemas["Envelope"]; !ok {
		schemas["Envelope"] = envelopeSchema
	}
	withDefault(spec, "400", errorResponse("Bad Request", 400, 8, "perPage must be at most 1000"))
	withDefault(spec, "500", errorResponse("Internal Server Error", 500, 1, "panic recovered"))

	mu.Lock()
	ms := append([]SpecMutator(nil), mutators...)
	mu.Unlock()
	for _, m := range ms {
		m(spec)
	}
}

// the bundled swagger ui renders 3.0 only
func normalizeVersion(spec map[string]any) {
	delete(spec, "swagger")
	if v, ok := spec["openapi"].(string); !ok || strings.HasPrefix(v, "3.1") {
		spec["openapi"] = "3.0.3"
	}
}

var envelopeSchema = map[string]any{
	"type":        "object",
	"description": "Error envelope written by the api",
	"properties": map[string]any{
		"status_code": map[string]any{"type": "integer", "format": "int32"},
		"status":      map[string]any{"type": "string"},
		"code":        map[string]any{"type": "integer", "format": "int32"},
		"error":       map[string]any{"type": "string"},
		"request_id":  map[string]any{"type": "string"},
	},
	"required": []any{"status_code", "status"},
}

func errorResponse(desc string, status, code int, msg string) map[string]any {
	return map[string]any{
		"description": desc,
		"content": map[string]any{
			"application/json": map[string]any{
				"schema": map[string]any{"$ref": "#/components/schemas/Envelope"},
				"example": map[string]any{
					"status_code": status,
					"status":      desc,
					"code":        code,
					"error":       msg,
				},
			},
		},
	}
}

// withDefault sets resp on every operation that does not document status
func withDefault(spec map[string]any, status string, resp map[string]any) {
	EachOperation(spec, func(_, _ string, op map[string]any) {
		resps := child(op, "responses")
		if _, ok := resps[status]; !ok {
			resps[status] = resp
		}
	})
}

// EachOperation calls fn for every path and method in the document
func EachOperation(spec map[string]any, fn func(path, method string, op map[string]any)) {
	paths, _ := spec["paths"].(map[string]any)
	for p, node := range paths {
		ops, ok := node.(map[string]any)
		if !ok {
			continue
		}
		for method, o := range ops {
			if op, ok := o.(map[string]any); ok {
				fn(p, method, op)
			}
		}
	}
}

func child(m map[string]any, key string) map[string]any {
	c, ok := m[key].(map[string]any)
	if !ok {
		c = map[string]any{}
		m[key] = c
	}
	return c
}
