package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
)

func TestOpenAPIHandler(t *testing.T) {
	t.Parallel()

	h, err := NewOpenAPIHandler()
	if err != nil {
		t.Fatalf("NewOpenAPIHandler() error = %v", err)
	}
	r := mux.NewRouter()
	h.RegisterRoutes(r)

	t.Run("yaml", func(t *testing.T) {
		t.Parallel()

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/openapi.yaml", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", w.Code)
		}
		if ct := w.Header().Get("Content-Type"); ct != "application/x-yaml" {
			t.Errorf("Expected YAML content type, got %q", ct)
		}
		if !strings.HasPrefix(w.Body.String(), "openapi:") {
			t.Errorf("unexpected YAML body prefix %q", w.Body.String()[:20])
		}
	})

	t.Run("json documents every session route", func(t *testing.T) {
		t.Parallel()

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/openapi.json", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", w.Code)
		}

		var doc struct {
			OpenAPI string                    `json:"openapi"`
			Paths   map[string]map[string]any `json:"paths"`
		}
		if err := json.NewDecoder(w.Body).Decode(&doc); err != nil {
			t.Fatalf("Failed to decode JSON document: %v", err)
		}

		want := map[string][]string{
			"/api/v1/sessions":                    {"post"},
			"/api/v1/sessions/{id}":               {"get", "delete"},
			"/api/v1/sessions/{id}/tasks":         {"post"},
			"/api/v1/sessions/{id}/tasks/{index}": {"delete"},
			"/api/v1/sessions/{id}/input":         {"patch"},
			"/api/v1/sessions/{id}/schedule":      {"post"},
			"/api/v1/upstream/health":             {"get"},
			"/healthz":                            {"get"},
		}
		for path, methods := range want {
			ops, ok := doc.Paths[path]
			if !ok {
				t.Errorf("path %s missing from document", path)
				continue
			}
			for _, m := range methods {
				if _, ok := ops[m]; !ok {
					t.Errorf("%s %s missing from document", strings.ToUpper(m), path)
				}
			}
		}
	})
}

func TestNewOpenAPIHandler_Invalid(t *testing.T) {
	t.Parallel()

	if _, err := newOpenAPIHandler([]byte("openapi: [unterminated")); err == nil {
		t.Fatal("Expected error for invalid YAML")
	}
}
