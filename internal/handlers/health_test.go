package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/benvon/focusplan/internal/scheduleapi"
)

type fakeProber struct {
	payload map[string]any
	err     error
}

func (f *fakeProber) CheckHealth(ctx context.Context) (map[string]any, error) {
	if _, ok := ctx.Deadline(); !ok {
		return nil, errors.New("probe called without a deadline")
	}
	return f.payload, f.err
}

func TestHealthChecker_HealthCheck(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		mode         string
		prober       *fakeProber
		expectStatus int
		expectHealth string
		expectChecks bool
	}{
		{
			name:         "basic mode ignores upstream",
			mode:         "",
			prober:       &fakeProber{err: &scheduleapi.HealthCheckError{StatusCode: http.StatusInternalServerError}},
			expectStatus: http.StatusOK,
			expectHealth: "healthy",
			expectChecks: false,
		},
		{
			name:         "extended mode with healthy upstream",
			mode:         "extended",
			prober:       &fakeProber{payload: map[string]any{"status": "ok"}},
			expectStatus: http.StatusOK,
			expectHealth: "healthy",
			expectChecks: true,
		},
		{
			name:         "extended mode with failing upstream",
			mode:         "extended",
			prober:       &fakeProber{err: &scheduleapi.HealthCheckError{StatusCode: http.StatusServiceUnavailable}},
			expectStatus: http.StatusServiceUnavailable,
			expectHealth: "unhealthy",
			expectChecks: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := NewHealthChecker(tt.prober, nil)
			path := "/healthz"
			if tt.mode != "" {
				path += "?mode=" + tt.mode
			}
			req := httptest.NewRequest(http.MethodGet, path, nil)
			w := httptest.NewRecorder()

			h.HealthCheck(w, req)

			if w.Code != tt.expectStatus {
				t.Errorf("Expected status %d, got %d", tt.expectStatus, w.Code)
			}

			var body HealthResponse
			if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
				t.Fatalf("Failed to decode response: %v", err)
			}
			if body.Status != tt.expectHealth {
				t.Errorf("Expected status %q, got %q", tt.expectHealth, body.Status)
			}
			if _, err := time.Parse(time.RFC3339, body.Timestamp); err != nil {
				t.Errorf("Timestamp %q is not RFC3339: %v", body.Timestamp, err)
			}
			check, ok := body.Checks["schedule_service"]
			if ok != tt.expectChecks {
				t.Fatalf("Expected checks present = %v, got %v", tt.expectChecks, ok)
			}
			if tt.expectHealth == "unhealthy" && !strings.HasPrefix(check, "unhealthy: ") {
				t.Errorf("Expected unhealthy check detail, got %q", check)
			}
		})
	}
}

func TestHealthChecker_UpstreamHealth(t *testing.T) {
	t.Parallel()

	t.Run("payload passed through", func(t *testing.T) {
		t.Parallel()

		h := NewHealthChecker(&fakeProber{payload: map[string]any{"status": "ok"}}, nil)
		w := httptest.NewRecorder()
		h.UpstreamHealth(w, httptest.NewRequest(http.MethodGet, "/api/v1/upstream/health", nil))

		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", w.Code)
		}
		var body struct {
			Success bool           `json:"success"`
			Data    map[string]any `json:"data"`
		}
		if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if !body.Success || body.Data["status"] != "ok" {
			t.Errorf("unexpected body: %+v", body)
		}
	})

	t.Run("failure maps to bad gateway", func(t *testing.T) {
		t.Parallel()

		h := NewHealthChecker(&fakeProber{err: &scheduleapi.HealthCheckError{Err: errors.New("connection refused")}}, nil)
		w := httptest.NewRecorder()
		h.UpstreamHealth(w, httptest.NewRequest(http.MethodGet, "/api/v1/upstream/health", nil))

		if w.Code != http.StatusBadGateway {
			t.Errorf("Expected status 502, got %d", w.Code)
		}
	})
}

func TestHealthChecker_AgainstScheduleService(t *testing.T) {
	t.Parallel()

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}))
	defer upstream.Close()

	h := NewHealthChecker(scheduleapi.NewClient(upstream.URL, time.Second), nil)
	w := httptest.NewRecorder()
	h.HealthCheck(w, httptest.NewRequest(http.MethodGet, "/healthz?mode=extended", nil))

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
}
