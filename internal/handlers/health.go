package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/benvon/focusplan/internal/logger"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const upstreamCheckTimeout = 5 * time.Second

// UpstreamProber probes the schedule service; *scheduleapi.Client satisfies it
type UpstreamProber interface {
	CheckHealth(ctx context.Context) (map[string]any, error)
}

// HealthChecker handles health check requests
type HealthChecker struct {
	upstream UpstreamProber
	logger   *zap.Logger
	probes   singleflight.Group
}

// NewHealthChecker creates a new health checker
func NewHealthChecker(upstream UpstreamProber, log *zap.Logger) *HealthChecker {
	if log == nil {
		log = zap.NewNop()
	}
	return &HealthChecker{upstream: upstream, logger: log}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// HealthCheck handles the /healthz endpoint.
// ?mode=extended also probes the schedule service.
func (h *HealthChecker) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	statusCode := http.StatusOK

	if r.URL.Query().Get("mode") == "extended" {
		checks := make(map[string]string)
		if _, err := h.checkUpstream(r.Context()); err != nil {
			response.Status = "unhealthy"
			checks["schedule_service"] = "unhealthy: " + logger.SanitizeError(err)
			statusCode = http.StatusServiceUnavailable
		} else {
			checks["schedule_service"] = "healthy"
		}
		response.Checks = checks
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.Error("failed_to_encode_health_response", zap.Error(err))
	}
}

// UpstreamHealth handles GET /api/v1/upstream/health, passing the probe body through
func (h *HealthChecker) UpstreamHealth(w http.ResponseWriter, r *http.Request) {
	payload, err := h.checkUpstream(r.Context())
	if err != nil {
		h.logger.Warn("upstream_health_check_failed", zap.String("error", logger.SanitizeError(err)))
		respondJSONError(w, http.StatusBadGateway, "Bad Gateway", "Schedule service is unavailable")
		return
	}
	respondJSON(w, http.StatusOK, payload)
}

// checkUpstream coalesces concurrent probes into one upstream call. The shared
// call is detached from any single caller's cancellation.
func (h *HealthChecker) checkUpstream(ctx context.Context) (map[string]any, error) {
	result, err, _ := h.probes.Do("upstream", func() (any, error) {
		probeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), upstreamCheckTimeout)
		defer cancel()
		return h.upstream.CheckHealth(probeCtx)
	})
	if err != nil {
		return nil, err
	}
	payload, _ := result.(map[string]any)
	return payload, nil
}
