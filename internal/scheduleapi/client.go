package scheduleapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/benvon/focusplan/internal/logger"
	"github.com/benvon/focusplan/internal/models"
	"github.com/benvon/focusplan/internal/request"
	"github.com/benvon/focusplan/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	// DefaultTimeout is the default timeout for calls to the schedule service
	DefaultTimeout = 30 * time.Second

	// MaxResponseBytes bounds a success body read from the service
	MaxResponseBytes int64 = 1 << 20
	// MaxErrorBodyBytes bounds a diagnostic body read from a failed response
	MaxErrorBodyBytes int64 = 64 << 10

	schedulePath = "/schedule"
	healthPath   = "/health"

	tracerName = "github.com/benvon/focusplan/internal/scheduleapi"
)

// Client talks to the remote schedule service
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
	tracer     trace.Tracer
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default http.Client
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithLogger sets the logger used for request diagnostics
func WithLogger(log *zap.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.logger = log
		}
	}
}

// NewClient creates a client for the service at baseURL
func NewClient(baseURL string, timeout time.Duration, opts ...Option) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     zap.NewNop(),
		tracer:     telemetry.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the service base URL without a trailing slash
func (c *Client) BaseURL() string {
	return c.baseURL
}

// GenerateSchedule issues exactly one POST /schedule with req as the JSON body.
//
// Transport failures return *NetworkError, non-2xx statuses *BackendError and
// non-JSON success bodies ErrMalformedResponse. Everything else, including a
// body with no usable schedule, is a successful ScheduleResult.
func (c *Client) GenerateSchedule(ctx context.Context, req models.ScheduleRequest) (*ScheduleResult, error) {
	ctx, span := c.tracer.Start(ctx, "scheduleapi.GenerateSchedule",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.Int("schedule.tasks", len(req.Tasks)),
			attribute.Int("schedule.energy", req.Energy),
			attribute.String("schedule.mood", string(req.Mood)),
		),
	)
	defer span.End()

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, recordSpanError(span, fmt.Errorf("failed to encode schedule request: %w", err))
	}

	url := c.baseURL + schedulePath
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, recordSpanError(span, fmt.Errorf("failed to build schedule request: %w", err))
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	c.decorate(ctx, httpReq)

	c.logger.Debug("schedule_request_sent",
		zap.String("url", url),
		zap.Int("task_count", len(req.Tasks)),
		zap.Int("energy", req.Energy),
		zap.String("mood", string(req.Mood)),
	)

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, recordSpanError(span, &NetworkError{Method: http.MethodPost, URL: url, Err: err})
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.logger.Debug("failed_to_close_response_body", zap.Error(closeErr))
		}
	}()
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	if !isSuccess(resp.StatusCode) {
		body, readErr := io.ReadAll(io.LimitReader(resp.Body, MaxErrorBodyBytes))
		if readErr != nil {
			c.logger.Debug("failed_to_read_error_body", zap.Error(readErr))
		}
		return nil, recordSpanError(span, &BackendError{
			StatusCode: resp.StatusCode,
			Body:       logger.SanitizeUpstreamBody(body),
		})
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseBytes))
	if err != nil {
		return nil, recordSpanError(span, &NetworkError{Method: http.MethodPost, URL: url, Err: err})
	}

	result, err := NormalizeScheduleResponse(body)
	if err != nil {
		return nil, recordSpanError(span, err)
	}

	span.SetAttributes(
		attribute.Int("schedule.items", len(result.Items)),
		attribute.String("schedule.degraded", string(result.Degraded)),
	)
	c.logger.Debug("schedule_response_received",
		zap.Int("status_code", resp.StatusCode),
		zap.Int("item_count", len(result.Items)),
		zap.Int("dropped", result.Dropped),
		zap.String("degraded", string(result.Degraded)),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()),
	)

	return result, nil
}

// CheckHealth issues GET /health and returns the decoded liveness payload
func (c *Client) CheckHealth(ctx context.Context) (map[string]any, error) {
	ctx, span := c.tracer.Start(ctx, "scheduleapi.CheckHealth", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	url := c.baseURL + healthPath
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, recordSpanError(span, &HealthCheckError{Err: err})
	}
	httpReq.Header.Set("Accept", "application/json")
	c.decorate(ctx, httpReq)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, recordSpanError(span, &HealthCheckError{
			Err: &NetworkError{Method: http.MethodGet, URL: url, Err: err},
		})
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.logger.Debug("failed_to_close_response_body", zap.Error(closeErr))
		}
	}()
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	if !isSuccess(resp.StatusCode) {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, MaxErrorBodyBytes))
		return nil, recordSpanError(span, &HealthCheckError{StatusCode: resp.StatusCode})
	}

	var payload map[string]any
	if err := json.NewDecoder(io.LimitReader(resp.Body, MaxResponseBytes)).Decode(&payload); err != nil {
		return nil, recordSpanError(span, &HealthCheckError{
			Err: fmt.Errorf("%w: %v", ErrMalformedResponse, err),
		})
	}
	if payload == nil {
		payload = map[string]any{}
	}
	return payload, nil
}

// decorate adds trace context and the caller's request ID to an outgoing request
func (c *Client) decorate(ctx context.Context, httpReq *http.Request) {
	telemetry.InjectHeaders(ctx, httpReq.Header)
	if id := request.RequestIDFromContext(ctx); id != "" {
		httpReq.Header.Set(request.HeaderRequestID, id)
	}
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}

func recordSpanError(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
