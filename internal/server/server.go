// Package server assembles the planner HTTP API: routing, middleware and the
// process lifecycle of the listener and the session sweeper.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/benvon/focusplan/internal/config"
	"github.com/benvon/focusplan/internal/handlers"
	"github.com/benvon/focusplan/internal/middleware"
	"github.com/benvon/focusplan/internal/planner"
	"github.com/benvon/focusplan/internal/scheduleapi"
	"github.com/benvon/focusplan/internal/telemetry"
	"github.com/gorilla/mux"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	shutdownTimeout = 30 * time.Second
	// requestTimeoutSlack is added to the schedule service timeout so a slow
	// upstream fails inside the handler rather than in the timeout middleware
	requestTimeoutSlack = 15 * time.Second
	minSweepInterval    = time.Second
)

// Server is the planner HTTP API
type Server struct {
	cfg      *config.Config
	logger   *zap.Logger
	version  handlers.VersionInfo
	upstream *scheduleapi.Client
	tracing  bool

	registry   *planner.Registry
	limiter    *middleware.RateLimiter
	openAPI    *handlers.OpenAPIHandler
	handler    http.Handler
	httpServer *http.Server
}

// Option configures a Server
type Option func(*Server)

// WithVersion sets the build information served on /version
func WithVersion(info handlers.VersionInfo) Option {
	return func(s *Server) {
		s.version = info
	}
}

// WithScheduleClient replaces the schedule service client built from config
func WithScheduleClient(client *scheduleapi.Client) Option {
	return func(s *Server) {
		if client != nil {
			s.upstream = client
		}
	}
}

// WithTracing enables the otelmux server middleware
func WithTracing(enabled bool) Option {
	return func(s *Server) {
		s.tracing = enabled
	}
}

// New builds the server. ctx bounds the rate-limit store connection attempt.
func New(ctx context.Context, cfg *config.Config, log *zap.Logger, opts ...Option) (*Server, error) {
	if log == nil {
		log = zap.NewNop()
	}
	policy, err := planner.ParseInvalidationPolicy(cfg.InvalidationPolicy)
	if err != nil {
		return nil, err
	}

	s := &Server{
		cfg:     cfg,
		logger:  log,
		version: handlers.VersionInfo{Version: "dev"},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.upstream == nil {
		s.upstream = scheduleapi.NewClient(cfg.ScheduleAPIURL, cfg.ScheduleAPITimeout, scheduleapi.WithLogger(log))
	}

	openAPI, err := handlers.NewOpenAPIHandler()
	if err != nil {
		return nil, err
	}
	s.openAPI = openAPI

	limiter, err := middleware.NewRateLimiter(ctx, cfg.GenerateRateLimit, cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limiter: %w", err)
	}
	s.limiter = limiter
	s.registry = planner.NewRegistry(policy, cfg.SessionIdleTTL, log)
	s.handler = s.routes()

	requestTimeout := cfg.ScheduleAPITimeout + requestTimeoutSlack
	s.httpServer = &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      requestTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1MB max header size
	}

	log.Info("server_configured",
		zap.String("schedule_api_url", cfg.ScheduleAPIURL),
		zap.Duration("schedule_api_timeout", cfg.ScheduleAPITimeout),
		zap.String("invalidation_policy", policy.String()),
		zap.String("generate_rate_limit", cfg.GenerateRateLimit),
		zap.String("rate_limit_backend", limiter.Backend()),
		zap.Duration("session_idle_ttl", cfg.SessionIdleTTL),
	)
	return s, nil
}

// Handler returns the root HTTP handler
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Registry returns the session registry
func (s *Server) Registry() *planner.Registry {
	return s.registry
}

// routes wires middleware and handlers.
// CORS, request IDs and security headers wrap the router itself so they also
// cover preflights and unmatched routes, which mux middleware never sees.
func (s *Server) routes() http.Handler {
	r := mux.NewRouter()

	if s.tracing {
		r.Use(otelmux.Middleware(telemetry.ServiceName))
	}
	r.Use(middleware.MaxRequestSize(middleware.DefaultMaxRequestSize))
	r.Use(middleware.ContentType)
	r.Use(middleware.Timeout(s.cfg.ScheduleAPITimeout + requestTimeoutSlack))
	r.Use(middleware.ErrorHandler(s.logger))
	r.Use(middleware.Audit(s.logger))
	r.Use(middleware.Logging(s.logger))

	s.openAPI.RegisterRoutes(r)

	healthChecker := handlers.NewHealthChecker(s.upstream, s.logger)
	r.HandleFunc("/healthz", healthChecker.HealthCheck).Methods("GET")
	r.HandleFunc("/version", handlers.Version(s.version)).Methods("GET")

	apiRouter := r.PathPrefix("/api/v1").Subrouter()
	apiRouter.HandleFunc("/upstream/health", healthChecker.UpstreamHealth).Methods("GET")

	orchestrator := planner.NewOrchestrator(s.upstream, s.logger)
	sessionHandler := handlers.NewSessionHandler(s.registry, orchestrator, s.logger)
	sessionHandler.RegisterRoutes(apiRouter.PathPrefix("/sessions").Subrouter(), s.limiter.Middleware(s.logger))

	var h http.Handler = r
	h = middleware.CORS(s.cfg.AllowedOrigins(), s.logger)(h)
	h = middleware.SecurityHeaders(s.cfg.EnableHSTS)(h)
	h = middleware.RequestID(h)
	return h
}

// Run serves HTTP and sweeps idle sessions until ctx is cancelled or the
// listener fails, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("server_starting", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		s.registry.Start(gctx, sweepInterval(s.cfg.SessionIdleTTL))
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		s.logger.Info("server_shutting_down")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), shutdownTimeout)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
		return nil
	})

	err := g.Wait()
	if closeErr := s.limiter.Close(); closeErr != nil {
		s.logger.Warn("failed_to_close_rate_limit_store", zap.Error(closeErr))
	}
	s.logger.Info("server_exited")
	return err
}

// sweepInterval checks for idle sessions four times per TTL
func sweepInterval(ttl time.Duration) time.Duration {
	interval := ttl / 4
	if interval < minSweepInterval {
		return minSweepInterval
	}
	return interval
}
