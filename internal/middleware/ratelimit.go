package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/benvon/focusplan/internal/request"
	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	stdlibmw "github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	memorystore "github.com/ulule/limiter/v3/drivers/store/memory"
	redisstore "github.com/ulule/limiter/v3/drivers/store/redis"
	"go.uber.org/zap"
)

const (
	// DefaultGenerateRate is the default limit for schedule generation per client IP
	DefaultGenerateRate = "10-M"

	rateLimitPrefix   = "focusplan:ratelimit"
	redisPingTimeout  = 5 * time.Second
	rateLimitedReason = "Too many schedule requests, please wait a moment"
)

// RateLimiter wraps a ulule limiter instance and the store it was built on
type RateLimiter struct {
	instance *limiter.Limiter
	backend  string
	closer   func() error
}

// NewRateLimiter builds a per-IP limiter for rateStr (e.g. "10-M").
// When redisURL is empty an in-process memory store is used; otherwise the
// limit is shared through Redis so several replicas enforce one budget.
func NewRateLimiter(ctx context.Context, rateStr, redisURL string) (*RateLimiter, error) {
	if rateStr == "" {
		rateStr = DefaultGenerateRate
	}
	rate, err := limiter.NewRateFromFormatted(rateStr)
	if err != nil {
		return nil, fmt.Errorf("invalid rate limit %q: %w", rateStr, err)
	}

	opts := limiter.StoreOptions{
		Prefix:          rateLimitPrefix,
		CleanUpInterval: limiter.DefaultCleanUpInterval,
	}

	if redisURL == "" {
		return &RateLimiter{
			instance: limiter.New(memorystore.NewStoreWithOptions(opts), rate),
			backend:  "memory",
			closer:   func() error { return nil },
		}, nil
	}

	redisOpts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	client := redis.NewClient(redisOpts)

	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	store, err := redisstore.NewStoreWithOptions(client, opts)
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to create redis rate limit store: %w", err)
	}

	return &RateLimiter{
		instance: limiter.New(store, rate),
		backend:  "redis",
		closer:   client.Close,
	}, nil
}

// Backend names the store in use ("memory" or "redis")
func (l *RateLimiter) Backend() string {
	return l.backend
}

// Close releases the underlying store connection, if any
func (l *RateLimiter) Close() error {
	return l.closer()
}

// Middleware returns the http middleware keyed by client IP. Exceeded limits
// and store failures are answered with the standard JSON error envelope.
func (l *RateLimiter) Middleware(logger *zap.Logger) func(http.Handler) http.Handler {
	mw := stdlibmw.NewMiddleware(l.instance,
		stdlibmw.WithKeyGetter(request.ClientIP),
		stdlibmw.WithLimitReachedHandler(func(w http.ResponseWriter, r *http.Request) {
			respondErrorJSON(w, r, http.StatusTooManyRequests, "Too Many Requests", rateLimitedReason, logger)
		}),
		stdlibmw.WithErrorHandler(func(w http.ResponseWriter, r *http.Request, err error) {
			logger.Error("rate_limit_store_error",
				zap.Error(err),
				zap.String("backend", l.backend),
			)
			respondErrorJSON(w, r, http.StatusInternalServerError, internalErrorType, internalErrorMessage, logger)
		}),
	)
	return mw.Handler
}
