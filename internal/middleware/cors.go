package middleware

import (
	"net/http"

	"github.com/benvon/focusplan/internal/request"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

const corsMaxAgeSeconds = 86400

// CORS creates CORS middleware for the given static origin list.
// Preflight requests are answered directly and never reach the router.
func CORS(allowedOrigins []string, logger *zap.Logger) func(http.Handler) http.Handler {
	logger.Info("cors_initialized", zap.Strings("allowed_origins", allowedOrigins))

	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPatch,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders:   []string{"Content-Type", request.HeaderRequestID},
		ExposedHeaders:   []string{request.HeaderRequestID, "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: false,
		MaxAge:           corsMaxAgeSeconds,
	})
	return c.Handler
}
