package middleware

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"
)

const (
	// LoggerContextKey is the context key for the request-scoped logger
	LoggerContextKey contextKey = "logger"
)

// WithRequestLogger injects a request-scoped logger into the context. The
// logger carries the request method, path and request ID, so log lines from
// anywhere below can be correlated. Place after RequestID in the chain.
func WithRequestLogger(base zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := base.With().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Logger()

			if requestID := GetRequestID(r.Context()); requestID != "" {
				logger = logger.With().Str("request_id", requestID).Logger()
			}

			ctx := context.WithValue(r.Context(), LoggerContextKey, logger)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetLogger retrieves the request-scoped logger from the context, falling
// back to a disabled logger so callers never nil-check.
func GetLogger(ctx context.Context) zerolog.Logger {
	if logger, ok := ctx.Value(LoggerContextKey).(zerolog.Logger); ok {
		return logger
	}
	return zerolog.Nop()
}
