package middlewares

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/contact-relay/internal"
)

// RequestLoggerConfig configures the request logging middleware.
type RequestLoggerConfig struct {
	// SkipPaths are logged at debug level only (health probes).
	SkipPaths []string
}

// RequestLoggerOption configures RequestLoggerConfig.
type RequestLoggerOption func(*RequestLoggerConfig)

// WithSkipPaths demotes the given exact paths to debug level.
func WithSkipPaths(paths ...string) RequestLoggerOption {
	return func(cfg *RequestLoggerConfig) {
		cfg.SkipPaths = append(cfg.SkipPaths, paths...)
	}
}

// RequestLogger logs one line per request after the handler finished.
// Level follows the outcome: error for 5xx, warn for 4xx, info otherwise.
// Put it after RequestID so the line carries the request_id attribute.
func RequestLogger(opts ...RequestLoggerOption) internal.Middleware {
	cfg := &RequestLoggerConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	skip := make(map[string]struct{}, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skip[p] = struct{}{}
	}

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			start := time.Now()
			err := next(c)

			// Errors are rendered by the app after this middleware returns.
			status := c.ResponseWriter().Status()
			if err != nil && !c.Written() {
				status = http.StatusInternalServerError
				if httpErr := internal.AsHTTPError(err); httpErr != nil {
					status = httpErr.Code
				}
			}

			attrs := []any{
				slog.String("method", c.Request().Method),
				slog.String("path", c.Request().URL.Path),
				slog.Int("status", status),
				slog.Int64("bytes", c.ResponseWriter().Size()),
				slog.Duration("duration", time.Since(start)),
				slog.String("remote", c.Request().RemoteAddr),
			}

			switch _, skipped := skip[c.Request().URL.Path]; {
			case skipped:
				c.LogDebug("request", attrs...)
			case status >= http.StatusInternalServerError:
				c.LogError("request", attrs...)
			case status >= http.StatusBadRequest:
				c.LogWarn("request", attrs...)
			default:
				c.LogInfo("request", attrs...)
			}

			return err
		}
	}
}
