package internal

import (
	"log/slog"
	"net/http"
)

// Option configures the application.
type Option func(*App)

// WithBasePath mounts every handler under the given prefix.
// Health endpoints stay at the root. "", "/" and "/api/" are normalized.
//
// Example:
//
//	internal.New(
//	    internal.WithBasePath("/.netlify/functions/api"),
//	)
func WithBasePath(path string) Option {
	return func(a *App) {
		a.basePath = normalizeBasePath(path)
	}
}

// WithMiddleware adds global middleware to the application.
// Middleware is applied in the order provided.
func WithMiddleware(mw ...Middleware) Option {
	return func(a *App) {
		a.middlewares = append(a.middlewares, mw...)
	}
}

// WithHTTPMiddleware adds plain net/http middleware (e.g. from chi/middleware).
// It runs before any Middleware registered with WithMiddleware.
func WithHTTPMiddleware(mw ...func(http.Handler) http.Handler) Option {
	return func(a *App) {
		a.httpMiddlewares = append(a.httpMiddlewares, mw...)
	}
}

// WithHandlers registers handlers that declare routes.
// Each handler's Routes method is called during setup.
func WithHandlers(h ...Handler) Option {
	return func(a *App) {
		a.handlers = append(a.handlers, h...)
	}
}

// WithErrorHandler sets a custom error handler for handler errors.
// Called when a handler or middleware returns a non-nil error
// and nothing has been written yet.
//
// Example:
//
//	internal.WithErrorHandler(func(c internal.Context, err error) error {
//	    return c.JSON(http.StatusInternalServerError, map[string]any{
//	        "success": false,
//	        "message": "Internal server error",
//	    })
//	})
func WithErrorHandler(h ErrorHandler) Option {
	return func(a *App) {
		a.errorHandler = h
	}
}

// WithNotFoundHandler sets a custom 404 handler.
func WithNotFoundHandler(h HandlerFunc) Option {
	return func(a *App) {
		a.notFoundHandler = h
	}
}

// WithMethodNotAllowedHandler sets a custom 405 handler.
// Pass the not-found handler to answer unknown methods with a 404.
func WithMethodNotAllowedHandler(h HandlerFunc) Option {
	return func(a *App) {
		a.methodNotAllowedHandler = h
	}
}

// WithHealthChecks enables health check endpoints with optional configuration.
// Liveness (/health/live): Always returns OK if process is running.
// Readiness (/health/ready): Runs all configured checks.
//
// Example:
//
//	internal.WithHealthChecks(
//	    internal.WithReadinessCheck("mail", relay.Verify),
//	    internal.WithReadinessCheck("redis", redis.Healthcheck(client)),
//	)
func WithHealthChecks(opts ...HealthOption) Option {
	return func(a *App) {
		cfg := &healthConfig{
			livenessPath:  defaultLivenessPath,
			readinessPath: defaultReadinessPath,
		}
		for _, opt := range opts {
			opt(cfg)
		}
		a.healthConfig = cfg
	}
}

// WithCustomLogger sets the application logger used by Context.Log*.
//
// Example:
//
//	log := logger.New(logger.Config{Level: "debug"}, middlewares.RequestIDExtractor())
//	internal.New(
//	    internal.WithCustomLogger(log.With("component", "http")),
//	)
func WithCustomLogger(l *slog.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.logger = l
		}
	}
}
