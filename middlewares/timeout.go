package middlewares

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrymomot/contact-relay/internal"
)

// DefaultTimeout is the default request timeout.
const DefaultTimeout = 30 * time.Second

// TimeoutConfig configures the timeout middleware.
type TimeoutConfig struct {
	Timeout time.Duration
}

// TimeoutOption configures TimeoutConfig.
type TimeoutOption func(*TimeoutConfig)

// Timeout returns middleware that bounds the request context with a deadline.
//
// The handler runs on the calling goroutine with the derived context, so
// everything it does (SMTP dialing, API calls) observes the deadline. When the
// handler fails after the deadline passed and nothing was written, the error
// becomes a TimeoutError for the error handler.
func Timeout(timeout time.Duration, opts ...TimeoutOption) internal.Middleware {
	cfg := &TimeoutConfig{
		Timeout: timeout,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			ctx, cancel := context.WithTimeout(c.Context(), cfg.Timeout)
			defer cancel()

			c.SetRequest(c.Request().WithContext(ctx))

			err := next(c)
			if err == nil || c.Written() {
				return err
			}
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				c.LogWarn("request timeout", "timeout", cfg.Timeout.String(), "error", err)
				return &TimeoutError{Duration: cfg.Timeout, Err: err}
			}
			return err
		}
	}
}
