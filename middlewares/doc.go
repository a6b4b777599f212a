// Package middlewares provides the HTTP middleware the relay mounts in front
// of its handlers.
//
// # Request ID
//
// RequestID assigns an ID to each request. It reuses an ID from X-Request-ID,
// X-Correlation-ID or X-Nf-Request-Id when a proxy supplied one and otherwise
// generates a UUIDv7. The ID is echoed in the X-Request-ID response header.
//
// Pass RequestIDExtractor to logger.New so every log line carries it:
//
//	log := logger.New(cfg, middlewares.RequestIDExtractor())
//	app := internal.New(
//	    internal.WithCustomLogger(log),
//	    internal.WithMiddleware(middlewares.RequestID()),
//	)
//
// # Recover
//
// Recover turns panics into a *PanicError so the error handler renders a 500.
//
// # Timeout
//
// Timeout attaches a deadline to the request context. Mail transports honour
// it, and a handler that gives up because of it yields a *TimeoutError.
// Failure tells error handlers which of the two, if any, they received.
//
// # CORS
//
// CORS reflects the caller's origin (any origin unless WithAllowOrigins
// restricts it) and answers preflight requests with 204.
//
// # Request logging
//
// RequestLogger writes one line per request with method, path, status,
// size and duration.
//
// # API key
//
// APIKey authenticates the encrypted bearer token described in pkg/apikey.
// WithReplayGuard additionally rejects a token that was already used within
// a time window:
//
//	store := nonce.NewMemory()
//	mw := middlewares.APIKey(apikey.New(key, secret),
//	    middlewares.WithReplayGuard(store, 5*time.Minute))
package middlewares
