// Package internal provides the HTTP framework the relay is built on.
//
// It wraps chi with a small handler model: handlers return errors, middleware
// wraps handlers, and a single ErrorHandler renders whatever escapes.
//
// # Core Types
//
//   - App: Orchestrates routing, middleware, health endpoints and graceful shutdown
//   - Context: Request/response access, JSON helpers, logging and request values
//   - Router: Interface handlers use to declare routes with HTTP methods and grouping
//   - Handler: Interface implemented by types that declare routes on a router
//   - HandlerFunc: Signature for individual route handlers that return errors
//   - Middleware: Wraps handlers to add cross-cutting concerns like auth or logging
//   - ErrorHandler: Renders errors returned from handlers
//   - HTTPError: Status code plus user-facing message, with the cause kept for logs
//
// # Context as context.Context
//
// Context embeds context.Context, so it can be passed directly to any function
// that expects a standard library context. The Deadline, Done, Err, and Value
// methods delegate to the underlying request context:
//
//	func (h *Handler) submit(c internal.Context) error {
//	    id, err := h.relay.Send(c, email)
//	    if err != nil {
//	        return internal.ErrInternal("Failed to send email", internal.WithError(err))
//	    }
//	    return c.JSON(http.StatusOK, map[string]any{"messageId": id})
//	}
//
// Middleware that derives a new context (deadlines, values) calls
// c.SetRequest with the derived request; everything further down the chain
// observes it.
//
// # Application Structure
//
//	app := internal.New(
//	    internal.WithCustomLogger(log),
//	    internal.WithBasePath(cfg.HTTP.BasePath),
//	    internal.WithMiddleware(middlewares.RequestID(), middlewares.Recover()),
//	    internal.WithHandlers(contactHandler),
//	    internal.WithHealthChecks(internal.WithReadinessCheck("mail", relay.Verify)),
//	)
//	err := app.Run(":3000", internal.Logger(log))
//
// # Error Handling
//
// Handlers return errors instead of writing error responses. The error handler
// set by WithErrorHandler turns them into responses; HTTPError values carry the
// status code and message, anything else is an internal error. Errors returned
// after the response has been written are only logged.
//
// # Graceful Shutdown
//
// Run listens on the address, runs startup hooks, serves until SIGINT/SIGTERM
// (or the base context is cancelled), then drains in-flight requests and runs
// shutdown hooks within the shutdown timeout.
package internal
