// Package logger builds the service's slog loggers.
//
// [New] selects a handler from [Config]: colored tint output when writing to
// a terminal, JSON otherwise, or whichever format is forced. When a Sentry
// DSN is configured, warnings and errors are also forwarded to Sentry.
//
// Request-scoped values are added with [ContextExtractor] functions, which
// run on every log call:
//
//	log := logger.New(logger.Config{Level: "info"},
//	    func(ctx context.Context) (slog.Attr, bool) {
//	        id, ok := ctx.Value(requestIDKey{}).(string)
//	        return slog.String("request_id", id), ok && id != ""
//	    },
//	)
//
// An empty or unreachable DSN never prevents logging: the logger falls back
// to the local handler.
package logger
