package middlewares_test

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/contact-relay/internal"
)

// testContext is a minimal internal.Context for exercising middleware
// without an App. Log output goes to an optional buffer.
type testContext struct {
	response *internal.ResponseWriter
	request  *http.Request
	logger   *slog.Logger
}

func newTestContext(w http.ResponseWriter, r *http.Request) *testContext {
	return &testContext{
		response: internal.NewResponseWriter(w),
		request:  r,
		logger:   slog.New(slog.DiscardHandler),
	}
}

// withLogBuffer captures JSON log lines at debug level and above.
func (c *testContext) withLogBuffer(buf *bytes.Buffer) *testContext {
	c.logger = slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return c
}

func (c *testContext) Request() *http.Request                   { return c.request }
func (c *testContext) SetRequest(r *http.Request)               { c.request = r }
func (c *testContext) Response() http.ResponseWriter            { return c.response }
func (c *testContext) ResponseWriter() *internal.ResponseWriter { return c.response }
func (c *testContext) Context() context.Context                 { return c.request.Context() }
func (c *testContext) Param(name string) string                 { return "" }
func (c *testContext) Query(name string) string                 { return c.request.URL.Query().Get(name) }
func (c *testContext) Header(name string) string                { return c.request.Header.Get(name) }
func (c *testContext) SetHeader(name, value string)             { c.response.Header().Set(name, value) }
func (c *testContext) DecodeJSON(v any) error                   { return nil }
func (c *testContext) JSON(code int, v any) error               { c.response.WriteHeader(code); return nil }
func (c *testContext) String(code int, s string) error {
	c.response.WriteHeader(code)
	_, err := c.response.Write([]byte(s))
	return err
}
func (c *testContext) NoContent(code int) error { c.response.WriteHeader(code); return nil }

func (c *testContext) Error(code int, message string, opts ...internal.HTTPErrorOption) *internal.HTTPError {
	return internal.NewHTTPError(code, message, opts...)
}

func (c *testContext) Written() bool        { return c.response.Written() }
func (c *testContext) Logger() *slog.Logger { return c.logger }
func (c *testContext) LogDebug(msg string, attrs ...any) {
	c.logger.DebugContext(c.request.Context(), msg, attrs...)
}
func (c *testContext) LogInfo(msg string, attrs ...any) {
	c.logger.InfoContext(c.request.Context(), msg, attrs...)
}
func (c *testContext) LogWarn(msg string, attrs ...any) {
	c.logger.WarnContext(c.request.Context(), msg, attrs...)
}
func (c *testContext) LogError(msg string, attrs ...any) {
	c.logger.ErrorContext(c.request.Context(), msg, attrs...)
}

func (c *testContext) Set(key, value any) {
	ctx := context.WithValue(c.request.Context(), key, value)
	c.request = c.request.WithContext(ctx)
}

func (c *testContext) Get(key any) any { return c.request.Context().Value(key) }

func (c *testContext) Deadline() (time.Time, bool) { return c.request.Context().Deadline() }
func (c *testContext) Done() <-chan struct{}       { return c.request.Context().Done() }
func (c *testContext) Err() error                  { return c.request.Context().Err() }
func (c *testContext) Value(key any) any           { return c.request.Context().Value(key) }

var _ internal.Context = (*testContext)(nil)
