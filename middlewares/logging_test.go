package middlewares_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/contact-relay/internal"
	"github.com/dmitrymomot/contact-relay/middlewares"
)

func decodeLogLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	return line
}

func TestRequestLogger(t *testing.T) {
	t.Parallel()

	t.Run("logs written responses at info", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		req := httptest.NewRequest(http.MethodPost, "/contact", nil)
		ctx := newTestContext(httptest.NewRecorder(), req).withLogBuffer(&buf)

		handler := middlewares.RequestLogger()(func(c internal.Context) error {
			return c.String(http.StatusOK, "ok")
		})
		require.NoError(t, handler(ctx))

		line := decodeLogLine(t, &buf)
		require.Equal(t, "INFO", line["level"])
		require.Equal(t, "request", line["msg"])
		require.Equal(t, "POST", line["method"])
		require.Equal(t, "/contact", line["path"])
		require.EqualValues(t, 200, line["status"])
		require.EqualValues(t, 2, line["bytes"])
	})

	t.Run("status comes from unrendered HTTP errors", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		ctx := newTestContext(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/contact", nil)).withLogBuffer(&buf)

		want := internal.ErrUnauthorized("Invalid API key")
		handler := middlewares.RequestLogger()(func(c internal.Context) error {
			return want
		})
		require.ErrorIs(t, handler(ctx), want)

		line := decodeLogLine(t, &buf)
		require.Equal(t, "WARN", line["level"])
		require.EqualValues(t, 401, line["status"])
	})

	t.Run("plain errors are logged as 500", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		ctx := newTestContext(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil)).withLogBuffer(&buf)

		handler := middlewares.RequestLogger()(func(c internal.Context) error {
			return errors.New("boom")
		})
		require.Error(t, handler(ctx))

		line := decodeLogLine(t, &buf)
		require.Equal(t, "ERROR", line["level"])
		require.EqualValues(t, 500, line["status"])
	})

	t.Run("skipped paths log at debug", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		ctx := newTestContext(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health/live", nil)).withLogBuffer(&buf)

		handler := middlewares.RequestLogger(middlewares.WithSkipPaths("/health/live"))(func(c internal.Context) error {
			return c.NoContent(http.StatusOK)
		})
		require.NoError(t, handler(ctx))

		line := decodeLogLine(t, &buf)
		require.Equal(t, "DEBUG", line["level"])
	})
}
