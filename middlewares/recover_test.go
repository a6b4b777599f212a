package middlewares_test

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/contact-relay/internal"
	"github.com/dmitrymomot/contact-relay/middlewares"
)

func TestRecover(t *testing.T) {
	t.Parallel()

	t.Run("recovers from panic and returns PanicError", func(t *testing.T) {
		t.Parallel()

		var logs bytes.Buffer
		req := httptest.NewRequest(http.MethodPost, "/contact", nil)
		ctx := newTestContext(httptest.NewRecorder(), req).withLogBuffer(&logs)

		handler := middlewares.Recover()(func(c internal.Context) error {
			panic("smtp client exploded")
		})

		err := handler(ctx)
		require.Error(t, err)
		require.Equal(t, middlewares.FailurePanic, middlewares.Failure(err))

		var pe *middlewares.PanicError
		require.ErrorAs(t, err, &pe)
		require.Equal(t, "smtp client exploded", pe.Value)
		require.NotEmpty(t, pe.Stack)

		require.Contains(t, logs.String(), `"msg":"panic recovered"`)
		require.Contains(t, logs.String(), `"path":"/contact"`)
		require.Contains(t, logs.String(), `"method":"POST"`)
		require.Contains(t, logs.String(), `"stack"`)
	})

	t.Run("passes through when no panic", func(t *testing.T) {
		t.Parallel()

		ctx := newTestContext(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		handler := middlewares.Recover()(func(c internal.Context) error {
			return nil
		})

		require.NoError(t, handler(ctx))
	})

	t.Run("handler error is returned without modification", func(t *testing.T) {
		t.Parallel()

		want := errors.New("relay failed")
		ctx := newTestContext(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		handler := middlewares.Recover()(func(c internal.Context) error {
			return want
		})

		require.Same(t, want, handler(ctx))
	})

	t.Run("DisablePrintStack leaves stack empty", func(t *testing.T) {
		t.Parallel()

		var logs bytes.Buffer
		ctx := newTestContext(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil)).withLogBuffer(&logs)

		handler := middlewares.Recover(middlewares.WithRecoverDisablePrintStack())(func(c internal.Context) error {
			panic("test panic")
		})

		var pe *middlewares.PanicError
		require.ErrorAs(t, handler(ctx), &pe)
		require.Nil(t, pe.Stack)
		require.NotContains(t, logs.String(), `"stack"`)
	})

	t.Run("stack size bounds the captured trace", func(t *testing.T) {
		t.Parallel()

		ctx := newTestContext(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		handler := middlewares.Recover(middlewares.WithRecoverStackSize(256))(func(c internal.Context) error {
			panic("small")
		})

		var pe *middlewares.PanicError
		require.ErrorAs(t, handler(ctx), &pe)
		require.NotEmpty(t, pe.Stack)
		require.LessOrEqual(t, len(pe.Stack), 256)
	})

	t.Run("non-positive stack size keeps the default", func(t *testing.T) {
		t.Parallel()

		ctx := newTestContext(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		handler := middlewares.Recover(middlewares.WithRecoverStackSize(0))(func(c internal.Context) error {
			panic("zero")
		})

		var pe *middlewares.PanicError
		require.ErrorAs(t, handler(ctx), &pe)
		require.NotEmpty(t, pe.Stack)
		require.LessOrEqual(t, len(pe.Stack), middlewares.DefaultStackSize)
	})

	t.Run("error panic value is kept", func(t *testing.T) {
		t.Parallel()

		cause := errors.New("nil map write")
		ctx := newTestContext(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		handler := middlewares.Recover()(func(c internal.Context) error {
			panic(cause)
		})

		var pe *middlewares.PanicError
		require.ErrorAs(t, handler(ctx), &pe)
		require.Equal(t, cause, pe.Value)
		require.Equal(t, "panic: nil map write", pe.Error())
	})

	t.Run("panic(nil) is caught as *runtime.PanicNilError", func(t *testing.T) {
		t.Parallel()

		ctx := newTestContext(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		handler := middlewares.Recover()(func(c internal.Context) error {
			panic(nil) //nolint:govet
		})

		var pe *middlewares.PanicError
		require.ErrorAs(t, handler(ctx), &pe)
		var pnErr *runtime.PanicNilError
		require.ErrorAs(t, pe.Value.(error), &pnErr)
	})
}

func TestRecover_WithApp(t *testing.T) {
	t.Parallel()

	h := routes(func(r internal.Router) {
		r.GET("/boom", func(c internal.Context) error {
			panic("boom")
		})
	})

	app := internal.New(
		internal.WithMiddleware(middlewares.Recover()),
		internal.WithHandlers(h),
		internal.WithErrorHandler(func(c internal.Context, err error) error {
			if middlewares.Failure(err) == middlewares.FailurePanic {
				return c.String(http.StatusInternalServerError, "Internal server error")
			}
			return c.String(http.StatusTeapot, err.Error())
		}),
	)

	w := httptest.NewRecorder()
	app.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.Equal(t, "Internal server error", w.Body.String())
}

// routes adapts a function to internal.Handler.
type routes func(r internal.Router)

func (f routes) Routes(r internal.Router) { f(r) }
