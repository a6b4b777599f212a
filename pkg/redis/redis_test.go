package redis

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestOpen_Validation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("empty URL", func(t *testing.T) {
		t.Parallel()

		client, err := Open(ctx, "")
		require.ErrorIs(t, err, ErrEmptyConnectionURL)
		require.Nil(t, client)
	})

	t.Run("unsupported scheme", func(t *testing.T) {
		t.Parallel()

		for _, url := range []string{"http://localhost:6379", "localhost:6379", "postgres://localhost:6379"} {
			client, err := Open(ctx, url)
			require.ErrorIs(t, err, ErrFailedToParseURL, url)
			require.Nil(t, client)
		}
	})

	t.Run("malformed URL", func(t *testing.T) {
		t.Parallel()

		for _, url := range []string{"redis://localhost:notaport", "redis://localhost:6379/notanumber"} {
			client, err := Open(ctx, url)
			require.ErrorIs(t, err, ErrFailedToParseURL, url)
			require.Nil(t, client)
		}
	})

	t.Run("unreachable server fails after retries", func(t *testing.T) {
		t.Parallel()

		l, err := net.Listen("tcp", "127.0.0.1:0")
		require.NoError(t, err)
		addr := l.Addr().String()
		require.NoError(t, l.Close())

		client, err := Open(ctx, "redis://"+addr+"/0",
			WithRetry(2, 10*time.Millisecond),
			WithDialTimeout(200*time.Millisecond),
		)
		require.ErrorIs(t, err, ErrConnectionFailed)
		require.Nil(t, client)
	})
}

func TestHealthcheck_NilClient(t *testing.T) {
	t.Parallel()

	err := Healthcheck(nil)(context.Background())
	require.ErrorIs(t, err, ErrNotConnected)
}

func TestShutdown(t *testing.T) {
	t.Parallel()

	t.Run("closes the client", func(t *testing.T) {
		t.Parallel()

		c := &mockCloser{}
		require.NoError(t, Shutdown(c)(context.Background()))
		require.True(t, c.closed)
	})

	t.Run("propagates close error", func(t *testing.T) {
		t.Parallel()

		want := errors.New("close error")
		c := &mockCloser{err: want}
		require.Equal(t, want, Shutdown(c)(context.Background()))
	})

	t.Run("ignores already closed client", func(t *testing.T) {
		t.Parallel()

		c := &mockCloser{err: goredis.ErrClosed}
		require.NoError(t, Shutdown(c)(context.Background()))
	})

	t.Run("nil client", func(t *testing.T) {
		t.Parallel()

		require.NoError(t, Shutdown(nil)(context.Background()))
	})
}

func TestWait(t *testing.T) {
	t.Parallel()

	t.Run("cancelled context returns immediately", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		start := time.Now()
		require.Equal(t, context.Canceled, wait(ctx, 10*time.Second))
		require.Less(t, time.Since(start), time.Second)
	})

	t.Run("waits for the full duration", func(t *testing.T) {
		t.Parallel()

		start := time.Now()
		require.NoError(t, wait(context.Background(), 30*time.Millisecond))
		require.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
	})
}

func TestOptions(t *testing.T) {
	t.Parallel()

	o := defaultOptions()
	require.Equal(t, 10, o.poolSize)
	require.Equal(t, 3, o.retryAttempts)

	WithPoolSize(4)(o)
	WithRetry(7, time.Second)(o)
	WithDialTimeout(time.Second)(o)
	WithIOTimeout(2 * time.Second)(o)

	require.Equal(t, 4, o.poolSize)
	require.Equal(t, 7, o.retryAttempts)
	require.Equal(t, time.Second, o.retryInterval)
	require.Equal(t, time.Second, o.dialTimeout)
	require.Equal(t, 2*time.Second, o.ioTimeout)
}

type mockCloser struct {
	err    error
	closed bool
}

func (m *mockCloser) Close() error {
	m.closed = true
	return m.err
}
