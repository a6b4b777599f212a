package server

import (
	"context"

	"github.com/dmitrymomot/contact-relay/internal/config"
	"github.com/dmitrymomot/contact-relay/pkg/health"
	"github.com/dmitrymomot/contact-relay/pkg/nonce"
	"github.com/dmitrymomot/contact-relay/pkg/redis"
)

// ReplayStore is the nonce store chosen by configuration plus what it needs
// at runtime.
type ReplayStore struct {
	Store nonce.Store
	// Check is a readiness probe for the backend; nil for the memory store.
	Check health.CheckFunc
	// Close releases the store and its connection.
	Close func(context.Context) error
}

// NewReplayStore returns nil when the replay guard is disabled. With
// auth.redis_url set the store lives in Redis and is shared between
// instances; otherwise it is process-local.
func NewReplayStore(ctx context.Context, cfg config.Config) (*ReplayStore, error) {
	if !cfg.AuthRequired() || cfg.Auth.ReplayWindow <= 0 {
		return nil, nil
	}

	if cfg.Auth.RedisURL == "" {
		store := nonce.NewMemory()
		return &ReplayStore{
			Store: store,
			Close: func(context.Context) error { return store.Close() },
		}, nil
	}

	client, err := redis.Open(ctx, cfg.Auth.RedisURL)
	if err != nil {
		return nil, err
	}
	return &ReplayStore{
		Store: nonce.NewRedis(client, nonce.WithPrefix("contact-relay:nonce")),
		Check: redis.Healthcheck(client),
		Close: redis.Shutdown(client),
	}, nil
}
