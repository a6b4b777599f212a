package nonce

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis is a Store backed by SET NX with an expiry, so concurrent replicas
// agree on which request claimed a key first.
type Redis struct {
	client redis.UniversalClient
	opts   *redisOptions
}

// NewRedis wraps a client obtained from pkg/redis.Open.
// The store does not own the client; Close is a no-op.
func NewRedis(client redis.UniversalClient, opts ...RedisOption) *Redis {
	o := defaultRedisOptions()
	for _, opt := range opts {
		opt(o)
	}
	return &Redis{client: client, opts: o}
}

// Claim implements Store.
func (r *Redis) Claim(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	if key == "" {
		return false, ErrEmptyKey
	}
	if ttl <= 0 {
		return false, ErrInvalidTTL
	}
	return r.client.SetNX(ctx, r.key(key), 1, ttl).Result()
}

// Close implements Store.
func (r *Redis) Close() error {
	return nil
}

func (r *Redis) key(k string) string {
	if r.opts.prefix == "" {
		return k
	}
	return r.opts.prefix + ":" + k
}

var _ Store = (*Redis)(nil)
