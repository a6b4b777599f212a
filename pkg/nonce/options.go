package nonce

import "time"

// MemoryOption configures the in-memory store.
type MemoryOption func(*memoryOptions)

type memoryOptions struct {
	now             func() time.Time
	cleanupInterval time.Duration
	maxEntries      int
}

func defaultMemoryOptions() *memoryOptions {
	return &memoryOptions{
		now:             time.Now,
		cleanupInterval: time.Minute,
		maxEntries:      100_000,
	}
}

// WithCleanupInterval sets how often expired claims are removed.
// Zero disables the janitor.
// Default: 1 minute.
func WithCleanupInterval(d time.Duration) MemoryOption {
	return func(o *memoryOptions) {
		o.cleanupInterval = d
	}
}

// WithMaxEntries caps the number of stored claims. When full, the oldest
// claim is dropped. Zero means unlimited.
// Default: 100000.
func WithMaxEntries(n int) MemoryOption {
	return func(o *memoryOptions) {
		o.maxEntries = n
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) MemoryOption {
	return func(o *memoryOptions) {
		if now != nil {
			o.now = now
		}
	}
}

// RedisOption configures the Redis store.
type RedisOption func(*redisOptions)

type redisOptions struct {
	prefix string
}

func defaultRedisOptions() *redisOptions {
	return &redisOptions{prefix: "nonce"}
}

// WithPrefix sets the key namespace. Keys are stored as "<prefix>:<key>".
// Default: "nonce".
func WithPrefix(prefix string) RedisOption {
	return func(o *redisOptions) {
		o.prefix = prefix
	}
}
