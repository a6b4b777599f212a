// Package nonce records one-time values so a replayed credential can be
// detected within a time window.
//
// A [Store] has a single operation, Claim, which atomically records a key
// and reports whether this call was the first to do so. Two implementations
// are provided: [Memory] for single-instance deployments and [Redis] for
// deployments that share state across replicas.
//
//	store := nonce.NewMemory(nonce.WithCleanupInterval(time.Minute))
//	defer store.Close()
//
//	first, err := store.Claim(ctx, fingerprint, 10*time.Minute)
//	if err != nil {
//	    return err
//	}
//	if !first {
//	    // replay
//	}
package nonce

import (
	"context"
	"time"
)

// Store claims keys for a limited time.
type Store interface {
	// Claim records key for ttl. It returns true when the key was not
	// already recorded, false when it was claimed earlier and has not expired.
	Claim(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Close() error
}
