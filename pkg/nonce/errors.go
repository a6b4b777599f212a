package nonce

import "errors"

var (
	// ErrClosed is returned when Claim is called on a closed store.
	ErrClosed = errors.New("nonce: store closed")

	// ErrInvalidTTL is returned for a non-positive ttl.
	ErrInvalidTTL = errors.New("nonce: ttl must be positive")

	// ErrEmptyKey is returned when key is empty.
	ErrEmptyKey = errors.New("nonce: empty key")
)
