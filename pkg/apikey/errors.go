package apikey

import "errors"

var (
	// ErrMissingHeader is returned when the Authorization header is absent or
	// does not use the Bearer scheme.
	ErrMissingHeader = errors.New("apikey: missing or invalid authorization header")

	// ErrNotConfigured is returned when the server has no API key or secret.
	ErrNotConfigured = errors.New("apikey: server authentication not configured")

	// ErrInvalidToken is returned when the token cannot be decoded or decrypted.
	ErrInvalidToken = errors.New("apikey: invalid encrypted key format")

	// ErrInvalidKey is returned when the decrypted key does not match.
	ErrInvalidKey = errors.New("apikey: invalid api key")
)
