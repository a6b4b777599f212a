package middlewares

import (
	"errors"
	"strings"
	"time"

	"github.com/dmitrymomot/contact-relay/internal"
	"github.com/dmitrymomot/contact-relay/pkg/apikey"
	"github.com/dmitrymomot/contact-relay/pkg/nonce"
)

// Messages returned to callers that fail authentication.
const (
	MsgMissingHeader = "Missing or invalid authorization header"
	MsgInvalidToken  = "Invalid encrypted key format"
	MsgInvalidKey    = "Invalid API key"
	MsgNotConfigured = "Server authentication not configured"
	MsgTokenReused   = "Token already used"
)

// APIKeyConfig configures the API key middleware.
type APIKeyConfig struct {
	// Replay is consulted after a token authenticates. Nil disables the guard.
	Replay nonce.Store

	// ReplayWindow is how long a token stays claimed.
	ReplayWindow time.Duration
}

// APIKeyOption configures APIKeyConfig.
type APIKeyOption func(*APIKeyConfig)

// WithReplayGuard rejects a token presented again within window.
// A non-positive window or a nil store leaves the guard disabled.
func WithReplayGuard(store nonce.Store, window time.Duration) APIKeyOption {
	return func(cfg *APIKeyConfig) {
		if store == nil || window <= 0 {
			return
		}
		cfg.Replay = store
		cfg.ReplayWindow = window
	}
}

// APIKey returns middleware that authenticates the Authorization header with
// the encrypted bearer token scheme of pkg/apikey.
//
// Failures become HTTPErrors: 401 for a missing header, a malformed token or
// a wrong key, 500 when the server has no key or secret configured. With a
// replay guard, a token already seen within the window is a 401 as well.
func APIKey(cipher *apikey.Cipher, opts ...APIKeyOption) internal.Middleware {
	cfg := &APIKeyConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			header := strings.TrimSpace(c.Header("Authorization"))

			fingerprint, err := cipher.Verify(header)
			if err != nil {
				return authError(c, err)
			}

			if cfg.Replay != nil {
				first, err := cfg.Replay.Claim(c, fingerprint, cfg.ReplayWindow)
				if err != nil {
					return internal.ErrInternal("Internal server error", internal.WithError(err))
				}
				if !first {
					c.LogWarn("replayed token rejected")
					return internal.ErrUnauthorized(MsgTokenReused, internal.WithErrorCode("token_reused"))
				}
			}

			return next(c)
		}
	}
}

// authError maps apikey errors to responses. Secret material is never logged.
func authError(c internal.Context, err error) error {
	switch {
	case errors.Is(err, apikey.ErrMissingHeader):
		return internal.ErrUnauthorized(MsgMissingHeader, internal.WithError(err), internal.WithErrorCode("missing_header"))
	case errors.Is(err, apikey.ErrNotConfigured):
		c.LogError("api key authentication is not configured")
		return internal.ErrInternal(MsgNotConfigured, internal.WithError(err), internal.WithErrorCode("auth_not_configured"))
	case errors.Is(err, apikey.ErrInvalidToken):
		c.LogDebug("token rejected", "reason", err.Error())
		return internal.ErrUnauthorized(MsgInvalidToken, internal.WithError(err), internal.WithErrorCode("invalid_token"))
	default:
		return internal.ErrUnauthorized(MsgInvalidKey, internal.WithError(err), internal.WithErrorCode("invalid_key"))
	}
}
