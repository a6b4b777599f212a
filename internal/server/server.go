// Package server wires configuration and collaborators into the HTTP app.
package server

import (
	"log/slog"
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/contact-relay/internal"
	"github.com/dmitrymomot/contact-relay/internal/config"
	"github.com/dmitrymomot/contact-relay/internal/contact"
	"github.com/dmitrymomot/contact-relay/middlewares"
	"github.com/dmitrymomot/contact-relay/pkg/apikey"
	"github.com/dmitrymomot/contact-relay/pkg/health"
	"github.com/dmitrymomot/contact-relay/pkg/logger"
	"github.com/dmitrymomot/contact-relay/pkg/nonce"
)

// Deps are the collaborators built from configuration by the binary.
type Deps struct {
	Relay  contact.Relay
	Cipher *apikey.Cipher
	// Replay enables the replay guard together with auth.replay_window.
	Replay nonce.Store
	// Checks are served on /health/ready.
	Checks health.Checks
	Logger *slog.Logger
}

// New builds the application for cfg.
func New(cfg config.Config, deps Deps) *internal.App {
	log := deps.Logger
	if log == nil {
		log = logger.NewNope()
	}

	var handlerOpts []contact.HandlerOption
	if cfg.AuthRequired() {
		cipher := deps.Cipher
		if cipher == nil {
			cipher = apikey.New(cfg.Auth.APIKey, cfg.Auth.Secret)
		}
		handlerOpts = append(handlerOpts, contact.WithAuth(
			middlewares.APIKey(cipher, middlewares.WithReplayGuard(deps.Replay, cfg.Auth.ReplayWindow)),
		))
	} else {
		log.Warn("authentication disabled: POST /contact accepts anonymous submissions")
	}

	handler := contact.NewHandler(
		deps.Relay,
		contact.NewValidator(contact.RecipientPolicy{
			Policy:    cfg.Recipient.Policy,
			Recipient: cfg.Recipient.Email,
			Allowlist: cfg.Recipient.Allowlist,
		}),
		contact.NewComposer(cfg.Sender()),
		handlerOpts...,
	)

	healthOpts := []internal.HealthOption{
		internal.WithReadinessTimeout(cfg.Mail.VerifyTimeout + time.Second),
		internal.WithHealthLogger(log),
	}
	for name, check := range deps.Checks {
		healthOpts = append(healthOpts, internal.WithReadinessCheck(name, check))
	}

	httpMiddlewares := []func(next http.Handler) http.Handler{chimw.RealIP}
	if cfg.HTTP.BodyLimit > 0 {
		httpMiddlewares = append(httpMiddlewares, chimw.RequestSize(cfg.HTTP.BodyLimit))
	}

	return internal.New(
		internal.WithCustomLogger(log),
		internal.WithBasePath(cfg.HTTP.BasePath),
		internal.WithHTTPMiddleware(httpMiddlewares...),
		internal.WithMiddleware(
			middlewares.RequestID(),
			middlewares.RequestLogger(middlewares.WithSkipPaths("/health/live", "/health/ready")),
			middlewares.Recover(),
			middlewares.CORS(middlewares.WithAllowOrigins(cfg.CORS.Origins...)),
			middlewares.Timeout(cfg.HTTP.RequestTimeout),
		),
		internal.WithErrorHandler(contact.ErrorHandler),
		internal.WithNotFoundHandler(contact.NotFound),
		internal.WithMethodNotAllowedHandler(contact.NotFound),
		internal.WithHealthChecks(healthOpts...),
		internal.WithHandlers(handler),
	)
}
