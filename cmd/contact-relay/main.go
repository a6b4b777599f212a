// Command contact-relay accepts contact form submissions over HTTP and
// relays them by email.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/alecthomas/kong"

	"github.com/dmitrymomot/contact-relay/internal"
	"github.com/dmitrymomot/contact-relay/internal/config"
	"github.com/dmitrymomot/contact-relay/internal/server"
	"github.com/dmitrymomot/contact-relay/middlewares"
	"github.com/dmitrymomot/contact-relay/pkg/apikey"
	"github.com/dmitrymomot/contact-relay/pkg/health"
	"github.com/dmitrymomot/contact-relay/pkg/logger"
)

const flushTimeout = 2 * time.Second

// app carries what every command needs.
type app struct {
	ctx context.Context
	cfg config.Config
	log *slog.Logger
}

// ServeCmd runs the HTTP server until SIGINT or SIGTERM.
type ServeCmd struct{}

func (c *ServeCmd) Run(a *app) error {
	relay, err := server.NewRelay(a.ctx, a.cfg, a.log.With("component", "mailer"))
	if err != nil {
		return err
	}

	checks := health.Checks{"mail": relay.Verify}
	deps := server.Deps{
		Relay:  relay,
		Checks: checks,
		Logger: a.log,
	}

	runOpts := []internal.RunOption{
		internal.Logger(a.log),
		internal.WithContext(a.ctx),
		internal.WriteTimeout(a.cfg.HTTP.WriteTimeout),
		internal.ShutdownTimeout(a.cfg.HTTP.ShutdownTimeout),
		internal.StartupHook(func(ctx context.Context) error {
			if err := relay.Verify(ctx); err != nil {
				a.log.Warn("email service is not reachable, submissions will fail until it is",
					slog.String("transport", a.cfg.Mail.Transport),
					slog.Any("error", err),
				)
				return nil
			}
			a.log.Info("email service is ready", slog.String("transport", a.cfg.Mail.Transport))
			return nil
		}),
	}

	replay, err := server.NewReplayStore(a.ctx, a.cfg)
	if err != nil {
		return fmt.Errorf("replay store: %w", err)
	}
	if replay != nil {
		deps.Replay = replay.Store
		if replay.Check != nil {
			checks["redis"] = replay.Check
		}
		runOpts = append(runOpts, internal.ShutdownHook(replay.Close))
		a.log.Info("replay guard enabled", slog.Duration("window", a.cfg.Auth.ReplayWindow))
	}

	if a.cfg.AuthRequired() && (a.cfg.Auth.APIKey == "" || a.cfg.Auth.Secret == "") {
		a.log.Warn("API_KEY or ENCRYPTION_SECRET missing, every submission will be rejected")
	}

	return server.New(a.cfg, deps).Run(a.cfg.Addr(), runOpts...)
}

// TokenCmd prints fresh bearer tokens for the configured API key.
type TokenCmd struct {
	Count int `name:"count" short:"n" help:"Number of tokens to issue." default:"1"`
}

func (c *TokenCmd) Run(a *app) error {
	cipher := apikey.New(a.cfg.Auth.APIKey, a.cfg.Auth.Secret)
	for range max(c.Count, 1) {
		token, err := cipher.Issue(a.cfg.Auth.APIKey)
		if err != nil {
			return fmt.Errorf("issue token: %w", err)
		}
		fmt.Fprintln(os.Stdout, token)
	}
	return nil
}

// VerifyCmd checks connectivity to the mail transport.
type VerifyCmd struct{}

func (c *VerifyCmd) Run(a *app) error {
	relay, err := server.NewRelay(a.ctx, a.cfg, a.log.With("component", "mailer"))
	if err != nil {
		return err
	}
	if err := relay.Verify(a.ctx); err != nil {
		return err
	}
	a.log.Info("email service is ready", slog.String("transport", a.cfg.Mail.Transport))
	return nil
}

func main() {
	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("contact-relay"),
		kong.Description("Relays contact form submissions by email."),
		kong.UsageOnError(),
	)

	overrides, err := cli.overrides()
	kctx.FatalIfErrorf(err)

	cfg, err := config.Load(cli.Config, overrides)
	kctx.FatalIfErrorf(err)

	_, err = logger.ParseLevel(cfg.Log.Level)
	kctx.FatalIfErrorf(err)

	log := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Sentry: logger.SentryConfig{DSN: cfg.Log.SentryDSN, MinLevel: slog.LevelWarn},
	}, middlewares.RequestIDExtractor())

	err = kctx.Run(&app{ctx: context.Background(), cfg: cfg, log: log})
	if err != nil {
		log.Error("command failed", slog.String("command", kctx.Command()), slog.Any("error", err))
	}
	logger.Flush(flushTimeout)
	kctx.FatalIfErrorf(err)
}
