package server

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dmitrymomot/contact-relay/internal/config"
	"github.com/dmitrymomot/contact-relay/pkg/mailer"
	"github.com/dmitrymomot/contact-relay/pkg/mailer/resend"
	"github.com/dmitrymomot/contact-relay/pkg/mailer/ses"
	"github.com/dmitrymomot/contact-relay/pkg/mailer/smtp"
)

// NewSender builds the transport selected by mail.transport.
func NewSender(ctx context.Context, cfg config.Config, log *slog.Logger) (mailer.Sender, error) {
	switch cfg.Mail.Transport {
	case config.TransportSMTP, "":
		return newSMTPSender(cfg, log)
	case config.TransportResend:
		return resend.New(resend.Config{
			APIKey: cfg.Mail.Resend.APIKey,
			From:   cfg.Sender(),
		}, nil)
	case config.TransportSES:
		return ses.New(ctx, ses.Config{
			Region:          cfg.Mail.SES.Region,
			AccessKeyID:     cfg.Mail.SES.AccessKeyID,
			SecretAccessKey: cfg.Mail.SES.SecretAccessKey,
			From:            cfg.Sender(),
		})
	default:
		return nil, fmt.Errorf("unsupported mail transport %q", cfg.Mail.Transport)
	}
}

func newSMTPSender(cfg config.Config, log *slog.Logger) (*smtp.Sender, error) {
	c := cfg.Mail.SMTP
	opts := []smtp.Option{smtp.WithLogger(log)}

	if dk := cfg.Mail.DKIM; dk.Enabled() {
		signOpts, err := smtp.LoadDKIM(dk.Domain, dk.Selector, dk.PrivateKeyFile)
		if err != nil {
			return nil, err
		}
		opts = append(opts, smtp.WithDKIM(signOpts))
	}

	return smtp.New(smtp.Config{
		Host:               c.Host,
		Port:               c.Port,
		Username:           c.User,
		Password:           c.Pass,
		From:               cfg.Mail.From,
		TLSMode:            c.TLSMode,
		InsecureSkipVerify: !cfg.StrictTLS(),
		ConnectionTimeout:  c.ConnectionTimeout,
		GreetingTimeout:    c.GreetingTimeout,
		SocketTimeout:      c.SocketTimeout,
	}, opts...), nil
}

// NewRelay wraps the configured transport in a Mailer.
func NewRelay(ctx context.Context, cfg config.Config, log *slog.Logger) (*mailer.Mailer, error) {
	sender, err := NewSender(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	return mailer.New(sender, mailer.Config{
		DefaultFrom:   cfg.Sender(),
		VerifyTimeout: cfg.Mail.VerifyTimeout,
	}), nil
}
