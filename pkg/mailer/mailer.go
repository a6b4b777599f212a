package mailer

import (
	"context"
	"errors"

	"golang.org/x/sync/singleflight"
)

// Connectivity states reported by Status.
const (
	StatusConnected    = "connected"
	StatusDisconnected = "disconnected"
)

// Mailer validates messages and hands them to a transport.
// It is safe for concurrent use when the Sender is.
type Mailer struct {
	sender Sender
	config Config
	probe  singleflight.Group
}

// New creates a Mailer. A nil sender yields a Mailer that is never configured.
func New(sender Sender, cfg Config) *Mailer {
	if cfg.VerifyTimeout <= 0 {
		cfg.VerifyTimeout = DefaultVerifyTimeout
	}
	return &Mailer{sender: sender, config: cfg}
}

// Configured reports whether the transport has what it needs to send.
func (m *Mailer) Configured() bool {
	if m.sender == nil {
		return false
	}
	if c, ok := m.sender.(Configurable); ok {
		return c.Configured()
	}
	return true
}

// Send validates email and delivers it once. email is not modified. The returned error wraps
// ErrSendFailed together with the transport's cause.
func (m *Mailer) Send(ctx context.Context, email *Email) (string, error) {
	if !m.Configured() {
		return "", ErrNotConfigured
	}
	if len(email.To) == 0 {
		return "", ErrNoRecipient
	}
	if email.Subject == "" {
		return "", ErrNoSubject
	}
	if email.HTML == "" && email.Text == "" {
		return "", ErrNoContent
	}
	msg := *email
	if msg.From == "" {
		msg.From = m.config.DefaultFrom
	}

	id, err := m.sender.Send(ctx, &msg)
	if err != nil {
		return "", errors.Join(ErrSendFailed, err)
	}
	return id, nil
}

// Verify probes the transport. Concurrent calls share one in-flight probe,
// bounded by Config.VerifyTimeout. Transports without a probe always pass.
func (m *Mailer) Verify(ctx context.Context) error {
	if !m.Configured() {
		return ErrNotConfigured
	}
	v, ok := m.sender.(Verifier)
	if !ok {
		return nil
	}

	ch := m.probe.DoChan("verify", func() (any, error) {
		pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), m.config.VerifyTimeout)
		defer cancel()
		return nil, v.Verify(pctx)
	})

	select {
	case <-ctx.Done():
		return errors.Join(ErrVerifyFailed, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return errors.Join(ErrVerifyFailed, res.Err)
		}
		return nil
	}
}

// Status reports StatusConnected when Verify succeeds and
// StatusDisconnected otherwise.
func (m *Mailer) Status(ctx context.Context) string {
	if m.Verify(ctx) != nil {
		return StatusDisconnected
	}
	return StatusConnected
}
