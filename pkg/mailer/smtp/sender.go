package smtp

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/emersion/go-msgauth/dkim"
	"github.com/emersion/go-sasl"
	gosmtp "github.com/emersion/go-smtp"

	"github.com/dmitrymomot/contact-relay/pkg/mailer"
)

// Sender delivers mail to an SMTP relay. Each Send and Verify uses its own
// connection, so a Sender is safe for concurrent use.
type Sender struct {
	dkim   *dkim.SignOptions
	now    func() time.Time
	logger *slog.Logger
	config Config
}

// Option configures a Sender.
type Option func(*Sender)

// WithDKIM signs every outgoing message.
func WithDKIM(opts *dkim.SignOptions) Option {
	return func(s *Sender) {
		s.dkim = opts
	}
}

// WithClock overrides the Date header time source.
func WithClock(now func() time.Time) Option {
	return func(s *Sender) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger logs protocol steps at debug level.
func WithLogger(l *slog.Logger) Option {
	return func(s *Sender) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates an SMTP sender.
func New(cfg Config, opts ...Option) *Sender {
	s := &Sender{
		config: cfg.withDefaults(),
		now:    time.Now,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Configured reports whether host and credentials are set.
func (s *Sender) Configured() bool {
	return s.config.Host != "" && s.config.Username != "" && s.config.Password != ""
}

// Send implements mailer.Sender. The returned id is the Message-ID header
// value, angle brackets included.
func (s *Sender) Send(ctx context.Context, email *mailer.Email) (string, error) {
	from := email.From
	if from == "" {
		from = s.config.From
	}
	if from == "" {
		return "", ErrNoSender
	}

	msg, err := buildMessage(email, from, s.now())
	if err != nil {
		return "", err
	}

	raw := msg.Bytes()
	if s.dkim != nil {
		var signed bytes.Buffer
		if err := dkim.Sign(&signed, bytes.NewReader(raw), s.dkim); err != nil {
			return "", fmt.Errorf("smtp: dkim sign: %w", err)
		}
		raw = signed.Bytes()
	}

	err = s.session(ctx, func(c *gosmtp.Client) error {
		if err := c.Mail(msg.Sender, nil); err != nil {
			return err
		}
		for _, rcpt := range msg.Recipients {
			if err := c.Rcpt(rcpt, nil); err != nil {
				return fmt.Errorf("rcpt %s: %w", rcpt, err)
			}
		}
		w, err := c.Data()
		if err != nil {
			return err
		}
		if _, err := w.Write(raw); err != nil {
			_ = w.Close()
			return err
		}
		return w.Close()
	})
	if err != nil {
		return "", err
	}

	s.logger.DebugContext(ctx, "smtp message accepted",
		slog.String("message_id", msg.ID),
		slog.Int("recipients", len(msg.Recipients)),
	)
	return msg.ID, nil
}

// Verify connects, negotiates TLS and authentication, and issues NOOP.
func (s *Sender) Verify(ctx context.Context) error {
	return s.session(ctx, func(c *gosmtp.Client) error {
		return c.Noop()
	})
}

// session runs fn on a freshly negotiated connection and says QUIT after.
func (s *Sender) session(ctx context.Context, fn func(*gosmtp.Client) error) (err error) {
	c, stop, err := s.connect(ctx)
	if err != nil {
		if ctx.Err() != nil {
			err = errors.Join(ErrConnectionAborted, ctx.Err(), err)
		}
		return err
	}
	defer func() {
		stop()
		_ = c.Close()
		if err != nil && ctx.Err() != nil {
			err = errors.Join(ErrConnectionAborted, ctx.Err(), err)
		}
	}()

	if err := s.authenticate(c); err != nil {
		return err
	}
	if err := fn(c); err != nil {
		return err
	}
	return c.Quit()
}

// connect returns a client that has read the greeting and said EHLO. In
// starttls mode a server advertising STARTTLS is dialed again and upgraded
// before EHLO is repeated over the encrypted channel.
func (s *Sender) connect(ctx context.Context) (*gosmtp.Client, func() bool, error) {
	cfg := s.config
	switch cfg.TLSMode {
	case TLSModeStartTLS, TLSModeImplicit, TLSModeNone:
	default:
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownTLSMode, cfg.TLSMode)
	}

	conn, stop, err := s.dial(ctx)
	if err != nil {
		return nil, nil, err
	}
	c := s.newClient(conn)
	if err := s.hello(c); err != nil {
		stop()
		_ = c.Close()
		return nil, nil, fmt.Errorf("smtp: greeting: %w", err)
	}
	if cfg.TLSMode != TLSModeStartTLS {
		return c, stop, nil
	}
	if ok, _ := c.Extension("STARTTLS"); !ok {
		return c, stop, nil
	}
	_ = c.Quit()
	stop()
	_ = c.Close()

	conn, stop, err = s.dial(ctx)
	if err != nil {
		return nil, nil, err
	}
	// NewClientStartTLS reads the greeting with its own five minute deadline.
	timer := time.AfterFunc(cfg.GreetingTimeout, func() { _ = conn.Close() })
	c, err = gosmtp.NewClientStartTLS(conn, s.tlsConfig())
	if !timer.Stop() && err == nil {
		_ = c.Close()
		err = ErrGreetingTimeout
	}
	if err != nil {
		stop()
		_ = conn.Close()
		return nil, nil, fmt.Errorf("smtp: starttls: %w", err)
	}
	s.withTimeouts(c)
	if err := s.hello(c); err != nil {
		stop()
		_ = c.Close()
		return nil, nil, fmt.Errorf("smtp: starttls: %w", err)
	}
	return c, stop, nil
}

// dial opens the TCP connection and, in implicit mode, completes the TLS
// handshake. The returned stop func detaches the context watcher.
func (s *Sender) dial(ctx context.Context) (net.Conn, func() bool, error) {
	cfg := s.config

	d := net.Dialer{Timeout: cfg.ConnectionTimeout}
	conn, err := d.DialContext(ctx, "tcp", cfg.Addr())
	if err != nil {
		return nil, nil, fmt.Errorf("smtp: dial %s: %w", cfg.Addr(), err)
	}
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })

	if cfg.TLSMode == TLSModeImplicit {
		tc := tls.Client(conn, s.tlsConfig())
		_ = tc.SetDeadline(time.Now().Add(cfg.GreetingTimeout))
		if err := tc.HandshakeContext(ctx); err != nil {
			stop()
			_ = conn.Close()
			return nil, nil, fmt.Errorf("smtp: tls handshake: %w", err)
		}
		_ = tc.SetDeadline(time.Time{})
		conn = tc
	}
	return conn, stop, nil
}

func (s *Sender) newClient(conn net.Conn) *gosmtp.Client {
	c := gosmtp.NewClient(conn)
	s.withTimeouts(c)
	return c
}

func (s *Sender) withTimeouts(c *gosmtp.Client) {
	c.CommandTimeout = s.config.SocketTimeout
	c.SubmissionTimeout = s.config.SocketTimeout
}

// hello says EHLO, reading the greeting first if it is still pending.
func (s *Sender) hello(c *gosmtp.Client) error {
	c.CommandTimeout = s.config.GreetingTimeout
	defer func() { c.CommandTimeout = s.config.SocketTimeout }()
	return c.Hello(s.config.LocalName)
}

// authenticate uses AUTH PLAIN when the server advertises AUTH and
// credentials are set.
func (s *Sender) authenticate(c *gosmtp.Client) error {
	cfg := s.config
	if cfg.Username == "" || cfg.Password == "" {
		return nil
	}
	if ok, _ := c.Extension("AUTH"); !ok {
		return nil
	}
	if err := c.Auth(sasl.NewPlainClient("", cfg.Username, cfg.Password)); err != nil {
		return fmt.Errorf("smtp: auth: %w", err)
	}
	return nil
}

func (s *Sender) tlsConfig() *tls.Config {
	return &tls.Config{
		ServerName:         s.config.Host,
		InsecureSkipVerify: s.config.InsecureSkipVerify, //nolint:gosec // opt-in via config
		MinVersion:         tls.VersionTLS12,
	}
}

var (
	_ mailer.Sender       = (*Sender)(nil)
	_ mailer.Verifier     = (*Sender)(nil)
	_ mailer.Configurable = (*Sender)(nil)
)
