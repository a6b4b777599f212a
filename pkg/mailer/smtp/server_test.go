package smtp_test

import (
	"crypto/tls"
	"errors"
	"io"
	"net"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/emersion/go-sasl"
	gosmtp "github.com/emersion/go-smtp"
	"github.com/stretchr/testify/require"
)

type received struct {
	From string
	To   []string
	Data []byte
	TLS  bool
}

// testBackend captures delivered messages and checks PLAIN credentials.
type testBackend struct {
	mu        sync.Mutex
	messages  []received
	authed    bool
	authedTLS bool
	username  string
	password string
	rejectTo string
}

func (b *testBackend) NewSession(c *gosmtp.Conn) (gosmtp.Session, error) {
	_, encrypted := c.TLSConnectionState()
	return &testSession{backend: b, tls: encrypted}, nil
}

func (b *testBackend) Messages() []received {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]received(nil), b.messages...)
}

func (b *testBackend) Authed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.authed
}

// AuthedOverTLS reports whether credentials arrived on an encrypted session.
func (b *testBackend) AuthedOverTLS() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.authedTLS
}

type testSession struct {
	backend *testBackend
	msg     received
	tls     bool
}

func (s *testSession) AuthMechanisms() []string {
	if s.backend.username == "" {
		return nil
	}
	return []string{sasl.Plain}
}

func (s *testSession) Auth(string) (sasl.Server, error) {
	return sasl.NewPlainServer(func(_, username, password string) error {
		if username != s.backend.username || password != s.backend.password {
			return errors.New("invalid credentials")
		}
		s.backend.mu.Lock()
		s.backend.authed = true
		s.backend.authedTLS = s.tls
		s.backend.mu.Unlock()
		return nil
	}), nil
}

func (s *testSession) Mail(from string, _ *gosmtp.MailOptions) error {
	s.msg.From = from
	return nil
}

func (s *testSession) Rcpt(to string, _ *gosmtp.RcptOptions) error {
	if s.backend.rejectTo != "" && to == s.backend.rejectTo {
		return &gosmtp.SMTPError{Code: 550, EnhancedCode: gosmtp.EnhancedCode{5, 1, 1}, Message: "no such user"}
	}
	s.msg.To = append(s.msg.To, to)
	return nil
}

func (s *testSession) Data(r io.Reader) error {
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	s.msg.Data = b
	s.msg.TLS = s.tls
	s.backend.mu.Lock()
	s.backend.messages = append(s.backend.messages, s.msg)
	s.backend.mu.Unlock()
	return nil
}

func (s *testSession) Reset() {
	s.msg = received{}
}

func (s *testSession) Logout() error {
	return nil
}

type serverOptions struct {
	tls      *tls.Config
	implicit bool
}

// startServer runs an in-process go-smtp server and returns its host and port.
func startServer(t *testing.T, be *testBackend, opts serverOptions) (string, int) {
	t.Helper()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	s := gosmtp.NewServer(be)
	s.Domain = "localhost"
	s.AllowInsecureAuth = true
	s.ReadTimeout = 5 * time.Second
	s.WriteTimeout = 5 * time.Second
	if opts.tls != nil {
		s.TLSConfig = opts.tls
		if opts.implicit {
			l = tls.NewListener(l, opts.tls)
		}
	}

	go func() { _ = s.Serve(l) }()
	t.Cleanup(func() { _ = s.Close() })

	addr := l.Addr().(*net.TCPAddr)
	return "127.0.0.1", addr.Port
}

// testTLSConfig borrows the self-signed certificate httptest uses.
func testTLSConfig(t *testing.T) *tls.Config {
	t.Helper()

	srv := httptest.NewUnstartedServer(nil)
	srv.StartTLS()
	t.Cleanup(srv.Close)

	return &tls.Config{Certificates: srv.TLS.Certificates}
}

// blackhole accepts connections and never speaks.
func blackhole(t *testing.T) (string, int) {
	t.Helper()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	var (
		mu    sync.Mutex
		conns []net.Conn
	)
	go func() {
		for {
			c, err := l.Accept()
			if err != nil {
				return
			}
			mu.Lock()
			conns = append(conns, c)
			mu.Unlock()
		}
	}()
	t.Cleanup(func() {
		_ = l.Close()
		mu.Lock()
		defer mu.Unlock()
		for _, c := range conns {
			_ = c.Close()
		}
	})

	return "127.0.0.1", l.Addr().(*net.TCPAddr).Port
}
