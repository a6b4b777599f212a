package smtp

import (
	"net"
	"strconv"
	"time"
)

// TLS modes.
const (
	// TLSModeStartTLS upgrades a plain connection when the server offers STARTTLS.
	TLSModeStartTLS = "starttls"
	// TLSModeImplicit speaks TLS from the first byte (port 465).
	TLSModeImplicit = "tls"
	// TLSModeNone never negotiates TLS.
	TLSModeNone = "none"
)

// Default timeouts.
const (
	DefaultConnectionTimeout = 30 * time.Second
	DefaultGreetingTimeout   = 15 * time.Second
	DefaultSocketTimeout     = 30 * time.Second
)

// Config describes the upstream relay.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	// From is the sending mailbox. Defaults to Username.
	From string
	// LocalName is sent with EHLO. Defaults to "localhost".
	LocalName string
	TLSMode   string
	// InsecureSkipVerify disables certificate verification.
	InsecureSkipVerify bool

	ConnectionTimeout time.Duration
	GreetingTimeout   time.Duration
	SocketTimeout     time.Duration
}

func (c Config) withDefaults() Config {
	if c.Port == 0 {
		c.Port = 587
	}
	if c.LocalName == "" {
		c.LocalName = "localhost"
	}
	if c.TLSMode == "" {
		c.TLSMode = TLSModeStartTLS
	}
	if c.ConnectionTimeout <= 0 {
		c.ConnectionTimeout = DefaultConnectionTimeout
	}
	if c.GreetingTimeout <= 0 {
		c.GreetingTimeout = DefaultGreetingTimeout
	}
	if c.SocketTimeout <= 0 {
		c.SocketTimeout = DefaultSocketTimeout
	}
	if c.From == "" {
		c.From = c.Username
	}
	return c
}

// Addr returns host:port.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
