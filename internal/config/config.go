// Package config holds the relay's runtime configuration.
//
// Values come from three layers: built-in defaults, an optional YAML file and
// the command line (flags and environment variables). Later layers override
// earlier ones; unset (zero) values never override.
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"dario.cat/mergo"
	"gopkg.in/yaml.v3"
)

// Recipient policies.
const (
	PolicyFixed     = "fixed"
	PolicyAllowlist = "allowlist"
)

// Mail transports.
const (
	TransportSMTP   = "smtp"
	TransportResend = "resend"
	TransportSES    = "ses"
)

// Config is the complete relay configuration. Treat it as read-only once
// the server has started.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Mail      MailConfig      `yaml:"mail"`
	Recipient RecipientConfig `yaml:"recipient"`
	Auth      AuthConfig      `yaml:"auth"`
	CORS      CORSConfig      `yaml:"cors"`
	Log       LogConfig       `yaml:"log"`
}

// HTTPConfig configures the listener and request handling.
type HTTPConfig struct {
	Port            int           `yaml:"port"`
	BasePath        string        `yaml:"base_path"`
	RequestTimeout  time.Duration `yaml:"request_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	BodyLimit       int64         `yaml:"body_limit"`
}

// MailConfig selects and configures the mail transport.
type MailConfig struct {
	Transport     string        `yaml:"transport"`
	From          string        `yaml:"from"`
	VerifyTimeout time.Duration `yaml:"verify_timeout"`
	SMTP          SMTPConfig    `yaml:"smtp"`
	Resend        ResendConfig  `yaml:"resend"`
	SES           SESConfig     `yaml:"ses"`
	DKIM          DKIMConfig    `yaml:"dkim"`
}

// SMTPConfig describes the upstream SMTP relay.
type SMTPConfig struct {
	Host               string        `yaml:"host"`
	Port               int           `yaml:"port"`
	User               string        `yaml:"user"`
	Pass               string        `yaml:"pass"`
	TLSMode            string        `yaml:"tls_mode"`
	RejectUnauthorized *bool         `yaml:"tls_reject_unauthorized"`
	ConnectionTimeout  time.Duration `yaml:"connection_timeout"`
	GreetingTimeout    time.Duration `yaml:"greeting_timeout"`
	SocketTimeout      time.Duration `yaml:"socket_timeout"`
}

// ResendConfig configures the Resend transport.
type ResendConfig struct {
	APIKey string `yaml:"api_key"`
}

// SESConfig configures the SES transport.
type SESConfig struct {
	Region          string `yaml:"region"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
}

// DKIMConfig enables DKIM signing on the SMTP transport when all fields are set.
type DKIMConfig struct {
	Domain         string `yaml:"domain"`
	Selector       string `yaml:"selector"`
	PrivateKeyFile string `yaml:"private_key_file"`
}

// Enabled reports whether every DKIM field is set.
func (c DKIMConfig) Enabled() bool {
	return c.Domain != "" && c.Selector != "" && c.PrivateKeyFile != ""
}

// RecipientConfig decides where submissions are delivered.
type RecipientConfig struct {
	Email     string   `yaml:"email"`
	Policy    string   `yaml:"policy"`
	Allowlist []string `yaml:"allowlist"`
}

// AuthConfig configures bearer token authentication and the replay guard.
type AuthConfig struct {
	Required     *bool         `yaml:"required"`
	APIKey       string        `yaml:"api_key"`
	Secret       string        `yaml:"secret"`
	ReplayWindow time.Duration `yaml:"replay_window"`
	RedisURL     string        `yaml:"redis_url"`
}

// CORSConfig restricts cross-origin callers. No origins reflects any origin.
type CORSConfig struct {
	Origins []string `yaml:"origins"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level     string `yaml:"level"`
	Format    string `yaml:"format"`
	SentryDSN string `yaml:"sentry_dsn"`
}

// Bool returns a pointer to b, for the optional boolean fields.
func Bool(b bool) *bool {
	return &b
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		HTTP: HTTPConfig{
			Port:            3000,
			RequestTimeout:  90 * time.Second,
			WriteTimeout:    120 * time.Second,
			ShutdownTimeout: 30 * time.Second,
			BodyLimit:       1 << 20,
		},
		Mail: MailConfig{
			Transport:     TransportSMTP,
			VerifyTimeout: 5 * time.Second,
			SMTP: SMTPConfig{
				Host:               "smtp.gmail.com",
				Port:               587,
				TLSMode:            "starttls",
				RejectUnauthorized: Bool(false),
				ConnectionTimeout:  30 * time.Second,
				GreetingTimeout:    15 * time.Second,
				SocketTimeout:      30 * time.Second,
			},
		},
		Recipient: RecipientConfig{Policy: PolicyFixed},
		Auth:      AuthConfig{Required: Bool(true)},
		Log:       LogConfig{Level: "info", Format: "auto"},
	}
}

// LoadFile reads a YAML configuration file. Keys missing from the file are
// left zero; combine the result with Default using Merge.
func LoadFile(path string) (Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// Merge applies every non-zero value of src onto dst. Optional booleans
// override whenever they are set, including to false.
func Merge(dst *Config, src Config) error {
	if err := mergo.Merge(dst, src, mergo.WithOverride, mergo.WithoutDereference); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}
	return nil
}

// Load builds the effective configuration: defaults, then the file at path
// (skipped when path is empty), then overrides.
func Load(path string, overrides Config) (Config, error) {
	cfg := Default()

	if path != "" {
		file, err := LoadFile(path)
		if err != nil {
			return cfg, err
		}
		if err := Merge(&cfg, file); err != nil {
			return cfg, err
		}
	}

	if err := Merge(&cfg, overrides); err != nil {
		return cfg, err
	}

	cfg.normalize()
	return cfg, cfg.Validate()
}

func (c *Config) normalize() {
	c.Recipient.Policy = strings.ToLower(strings.TrimSpace(c.Recipient.Policy))
	c.Mail.Transport = strings.ToLower(strings.TrimSpace(c.Mail.Transport))
	c.Mail.SMTP.TLSMode = strings.ToLower(strings.TrimSpace(c.Mail.SMTP.TLSMode))
	c.Recipient.Allowlist = splitList(c.Recipient.Allowlist)
	c.CORS.Origins = splitList(c.CORS.Origins)
}

// splitList flattens comma separated entries and drops blanks.
func splitList(in []string) []string {
	var out []string
	for _, item := range in {
		for part := range strings.SplitSeq(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// Validate reports configuration that cannot work. Missing credentials are
// not errors: the relay starts and reports itself as not configured.
func (c Config) Validate() error {
	var errs []error

	if c.HTTP.Port < 0 || c.HTTP.Port > 65535 {
		errs = append(errs, fmt.Errorf("http.port %d out of range", c.HTTP.Port))
	}
	if !slices.Contains([]string{PolicyFixed, PolicyAllowlist}, c.Recipient.Policy) {
		errs = append(errs, fmt.Errorf("recipient.policy must be %q or %q, got %q", PolicyFixed, PolicyAllowlist, c.Recipient.Policy))
	}
	if c.Recipient.Policy == PolicyAllowlist {
		if len(c.Recipient.Allowlist) == 0 {
			errs = append(errs, errors.New("recipient.allowlist is required with the allowlist policy"))
		}
		if !c.AuthRequired() {
			errs = append(errs, errors.New("the allowlist policy requires auth.required"))
		}
	}
	if !slices.Contains([]string{TransportSMTP, TransportResend, TransportSES}, c.Mail.Transport) {
		errs = append(errs, fmt.Errorf("mail.transport %q is not supported", c.Mail.Transport))
	}
	if !slices.Contains([]string{"starttls", "tls", "none"}, c.Mail.SMTP.TLSMode) {
		errs = append(errs, fmt.Errorf("mail.smtp.tls_mode %q is not supported", c.Mail.SMTP.TLSMode))
	}
	if c.Auth.ReplayWindow < 0 {
		errs = append(errs, errors.New("auth.replay_window must not be negative"))
	}

	return errors.Join(errs...)
}

// AuthRequired reports whether POST /contact needs a bearer token.
func (c Config) AuthRequired() bool {
	return c.Auth.Required == nil || *c.Auth.Required
}

// StrictTLS reports whether the SMTP server certificate is verified.
func (c Config) StrictTLS() bool {
	return c.Mail.SMTP.RejectUnauthorized != nil && *c.Mail.SMTP.RejectUnauthorized
}

// Sender returns the sending mailbox: mail.from, or the SMTP user.
func (c Config) Sender() string {
	if c.Mail.From != "" {
		return c.Mail.From
	}
	return c.Mail.SMTP.User
}

// Addr returns the listen address for the HTTP server.
func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.HTTP.Port)
}
