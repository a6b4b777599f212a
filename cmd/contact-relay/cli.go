package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/dmitrymomot/contact-relay/internal/config"
)

// CLI is the command line of the relay. Every setting may also come from
// the environment or the YAML file given with --config.
type CLI struct {
	Config string `name:"config" short:"c" help:"Path to a YAML configuration file." env:"CONFIG_FILE" type:"existingfile" optional:""`

	Settings `embed:""`

	Serve  ServeCmd  `cmd:"" default:"1" help:"Run the HTTP relay (default)."`
	Token  TokenCmd  `cmd:"" help:"Issue bearer tokens for clients."`
	Verify VerifyCmd `cmd:"" help:"Probe the mail transport and exit."`
}

// Settings mirror config.Config. Zero values mean "not set" so the file and
// the defaults show through.
type Settings struct {
	Port     int    `name:"port" help:"Listen port." env:"PORT"`
	BasePath string `name:"base-path" help:"Mount prefix for all routes." env:"HTTP_BASE_PATH"`

	MailTransport string `name:"mail-transport" help:"smtp, resend or ses." env:"MAIL_TRANSPORT"`

	SMTPHost                  string        `name:"smtp-host" help:"SMTP relay host." env:"SMTP_HOST"`
	SMTPPort                  int           `name:"smtp-port" help:"SMTP relay port." env:"SMTP_PORT"`
	SMTPUser                  string        `name:"smtp-user" help:"SMTP user and sending mailbox." env:"SMTP_USER"`
	SMTPPass                  string        `name:"smtp-pass" help:"SMTP password." env:"SMTP_PASS"`
	SMTPFrom                  string        `name:"smtp-from" help:"Sending mailbox, defaults to the SMTP user." env:"SMTP_FROM"`
	SMTPTLSMode               string        `name:"smtp-tls-mode" help:"starttls, tls or none." env:"SMTP_TLS_MODE"`
	SMTPTLSRejectUnauthorized string        `name:"smtp-tls-reject-unauthorized" help:"Verify the server certificate (true or false)." env:"SMTP_TLS_REJECT_UNAUTHORIZED"`
	SMTPConnectionTimeout     time.Duration `name:"smtp-connection-timeout" help:"Dial timeout." env:"SMTP_CONNECTION_TIMEOUT"`
	SMTPGreetingTimeout       time.Duration `name:"smtp-greeting-timeout" help:"Timeout for the server greeting." env:"SMTP_GREETING_TIMEOUT"`
	SMTPSocketTimeout         time.Duration `name:"smtp-socket-timeout" help:"Idle socket timeout." env:"SMTP_SOCKET_TIMEOUT"`

	ResendAPIKey       string `name:"resend-api-key" help:"Resend API key." env:"RESEND_API_KEY"`
	AWSRegion          string `name:"aws-region" help:"SES region." env:"AWS_REGION"`
	AWSAccessKeyID     string `name:"aws-access-key-id" help:"SES access key." env:"AWS_ACCESS_KEY_ID"`
	AWSSecretAccessKey string `name:"aws-secret-access-key" help:"SES secret key." env:"AWS_SECRET_ACCESS_KEY"`

	DKIMDomain         string `name:"dkim-domain" help:"DKIM signing domain." env:"DKIM_DOMAIN"`
	DKIMSelector       string `name:"dkim-selector" help:"DKIM selector." env:"DKIM_SELECTOR"`
	DKIMPrivateKeyFile string `name:"dkim-private-key-file" help:"PEM private key for DKIM." env:"DKIM_PRIVATE_KEY_FILE"`

	RecipientEmail     string   `name:"recipient-email" help:"Fixed recipient of every submission." env:"RECIPIENT_EMAIL"`
	RecipientPolicy    string   `name:"recipient-policy" help:"fixed or allowlist." env:"RECIPIENT_POLICY"`
	RecipientAllowlist []string `name:"recipient-allowlist" help:"Recipients callers may choose." env:"RECIPIENT_ALLOWLIST"`

	AuthRequired     string        `name:"auth-required" help:"Require a bearer token on POST /contact (true or false)." env:"AUTH_REQUIRED"`
	APIKey           string        `name:"api-key" help:"Expected decrypted API key." env:"API_KEY"`
	EncryptionSecret string        `name:"encryption-secret" help:"Secret the token key is derived from." env:"ENCRYPTION_SECRET"`
	ReplayWindow     time.Duration `name:"replay-window" help:"Reject reused tokens for this long (0 disables)." env:"REPLAY_WINDOW"`
	RedisURL         string        `name:"redis-url" help:"Redis for the replay guard; memory when empty." env:"REDIS_URL"`

	CORSOrigins []string `name:"cors-origins" help:"Allowed origins; empty reflects any." env:"CORS_ORIGINS"`

	LogLevel  string `name:"log-level" help:"debug, info, warn or error." env:"LOG_LEVEL"`
	LogFormat string `name:"log-format" help:"json, text or auto." env:"LOG_FORMAT"`
	SentryDSN string `name:"sentry-dsn" help:"Report errors to Sentry." env:"SENTRY_DSN"`
}

// overrides converts the settings into a config layer.
func (s Settings) overrides() (config.Config, error) {
	authRequired, err := optionalBool("auth-required", s.AuthRequired)
	if err != nil {
		return config.Config{}, err
	}
	strictTLS, err := optionalBool("smtp-tls-reject-unauthorized", s.SMTPTLSRejectUnauthorized)
	if err != nil {
		return config.Config{}, err
	}

	return config.Config{
		HTTP: config.HTTPConfig{
			Port:     s.Port,
			BasePath: s.BasePath,
		},
		Mail: config.MailConfig{
			Transport: s.MailTransport,
			From:      s.SMTPFrom,
			SMTP: config.SMTPConfig{
				Host:               s.SMTPHost,
				Port:               s.SMTPPort,
				User:               s.SMTPUser,
				Pass:               s.SMTPPass,
				TLSMode:            s.SMTPTLSMode,
				RejectUnauthorized: strictTLS,
				ConnectionTimeout:  s.SMTPConnectionTimeout,
				GreetingTimeout:    s.SMTPGreetingTimeout,
				SocketTimeout:      s.SMTPSocketTimeout,
			},
			Resend: config.ResendConfig{APIKey: s.ResendAPIKey},
			SES: config.SESConfig{
				Region:          s.AWSRegion,
				AccessKeyID:     s.AWSAccessKeyID,
				SecretAccessKey: s.AWSSecretAccessKey,
			},
			DKIM: config.DKIMConfig{
				Domain:         s.DKIMDomain,
				Selector:       s.DKIMSelector,
				PrivateKeyFile: s.DKIMPrivateKeyFile,
			},
		},
		Recipient: config.RecipientConfig{
			Email:     s.RecipientEmail,
			Policy:    s.RecipientPolicy,
			Allowlist: s.RecipientAllowlist,
		},
		Auth: config.AuthConfig{
			Required:     authRequired,
			APIKey:       s.APIKey,
			Secret:       s.EncryptionSecret,
			ReplayWindow: s.ReplayWindow,
			RedisURL:     s.RedisURL,
		},
		CORS: config.CORSConfig{Origins: s.CORSOrigins},
		Log: config.LogConfig{
			Level:     s.LogLevel,
			Format:    s.LogFormat,
			SentryDSN: s.SentryDSN,
		},
	}, nil
}

// optionalBool parses v, returning nil when it is empty.
func optionalBool(name, v string) (*bool, error) {
	if v == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil, fmt.Errorf("--%s: %q is not a boolean", name, v)
	}
	return &b, nil
}
