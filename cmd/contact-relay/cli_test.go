package main

import (
	"testing"
	"time"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/contact-relay/internal/config"
)

func parse(t *testing.T, args ...string) (*CLI, *kong.Context) {
	t.Helper()

	var cli CLI
	parser, err := kong.New(&cli, kong.Name("contact-relay"), kong.Exit(func(int) { t.Fatal("unexpected exit") }))
	require.NoError(t, err)

	kctx, err := parser.Parse(args)
	require.NoError(t, err)
	return &cli, kctx
}

func TestCLI_DefaultCommandIsServe(t *testing.T) {
	t.Parallel()

	_, kctx := parse(t)
	assert.Equal(t, "serve", kctx.Command())

	_, kctx = parse(t, "token", "-n", "3")
	assert.Equal(t, "token", kctx.Command())
}

func TestSettings_Overrides(t *testing.T) {
	t.Parallel()

	cli, _ := parse(t,
		"--port", "8080",
		"--smtp-host", "smtp.example.com",
		"--smtp-tls-reject-unauthorized", "true",
		"--auth-required", "false",
		"--recipient-allowlist", "a@example.com,b@example.com",
		"--replay-window", "5m",
		"serve",
	)

	layer, err := cli.overrides()
	require.NoError(t, err)

	cfg := config.Default()
	require.NoError(t, config.Merge(&cfg, layer))

	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, "smtp.example.com", cfg.Mail.SMTP.Host)
	assert.Equal(t, 587, cfg.Mail.SMTP.Port)
	assert.True(t, cfg.StrictTLS())
	assert.False(t, cfg.AuthRequired())
	assert.Equal(t, []string{"a@example.com", "b@example.com"}, cfg.Recipient.Allowlist)
	assert.Equal(t, 5*time.Minute, cfg.Auth.ReplayWindow)
}

func TestSettings_UnsetKeepsDefaults(t *testing.T) {
	t.Parallel()

	cli, _ := parse(t)
	layer, err := cli.overrides()
	require.NoError(t, err)

	assert.Nil(t, layer.Auth.Required)
	assert.Nil(t, layer.Mail.SMTP.RejectUnauthorized)

	cfg := config.Default()
	require.NoError(t, config.Merge(&cfg, layer))
	assert.True(t, cfg.AuthRequired())
	assert.False(t, cfg.StrictTLS())
	assert.Equal(t, config.PolicyFixed, cfg.Recipient.Policy)
}

func TestSettings_InvalidBool(t *testing.T) {
	t.Parallel()

	_, err := Settings{AuthRequired: "maybe"}.overrides()
	require.ErrorContains(t, err, "--auth-required")
}
