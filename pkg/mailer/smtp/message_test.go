package smtp

import (
	"strings"
	"testing"
	"time"

	"github.com/emersion/go-message/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/contact-relay/pkg/mailer"
)

func TestBuildMessage(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	t.Run("envelope and headers", func(t *testing.T) {
		t.Parallel()

		msg, err := buildMessage(&mailer.Email{
			To:      []string{"Owner <owner@example.com>"},
			CC:      []string{"cc@example.com"},
			BCC:     []string{"bcc@example.com"},
			Subject: "Grüße",
			Text:    "hi",
			Headers: map[string]string{"X-Mailer": "contact-relay"},
		}, "relay@example.net", now)
		require.NoError(t, err)

		assert.Equal(t, "relay@example.net", msg.Sender)
		assert.Equal(t, []string{"owner@example.com", "cc@example.com", "bcc@example.com"}, msg.Recipients)
		assert.True(t, strings.HasSuffix(msg.ID, "@example.net>"))

		raw := string(msg.Bytes())
		mr, err := mail.CreateReader(strings.NewReader(raw))
		require.NoError(t, err)
		assert.Equal(t, "contact-relay", mr.Header.Get("X-Mailer"))
		assert.Equal(t, "1.0", mr.Header.Get("MIME-Version"))
		subject, err := mr.Header.Subject()
		require.NoError(t, err)
		assert.Equal(t, "Grüße", subject)
		assert.NotContains(t, raw, "bcc@example.com")
		assert.NotContains(t, raw, "Grüße", "non-ascii subject must be encoded")
	})

	t.Run("message ids are unique", func(t *testing.T) {
		t.Parallel()

		email := &mailer.Email{To: []string{"a@example.com"}, Subject: "s", Text: "t"}
		a, err := buildMessage(email, "relay@example.com", now)
		require.NoError(t, err)
		b, err := buildMessage(email, "relay@example.com", now)
		require.NoError(t, err)
		assert.NotEqual(t, a.ID, b.ID)
	})

	t.Run("attachments", func(t *testing.T) {
		t.Parallel()

		msg, err := buildMessage(&mailer.Email{
			To:      []string{"a@example.com"},
			Subject: "s",
			Text:    "t",
			Attachments: []mailer.Attachment{
				{Filename: "note.txt", ContentType: "text/plain", Content: []byte("attached")},
			},
		}, "relay@example.com", now)
		require.NoError(t, err)
		assert.Contains(t, string(msg.Bytes()), `filename=note.txt`)
	})

	t.Run("invalid sender", func(t *testing.T) {
		t.Parallel()

		_, err := buildMessage(&mailer.Email{To: []string{"a@example.com"}}, "nope", now)
		require.ErrorIs(t, err, ErrInvalidAddress)
	})
}

func TestConfigDefaults(t *testing.T) {
	t.Parallel()

	cfg := Config{Host: "smtp.example.com", Username: "user@example.com"}.withDefaults()
	assert.Equal(t, 587, cfg.Port)
	assert.Equal(t, TLSModeStartTLS, cfg.TLSMode)
	assert.Equal(t, "user@example.com", cfg.From)
	assert.Equal(t, DefaultConnectionTimeout, cfg.ConnectionTimeout)
	assert.Equal(t, DefaultGreetingTimeout, cfg.GreetingTimeout)
	assert.Equal(t, DefaultSocketTimeout, cfg.SocketTimeout)
	assert.Equal(t, "smtp.example.com:587", cfg.Addr())
}
