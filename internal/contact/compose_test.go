package contact_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/contact-relay/internal/contact"
	"github.com/dmitrymomot/contact-relay/pkg/mailer"
)

func sampleSubmission() contact.Submission {
	return contact.Submission{
		Name:           "Jane Doe",
		Email:          "jane@example.com",
		Phone:          "+1 555 123 4567",
		Subject:        "Project inquiry",
		Body:           "Hello,\nLet's talk.",
		RecipientEmail: "inbox@example.com",
	}
}

func TestComposer_Compose(t *testing.T) {
	t.Parallel()

	t.Run("headers", func(t *testing.T) {
		t.Parallel()

		email, err := contact.NewComposer("relay@example.com").Compose(sampleSubmission())
		require.NoError(t, err)

		assert.Equal(t, mailer.Recipient("Contact Form", "relay@example.com"), email.From)
		assert.Equal(t, []string{"inbox@example.com"}, email.To)
		assert.Equal(t, "jane@example.com", email.ReplyTo)
		assert.Equal(t, "Contact Form: Project inquiry", email.Subject)
		assert.Equal(t, mailer.Tags{"source": "contact-form"}, email.Tags)
	})

	t.Run("empty sender leaves From to the mailer", func(t *testing.T) {
		t.Parallel()

		email, err := contact.NewComposer("").Compose(sampleSubmission())
		require.NoError(t, err)
		assert.Empty(t, email.From)
	})

	t.Run("text part", func(t *testing.T) {
		t.Parallel()

		email, err := contact.NewComposer("relay@example.com").Compose(sampleSubmission())
		require.NoError(t, err)

		want := "New Contact Form Submission\n\n" +
			"Name: Jane Doe\n" +
			"Email: jane@example.com\n" +
			"Phone: +1 555 123 4567\n" +
			"Subject: Project inquiry\n\n" +
			"Message:\n" +
			"Hello,\nLet's talk."
		assert.Equal(t, want, email.Text)
	})

	t.Run("html part", func(t *testing.T) {
		t.Parallel()

		email, err := contact.NewComposer("relay@example.com").Compose(sampleSubmission())
		require.NoError(t, err)

		assert.True(t, strings.HasPrefix(email.HTML, "<!DOCTYPE html>"))
		assert.Contains(t, email.HTML, "<h2>New Contact Form Submission</h2>")
		assert.Contains(t, email.HTML, `<div class="value">Jane Doe</div>`)
		assert.Contains(t, email.HTML, `<div class="value">&#43;1 555 123 4567</div>`)
		assert.Contains(t, email.HTML, `<div class="message">Hello,<br>Let&#39;s talk.</div>`)
	})

	t.Run("every field is escaped", func(t *testing.T) {
		t.Parallel()

		s := sampleSubmission()
		s.Name = `<script>alert("x")</script>`
		s.Subject = "Tom & Jerry"
		s.Body = "<b>bold</b>\n<img src=x onerror=alert(1)>"

		email, err := contact.NewComposer("relay@example.com").Compose(s)
		require.NoError(t, err)

		assert.NotContains(t, email.HTML, "<script>")
		assert.NotContains(t, email.HTML, "<b>bold</b>")
		assert.NotContains(t, email.HTML, "<img")
		assert.Contains(t, email.HTML, "&lt;script&gt;")
		assert.Contains(t, email.HTML, "Tom &amp; Jerry")
		assert.Contains(t, email.HTML, "&lt;b&gt;bold&lt;/b&gt;<br>&lt;img")
		// The text part is plain and left untouched.
		assert.Contains(t, email.Text, "<b>bold</b>")
	})

	t.Run("deterministic", func(t *testing.T) {
		t.Parallel()

		c := contact.NewComposer("relay@example.com")
		a, err := c.Compose(sampleSubmission())
		require.NoError(t, err)
		b, err := c.Compose(sampleSubmission())
		require.NoError(t, err)
		assert.Equal(t, a, b)
	})
}
