package mailer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSimpleTags(t *testing.T) {
	t.Parallel()

	tags := SimpleTags("contact", "form")
	require.Len(t, tags, 2)
	require.Equal(t, struct{}{}, tags["contact"])

	require.Empty(t, SimpleTags())
}

func TestRecipient(t *testing.T) {
	t.Parallel()

	require.Equal(t, "john@example.com", Recipient("", "john@example.com"))
	require.Equal(t, `"Contact Form" <form@example.com>`, Recipient("Contact Form", "form@example.com"))
	require.Equal(t, `"Doe, John" <john@example.com>`, Recipient("Doe, John", "john@example.com"))
}
