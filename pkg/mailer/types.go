package mailer

import (
	"net/mail"
)

// Tags are provider-level labels attached to a message. A value of
// struct{}{} marks a presence-only tag.
type Tags map[string]any

// SimpleTags creates presence-only tags.
func SimpleTags(names ...string) Tags {
	t := make(Tags, len(names))
	for _, n := range names {
		t[n] = struct{}{}
	}
	return t
}

// Recipient formats an RFC 5322 address, quoting the display name when needed.
// Returns the bare address when name is empty.
func Recipient(name, email string) string {
	if name == "" {
		return email
	}
	return (&mail.Address{Name: name, Address: email}).String()
}

// Email is a fully prepared message.
type Email struct {
	Headers     map[string]string // extra headers, e.g. X-Mailer
	Tags        Tags              // provider tags; SMTP renders them as X-Tag headers
	Subject     string
	HTML        string
	Text        string
	From        string // falls back to Config.DefaultFrom
	ReplyTo     string
	To          []string // at least one required
	CC          []string
	BCC         []string
	Attachments []Attachment
}

// Attachment is a file attached to an Email.
type Attachment struct {
	Filename    string
	ContentType string
	ContentID   string // set for inline parts
	Content     []byte
}
