package contact

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"

	"github.com/dmitrymomot/contact-relay/pkg/mailer"
)

// Sender display name and subject prefix of relayed messages.
const (
	SenderName    = "Contact Form"
	SubjectPrefix = "Contact Form: "
)

//go:embed templates/contact.html
var templatesFS embed.FS

var htmlTemplate = template.Must(
	template.New("contact.html").
		Funcs(template.FuncMap{"lines": lines}).
		ParseFS(templatesFS, "templates/contact.html"),
)

// Composer renders Submissions into mail messages.
// Output is deterministic: the same submission yields identical bytes.
type Composer struct {
	sender string
}

// NewComposer creates a Composer that sends from the given mailbox.
// An empty sender leaves From unset so the mailer default applies.
func NewComposer(sender string) *Composer {
	return &Composer{sender: sender}
}

// Compose builds the message for s. Every field is HTML-escaped in the
// HTML part and body line breaks become <br>.
func (c *Composer) Compose(s Submission) (*mailer.Email, error) {
	var html bytes.Buffer
	if err := htmlTemplate.Execute(&html, s); err != nil {
		return nil, fmt.Errorf("render contact template: %w", err)
	}

	email := &mailer.Email{
		To:      []string{s.RecipientEmail},
		ReplyTo: s.Email,
		Subject: SubjectPrefix + s.Subject,
		HTML:    html.String(),
		Text:    composeText(s),
		Tags:    mailer.Tags{"source": "contact-form"},
	}
	if c.sender != "" {
		email.From = mailer.Recipient(SenderName, c.sender)
	}
	return email, nil
}

func composeText(s Submission) string {
	var b strings.Builder
	b.WriteString("New Contact Form Submission\n\n")
	fmt.Fprintf(&b, "Name: %s\n", s.Name)
	fmt.Fprintf(&b, "Email: %s\n", s.Email)
	fmt.Fprintf(&b, "Phone: %s\n", s.Phone)
	fmt.Fprintf(&b, "Subject: %s\n\n", s.Subject)
	b.WriteString("Message:\n")
	b.WriteString(s.Body)
	return strings.TrimSpace(b.String())
}

func lines(s string) []string {
	return strings.Split(s, "\n")
}
