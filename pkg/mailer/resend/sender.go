package resend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/resend/resend-go/v3"

	"github.com/dmitrymomot/contact-relay/pkg/mailer"
)

// Sender implements mailer.Sender using the Resend API.
type Sender struct {
	client *resend.Client
	config Config
}

// New creates a Resend sender. httpClient may be nil.
func New(cfg Config, httpClient *http.Client) (*Sender, error) {
	var client *resend.Client
	if httpClient != nil {
		client = resend.NewCustomClient(httpClient, cfg.APIKey)
	} else {
		client = resend.NewClient(cfg.APIKey)
	}

	if cfg.BaseURL != "" {
		u, err := url.Parse(cfg.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("resend: invalid base url: %w", err)
		}
		client.BaseURL = u
	}

	return &Sender{client: client, config: cfg}, nil
}

// Configured reports whether an API key is set.
func (s *Sender) Configured() bool {
	return s.config.APIKey != ""
}

// Send implements mailer.Sender and returns the Resend email id.
func (s *Sender) Send(ctx context.Context, email *mailer.Email) (string, error) {
	from := email.From
	if from == "" {
		from = s.config.From
	}

	req := &resend.SendEmailRequest{
		From:    from,
		To:      email.To,
		Subject: email.Subject,
		Html:    email.HTML,
		Text:    email.Text,
		ReplyTo: email.ReplyTo,
		Cc:      email.CC,
		Bcc:     email.BCC,
		Headers: email.Headers,
	}
	if len(email.Attachments) > 0 {
		req.Attachments = convertAttachments(email.Attachments)
	}
	if len(email.Tags) > 0 {
		req.Tags = convertTags(email.Tags)
	}

	resp, err := s.client.Emails.SendWithContext(ctx, req)
	if err != nil {
		return "", fmt.Errorf("resend: failed to send email: %w", err)
	}
	return resp.Id, nil
}

func convertAttachments(attachments []mailer.Attachment) []*resend.Attachment {
	result := make([]*resend.Attachment, len(attachments))
	for i, a := range attachments {
		result[i] = &resend.Attachment{
			Filename:    a.Filename,
			Content:     a.Content,
			ContentType: a.ContentType,
			ContentId:   a.ContentID,
		}
	}
	return result
}

func convertTags(tags mailer.Tags) []resend.Tag {
	result := make([]resend.Tag, 0, len(tags))
	for name, value := range tags {
		result = append(result, resend.Tag{Name: name, Value: tagValue(value)})
	}
	return result
}

// tagValue renders presence-only tags as "true".
func tagValue(v any) string {
	switch val := v.(type) {
	case nil, struct{}:
		return "true"
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}

var (
	_ mailer.Sender       = (*Sender)(nil)
	_ mailer.Configurable = (*Sender)(nil)
)
