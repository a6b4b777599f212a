package smtp

import (
	"bytes"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/emersion/go-message/mail"
	"github.com/google/uuid"

	"github.com/dmitrymomot/contact-relay/pkg/mailer"
)

// message is a rendered RFC 5322 message plus its SMTP envelope.
type message struct {
	ID         string
	Sender     string
	Recipients []string
	body       bytes.Buffer
}

func (m *message) Bytes() []byte {
	return m.body.Bytes()
}

// buildMessage renders email as multipart/mixed with a multipart/alternative
// text+HTML part followed by attachments.
func buildMessage(email *mailer.Email, from string, now time.Time) (*message, error) {
	sender, err := parseAddress(from)
	if err != nil {
		return nil, err
	}

	to, err := parseAddresses(email.To)
	if err != nil {
		return nil, err
	}
	cc, err := parseAddresses(email.CC)
	if err != nil {
		return nil, err
	}
	bcc, err := parseAddresses(email.BCC)
	if err != nil {
		return nil, err
	}

	msg := &message{
		ID:     "<" + uuid.NewString() + "@" + domainOf(sender.Address) + ">",
		Sender: sender.Address,
	}
	for _, list := range [][]*mail.Address{to, cc, bcc} {
		for _, a := range list {
			msg.Recipients = append(msg.Recipients, a.Address)
		}
	}

	var h mail.Header
	h.SetDate(now)
	h.SetAddressList("From", []*mail.Address{sender})
	h.SetAddressList("To", to)
	if len(cc) > 0 {
		h.SetAddressList("Cc", cc)
	}
	if email.ReplyTo != "" {
		replyTo, err := parseAddress(email.ReplyTo)
		if err != nil {
			return nil, err
		}
		h.SetAddressList("Reply-To", []*mail.Address{replyTo})
	}
	h.SetSubject(email.Subject)
	h.SetMessageID(strings.Trim(msg.ID, "<>"))
	h.Set("MIME-Version", "1.0")
	for _, k := range slices.Sorted(maps.Keys(email.Headers)) {
		h.Set(k, email.Headers[k])
	}
	for _, k := range slices.Sorted(maps.Keys(email.Tags)) {
		h.Add("X-Tag", k+"="+tagValue(email.Tags[k]))
	}

	mw, err := mail.CreateWriter(&msg.body, h)
	if err != nil {
		return nil, err
	}

	iw, err := mw.CreateInline()
	if err != nil {
		return nil, err
	}
	if email.Text != "" {
		if err := writeInline(iw, "text/plain", email.Text); err != nil {
			return nil, err
		}
	}
	if email.HTML != "" {
		if err := writeInline(iw, "text/html", email.HTML); err != nil {
			return nil, err
		}
	}
	if err := iw.Close(); err != nil {
		return nil, err
	}

	for _, a := range email.Attachments {
		if err := writeAttachment(mw, a); err != nil {
			return nil, err
		}
	}

	if err := mw.Close(); err != nil {
		return nil, err
	}
	return msg, nil
}

func writeInline(iw *mail.InlineWriter, contentType, body string) error {
	var ph mail.InlineHeader
	ph.SetContentType(contentType, map[string]string{"charset": "utf-8"})
	ph.Set("Content-Transfer-Encoding", "quoted-printable")

	w, err := iw.CreatePart(ph)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(w, body); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}

func writeAttachment(mw *mail.Writer, a mailer.Attachment) error {
	contentType := a.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	var ah mail.AttachmentHeader
	ah.SetContentType(contentType, nil)
	ah.SetFilename(a.Filename)
	ah.Set("Content-Transfer-Encoding", "base64")
	if a.ContentID != "" {
		ah.Set("Content-ID", "<"+strings.Trim(a.ContentID, "<>")+">")
	}

	w, err := mw.CreateAttachment(ah)
	if err != nil {
		return err
	}
	if _, err := w.Write(a.Content); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}

func parseAddress(s string) (*mail.Address, error) {
	a, err := mail.ParseAddress(s)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrInvalidAddress, s, err)
	}
	return a, nil
}

func parseAddresses(list []string) ([]*mail.Address, error) {
	out := make([]*mail.Address, 0, len(list))
	for _, s := range list {
		a, err := parseAddress(s)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

func domainOf(addr string) string {
	if i := strings.LastIndexByte(addr, '@'); i >= 0 && i < len(addr)-1 {
		return addr[i+1:]
	}
	return "localhost"
}

func tagValue(v any) string {
	switch val := v.(type) {
	case nil, struct{}:
		return "true"
	case string:
		return val
	default:
		return fmt.Sprint(val)
	}
}
