package contact

import (
	"context"
	"errors"
	"net/http"

	"github.com/dmitrymomot/contact-relay/internal"
	"github.com/dmitrymomot/contact-relay/pkg/mailer"
)

// Response messages.
const (
	MsgServiceName     = "Email Backend Service API"
	MsgInvalidBody     = "Invalid request body"
	MsgValidation      = "Validation error"
	MsgNotConfigured   = "Email service not configured"
	MsgSendFailed      = "Failed to send email. Please try again later."
	MsgSent            = "Email sent successfully"
	MsgHealthNoMailbox = "Service available but email not configured"
	MsgBodyTooLarge    = "Request body too large"
)

// Version is reported by the service descriptor.
const Version = "1.0.0"

// Relay delivers composed messages. *mailer.Mailer implements it.
type Relay interface {
	Configured() bool
	Send(ctx context.Context, email *mailer.Email) (string, error)
	Status(ctx context.Context) string
}

// DescriptorResponse is returned by GET /.
type DescriptorResponse struct {
	Success   bool              `json:"success"`
	Message   string            `json:"message"`
	Version   string            `json:"version"`
	Endpoints map[string]string `json:"endpoints"`
}

// HealthResponse is returned by GET /contact/health.
type HealthResponse struct {
	Success      bool   `json:"success"`
	EmailService string `json:"emailService"`
	Note         string `json:"note,omitempty"`
}

// SubmitResponse is returned by a successful POST /contact.
type SubmitResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	MessageID string `json:"messageId"`
}

// Handler serves the contact endpoints.
type Handler struct {
	relay     Relay
	validator *Validator
	composer  *Composer
	auth      []internal.Middleware
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithAuth protects POST /contact with the given middleware, applied in order.
func WithAuth(mw ...internal.Middleware) HandlerOption {
	return func(h *Handler) {
		h.auth = append(h.auth, mw...)
	}
}

// NewHandler creates the contact handler.
func NewHandler(relay Relay, v *Validator, c *Composer, opts ...HandlerOption) *Handler {
	h := &Handler{relay: relay, validator: v, composer: c}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Routes implements internal.Handler.
func (h *Handler) Routes(r internal.Router) {
	r.GET("/", h.describe)
	r.GET("/contact/health", h.health)
	r.POST("/contact", h.submit, h.auth...)
}

func (h *Handler) configured() bool {
	return h.relay.Configured() && h.validator.Ready()
}

func (h *Handler) describe(c internal.Context) error {
	return c.JSON(http.StatusOK, DescriptorResponse{
		Success: true,
		Message: MsgServiceName,
		Version: Version,
		Endpoints: map[string]string{
			"contact": "POST /contact",
			"health":  "GET /contact/health",
		},
	})
}

// health always answers 200; probe failures show up as "disconnected".
func (h *Handler) health(c internal.Context) error {
	resp := HealthResponse{
		Success:      true,
		EmailService: h.relay.Status(c),
	}
	if !h.configured() {
		resp.Note = MsgHealthNoMailbox
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) submit(c internal.Context) error {
	var raw map[string]any
	if err := c.DecodeJSON(&raw); err != nil && !errors.Is(err, internal.ErrEmptyBody) {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return internal.ErrRequestTooLarge(MsgBodyTooLarge, internal.WithError(maxErr))
		}
		return internal.ErrBadRequest(MsgInvalidBody, internal.WithError(err))
	}

	submission, err := h.validator.Validate(raw)
	if err != nil {
		return internal.ErrBadRequest(MsgValidation, internal.WithError(err))
	}

	if !h.configured() {
		c.LogError("contact submission rejected: email service not configured")
		return internal.ErrInternal(MsgNotConfigured, internal.WithErrorCode("mail_not_configured"))
	}

	email, err := h.composer.Compose(submission)
	if err != nil {
		return internal.ErrInternal(MsgSendFailed, internal.WithError(err))
	}

	id, err := h.relay.Send(c, email)
	if err != nil {
		c.LogError("failed to send contact email", "error", err)
		return internal.ErrInternal(MsgSendFailed, internal.WithError(err), internal.WithErrorCode("send_failed"))
	}

	c.LogInfo("contact email sent", "message_id", id)
	return c.JSON(http.StatusOK, SubmitResponse{
		Success:   true,
		Message:   MsgSent,
		MessageID: id,
	})
}
