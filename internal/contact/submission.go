package contact

import (
	"fmt"

	"github.com/dmitrymomot/contact-relay/pkg/sanitizer"
	"github.com/dmitrymomot/contact-relay/pkg/validator"
)

// Recipient policies.
const (
	PolicyFixed     = "fixed"
	PolicyAllowlist = "allowlist"
)

// Submission is a validated contact form.
// Values are trimmed and single-line fields never contain CR or LF.
type Submission struct {
	Name           string `json:"name"           sanitize:"single_line,trim"`
	Email          string `json:"email"          sanitize:"single_line,trim"`
	Phone          string `json:"phone"          sanitize:"single_line,trim"`
	Subject        string `json:"subject"        sanitize:"single_line,strip_html,trim"`
	Body           string `json:"body"           sanitize:"newlines,trim"`
	RecipientEmail string `json:"recipientEmail" sanitize:"single_line,trim"`
}

// RecipientPolicy decides who receives a submission.
//
// With PolicyFixed (or an empty policy) every submission goes to Recipient
// and the caller's recipientEmail is ignored. With PolicyAllowlist the caller
// must name a recipient from Allowlist.
type RecipientPolicy struct {
	Policy    string
	Recipient string
	Allowlist []string
}

// Validator turns raw JSON objects into Submissions.
type Validator struct {
	policy RecipientPolicy
}

// NewValidator creates a Validator for the given recipient policy.
func NewValidator(policy RecipientPolicy) *Validator {
	if policy.Policy == "" {
		policy.Policy = PolicyFixed
	}
	return &Validator{policy: policy}
}

// Ready reports whether the policy can produce a recipient at all.
func (v *Validator) Ready() bool {
	if v.policy.Policy == PolicyAllowlist {
		return len(v.policy.Allowlist) > 0
	}
	return v.policy.Recipient != ""
}

// Validate checks every field in one pass and returns the submission, or
// validator.ValidationErrors with at most one entry per field.
// Missing and null values count as empty; unknown fields are dropped.
func (v *Validator) Validate(raw map[string]any) (Submission, error) {
	var s Submission
	typed := make(map[string]bool, 6)

	read := func(key string) string {
		val, ok := stringField(raw, key)
		typed[key] = ok
		return val
	}

	s.Name = read("name")
	s.Email = read("email")
	s.Phone = read("phone")
	s.Subject = read("subject")
	s.Body = read("body")
	if v.policy.Policy == PolicyAllowlist {
		s.RecipientEmail = read("recipientEmail")
	}

	if err := sanitizer.SanitizeStruct(&s); err != nil {
		return Submission{}, fmt.Errorf("sanitize submission: %w", err)
	}

	rules := []validator.Rule{
		isString("name", "Name", typed["name"]),
		validator.RequiredString("name", s.Name).WithMessage("Name is required"),
		validator.MinLenString("name", s.Name, 2).WithMessage("Name must be at least 2 characters long"),
		validator.MaxLenString("name", s.Name, 100).WithMessage("Name cannot exceed 100 characters"),

		isString("email", "Email", typed["email"]),
		validator.RequiredString("email", s.Email).WithMessage("Email is required"),
		validator.ValidEmail("email", s.Email).WithMessage("Please provide a valid email address"),

		isString("phone", "Phone number", typed["phone"]),
		validator.RequiredString("phone", s.Phone).WithMessage("Phone number is required"),
		validator.MinLenString("phone", s.Phone, 10).WithMessage("Phone number must be at least 10 characters long"),
		validator.MaxLenString("phone", s.Phone, 20).WithMessage("Phone number cannot exceed 20 characters"),

		isString("subject", "Subject", typed["subject"]),
		validator.RequiredString("subject", s.Subject).WithMessage("Subject is required"),
		validator.MinLenString("subject", s.Subject, 5).WithMessage("Subject must be at least 5 characters long"),
		validator.MaxLenString("subject", s.Subject, 200).WithMessage("Subject cannot exceed 200 characters"),

		isString("body", "Message body", typed["body"]),
		validator.RequiredString("body", s.Body).WithMessage("Message body is required"),
		validator.MinLenString("body", s.Body, 10).WithMessage("Message must be at least 10 characters long"),
		validator.MaxLenString("body", s.Body, 2000).WithMessage("Message cannot exceed 2000 characters"),
	}

	switch v.policy.Policy {
	case PolicyAllowlist:
		rules = append(rules,
			isString("recipientEmail", "Recipient email", typed["recipientEmail"]),
			validator.RequiredString("recipientEmail", s.RecipientEmail).WithMessage("Recipient email is required"),
			validator.ValidEmail("recipientEmail", s.RecipientEmail).WithMessage("Please provide a valid recipient email address"),
			validator.OneOfString("recipientEmail", s.RecipientEmail, v.policy.Allowlist).WithMessage("Recipient email is not allowed"),
		)
	default:
		s.RecipientEmail = v.policy.Recipient
	}

	if err := validator.Apply(rules...); err != nil {
		return Submission{}, err
	}
	return s, nil
}

// stringField reads key from raw. Missing and null values are empty strings;
// ok is false only for values of another JSON type.
func stringField(raw map[string]any, key string) (string, bool) {
	val, found := raw[key]
	if !found || val == nil {
		return "", true
	}
	s, ok := val.(string)
	return s, ok
}

func isString(field, label string, ok bool) validator.Rule {
	return validator.Rule{
		Check: func() bool { return ok },
		Error: validator.ValidationError{
			Field:   field,
			Message: label + " must be a string",
		},
	}
}
