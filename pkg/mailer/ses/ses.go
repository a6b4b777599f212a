// Package ses implements mailer.Sender on top of the AWS SES v2 API.
package ses

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"regexp"
	"slices"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	sesv2 "github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"github.com/dmitrymomot/contact-relay/pkg/mailer"
)

// ErrAttachmentsUnsupported is returned for messages carrying attachments.
var ErrAttachmentsUnsupported = errors.New("ses: attachments are not supported")

// Config holds the SES transport settings. Empty keys fall back to the
// default AWS credential chain.
type Config struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	From            string
}

// SendEmailAPI is the subset of the SES v2 client used by Sender.
type SendEmailAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// Sender delivers mail through SES. It does not retry.
type Sender struct {
	client SendEmailAPI
	config Config
}

// New loads the AWS configuration and creates a Sender.
func New(ctx context.Context, cfg Config) (*Sender, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("ses: load aws config: %w", err)
	}
	return NewWithClient(cfg, sesv2.NewFromConfig(awsCfg)), nil
}

// NewWithClient creates a Sender around an existing client.
func NewWithClient(cfg Config, client SendEmailAPI) *Sender {
	return &Sender{client: client, config: cfg}
}

// Configured reports whether a region and a sending address are set.
func (s *Sender) Configured() bool {
	return s.config.Region != "" && s.config.From != ""
}

// Send implements mailer.Sender and returns the SES message id.
func (s *Sender) Send(ctx context.Context, email *mailer.Email) (string, error) {
	if len(email.Attachments) > 0 {
		return "", ErrAttachmentsUnsupported
	}

	out, err := s.client.SendEmail(ctx, s.buildInput(email))
	if err != nil {
		return "", fmt.Errorf("ses: send email: %w", err)
	}
	return aws.ToString(out.MessageId), nil
}

func (s *Sender) buildInput(email *mailer.Email) *sesv2.SendEmailInput {
	from := email.From
	if from == "" {
		from = s.config.From
	}

	body := &types.Body{}
	if email.HTML != "" {
		body.Html = &types.Content{Data: aws.String(email.HTML), Charset: aws.String("UTF-8")}
	}
	if email.Text != "" {
		body.Text = &types.Content{Data: aws.String(email.Text), Charset: aws.String("UTF-8")}
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(from),
		Destination: &types.Destination{
			ToAddresses:  email.To,
			CcAddresses:  email.CC,
			BccAddresses: email.BCC,
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(email.Subject), Charset: aws.String("UTF-8")},
				Body:    body,
			},
		},
	}
	if email.ReplyTo != "" {
		input.ReplyToAddresses = []string{email.ReplyTo}
	}
	for _, name := range slices.Sorted(maps.Keys(email.Tags)) {
		input.EmailTags = append(input.EmailTags, types.MessageTag{
			Name:  aws.String(tagSafe(name)),
			Value: aws.String(tagSafe(tagValue(email.Tags[name]))),
		})
	}
	return input
}

var tagUnsafe = regexp.MustCompile(`[^A-Za-z0-9_-]`)

// tagSafe replaces characters SES rejects in tag names and values.
func tagSafe(s string) string {
	return tagUnsafe.ReplaceAllString(s, "_")
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

var (
	_ mailer.Sender       = (*Sender)(nil)
	_ mailer.Configurable = (*Sender)(nil)
)
