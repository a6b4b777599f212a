package mailer

import "time"

// DefaultVerifyTimeout bounds a connectivity probe.
const DefaultVerifyTimeout = 5 * time.Second

// Config holds transport-independent mailer settings.
type Config struct {
	// DefaultFrom is used when Email.From is empty.
	DefaultFrom string
	// VerifyTimeout bounds Verify and Status. Zero means DefaultVerifyTimeout.
	VerifyTimeout time.Duration
}
