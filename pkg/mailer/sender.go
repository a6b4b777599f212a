package mailer

import "context"

// Sender delivers a prepared Email and returns the transport's message id.
type Sender interface {
	Send(ctx context.Context, email *Email) (string, error)
}

// Verifier is implemented by transports that can probe their upstream
// without sending mail.
type Verifier interface {
	Verify(ctx context.Context) error
}

// Configurable is implemented by transports that know whether their
// credentials are present.
type Configurable interface {
	Configured() bool
}

// SenderFunc adapts a function to Sender.
type SenderFunc func(ctx context.Context, email *Email) (string, error)

// Send implements Sender.
func (f SenderFunc) Send(ctx context.Context, email *Email) (string, error) {
	return f(ctx, email)
}
