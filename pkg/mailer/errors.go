package mailer

import "errors"

var (
	// ErrNoRecipient indicates no recipient was specified.
	ErrNoRecipient = errors.New("email must have at least one recipient")

	// ErrNoSubject indicates no subject was provided.
	ErrNoSubject = errors.New("email must have a subject")

	// ErrNoContent indicates neither HTML nor text content was provided.
	ErrNoContent = errors.New("email must have HTML or text content")

	// ErrSendFailed wraps transport failures.
	ErrSendFailed = errors.New("failed to send email")

	// ErrVerifyFailed wraps failed connectivity probes.
	ErrVerifyFailed = errors.New("failed to verify mail transport")

	// ErrNotConfigured indicates the transport is missing credentials.
	ErrNotConfigured = errors.New("mail transport not configured")
)
