package resend

// Config holds Resend transport settings.
type Config struct {
	APIKey string
	// From is used when the message does not set one.
	From string
	// BaseURL overrides the API endpoint; used by tests.
	BaseURL string
}
