// Package mailer relays prepared messages through a pluggable transport.
//
// A transport implements [Sender] and, optionally, [Verifier] (connectivity
// probe) and [Configurable] (credential presence). Three transports live in
// subpackages: smtp (default), resend and ses.
//
// [Mailer] sits in front of the transport:
//
//	m := mailer.New(smtp.New(cfg), mailer.Config{DefaultFrom: "no-reply@example.com"})
//
//	id, err := m.Send(ctx, &mailer.Email{
//	    To:      []string{"owner@example.com"},
//	    Subject: "Hello",
//	    Text:    "Hi there",
//	})
//	if errors.Is(err, mailer.ErrSendFailed) {
//	    // transport failure; the cause is joined into err
//	}
//
// Send never retries. Verify bounds every probe with Config.VerifyTimeout and
// coalesces concurrent probes into one, and Status folds the result into
// "connected" or "disconnected" for health reporting.
package mailer
