// Package smtp is the default mail transport. It speaks SMTP through
// github.com/emersion/go-smtp, builds MIME messages with go-message and can
// DKIM-sign them with go-msgauth.
//
// Every Send and Verify opens its own connection:
//
//	connect (ConnectionTimeout)
//	  -> greeting + EHLO (GreetingTimeout)
//	  -> STARTTLS if offered and TLSMode is "starttls"
//	  -> AUTH PLAIN if offered and credentials are set
//	  -> MAIL/RCPT/DATA or NOOP (SocketTimeout per command)
//	  -> QUIT
//
// Cancelling the context closes the connection immediately.
package smtp
