package smtp

import "errors"

var (
	ErrNoSender          = errors.New("smtp: no sender address")
	ErrInvalidAddress    = errors.New("smtp: invalid address")
	ErrUnknownTLSMode    = errors.New("smtp: unknown tls mode")
	ErrInvalidDKIMKey    = errors.New("smtp: invalid dkim private key")
	ErrIncompleteDKIM    = errors.New("smtp: dkim requires domain, selector and key")
	ErrConnectionAborted = errors.New("smtp: connection aborted")
	ErrGreetingTimeout   = errors.New("smtp: greeting timed out")
)
