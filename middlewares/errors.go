package middlewares

import (
	"errors"
	"fmt"
	"time"
)

// Failure kinds reported by Failure.
const (
	FailurePanic   = "panic"
	FailureTimeout = "timeout"
)

// PanicError carries a value recovered from a handler panic.
type PanicError struct {
	Value any
	Stack []byte // nil when stack capture is disabled
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// TimeoutError is returned when a handler fails after the request deadline.
type TimeoutError struct {
	Err      error
	Duration time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("request timeout after %s", e.Duration)
}

func (e *TimeoutError) Unwrap() error { return e.Err }

// Timeout always reports true, matching the timeout method of net.Error.
func (e *TimeoutError) Timeout() bool { return true }

// Failure classifies err as FailurePanic or FailureTimeout.
// Ordinary handler errors yield "".
func Failure(err error) string {
	var pe *PanicError
	if errors.As(err, &pe) {
		return FailurePanic
	}
	var te *TimeoutError
	if errors.As(err, &te) {
		return FailureTimeout
	}
	return ""
}
