package validator

import (
	"errors"
	"strings"
)

// ValidationError describes a single failed rule.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// ValidationErrors is an ordered list of field errors.
// The order follows the order in which rules were applied.
type ValidationErrors []ValidationError

// Error joins all messages into a single string.
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(e))
	for _, err := range e {
		parts = append(parts, err.Error())
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Get returns the messages recorded for field.
func (e ValidationErrors) Get(field string) []string {
	var msgs []string
	for _, err := range e {
		if err.Field == field {
			msgs = append(msgs, err.Message)
		}
	}
	return msgs
}

// Fields returns the distinct field names in first-seen order.
func (e ValidationErrors) Fields() []string {
	seen := make(map[string]struct{}, len(e))
	fields := make([]string, 0, len(e))
	for _, err := range e {
		if _, ok := seen[err.Field]; ok {
			continue
		}
		seen[err.Field] = struct{}{}
		fields = append(fields, err.Field)
	}
	return fields
}

// ExtractValidationErrors unwraps ValidationErrors from err.
// Returns nil when err does not carry validation errors.
func ExtractValidationErrors(err error) ValidationErrors {
	var ve ValidationErrors
	if errors.As(err, &ve) {
		return ve
	}
	return nil
}
