package validator

import (
	"net/mail"
	"strings"
	"unicode/utf8"
)

// RequiredString fails when value is empty after trimming whitespace.
func RequiredString(field, value string) Rule {
	return Rule{
		Check: func() bool { return strings.TrimSpace(value) != "" },
		Error: ValidationError{
			Field:   field,
			Message: "is required",
		},
	}
}

// MinLenString fails when value has fewer than min characters.
// Length is counted in Unicode code points.
func MinLenString(field, value string, min int) Rule {
	return Rule{
		Check: func() bool { return utf8.RuneCountInString(value) >= min },
		Error: ValidationError{
			Field:   field,
			Message: "is too short",
		},
	}
}

// MaxLenString fails when value has more than max characters.
func MaxLenString(field, value string, max int) Rule {
	return Rule{
		Check: func() bool { return utf8.RuneCountInString(value) <= max },
		Error: ValidationError{
			Field:   field,
			Message: "is too long",
		},
	}
}

// ValidEmail fails unless value is a bare addr-spec with a dotted domain.
// Display names ("Al <al@example.com>") are rejected.
func ValidEmail(field, value string) Rule {
	return Rule{
		Check: func() bool { return IsEmail(value) },
		Error: ValidationError{
			Field:   field,
			Message: "must be a valid email address",
		},
	}
}

// OneOfString fails unless value is one of allowed (case-insensitive).
func OneOfString(field, value string, allowed []string) Rule {
	return Rule{
		Check: func() bool {
			for _, a := range allowed {
				if strings.EqualFold(a, value) {
					return true
				}
			}
			return false
		},
		Error: ValidationError{
			Field:   field,
			Message: "is not allowed",
		},
	}
}

// IsEmail reports whether s is a plain email address such as "al@example.com".
func IsEmail(s string) bool {
	if s == "" || strings.ContainsAny(s, " \t\r\n") {
		return false
	}
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Name != "" || addr.Address != s {
		return false
	}
	at := strings.LastIndexByte(s, '@')
	if at <= 0 {
		return false
	}
	domain := s[at+1:]
	dot := strings.LastIndexByte(domain, '.')
	return dot > 0 && dot < len(domain)-1
}
