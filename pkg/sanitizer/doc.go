// Package sanitizer normalizes untrusted string input.
//
// Functions operate on single values (Trim, SingleLine, StripHTML, ...) or on
// whole structs via `sanitize` field tags:
//
//	type Form struct {
//	    Name    string `sanitize:"single_line,trim"`
//	    Message string `sanitize:"newlines,trim"`
//	}
//
//	err := sanitizer.SanitizeStruct(&form)
package sanitizer
