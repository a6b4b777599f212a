package sanitizer

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// TagName is the struct tag read by SanitizeStruct.
const TagName = "sanitize"

// ErrNotStructPointer is returned when SanitizeStruct receives anything but a
// non-nil pointer to a struct.
var ErrNotStructPointer = errors.New("sanitizer: expected a non-nil pointer to struct")

var transforms = map[string]func(string) string{
	"trim":        Trim,
	"lower":       strings.ToLower,
	"upper":       strings.ToUpper,
	"single_line": SingleLine,
	"newlines":    NormalizeNewlines,
	"strip_html":  StripHTML,
}

// SanitizeStruct applies the comma separated transforms listed in each string
// field's `sanitize` tag, in the order written. Nested structs are walked.
//
//	type Form struct {
//	    Name string `sanitize:"single_line,trim"`
//	}
func SanitizeStruct(v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return ErrNotStructPointer
	}
	return sanitizeValue(rv.Elem())
}

func sanitizeValue(rv reflect.Value) error {
	rt := rv.Type()
	for i := range rt.NumField() {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}
		fv := rv.Field(i)

		if fv.Kind() == reflect.Struct {
			if err := sanitizeValue(fv); err != nil {
				return err
			}
			continue
		}

		tag := field.Tag.Get(TagName)
		if tag == "" || tag == "-" || fv.Kind() != reflect.String {
			continue
		}

		s := fv.String()
		for _, name := range strings.Split(tag, ",") {
			name = strings.TrimSpace(name)
			fn, ok := transforms[name]
			if !ok {
				return fmt.Errorf("sanitizer: unknown rule %q on field %s", name, field.Name)
			}
			s = fn(s)
		}
		fv.SetString(s)
	}
	return nil
}
