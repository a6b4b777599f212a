package internal

import "strings"

// ContextValue returns the value stored under key, or the zero value of T
// when the key is missing or holds another type.
func ContextValue[T any](c Context, key any) T {
	v, _ := c.Get(key).(T)
	return v
}

// FirstHeader returns the first non-blank request header among names,
// with surrounding whitespace removed.
func FirstHeader(c Context, names ...string) (string, bool) {
	for _, name := range names {
		if v := strings.TrimSpace(c.Header(name)); v != "" {
			return v, true
		}
	}
	return "", false
}
