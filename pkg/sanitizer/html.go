package sanitizer

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

// maxStripPasses bounds StripHTML on deeply nested entity encodings.
const maxStripPasses = 8

var plainTextPolicy = sync.OnceValue(bluemonday.StrictPolicy)

// StripHTML removes every tag and returns plain text. Entities are decoded so
// later escaping does not encode them twice. Decoding can reveal new markup
// (`&lt;b&gt;` becomes `<b>`), so the pass repeats until the text settles and
// StripHTML(StripHTML(s)) == StripHTML(s).
func StripHTML(s string) string {
	out := strings.TrimSpace(s)
	for range maxStripPasses {
		next := strings.TrimSpace(html.UnescapeString(plainTextPolicy().Sanitize(out)))
		if next == out {
			break
		}
		out = next
	}
	return out
}
