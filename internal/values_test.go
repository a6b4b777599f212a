package internal_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/contact-relay/internal"
)

func TestFirstHeader(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		headers map[string]string
		names   []string
		want    string
		found   bool
	}{
		{
			name:    "first present wins",
			headers: map[string]string{"X-Request-ID": "a", "X-Correlation-ID": "b"},
			names:   []string{"X-Request-ID", "X-Correlation-ID"},
			want:    "a",
			found:   true,
		},
		{
			name:    "falls through blank values",
			headers: map[string]string{"X-Request-ID": "   ", "X-Correlation-ID": " b "},
			names:   []string{"X-Request-ID", "X-Correlation-ID"},
			want:    "b",
			found:   true,
		},
		{
			name:    "nothing matches",
			headers: map[string]string{"Authorization": "Bearer x"},
			names:   []string{"X-Request-ID"},
		},
		{name: "no names"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}

			var (
				got   string
				found bool
			)
			requestVia(t, req, nil, func(c internal.Context) {
				got, found = internal.FirstHeader(c, tt.names...)
			})

			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.found, found)
		})
	}
}
