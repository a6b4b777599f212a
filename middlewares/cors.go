package middlewares

import (
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrymomot/contact-relay/internal"
)

// DefaultCORSMaxAge is the default preflight cache duration.
const DefaultCORSMaxAge = 12 * time.Hour

// CORSConfig configures the CORS middleware.
type CORSConfig struct {
	// AllowOrigins lists allowed origins. Entries may use a single leading
	// wildcard label ("https://*.example.com"). Empty reflects any origin.
	AllowOrigins []string

	// AllowMethods specifies the allowed HTTP methods.
	AllowMethods []string

	// AllowHeaders specifies the allowed request headers.
	AllowHeaders []string

	// ExposeHeaders specifies headers exposed to the client.
	ExposeHeaders []string

	// AllowCredentials adds Access-Control-Allow-Credentials. The origin is
	// always echoed, never "*".
	AllowCredentials bool

	// MaxAge specifies how long preflight responses can be cached.
	MaxAge time.Duration
}

// CORSOption configures CORSConfig.
type CORSOption func(*CORSConfig)

// WithAllowOrigins restricts the allowed origins.
// Empty strings are ignored; passing nothing keeps "reflect any origin".
func WithAllowOrigins(origins ...string) CORSOption {
	return func(cfg *CORSConfig) {
		for _, o := range origins {
			if o = strings.TrimRight(strings.TrimSpace(o), "/"); o != "" {
				cfg.AllowOrigins = append(cfg.AllowOrigins, strings.ToLower(o))
			}
		}
	}
}

// WithAllowMethods sets the allowed HTTP methods.
func WithAllowMethods(methods ...string) CORSOption {
	return func(cfg *CORSConfig) {
		cfg.AllowMethods = methods
	}
}

// WithAllowHeaders sets the allowed request headers.
func WithAllowHeaders(headers ...string) CORSOption {
	return func(cfg *CORSConfig) {
		cfg.AllowHeaders = headers
	}
}

// WithExposeHeaders sets the headers exposed to the client.
func WithExposeHeaders(headers ...string) CORSOption {
	return func(cfg *CORSConfig) {
		cfg.ExposeHeaders = headers
	}
}

// WithoutCredentials drops Access-Control-Allow-Credentials.
func WithoutCredentials() CORSOption {
	return func(cfg *CORSConfig) {
		cfg.AllowCredentials = false
	}
}

// WithMaxAge sets the preflight cache duration.
func WithMaxAge(duration time.Duration) CORSOption {
	return func(cfg *CORSConfig) {
		cfg.MaxAge = duration
	}
}

// CORS returns middleware that handles Cross-Origin Resource Sharing for
// browser-hosted contact forms. By default any origin is reflected with
// credentials allowed, methods GET, POST and OPTIONS, and the Content-Type
// and Authorization request headers.
//
// Preflight requests are answered with 204 and never reach the router.
func CORS(opts ...CORSOption) internal.Middleware {
	cfg := &CORSConfig{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           DefaultCORSMaxAge,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	allowMethods := strings.Join(cfg.AllowMethods, ", ")
	allowHeaders := strings.Join(cfg.AllowHeaders, ", ")
	exposeHeaders := strings.Join(cfg.ExposeHeaders, ", ")
	maxAge := strconv.Itoa(int(cfg.MaxAge.Seconds()))

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			origin := c.Header("Origin")
			if origin == "" {
				return next(c)
			}

			headers := c.Response().Header()
			headers.Add("Vary", "Origin")

			// Browser blocks the response when the allow header is absent.
			if !originAllowed(cfg.AllowOrigins, origin) {
				return next(c)
			}

			headers.Set("Access-Control-Allow-Origin", origin)
			if cfg.AllowCredentials {
				headers.Set("Access-Control-Allow-Credentials", "true")
			}
			if exposeHeaders != "" {
				headers.Set("Access-Control-Expose-Headers", exposeHeaders)
			}

			if c.Request().Method != http.MethodOptions || c.Header("Access-Control-Request-Method") == "" {
				return next(c)
			}

			headers.Add("Vary", "Access-Control-Request-Method")
			headers.Add("Vary", "Access-Control-Request-Headers")
			headers.Set("Access-Control-Allow-Methods", allowMethods)
			headers.Set("Access-Control-Allow-Headers", allowHeaders)
			if cfg.MaxAge > 0 {
				headers.Set("Access-Control-Max-Age", maxAge)
			}

			return c.NoContent(http.StatusNoContent)
		}
	}
}

// originAllowed matches origin against the allow-list.
// An empty list allows everything.
func originAllowed(allowed []string, origin string) bool {
	if len(allowed) == 0 {
		return true
	}

	origin = strings.ToLower(origin)
	if slices.Contains(allowed, origin) || slices.Contains(allowed, "*") {
		return true
	}

	for _, pattern := range allowed {
		scheme, host, ok := strings.Cut(pattern, "://*.")
		if !ok {
			continue
		}
		prefix := scheme + "://"
		if strings.HasPrefix(origin, prefix) && strings.HasSuffix(origin, "."+host) {
			return true
		}
	}
	return false
}
