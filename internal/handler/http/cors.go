package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
)

// CORSConfig holds the CORS policy for the read API.
type CORSConfig struct {
	// AllowedOrigins is the origin whitelist. Empty means CORS headers
	// are never emitted and cross-origin browser calls are blocked.
	AllowedOrigins []string

	AllowedMethods []string
	AllowedHeaders []string

	// MaxAge is the preflight cache duration in seconds.
	MaxAge int
}

// Enabled reports whether any origin is whitelisted.
func (c *CORSConfig) Enabled() bool { return len(c.AllowedOrigins) > 0 }

func (c *CORSConfig) originAllowed(origin string) bool {
	for _, allowed := range c.AllowedOrigins {
		if allowed == origin {
			return true
		}
	}
	return false
}

// LoadCORSConfig reads the CORS policy from CORS_ALLOWED_ORIGINS,
// CORS_ALLOWED_METHODS, CORS_ALLOWED_HEADERS and CORS_MAX_AGE.
//
// An unset origin list disables CORS rather than failing startup: the
// API is read only and same-origin consumers need no policy at all.
// A malformed origin still fails, a typo in the whitelist must not
// silently lock browsers out.
func LoadCORSConfig() (*CORSConfig, error) {
	cfg := &CORSConfig{
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "X-Request-ID"},
		MaxAge:         86400,
	}

	originsStr := strings.TrimSpace(os.Getenv("CORS_ALLOWED_ORIGINS"))
	if originsStr != "" {
		for _, origin := range strings.Split(originsStr, ",") {
			origin = strings.TrimSpace(origin)
			if origin == "" {
				continue
			}
			if err := validateOrigin(origin); err != nil {
				return nil, err
			}
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, origin)
		}
	}

	if methods := strings.TrimSpace(os.Getenv("CORS_ALLOWED_METHODS")); methods != "" {
		cfg.AllowedMethods = splitAndTrim(methods)
	}
	if headers := strings.TrimSpace(os.Getenv("CORS_ALLOWED_HEADERS")); headers != "" {
		cfg.AllowedHeaders = splitAndTrim(headers)
	}
	if maxAgeStr := strings.TrimSpace(os.Getenv("CORS_MAX_AGE")); maxAgeStr != "" {
		maxAge, err := strconv.Atoi(maxAgeStr)
		if err != nil || maxAge < 0 {
			return nil, fmt.Errorf("invalid CORS_MAX_AGE %q", maxAgeStr)
		}
		cfg.MaxAge = maxAge
	}

	return cfg, nil
}

func validateOrigin(origin string) error {
	u, err := url.Parse(origin)
	if err != nil {
		return fmt.Errorf("invalid origin %q: %w", origin, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("origin must use http or https scheme: %s", origin)
	}
	if u.Host == "" || u.Path != "" || u.RawQuery != "" || u.Fragment != "" {
		return fmt.Errorf("origin must be scheme://host[:port] only: %s", origin)
	}
	return nil
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// CORS returns middleware enforcing the given policy. Same-origin
// requests (no Origin header) pass through untouched. Disallowed
// origins get no CORS headers, the browser blocks the response.
// Preflight OPTIONS requests from allowed origins are answered with
// 204 without reaching the next handler.
func CORS(cfg *CORSConfig, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !cfg.Enabled() {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" {
				next.ServeHTTP(w, r)
				return
			}

			if !cfg.originAllowed(origin) {
				logger.Warn("cors origin not allowed",
					slog.String("origin", origin),
					slog.String("path", r.URL.Path))
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Vary", "Origin")

			if r.Method == http.MethodOptions {
				w.Header().Set("Access-Control-Allow-Methods", strings.Join(cfg.AllowedMethods, ", "))
				w.Header().Set("Access-Control-Allow-Headers", strings.Join(cfg.AllowedHeaders, ", "))
				w.Header().Set("Access-Control-Max-Age", strconv.Itoa(cfg.MaxAge))
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
