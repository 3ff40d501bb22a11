package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"slices"
	"strconv"
	"strings"

	"docsumm/internal/config"
)

// CORSConfig is the cross-origin policy for browser clients of the API.
type CORSConfig struct {
	// AllowedOrigins are compared case-insensitively without a trailing slash.
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
	// MaxAge is how long browsers may cache a preflight response, in seconds.
	MaxAge int
}

var (
	defaultCORSMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
	defaultCORSHeaders = []string{"Content-Type", "Authorization", "X-Request-ID"}
)

// LoadCORSConfig reads CORS_ALLOWED_ORIGINS, CORS_ALLOWED_METHODS, CORS_ALLOWED_HEADERS
// and CORS_MAX_AGE. It returns nil when no origin is configured, which disables CORS.
func LoadCORSConfig() (*CORSConfig, error) {
	raw := strings.TrimSpace(os.Getenv("CORS_ALLOWED_ORIGINS"))
	if raw == "" {
		return nil, nil
	}

	var origins []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o == "" {
			continue
		}
		if err := validateOrigin(o); err != nil {
			return nil, err
		}
		origins = append(origins, normalizeOrigin(o))
	}
	if len(origins) == 0 {
		return nil, fmt.Errorf("CORS_ALLOWED_ORIGINS has no valid origin")
	}

	methods := slices.Clone(config.GetEnvStringList("CORS_ALLOWED_METHODS", defaultCORSMethods))
	for i, m := range methods {
		m = strings.ToUpper(m)
		switch m {
		case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch, http.MethodOptions:
			methods[i] = m
		default:
			return nil, fmt.Errorf("invalid CORS method %q", m)
		}
	}

	maxAge := config.GetEnvInt("CORS_MAX_AGE", 86400)
	if maxAge < 0 {
		return nil, fmt.Errorf("CORS_MAX_AGE cannot be negative")
	}

	return &CORSConfig{
		AllowedOrigins: origins,
		AllowedMethods: methods,
		AllowedHeaders: config.GetEnvStringList("CORS_ALLOWED_HEADERS", defaultCORSHeaders),
		MaxAge:         maxAge,
	}, nil
}

func validateOrigin(origin string) error {
	u, err := url.Parse(origin)
	if err != nil {
		return fmt.Errorf("invalid origin %q: %w", origin, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("origin must use http or https: %s", origin)
	}
	if u.Host == "" {
		return fmt.Errorf("origin has no host: %s", origin)
	}
	if (u.Path != "" && u.Path != "/") || u.RawQuery != "" || u.Fragment != "" {
		return fmt.Errorf("origin must not include a path, query or fragment: %s", origin)
	}
	return nil
}

func normalizeOrigin(origin string) string {
	return strings.TrimSuffix(strings.ToLower(strings.TrimSpace(origin)), "/")
}

func (c *CORSConfig) allows(origin string) bool {
	origin = normalizeOrigin(origin)
	for _, o := range c.AllowedOrigins {
		if o == origin {
			return true
		}
	}
	return false
}

// CORS echoes allowed origins back with credentials enabled and answers their
// preflight requests with 204 without calling next. Requests from other origins
// pass through without CORS headers, so browsers block the response.
// A nil cfg disables the middleware.
func CORS(cfg *CORSConfig, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if cfg == nil {
			return next
		}
		methods := strings.Join(cfg.AllowedMethods, ", ")
		headers := strings.Join(cfg.AllowedHeaders, ", ")
		maxAge := strconv.Itoa(cfg.MaxAge)

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" {
				next.ServeHTTP(w, r)
				return
			}
			w.Header().Add("Vary", "Origin")

			if !cfg.allows(origin) {
				logger.WarnContext(r.Context(), "CORS: origin not allowed",
					slog.String("origin", origin),
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path))
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")

			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				w.Header().Set("Access-Control-Allow-Methods", methods)
				w.Header().Set("Access-Control-Allow-Headers", headers)
				w.Header().Set("Access-Control-Max-Age", maxAge)
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
