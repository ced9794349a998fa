// Package middleware holds the cross-cutting HTTP middleware of the API:
// CORS, client IP extraction and per-IP rate limiting.
package middleware

import (
	"log/slog"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"geodata/pkg/config"
)

// CORSConfig holds the configuration for CORS middleware.
type CORSConfig struct {
	// AllowedOrigins lists permitted origins. "*" allows any origin.
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	AllowCredentials bool
	// MaxAge is how long preflight results may be cached, in seconds.
	MaxAge int
}

// LoadCORSConfig reads CORS_ORIGINS, CORS_ALLOWED_METHODS,
// CORS_ALLOWED_HEADERS and CORS_MAX_AGE. Origins default to "*".
// Credentials are only allowed with an explicit origin list.
func LoadCORSConfig() CORSConfig {
	cfg := CORSConfig{
		AllowedOrigins: config.GetEnvStringList("CORS_ORIGINS", []string{"*"}),
		AllowedMethods: config.GetEnvStringList("CORS_ALLOWED_METHODS",
			[]string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}),
		AllowedHeaders: config.GetEnvStringList("CORS_ALLOWED_HEADERS",
			[]string{"Content-Type", "Authorization", "X-Request-ID"}),
		MaxAge: config.GetEnvInt("CORS_MAX_AGE", 86400),
	}
	cfg.AllowCredentials = !slices.Contains(cfg.AllowedOrigins, "*")
	if cfg.MaxAge < 0 {
		cfg.MaxAge = 86400
	}
	return cfg
}

func (c CORSConfig) allows(origin string) bool {
	for _, o := range c.AllowedOrigins {
		if o == "*" || strings.EqualFold(strings.TrimRight(o, "/"), origin) {
			return true
		}
	}
	return false
}

// CORS returns an HTTP middleware that handles CORS for cross-origin requests.
//
// Requests without an Origin header pass through untouched. Disallowed
// origins pass through without CORS headers, so the browser blocks the
// response. Preflight requests from allowed origins are answered with 204
// and never reach next.
func CORS(cfg CORSConfig) func(http.Handler) http.Handler {
	methods := strings.Join(cfg.AllowedMethods, ", ")
	headers := strings.Join(cfg.AllowedHeaders, ", ")
	maxAge := strconv.Itoa(cfg.MaxAge)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" {
				next.ServeHTTP(w, r)
				return
			}

			if !cfg.allows(origin) {
				slog.Warn("CORS: origin not allowed",
					slog.String("origin", origin),
					slog.String("path", r.URL.Path),
					slog.String("method", r.Method))
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Add("Vary", "Origin")
			if cfg.AllowCredentials {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Credentials", "true")
			} else {
				w.Header().Set("Access-Control-Allow-Origin", "*")
			}

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
