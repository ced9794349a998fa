// Package pagination parses and normalizes offset/limit list parameters.
package pagination

import "geodata/pkg/config"

// Config holds the list size policy.
type Config struct {
	DefaultLimit int // applied when the request has no limit
	MaxLimit     int // larger limits are clamped to this value
}

// DefaultConfig returns the platform defaults: 50 per page, at most 500.
func DefaultConfig() Config {
	return Config{
		DefaultLimit: 50,
		MaxLimit:     500,
	}
}

// LoadFromEnv reads PAGINATION_DEFAULT_LIMIT and PAGINATION_MAX_LIMIT.
// Non-positive values keep the defaults.
func LoadFromEnv() Config {
	cfg := DefaultConfig()
	if v := config.GetEnvInt("PAGINATION_DEFAULT_LIMIT", 0); v > 0 {
		cfg.DefaultLimit = v
	}
	if v := config.GetEnvInt("PAGINATION_MAX_LIMIT", 0); v > 0 {
		cfg.MaxLimit = v
	}
	if cfg.DefaultLimit > cfg.MaxLimit {
		cfg.DefaultLimit = cfg.MaxLimit
	}
	return cfg
}
