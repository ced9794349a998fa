package fetcher

import (
	"fmt"
	"time"

	"geodata/pkg/config"
)

// Config controls every outbound HTTP request made by the collectors.
type Config struct {
	// Timeout is the maximum duration for a single HTTP request.
	// Default: 15s
	Timeout time.Duration

	// MaxBodySize is the maximum response body size in bytes. It is enforced
	// while reading, not from Content-Length.
	// Default: 10485760 (10MB)
	MaxBodySize int64

	// MaxRedirects is the maximum number of redirects to follow. Every
	// redirect target is validated again.
	// Default: 5
	MaxRedirects int

	// DenyPrivateIPs rejects URLs resolving to loopback, private or
	// link-local addresses. Should always be true in production.
	// Default: true
	DenyPrivateIPs bool

	// UserAgent is sent with every request.
	UserAgent string
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		Timeout:        15 * time.Second,
		MaxBodySize:    10 * 1024 * 1024,
		MaxRedirects:   5,
		DenyPrivateIPs: true,
		UserAgent:      "GeodataCollector/1.0",
	}
}

// Validate checks the limits.
//
// Validation rules:
//   - Timeout: > 0
//   - MaxBodySize: 1KB-100MB
//   - MaxRedirects: 0-10
func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}

	minBodySize := int64(1024)
	maxBodySize := int64(100 * 1024 * 1024)
	if c.MaxBodySize < minBodySize || c.MaxBodySize > maxBodySize {
		return fmt.Errorf("max body size must be between %d and %d bytes, got %d", minBodySize, maxBodySize, c.MaxBodySize)
	}

	if c.MaxRedirects < 0 || c.MaxRedirects > 10 {
		return fmt.Errorf("max redirects must be between 0 and 10, got %d", c.MaxRedirects)
	}

	return nil
}

// LoadConfigFromEnv loads the configuration and validates it.
//
// Environment variables:
//   - COLLECTOR_TIMEOUT: duration string, e.g. "15s"
//   - COLLECTOR_MAX_BODY_SIZE: integer in bytes
//   - COLLECTOR_MAX_REDIRECTS: integer
//   - COLLECTOR_DENY_PRIVATE_IPS: "true" or "false"
//   - COLLECTOR_USER_AGENT: string
func LoadConfigFromEnv() (Config, error) {
	def := DefaultConfig()
	cfg := Config{
		Timeout:        config.GetEnvDuration("COLLECTOR_TIMEOUT", def.Timeout),
		MaxBodySize:    int64(config.GetEnvInt("COLLECTOR_MAX_BODY_SIZE", int(def.MaxBodySize))),
		MaxRedirects:   config.GetEnvInt("COLLECTOR_MAX_REDIRECTS", def.MaxRedirects),
		DenyPrivateIPs: config.GetEnvBool("COLLECTOR_DENY_PRIVATE_IPS", def.DenyPrivateIPs),
		UserAgent:      config.GetEnvString("COLLECTOR_USER_AGENT", def.UserAgent),
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}
