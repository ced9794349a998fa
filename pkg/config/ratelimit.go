package config

import (
	"fmt"
	"log/slog"
	"net/netip"
	"time"
)

// RateLimitConfig configures the per-IP token bucket in front of the API.
type RateLimitConfig struct {
	Enabled bool
	// RPS is the sustained request rate allowed per client IP.
	RPS float64
	// Burst is the bucket size.
	Burst int
	// CleanupInterval is how often idle client buckets are evicted.
	CleanupInterval time.Duration
	// IdleTTL is how long a bucket may stay unused before eviction.
	IdleTTL time.Duration
	// TrustProxy enables client IP extraction from X-Forwarded-For and
	// X-Real-IP for requests arriving through TrustedProxies.
	TrustProxy     bool
	TrustedProxies []string
}

// LoadRateLimitConfig loads rate limiting configuration from environment variables.
//
// Environment variables:
//   - RATE_LIMIT_ENABLED: Enable/disable rate limiting (default: true)
//   - RATE_LIMIT_RPS: Requests per second per IP (default: 10)
//   - RATE_LIMIT_BURST: Bucket size (default: 20)
//   - RATE_LIMIT_CLEANUP_INTERVAL: Eviction interval (default: 5m)
//   - RATE_LIMIT_IDLE_TTL: Idle bucket lifetime (default: 10m)
//   - RATE_LIMIT_TRUST_PROXY: Honour forwarding headers (default: false)
//   - RATE_LIMIT_TRUSTED_PROXIES: Comma-separated IPs or CIDR ranges
//
// Out-of-range numbers are logged and replaced by defaults. A trusted proxy
// list that does not parse is an error.
func LoadRateLimitConfig() (*RateLimitConfig, error) {
	cfg := &RateLimitConfig{
		Enabled:         GetEnvBool("RATE_LIMIT_ENABLED", true),
		RPS:             GetEnvFloat("RATE_LIMIT_RPS", 10),
		Burst:           GetEnvInt("RATE_LIMIT_BURST", 20),
		CleanupInterval: GetEnvDuration("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute),
		IdleTTL:         GetEnvDuration("RATE_LIMIT_IDLE_TTL", 10*time.Minute),
		TrustProxy:      GetEnvBool("RATE_LIMIT_TRUST_PROXY", false),
		TrustedProxies:  GetEnvStringList("RATE_LIMIT_TRUSTED_PROXIES", nil),
	}

	if cfg.RPS <= 0 {
		slog.Warn("invalid RATE_LIMIT_RPS, using default",
			slog.Float64("value", cfg.RPS),
			slog.Float64("default", 10))
		cfg.RPS = 10
	}
	if cfg.Burst < 1 {
		slog.Warn("invalid RATE_LIMIT_BURST, using default",
			slog.Int("value", cfg.Burst),
			slog.Int("default", 20))
		cfg.Burst = 20
	}
	if err := ValidatePositiveDuration(cfg.CleanupInterval); err != nil {
		slog.Warn("invalid RATE_LIMIT_CLEANUP_INTERVAL, using default",
			slog.String("error", err.Error()))
		cfg.CleanupInterval = 5 * time.Minute
	}
	if err := ValidatePositiveDuration(cfg.IdleTTL); err != nil {
		slog.Warn("invalid RATE_LIMIT_IDLE_TTL, using default",
			slog.String("error", err.Error()))
		cfg.IdleTTL = 10 * time.Minute
	}

	if cfg.TrustProxy {
		if len(cfg.TrustedProxies) == 0 {
			return nil, fmt.Errorf("RATE_LIMIT_TRUST_PROXY is enabled but RATE_LIMIT_TRUSTED_PROXIES is empty")
		}
		if _, err := ParseTrustedProxies(cfg.TrustedProxies); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// ParseTrustedProxies parses IPs and CIDR ranges. A bare IP becomes a
// single-address prefix.
func ParseTrustedProxies(entries []string) ([]netip.Prefix, error) {
	out := make([]netip.Prefix, 0, len(entries))
	for _, s := range entries {
		if s == "" {
			return nil, fmt.Errorf("trusted proxy cannot be empty")
		}
		if prefix, err := netip.ParsePrefix(s); err == nil {
			out = append(out, prefix.Masked())
			continue
		}
		addr, err := netip.ParseAddr(s)
		if err != nil {
			return nil, fmt.Errorf("invalid IP or CIDR format '%s'", s)
		}
		out = append(out, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return out, nil
}
