// Package config reads process settings from environment variables.
//
// The GetEnv helpers never fail: unset values yield the default and
// malformed ones log a warning and yield the default too. Settings that
// must also be range checked go through a Loader, which records every
// fallback for metrics.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// GetEnvString returns the value of key, or def when unset or empty.
func GetEnvString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// GetEnvInt parses key as a decimal integer.
//
//	port := GetEnvInt("PORT", 8080)
func GetEnvInt(key string, def int) int {
	return getEnv(key, def, strconv.Atoi)
}

// GetEnvFloat parses key as a float64.
//
//	rps := GetEnvFloat("COLLECTOR_RPS", 5)
func GetEnvFloat(key string, def float64) float64 {
	return getEnv(key, def, func(s string) (float64, error) {
		return strconv.ParseFloat(s, 64)
	})
}

// GetEnvBool parses key with strconv.ParseBool (1, t, true, 0, f, false, ...).
func GetEnvBool(key string, def bool) bool {
	return getEnv(key, def, strconv.ParseBool)
}

// GetEnvDuration parses key with time.ParseDuration ("30s", "1h30m").
func GetEnvDuration(key string, def time.Duration) time.Duration {
	return getEnv(key, def, time.ParseDuration)
}

// GetEnvStringList splits key on commas, trimming blanks and dropping empty
// items. An empty result yields def.
//
//	GetEnvStringList("TRUSTED_PROXIES", nil) // "10.0.0.0/8, 192.168.0.0/16"
func GetEnvStringList(key string, def []string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}

func getEnv[T any](key string, def T, parse func(string) (T, error)) T {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := parse(raw)
	if err != nil {
		slog.Warn("invalid environment value, using default",
			slog.String("key", key),
			slog.String("value", raw),
			slog.String("default", fmt.Sprint(def)),
			slog.String("error", err.Error()))
		return def
	}
	return v
}
