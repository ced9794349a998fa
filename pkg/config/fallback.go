package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Fallback describes an environment value that was rejected in favour of
// its default.
type Fallback struct {
	Key     string
	Value   string
	Default string
	Err     error
}

func (f Fallback) String() string {
	return fmt.Sprintf("invalid %s=%q: %v, falling back to default %q", f.Key, f.Value, f.Err, f.Default)
}

// Loader reads validated settings from the environment. Values that do not
// parse or validate are replaced by their defaults and recorded, so a
// loader never fails.
type Loader struct {
	Fallbacks []Fallback
}

// String loads key, validating it with validate when non-nil.
func (l *Loader) String(key, def string, validate func(string) error) string {
	return load(l, key, def, func(s string) (string, error) { return s, nil }, validate)
}

// Int loads key as a decimal integer.
func (l *Loader) Int(key string, def int, validate func(int) error) int {
	return load(l, key, def, func(s string) (int, error) { return strconv.Atoi(s) }, validate)
}

// Duration loads key as a time.Duration string such as "90s".
func (l *Loader) Duration(key string, def time.Duration, validate func(time.Duration) error) time.Duration {
	return load(l, key, def, time.ParseDuration, validate)
}

// Applied reports whether any fallback was recorded.
func (l *Loader) Applied() bool { return len(l.Fallbacks) > 0 }

func load[T any](l *Loader, key string, def T, parse func(string) (T, error), validate func(T) error) T {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := parse(raw)
	if err == nil && validate != nil {
		err = validate(v)
	}
	if err != nil {
		l.Fallbacks = append(l.Fallbacks, Fallback{
			Key:     key,
			Value:   raw,
			Default: fmt.Sprint(def),
			Err:     err,
		})
		return def
	}
	return v
}
