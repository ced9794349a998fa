// Package logging builds the process slog logger and derives request-scoped
// loggers from it.
//
//	logger := logging.NewLogger()
//	slog.SetDefault(logger)
//	...
//	logging.WithRequestID(r.Context(), logger).Info("lineage validated")
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"geodata/internal/handler/http/requestid"
)

// Options configure New.
type Options struct {
	Level  slog.Level
	Format string // "json" or "text"
	Writer io.Writer
}

// OptionsFromEnv reads LOG_LEVEL (debug, info, warn, error; default info)
// and LOG_FORMAT (json or text; default json). Output goes to stdout.
func OptionsFromEnv() Options {
	return Options{
		Level:  ParseLevel(os.Getenv("LOG_LEVEL")),
		Format: strings.ToLower(strings.TrimSpace(os.Getenv("LOG_FORMAT"))),
		Writer: os.Stdout,
	}
}

// ParseLevel maps a level name to slog.Level. Unknown names mean info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New builds a logger. Source locations are attached at debug level only.
func New(opts Options) *slog.Logger {
	w := opts.Writer
	if w == nil {
		w = os.Stdout
	}
	ho := &slog.HandlerOptions{
		Level:     opts.Level,
		AddSource: opts.Level <= slog.LevelDebug,
	}
	if opts.Format == "text" {
		return slog.New(slog.NewTextHandler(w, ho))
	}
	return slog.New(slog.NewJSONHandler(w, ho))
}

// NewLogger is New(OptionsFromEnv()).
func NewLogger() *slog.Logger {
	return New(OptionsFromEnv())
}

// WithRequestID adds the request ID found in ctx. A nil logger falls back
// to slog.Default().
func WithRequestID(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = slog.Default()
	}
	if id := requestid.FromContext(ctx); id != "" {
		return logger.With(slog.String("request_id", id))
	}
	return logger
}
