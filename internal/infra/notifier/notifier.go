// Package notifier posts collector run reports to chat webhooks (Slack and
// Discord). The worker calls it after every scheduled run.
package notifier

import (
	"context"
	"errors"
	"fmt"
	"time"

	"geodata/internal/usecase/collect"
	"geodata/pkg/config"
)

// Notifier reports a finished collector run.
type Notifier interface {
	NotifyRun(ctx context.Context, run *collect.Run) error
}

// Config selects the webhooks to post to.
type Config struct {
	SlackWebhookURL   string
	DiscordWebhookURL string
	Timeout           time.Duration
	// FailuresOnly suppresses reports of successful runs.
	FailuresOnly bool
}

// LoadConfigFromEnv reads SLACK_WEBHOOK_URL, DISCORD_WEBHOOK_URL,
// NOTIFY_TIMEOUT and NOTIFY_FAILURES_ONLY.
func LoadConfigFromEnv() (Config, error) {
	cfg := Config{
		SlackWebhookURL:   config.GetEnvString("SLACK_WEBHOOK_URL", ""),
		DiscordWebhookURL: config.GetEnvString("DISCORD_WEBHOOK_URL", ""),
		Timeout:           config.GetEnvDuration("NOTIFY_TIMEOUT", 10*time.Second),
		FailuresOnly:      config.GetEnvBool("NOTIFY_FAILURES_ONLY", true),
	}
	if err := config.ValidatePositiveDuration(cfg.Timeout); err != nil {
		return Config{}, fmt.Errorf("NOTIFY_TIMEOUT: %w", err)
	}
	return cfg, nil
}

// Enabled reports whether any webhook is configured.
func (c Config) Enabled() bool {
	return c.SlackWebhookURL != "" || c.DiscordWebhookURL != ""
}

// New returns a Dispatcher for the configured webhooks, or NoOp when none is set.
func New(cfg Config) Notifier {
	var channels []Channel
	if cfg.SlackWebhookURL != "" {
		channels = append(channels, NewSlack(cfg.SlackWebhookURL, cfg.Timeout))
	}
	if cfg.DiscordWebhookURL != "" {
		channels = append(channels, NewDiscord(cfg.DiscordWebhookURL, cfg.Timeout))
	}
	if len(channels) == 0 {
		return NoOp{}
	}
	return &Dispatcher{Channels: channels, FailuresOnly: cfg.FailuresOnly}
}

// Channel is one webhook destination.
type Channel interface {
	Name() string
	NotifyRun(ctx context.Context, run *collect.Run) error
}

// Dispatcher fans a run report out to every channel. A failing channel does
// not keep the others from being notified.
type Dispatcher struct {
	Channels     []Channel
	FailuresOnly bool
}

func (d *Dispatcher) NotifyRun(ctx context.Context, run *collect.Run) error {
	if run == nil || (d.FailuresOnly && run.Success) {
		return nil
	}
	var errs []error
	for _, ch := range d.Channels {
		if err := ch.NotifyRun(ctx, run); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", ch.Name(), err))
		}
	}
	return errors.Join(errs...)
}

// NoOp drops every report.
type NoOp struct{}

func (NoOp) NotifyRun(context.Context, *collect.Run) error { return nil }
