package notifier

import (
	"context"
	"time"

	"geodata/internal/usecase/collect"
)

// Discord posts embeds to a channel webhook, limited to 30 requests a minute.
type Discord struct {
	webhook
}

func NewDiscord(url string, timeout time.Duration) *Discord {
	return &Discord{webhook: newWebhook("discord", url, timeout, 0.5, 3)}
}

func (d *Discord) Name() string { return "discord" }

type discordPayload struct {
	Embeds []discordEmbed `json:"embeds"`
}

type discordEmbed struct {
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Color       int           `json:"color"`
	Footer      discordFooter `json:"footer"`
	Timestamp   string        `json:"timestamp"`
}

type discordFooter struct {
	Text string `json:"text"`
}

const (
	maxDiscordTitle       = 256
	maxDiscordDescription = 4096

	discordGreen = 0x57F287
	discordRed   = 0xED4245
)

func buildDiscordPayload(run *collect.Run) discordPayload {
	color := discordGreen
	if !run.Success {
		color = discordRed
	}
	return discordPayload{Embeds: []discordEmbed{{
		Title:       truncate(runSummary(run), maxDiscordTitle),
		Description: truncate(runDetail(run), maxDiscordDescription),
		Color:       color,
		Footer:      discordFooter{Text: "geodata worker"},
		Timestamp:   run.FinishedAt.UTC().Format(time.RFC3339),
	}}}
}

func (d *Discord) NotifyRun(ctx context.Context, run *collect.Run) error {
	return d.send(ctx, run, buildDiscordPayload(run))
}
