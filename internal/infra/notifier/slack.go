package notifier

import (
	"context"
	"fmt"
	"time"

	"geodata/internal/usecase/collect"
)

// Slack posts to an Incoming Webhook using Block Kit. Slack accepts about
// one message per second per webhook.
type Slack struct {
	webhook
}

func NewSlack(url string, timeout time.Duration) *Slack {
	return &Slack{webhook: newWebhook("slack", url, timeout, 1, 1)}
}

func (s *Slack) Name() string { return "slack" }

type slackPayload struct {
	Text   string       `json:"text"`
	Blocks []slackBlock `json:"blocks"`
}

type slackBlock struct {
	Type     string      `json:"type"`
	Text     *slackText  `json:"text,omitempty"`
	Elements []slackText `json:"elements,omitempty"`
}

type slackText struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

const (
	maxSlackSection  = 3000
	maxSlackFallback = 150
)

func buildSlackPayload(run *collect.Run) slackPayload {
	icon := ":white_check_mark:"
	if !run.Success {
		icon = ":x:"
	}
	summary := runSummary(run)
	return slackPayload{
		Text: truncate(summary, maxSlackFallback),
		Blocks: []slackBlock{
			{Type: "section", Text: &slackText{Type: "mrkdwn",
				Text: truncate(fmt.Sprintf("%s *%s*\n%s", icon, summary, runDetail(run)), maxSlackSection)}},
			{Type: "context", Elements: []slackText{{Type: "mrkdwn",
				Text: "finished " + run.FinishedAt.UTC().Format(time.RFC3339)}}},
		},
	}
}

func (s *Slack) NotifyRun(ctx context.Context, run *collect.Run) error {
	return s.send(ctx, run, buildSlackPayload(run))
}
