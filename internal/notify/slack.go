package notify

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/slack-go/slack"
)

type slackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

// SlackAlerter posts operational summaries to an ops channel.
type SlackAlerter struct {
	api       slackClient
	channelID string
}

func NewSlackAlerter(token, channelID string) *SlackAlerter {
	if token == "" {
		return &SlackAlerter{channelID: channelID}
	}
	return &SlackAlerter{api: slack.New(token), channelID: channelID}
}

func newSlackAlerterWithClient(api slackClient, channelID string) *SlackAlerter {
	return &SlackAlerter{api: api, channelID: channelID}
}

func (a *SlackAlerter) IsConfigured() bool {
	return a.api != nil && a.channelID != ""
}

// Alert posts a titled message with one context line per detail.
func (a *SlackAlerter) Alert(ctx context.Context, title string, details ...string) error {
	if !a.IsConfigured() {
		log.Debug("Slack alerter not configured, skipping alert", "title", title)
		return nil
	}

	blocks := []slack.Block{
		slack.NewHeaderBlock(slack.NewTextBlockObject(slack.PlainTextType, title, false, false)),
	}
	for _, d := range details {
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject(slack.MarkdownType, d, false, false), nil, nil))
	}

	_, _, err := a.api.PostMessageContext(ctx, a.channelID,
		slack.MsgOptionText(title, false),
		slack.MsgOptionBlocks(blocks...),
	)
	if err != nil {
		return fmt.Errorf("failed to post slack alert: %w", err)
	}
	return nil
}
