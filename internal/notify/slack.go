package notify

import (
	"context"
	"fmt"

	"github.com/slack-go/slack"
)

// slackAPI is the subset of the Slack client used here, extracted so tests
// can substitute a fake.
type slackAPI interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

// SlackNotifier posts messages to one Slack channel.
type SlackNotifier struct {
	api     slackAPI
	channel string
}

// NewSlackNotifier creates a notifier posting to channel with the given bot
// token.
func NewSlackNotifier(token, channel string) *SlackNotifier {
	return &SlackNotifier{
		api:     slack.New(token),
		channel: channel,
	}
}

// Name identifies the destination in logs.
func (s *SlackNotifier) Name() string { return "slack" }

// Notify posts message to the configured channel.
func (s *SlackNotifier) Notify(ctx context.Context, message string) error {
	if s.channel == "" {
		return fmt.Errorf("slack channel is not configured")
	}
	_, _, err := s.api.PostMessageContext(ctx, s.channel, slack.MsgOptionText(message, false))
	if err != nil {
		return fmt.Errorf("post slack message: %w", err)
	}
	return nil
}
