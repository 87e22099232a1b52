// Package notify posts ticket notifications to Slack.
package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/slack-go/slack"
	"go.uber.org/zap"

	"github.com/clintrovert/ticketpilot/pkg/types"
)

// ErrNotConfigured is returned when neither a webhook nor a bot token is set
var ErrNotConfigured = errors.New("slack notifier is not configured")

// Notifier sends plain text notifications
type Notifier interface {
	Notify(ctx context.Context, text string) error
}

// SlackConfig holds Slack notifier configuration.
// A webhook URL takes precedence over a bot token.
type SlackConfig struct {
	WebhookURL string
	BotToken   string
	Channel    string
	// APIURL overrides the Slack Web API endpoint
	APIURL string
}

// SlackNotifier delivers notifications through an incoming webhook or chat.postMessage
type SlackNotifier struct {
	config SlackConfig
	api    *slack.Client
	logger *zap.Logger
}

// NewSlackNotifier creates a new Slack notifier
func NewSlackNotifier(cfg SlackConfig, logger *zap.Logger) *SlackNotifier {
	n := &SlackNotifier{config: cfg, logger: logger}
	if cfg.WebhookURL == "" && cfg.BotToken != "" {
		var opts []slack.Option
		if cfg.APIURL != "" {
			opts = append(opts, slack.OptionAPIURL(cfg.APIURL))
		}
		n.api = slack.New(cfg.BotToken, opts...)
	}
	return n
}

// Enabled reports whether the notifier has somewhere to send messages
func (n *SlackNotifier) Enabled() bool {
	return n.config.WebhookURL != "" || n.api != nil
}

// Notify posts text to Slack
func (n *SlackNotifier) Notify(ctx context.Context, text string) error {
	switch {
	case n.config.WebhookURL != "":
		if err := slack.PostWebhookContext(ctx, n.config.WebhookURL, &slack.WebhookMessage{Text: text}); err != nil {
			return fmt.Errorf("failed to post slack webhook: %w", err)
		}
	case n.api != nil:
		if n.config.Channel == "" {
			return fmt.Errorf("slack channel required when using a bot token")
		}
		if _, _, err := n.api.PostMessageContext(ctx, n.config.Channel, slack.MsgOptionText(text, false)); err != nil {
			return fmt.Errorf("failed to post slack message: %w", err)
		}
	default:
		return ErrNotConfigured
	}

	n.logger.Info("sent slack notification", zap.Int("length", len(text)))
	return nil
}

// TicketMessage formats the notification for a ticket in Slack mrkdwn
func TicketMessage(t *types.Ticket, jiraBaseURL string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("*%s* - %s\n", t.Key, t.Summary))
	sb.WriteString(fmt.Sprintf("Priority: %s | Status: %s", t.Priority, t.Status))
	if base := strings.TrimRight(jiraBaseURL, "/"); base != "" {
		sb.WriteString(fmt.Sprintf("\n%s/browse/%s", base, t.Key))
	}
	return sb.String()
}

// PullRequestMessage formats the notification sent after a ticket PR is opened
func PullRequestMessage(ticketKey string, pr *types.PRInfo) string {
	return fmt.Sprintf("Opened PR #%d for *%s*: %s", pr.PRNumber, ticketKey, pr.PRURL)
}
