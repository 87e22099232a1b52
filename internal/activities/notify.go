package activities

import (
	"context"

	"go.uber.org/zap"

	"github.com/clintrovert/ticketpilot/internal/notify"
	"github.com/clintrovert/ticketpilot/pkg/types"
)

// NotifyActivities posts workflow outcomes to Slack
type NotifyActivities struct {
	notifier notify.Notifier
	logger   *zap.Logger
}

// NewNotifyActivities creates a new notification activities handler. notifier may be nil.
func NewNotifyActivities(notifier notify.Notifier, logger *zap.Logger) *NotifyActivities {
	return &NotifyActivities{
		notifier: notifier,
		logger:   logger,
	}
}

// NotifyPRActivity announces a newly opened ticket PR
func (a *NotifyActivities) NotifyPRActivity(ctx context.Context, ticketKey string, pr *types.PRInfo) (NotifyResult, error) {
	if a.notifier == nil {
		return NotifyResult{Sent: false, Message: "notifications disabled"}, nil
	}

	msg := notify.PullRequestMessage(ticketKey, pr)
	if err := a.notifier.Notify(ctx, msg); err != nil {
		a.logger.Warn("failed to send notification", zap.String("ticket", ticketKey), zap.Error(err))
		return NotifyResult{Sent: false, Message: err.Error()}, err
	}

	return NotifyResult{Sent: true, Message: msg}, nil
}
