package activities

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Commenter adds comments to tracker tickets
type Commenter interface {
	AddComment(ctx context.Context, key, comment string) error
}

// JiraActivities handles Jira-related activities
type JiraActivities struct {
	jiraClient Commenter
	logger     *zap.Logger
}

// NewJiraActivities creates a new Jira activities handler
func NewJiraActivities(jiraClient Commenter, logger *zap.Logger) *JiraActivities {
	return &JiraActivities{
		jiraClient: jiraClient,
		logger:     logger,
	}
}

// UpdateJiraActivity comments the PR link on the ticket
func (a *JiraActivities) UpdateJiraActivity(ctx context.Context, ticketKey, prURL string) (JiraUpdateResult, error) {
	a.logger.Info("updating Jira",
		zap.String("ticket", ticketKey),
		zap.String("pr_url", prURL),
	)

	comment := fmt.Sprintf("Pull request created: %s", prURL)
	if err := a.jiraClient.AddComment(ctx, ticketKey, comment); err != nil {
		a.logger.Error("failed to add comment", zap.Error(err))
		return JiraUpdateResult{Success: false, Message: err.Error()}, err
	}

	return JiraUpdateResult{
		Success: true,
		Message: "Jira updated successfully",
	}, nil
}
