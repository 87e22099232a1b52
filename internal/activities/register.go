package activities

import (
	"go.temporal.io/sdk/worker"
)

// Register registers every ticket PR activity with the worker.
// Nil handlers are skipped.
func Register(r worker.ActivityRegistry, gh *GitHubActivities, jira *JiraActivities, notifier *NotifyActivities) {
	if gh != nil {
		r.RegisterActivity(gh)
	}
	if jira != nil {
		r.RegisterActivity(jira)
	}
	if notifier != nil {
		r.RegisterActivity(notifier)
	}
}
