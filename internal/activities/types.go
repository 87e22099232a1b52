package activities

import (
	"github.com/clintrovert/ticketpilot/pkg/types"
)

// GitHubOperationResult contains the result of a GitHub operation
type GitHubOperationResult struct {
	Success        bool
	Message        string
	PRInfo         *types.PRInfo
	BranchName     string
	RepositoryPath string
}

// JiraUpdateResult contains the result of a Jira update
type JiraUpdateResult struct {
	Success bool
	Message string
}

// NotifyResult contains the result of a Slack notification
type NotifyResult struct {
	Sent    bool
	Message string
}
