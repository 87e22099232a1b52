package workflows

import (
	"errors"
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/clintrovert/ticketpilot/internal/activities"
	"github.com/clintrovert/ticketpilot/internal/github"
	"github.com/clintrovert/ticketpilot/pkg/types"
)

// TicketPRWorkflow commits a ticket's notes to a branch and opens a pull request,
// then links the PR on the ticket and announces it
func TicketPRWorkflow(ctx workflow.Context, input TicketPRInput) (*types.PRInfo, error) {
	if input.Repository == nil || input.Ticket.Key == "" {
		return nil, temporal.NewNonRetryableApplicationError("ticket and repository are required", "InvalidInput", errors.New("invalid input"))
	}

	logger := workflow.GetLogger(ctx)
	logger.Info("starting ticket PR workflow",
		"ticket", input.Ticket.Key,
		"repository", input.Repository.Name,
	)

	ao := workflow.ActivityOptions{
		StartToCloseTimeout: 10 * time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    time.Minute,
			MaximumAttempts:    3,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, ao)

	var gh *activities.GitHubActivities
	var jira *activities.JiraActivities
	var notifier *activities.NotifyActivities

	var cloneResult activities.GitHubOperationResult
	err := workflow.ExecuteActivity(ctx, gh.CloneRepositoryActivity, input.Repository).Get(ctx, &cloneResult)
	if err != nil {
		logger.Error("failed to clone repository", "error", err)
		return nil, err
	}
	repoPath := cloneResult.RepositoryPath

	var branchResult activities.GitHubOperationResult
	branchName := github.GenerateBranchName(input.Ticket.Key, input.Ticket.Summary)
	err = workflow.ExecuteActivity(ctx, gh.CreateBranchActivity, input.Repository, repoPath, branchName).Get(ctx, &branchResult)
	if err != nil {
		logger.Error("failed to create branch", "error", err)
		return nil, err
	}
	input.Repository.FeatureBranch = branchResult.BranchName

	notes := github.RenderTicketNotes(&input.Ticket, input.Recommendation, input.Analysis)
	err = workflow.ExecuteActivity(ctx, gh.WriteNotesActivity, repoPath, github.NotesPath(input.Ticket.Key), notes).Get(ctx, nil)
	if err != nil {
		logger.Error("failed to write notes", "error", err)
		return nil, err
	}

	err = workflow.ExecuteActivity(ctx, gh.CommitAndPushActivity, repoPath, branchName, github.CommitMessage(input.Ticket.Key)).Get(ctx, nil)
	if err != nil {
		logger.Error("failed to push changes", "error", err)
		return nil, err
	}

	var prResult activities.GitHubOperationResult
	prTitle := github.GeneratePRTitle(input.Ticket.Key, input.Ticket.Summary)
	prDescription := github.GeneratePRDescription(&input.Ticket, input.Recommendation, input.TicketURL)
	err = workflow.ExecuteActivity(ctx, gh.CreatePRActivity, input.Repository, branchName, prTitle, prDescription).Get(ctx, &prResult)
	if err != nil {
		logger.Error("failed to create PR", "error", err)
		return nil, err
	}

	// Linking and announcing are best effort once the PR exists.
	bestEffort := workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute,
		RetryPolicy:         &temporal.RetryPolicy{MaximumAttempts: 2},
	})

	err = workflow.ExecuteActivity(bestEffort, jira.UpdateJiraActivity, input.Ticket.Key, prResult.PRInfo.PRURL).Get(ctx, nil)
	if err != nil {
		logger.Warn("failed to update Jira", "error", err)
	}

	err = workflow.ExecuteActivity(bestEffort, notifier.NotifyPRActivity, input.Ticket.Key, prResult.PRInfo).Get(ctx, nil)
	if err != nil {
		logger.Warn("failed to send notification", "error", err)
	}

	logger.Info("ticket PR workflow completed",
		"ticket", input.Ticket.Key,
		"pr_url", prResult.PRInfo.PRURL,
	)

	return prResult.PRInfo, nil
}
