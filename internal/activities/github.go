package activities

import (
	"context"

	"go.uber.org/zap"

	"github.com/clintrovert/ticketpilot/pkg/types"
)

// GitClient is the subset of the GitHub client the activities drive
type GitClient interface {
	CloneRepository(ctx context.Context, repo *types.RepositoryInfo) (string, error)
	CreateBranch(repoPath, baseBranch, newBranch string) error
	WriteFile(repoPath, relPath, content string) error
	CommitChanges(repoPath, message string) error
	PushBranch(ctx context.Context, repoPath, branch string) error
	CreatePullRequest(ctx context.Context, repo *types.RepositoryInfo, headBranch, title, body string) (*types.PRInfo, error)
}

// GitHubActivities handles GitHub-related activities
type GitHubActivities struct {
	githubClient GitClient
	logger       *zap.Logger
}

// NewGitHubActivities creates a new GitHub activities handler
func NewGitHubActivities(githubClient GitClient, logger *zap.Logger) *GitHubActivities {
	return &GitHubActivities{
		githubClient: githubClient,
		logger:       logger,
	}
}

// CloneRepositoryActivity clones a GitHub repository
func (a *GitHubActivities) CloneRepositoryActivity(ctx context.Context, repo *types.RepositoryInfo) (GitHubOperationResult, error) {
	a.logger.Info("cloning repository",
		zap.String("owner", repo.Owner),
		zap.String("name", repo.Name),
	)

	repoPath, err := a.githubClient.CloneRepository(ctx, repo)
	if err != nil {
		return GitHubOperationResult{Success: false, Message: err.Error()}, err
	}

	return GitHubOperationResult{
		Success:        true,
		Message:        "repository cloned successfully",
		RepositoryPath: repoPath,
	}, nil
}

// CreateBranchActivity creates the ticket branch in a cloned repository
func (a *GitHubActivities) CreateBranchActivity(_ context.Context, repo *types.RepositoryInfo, repoPath, branchName string) (GitHubOperationResult, error) {
	a.logger.Info("creating branch",
		zap.String("branch", branchName),
		zap.String("repo", repo.Name),
	)

	if err := a.githubClient.CreateBranch(repoPath, repo.BaseBranch, branchName); err != nil {
		return GitHubOperationResult{Success: false, Message: err.Error()}, err
	}

	return GitHubOperationResult{
		Success:        true,
		Message:        "branch created successfully",
		BranchName:     branchName,
		RepositoryPath: repoPath,
	}, nil
}

// WriteNotesActivity writes the ticket notes file into the working tree
func (a *GitHubActivities) WriteNotesActivity(_ context.Context, repoPath, relPath, content string) (GitHubOperationResult, error) {
	a.logger.Info("writing ticket notes", zap.String("path", relPath))

	if err := a.githubClient.WriteFile(repoPath, relPath, content); err != nil {
		return GitHubOperationResult{Success: false, Message: err.Error()}, err
	}

	return GitHubOperationResult{
		Success:        true,
		Message:        "notes written",
		RepositoryPath: repoPath,
	}, nil
}

// CommitAndPushActivity commits the working tree and pushes the branch
func (a *GitHubActivities) CommitAndPushActivity(ctx context.Context, repoPath, branchName, message string) (GitHubOperationResult, error) {
	a.logger.Info("committing changes",
		zap.String("branch", branchName),
		zap.String("message", message),
	)

	if err := a.githubClient.CommitChanges(repoPath, message); err != nil {
		return GitHubOperationResult{Success: false, Message: err.Error()}, err
	}
	if err := a.githubClient.PushBranch(ctx, repoPath, branchName); err != nil {
		return GitHubOperationResult{Success: false, Message: err.Error()}, err
	}

	return GitHubOperationResult{
		Success:    true,
		Message:    "changes pushed",
		BranchName: branchName,
	}, nil
}

// CreatePRActivity opens the pull request for the ticket branch
func (a *GitHubActivities) CreatePRActivity(ctx context.Context, repo *types.RepositoryInfo, branchName, title, description string) (GitHubOperationResult, error) {
	a.logger.Info("creating pull request",
		zap.String("repo", repo.Name),
		zap.String("title", title),
	)

	prInfo, err := a.githubClient.CreatePullRequest(ctx, repo, branchName, title, description)
	if err != nil {
		return GitHubOperationResult{Success: false, Message: err.Error()}, err
	}

	return GitHubOperationResult{
		Success:    true,
		Message:    "pull request created",
		PRInfo:     prInfo,
		BranchName: branchName,
	}, nil
}
