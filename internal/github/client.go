package github

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/transport"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/google/go-github/v57/github"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/clintrovert/ticketpilot/pkg/types"
)

const (
	commitAuthorName  = "Ticket Assistant"
	commitAuthorEmail = "assistant@ticketpilot.dev"
)

// Client wraps GitHub API and Git operations
type Client struct {
	apiClient    *github.Client
	logger       *zap.Logger
	accessToken  string
	workspaceDir string
	progress     io.Writer
}

// NewClient creates a new GitHub client
func NewClient(accessToken, workspaceDir string, logger *zap.Logger) *Client {
	ctx := context.Background()
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: accessToken},
	)
	tc := oauth2.NewClient(ctx, ts)

	return &Client{
		apiClient:    github.NewClient(tc),
		logger:       logger,
		accessToken:  accessToken,
		workspaceDir: workspaceDir,
		progress:     io.Discard,
	}
}

// WithAPIBaseURL points the API client at a different GitHub endpoint
func (c *Client) WithAPIBaseURL(rawURL string) (*Client, error) {
	if !strings.HasSuffix(rawURL, "/") {
		rawURL += "/"
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse github api url: %w", err)
	}
	c.apiClient.BaseURL = u
	return c, nil
}

// CloneRepository clones the repository's base branch into the workspace
func (c *Client) CloneRepository(ctx context.Context, repo *types.RepositoryInfo) (string, error) {
	repoPath := c.RepositoryPath(repo.Owner, repo.Name)

	if err := os.RemoveAll(repoPath); err != nil {
		return "", fmt.Errorf("failed to clear workspace: %w", err)
	}
	if err := os.MkdirAll(repoPath, 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	_, err := git.PlainCloneContext(ctx, repoPath, false, &git.CloneOptions{
		URL:           repo.CloneURL,
		Auth:          c.auth(),
		ReferenceName: plumbing.NewBranchReferenceName(repo.BaseBranch),
		SingleBranch:  true,
		Progress:      c.progress,
	})
	if err != nil {
		return "", fmt.Errorf("failed to clone repository: %w", err)
	}

	c.logger.Info("cloned repository",
		zap.String("owner", repo.Owner),
		zap.String("repo", repo.Name),
		zap.String("path", repoPath),
	)

	return repoPath, nil
}

// RepositoryPath returns the path a repository is cloned to
func (c *Client) RepositoryPath(owner, repo string) string {
	return filepath.Join(c.workspaceDir, owner, repo)
}

// CreateBranch creates and checks out a new branch from the base branch
func (c *Client) CreateBranch(repoPath, baseBranch, newBranch string) error {
	r, err := git.PlainOpen(repoPath)
	if err != nil {
		return fmt.Errorf("failed to open repository: %w", err)
	}

	w, err := r.Worktree()
	if err != nil {
		return fmt.Errorf("failed to get worktree: %w", err)
	}

	err = w.Checkout(&git.CheckoutOptions{
		Branch: plumbing.NewBranchReferenceName(baseBranch),
	})
	if err != nil {
		return fmt.Errorf("failed to checkout base branch: %w", err)
	}

	err = w.Checkout(&git.CheckoutOptions{
		Branch: plumbing.NewBranchReferenceName(newBranch),
		Create: true,
	})
	if err != nil {
		return fmt.Errorf("failed to create branch: %w", err)
	}

	c.logger.Info("created branch",
		zap.String("branch", newBranch),
		zap.String("repo_path", repoPath),
	)

	return nil
}

// WriteFile writes content to a path relative to the repository root
func (c *Client) WriteFile(repoPath, relPath, content string) error {
	clean := filepath.Clean(relPath)
	if filepath.IsAbs(clean) || strings.HasPrefix(clean, "..") {
		return fmt.Errorf("path %q escapes the repository", relPath)
	}

	full := filepath.Join(repoPath, clean)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", relPath, err)
	}
	return nil
}

// CommitChanges stages every change and commits it
func (c *Client) CommitChanges(repoPath, message string) error {
	r, err := git.PlainOpen(repoPath)
	if err != nil {
		return fmt.Errorf("failed to open repository: %w", err)
	}

	w, err := r.Worktree()
	if err != nil {
		return fmt.Errorf("failed to get worktree: %w", err)
	}

	if err := w.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		return fmt.Errorf("failed to add changes: %w", err)
	}

	_, err = w.Commit(message, &git.CommitOptions{
		Author: &object.Signature{
			Name:  commitAuthorName,
			Email: commitAuthorEmail,
			When:  time.Now(),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}

	c.logger.Info("committed changes",
		zap.String("message", message),
		zap.String("repo_path", repoPath),
	)

	return nil
}

// PushBranch pushes a branch to origin
func (c *Client) PushBranch(ctx context.Context, repoPath, branch string) error {
	r, err := git.PlainOpen(repoPath)
	if err != nil {
		return fmt.Errorf("failed to open repository: %w", err)
	}

	err = r.PushContext(ctx, &git.PushOptions{
		RemoteName: "origin",
		RefSpecs:   []config.RefSpec{config.RefSpec(fmt.Sprintf("refs/heads/%s:refs/heads/%s", branch, branch))},
		Auth:       c.auth(),
		Progress:   c.progress,
	})
	if err != nil && err != git.NoErrAlreadyUpToDate {
		return fmt.Errorf("failed to push branch: %w", err)
	}

	c.logger.Info("pushed branch",
		zap.String("branch", branch),
		zap.String("repo_path", repoPath),
	)

	return nil
}

// CreatePullRequest opens a pull request from headBranch into the base branch
func (c *Client) CreatePullRequest(ctx context.Context, repo *types.RepositoryInfo, headBranch, title, body string) (*types.PRInfo, error) {
	newPR := &github.NewPullRequest{
		Title: github.String(title),
		Head:  github.String(headBranch),
		Base:  github.String(repo.BaseBranch),
		Body:  github.String(body),
	}

	pr, _, err := c.apiClient.PullRequests.Create(ctx, repo.Owner, repo.Name, newPR)
	if err != nil {
		return nil, fmt.Errorf("failed to create pull request: %w", err)
	}

	prInfo := &types.PRInfo{
		PRNumber: int64(pr.GetNumber()),
		PRURL:    pr.GetHTMLURL(),
		Title:    pr.GetTitle(),
		Status:   pr.GetState(),
	}

	c.logger.Info("created pull request",
		zap.String("owner", repo.Owner),
		zap.String("repo", repo.Name),
		zap.Int64("pr_number", prInfo.PRNumber),
		zap.String("pr_url", prInfo.PRURL),
	)

	return prInfo, nil
}

// auth returns token credentials for HTTPS remotes
func (c *Client) auth() transport.AuthMethod {
	if c.accessToken == "" {
		return nil
	}
	return &githttp.BasicAuth{Username: "x-access-token", Password: c.accessToken}
}
