package types

import (
	"fmt"
	"strings"
)

// RepositoryInfo contains GitHub repository information
type RepositoryInfo struct {
	Owner         string `json:"owner"`
	Name          string `json:"name"`
	BaseBranch    string `json:"base_branch"`
	FeatureBranch string `json:"feature_branch,omitempty"`
	CloneURL      string `json:"clone_url"`
}

// PRInfo contains pull request information
type PRInfo struct {
	PRNumber int64  `json:"pr_number"`
	PRURL    string `json:"pr_url"`
	Title    string `json:"title"`
	Status   string `json:"status"`
}

// ParseRepository parses "owner/repo" or "https://github.com/owner/repo" into a RepositoryInfo
func ParseRepository(s, baseBranch string) (*RepositoryInfo, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "https://github.com/")
	s = strings.TrimSuffix(s, ".git")
	parts := strings.Split(strings.Trim(s, "/"), "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return nil, fmt.Errorf("invalid repository %q, expected owner/repo", s)
	}
	if baseBranch == "" {
		baseBranch = "main"
	}
	return &RepositoryInfo{
		Owner:      parts[0],
		Name:       parts[1],
		BaseBranch: baseBranch,
		CloneURL:   fmt.Sprintf("https://github.com/%s/%s", parts[0], parts[1]),
	}, nil
}
