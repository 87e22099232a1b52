package workflows

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/testsuite"
	"go.uber.org/zap"

	"github.com/clintrovert/ticketpilot/internal/activities"
	"github.com/clintrovert/ticketpilot/pkg/types"
)

type fakeGit struct {
	mu       sync.Mutex
	cloneErr error
	files    map[string]string
	branch   string
	commits  []string
	pushed   []string
}

func (f *fakeGit) CloneRepository(_ context.Context, repo *types.RepositoryInfo) (string, error) {
	if f.cloneErr != nil {
		return "", f.cloneErr
	}
	return "/work/" + repo.Owner + "/" + repo.Name, nil
}

func (f *fakeGit) CreateBranch(_, _, newBranch string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.branch = newBranch
	return nil
}

func (f *fakeGit) WriteFile(_, relPath, content string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.files == nil {
		f.files = map[string]string{}
	}
	f.files[relPath] = content
	return nil
}

func (f *fakeGit) CommitChanges(_, message string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.commits = append(f.commits, message)
	return nil
}

func (f *fakeGit) PushBranch(_ context.Context, _, branch string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pushed = append(f.pushed, branch)
	return nil
}

func (f *fakeGit) CreatePullRequest(_ context.Context, repo *types.RepositoryInfo, headBranch, title, _ string) (*types.PRInfo, error) {
	return &types.PRInfo{
		PRNumber: 7,
		PRURL:    "https://github.com/" + repo.Owner + "/" + repo.Name + "/pull/7",
		Title:    title,
		Status:   "open",
	}, nil
}

type failingCommenter struct{}

func (failingCommenter) AddComment(context.Context, string, string) error {
	return errors.New("jira unavailable")
}

type recordingNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (r *recordingNotifier) Notify(_ context.Context, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, text)
	return nil
}

func testInput() TicketPRInput {
	return TicketPRInput{
		Ticket: types.Ticket{Key: "CPE-1", Summary: "VPN down", Priority: "P1", Status: "In Progress"},
		Recommendation: &types.Recommendation{
			Title:   "Check progress",
			Primary: types.Action{Label: "Ping owner", Instruction: "Message the assignee"},
		},
		Repository: &types.RepositoryInfo{Owner: "acme", Name: "notes", BaseBranch: "main"},
	}
}

func TestTicketPRWorkflow(t *testing.T) {
	var ts testsuite.WorkflowTestSuite
	env := ts.NewTestWorkflowEnvironment()

	git := &fakeGit{}
	notifier := &recordingNotifier{}
	env.RegisterActivity(activities.NewGitHubActivities(git, zap.NewNop()))
	env.RegisterActivity(activities.NewJiraActivities(failingCommenter{}, zap.NewNop()))
	env.RegisterActivity(activities.NewNotifyActivities(notifier, zap.NewNop()))

	env.ExecuteWorkflow(TicketPRWorkflow, testInput())

	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var pr types.PRInfo
	require.NoError(t, env.GetWorkflowResult(&pr))
	assert.Equal(t, int64(7), pr.PRNumber)
	assert.Equal(t, "CPE-1: VPN down", pr.Title)

	assert.Equal(t, "assistant/CPE-1-VPN-down", git.branch)
	assert.Contains(t, git.files["notes/CPE-1.md"], "# CPE-1: VPN down")
	assert.Equal(t, []string{"chore: add notes for CPE-1"}, git.commits)
	assert.Equal(t, []string{"assistant/CPE-1-VPN-down"}, git.pushed)

	require.Len(t, notifier.messages, 1)
	assert.Contains(t, notifier.messages[0], "https://github.com/acme/notes/pull/7")
}

func TestTicketPRWorkflow_CloneFailure(t *testing.T) {
	var ts testsuite.WorkflowTestSuite
	env := ts.NewTestWorkflowEnvironment()

	env.RegisterActivity(activities.NewGitHubActivities(&fakeGit{cloneErr: errors.New("auth failed")}, zap.NewNop()))
	env.RegisterActivity(activities.NewJiraActivities(failingCommenter{}, zap.NewNop()))
	env.RegisterActivity(activities.NewNotifyActivities(nil, zap.NewNop()))

	env.ExecuteWorkflow(TicketPRWorkflow, testInput())

	require.True(t, env.IsWorkflowCompleted())
	assert.Error(t, env.GetWorkflowError())
}

func TestTicketPRWorkflow_InvalidInput(t *testing.T) {
	var ts testsuite.WorkflowTestSuite
	env := ts.NewTestWorkflowEnvironment()

	env.ExecuteWorkflow(TicketPRWorkflow, TicketPRInput{})

	require.True(t, env.IsWorkflowCompleted())
	assert.Error(t, env.GetWorkflowError())
}

func TestWorkflowID(t *testing.T) {
	assert.Equal(t, "ticket-pr-CPE-1", WorkflowID("CPE-1"))
}
