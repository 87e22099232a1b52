package github

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/clintrovert/ticketpilot/pkg/types"
)

func TestGenerateBranchName(t *testing.T) {
	assert.Equal(t, "assistant/CPE-3117-Auto-lock-macs-via-snow-integr",
		GenerateBranchName("CPE-3117", "Auto lock macs via snow integration failure"))
	assert.Equal(t, "assistant/OPS-1-fix-login", GenerateBranchName("OPS-1", "fix login?"))
	assert.Equal(t, "assistant/OPS-2", GenerateBranchName("OPS-2", "!!!"))
}

func TestNotesPath(t *testing.T) {
	assert.Equal(t, "notes/CPE-1.md", NotesPath("CPE-1"))
	assert.Equal(t, "notes/etcpasswd.md", NotesPath("../etc/passwd"))
}

func TestRenderTicketNotes(t *testing.T) {
	ticket := &types.Ticket{
		Key: "CPE-1", Summary: "VPN down", Priority: "P1", Status: "In Progress",
		AgeDays: 12, StaleDays: 3, Labels: []string{"network"}, Description: "Users cannot connect",
	}
	rec := &types.Recommendation{
		Title:     "Check progress",
		Reasoning: "It has stalled",
		Primary:   types.Action{Label: "Ping owner", Description: "Ask for status", Instruction: "Message the assignee"},
		Secondary: types.Action{Label: "Review logs", Instruction: "Read the VPN logs"},
	}
	analysis := &types.Analysis{Reasoning: "Blocks the team", NextSteps: []string{"Restart gateway"}, Context: "References CPE-2"}

	notes := RenderTicketNotes(ticket, rec, analysis)
	assert.Contains(t, notes, "# CPE-1: VPN down")
	assert.Contains(t, notes, "- **Labels:** network")
	assert.Contains(t, notes, "1. Ping owner: Message the assignee")
	assert.Contains(t, notes, "- Restart gateway")
	assert.Contains(t, notes, "References CPE-2")

	body := GeneratePRDescription(ticket, rec, "https://jira.example.com/browse/CPE-1")
	assert.Contains(t, body, "**Ticket:** https://jira.example.com/browse/CPE-1")
	assert.Contains(t, body, "Ask for status")
	assert.Contains(t, body, "notes/CPE-1.md")
}

func TestWriteFile(t *testing.T) {
	c := NewClient("", t.TempDir(), zap.NewNop())
	repo := t.TempDir()

	require.NoError(t, c.WriteFile(repo, "notes/CPE-1.md", "hello"))
	data, err := os.ReadFile(filepath.Join(repo, "notes", "CPE-1.md"))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	assert.Error(t, c.WriteFile(repo, "../escape.md", "x"))
}

func TestCreatePullRequest(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/repos/acme/notes/pulls" {
			http.NotFound(w, r)
			return
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"number": 42, "html_url": "https://github.com/acme/notes/pull/42", "title": "CPE-1: VPN down", "state": "open"}`))
	}))
	defer srv.Close()

	c, err := NewClient("token", t.TempDir(), zap.NewNop()).WithAPIBaseURL(srv.URL)
	require.NoError(t, err)

	repo := &types.RepositoryInfo{Owner: "acme", Name: "notes", BaseBranch: "main"}
	pr, err := c.CreatePullRequest(context.Background(), repo, "assistant/CPE-1-VPN-down", "CPE-1: VPN down", "body")
	require.NoError(t, err)

	assert.Equal(t, int64(42), pr.PRNumber)
	assert.Equal(t, "https://github.com/acme/notes/pull/42", pr.PRURL)
	assert.Equal(t, "open", pr.Status)
	assert.Equal(t, "assistant/CPE-1-VPN-down", got["head"])
	assert.Equal(t, "main", got["base"])
}
