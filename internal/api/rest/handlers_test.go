package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/clintrovert/ticketpilot/internal/analyzer"
	"github.com/clintrovert/ticketpilot/internal/api/wire"
	"github.com/clintrovert/ticketpilot/internal/assistant"
	"github.com/clintrovert/ticketpilot/internal/gateway"
	"github.com/clintrovert/ticketpilot/internal/temporal"
	"github.com/clintrovert/ticketpilot/internal/temporal/workflows"
	"github.com/clintrovert/ticketpilot/pkg/types"
)

var (
	created = time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC)
	updated = time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
)

type stubSource struct{}

func (stubSource) MyTickets(context.Context) ([]types.Ticket, error) {
	return []types.Ticket{
		{Key: "CPE-1", Summary: "Printer jam", Priority: "P3", Status: types.StatusToDo, Created: &created, Updated: &updated, AgeDays: 10},
		{Key: "CPE-2", Summary: "Login outage", Priority: "P1", Status: types.StatusInProgress, Created: &created, Updated: &updated, AgeDays: 190, StaleDays: 40},
	}, nil
}

func (stubSource) Ticket(_ context.Context, key string) (*types.Ticket, error) {
	return nil, errors.New("not found")
}

func (stubSource) TicketURL(key string) string {
	return "https://jira.example.com/browse/" + strings.ToUpper(key)
}

type stubWorkflows struct {
	started []workflows.TicketPRInput
}

func (s *stubWorkflows) StartTicketPRWorkflow(_ context.Context, input workflows.TicketPRInput) (string, error) {
	s.started = append(s.started, input)
	return workflows.WorkflowID(input.Ticket.Key), nil
}

func (s *stubWorkflows) GetWorkflowStatus(_ context.Context, id string) (*temporal.WorkflowStatus, error) {
	return &temporal.WorkflowStatus{WorkflowID: id, RunID: "run-1", Status: "Running", Running: true}, nil
}

func (s *stubWorkflows) CancelWorkflow(context.Context, string) error {
	return nil
}

func newTestServer(t *testing.T, prs *stubWorkflows) *httptest.Server {
	t.Helper()
	svc := assistant.NewService(stubSource{}, analyzer.NewRuleAnalyzer(), nil, "https://jira.example.com", zap.NewNop())
	if prs != nil {
		svc.WithPullRequests(prs, &types.RepositoryInfo{Owner: "acme", Name: "notes", BaseBranch: "main"})
	}

	r := chi.NewRouter()
	NewHandler(svc, zap.NewNop()).RegisterRoutes(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, method, url string, out any) int {
	t.Helper()
	req, err := http.NewRequest(method, url, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, nil)
	assert.Equal(t, http.StatusOK, do(t, http.MethodGet, srv.URL+"/health", nil))
}

func TestStartSession_WireShape(t *testing.T) {
	srv := newTestServer(t, nil)

	var raw map[string]any
	require.Equal(t, http.StatusOK, do(t, http.MethodPost, srv.URL+"/api/session/start", &raw))

	analysis := raw["analysis"].(map[string]any)
	top := analysis["top_priority"].(map[string]any)
	assert.Equal(t, "CPE-2", top["key"])
	assert.Equal(t, "Login outage", top["summary"])
	assert.NotEmpty(t, analysis["priority_reasoning"])

	notable := analysis["other_notable"].([]any)
	require.Len(t, notable, 1)
	assert.Equal(t, "CPE-1", notable[0].(map[string]any)["key"])
	assert.Len(t, raw["tickets"], 2)
}

func TestGatewayRoundTrip(t *testing.T) {
	srv := newTestServer(t, nil)
	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	client := gateway.NewClient(srv.URL, zap.NewNop(), gateway.WithClock(func() time.Time { return now }))
	ctx := context.Background()

	session := client.StartSession(ctx)
	require.False(t, session.Fallback)
	require.Len(t, session.Tickets, 2)
	assert.Equal(t, "CPE-2", session.Analysis.TopPriority)
	assert.Equal(t, 181, session.Tickets[1].AgeDays)
	assert.Equal(t, 28, session.Tickets[1].StaleDays)

	analysis := client.AnalyzeTicket(ctx, &session.Tickets[0])
	assert.Equal(t, "CPE-1", analysis.TopPriority)
	assert.NotEmpty(t, analysis.NextSteps)

	u, err := client.TicketURL(ctx, "cpe-1")
	require.NoError(t, err)
	assert.Equal(t, "https://jira.example.com/browse/CPE-1", u)
}

func TestAnalyzeTicket_NotFound(t *testing.T) {
	srv := newTestServer(t, nil)

	var resp wire.ErrorResponse
	assert.Equal(t, http.StatusNotFound, do(t, http.MethodPost, srv.URL+"/api/ticket/NOPE-1/analyze", &resp))
	assert.Contains(t, resp.Error, "ticket not found")
}

func TestRecommendationAndRanked(t *testing.T) {
	srv := newTestServer(t, nil)
	require.Equal(t, http.StatusOK, do(t, http.MethodPost, srv.URL+"/api/session/start", nil))

	var rec types.Recommendation
	require.Equal(t, http.StatusOK, do(t, http.MethodGet, srv.URL+"/api/ticket/CPE-2/recommendation", &rec))
	assert.Equal(t, "CPE-2", rec.TicketKey)
	assert.NotEmpty(t, rec.Primary.Label)

	var ranked wire.RankedResponse
	require.Equal(t, http.StatusOK, do(t, http.MethodGet, srv.URL+"/api/tickets/ranked", &ranked))
	require.Len(t, ranked.Tickets, 2)
	assert.Equal(t, "CPE-2", ranked.Tickets[0].Ticket.Key)
	assert.Equal(t, 90, ranked.Tickets[0].Score)
}

func TestNotify_Disabled(t *testing.T) {
	srv := newTestServer(t, nil)
	require.Equal(t, http.StatusOK, do(t, http.MethodPost, srv.URL+"/api/session/start", nil))
	assert.Equal(t, http.StatusServiceUnavailable, do(t, http.MethodPost, srv.URL+"/api/ticket/CPE-1/notify", nil))
}

func TestPullRequestEndpoints(t *testing.T) {
	prs := &stubWorkflows{}
	srv := newTestServer(t, prs)
	require.Equal(t, http.StatusOK, do(t, http.MethodPost, srv.URL+"/api/session/start", nil))

	var started wire.PRResponse
	require.Equal(t, http.StatusAccepted, do(t, http.MethodPost, srv.URL+"/api/ticket/CPE-2/pr", &started))
	assert.Equal(t, "ticket-pr-CPE-2", started.WorkflowID)

	require.Len(t, prs.started, 1)
	input := prs.started[0]
	assert.Equal(t, "CPE-2", input.Ticket.Key)
	assert.Equal(t, "acme", input.Repository.Owner)
	assert.Equal(t, "https://jira.example.com/browse/CPE-2", input.TicketURL)
	require.NotNil(t, input.Recommendation)

	var status wire.PRResponse
	require.Equal(t, http.StatusOK, do(t, http.MethodGet, srv.URL+"/api/ticket/CPE-2/pr", &status))
	assert.Equal(t, "Running", status.Status)

	assert.Equal(t, http.StatusOK, do(t, http.MethodDelete, srv.URL+"/api/ticket/CPE-2/pr", nil))
}

func TestPullRequest_NotConfigured(t *testing.T) {
	srv := newTestServer(t, nil)
	assert.Equal(t, http.StatusServiceUnavailable, do(t, http.MethodPost, srv.URL+"/api/ticket/CPE-2/pr", nil))
}
