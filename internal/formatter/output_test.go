package formatter

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/clintrovert/ticketpilot/internal/dashboard"
	"github.com/clintrovert/ticketpilot/internal/recommend"
	"github.com/clintrovert/ticketpilot/pkg/types"
)

func init() {
	color.NoColor = true
}

func TestDashboard_HumanAnalysisView(t *testing.T) {
	var buf bytes.Buffer
	s := dashboard.NewState()

	require.NoError(t, NewPrinter(&buf, FormatHuman).Dashboard(s))
	out := buf.String()

	assert.Contains(t, out, "DEMO")
	assert.Contains(t, out, "TOP PRIORITY:")
	assert.Contains(t, out, s.TopPriorityKey())
	assert.Contains(t, out, "NEXT STEPS:")
}

func TestDashboard_HumanWorkView(t *testing.T) {
	var buf bytes.Buffer
	s := dashboard.SetView(dashboard.NewState(), dashboard.ViewWork)

	require.NoError(t, NewPrinter(&buf, FormatHuman).Dashboard(s))
	out := buf.String()

	rec, ok := s.Recommendation()
	require.True(t, ok)
	assert.Contains(t, out, "WORKING ON:")
	assert.Contains(t, out, rec.Primary.Label)
	assert.Contains(t, out, "RANKED:")
}

func TestDashboard_JSON(t *testing.T) {
	var buf bytes.Buffer
	s := dashboard.NewState()

	require.NoError(t, NewPrinter(&buf, FormatJSON).Dashboard(s))

	var got DashboardOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "analysis", got.View)
	assert.True(t, got.DemoMode)
	require.NotNil(t, got.Focus)
	assert.Equal(t, s.TopPriorityKey(), got.Focus.Key)
	assert.Len(t, got.Tickets, len(s.Tickets))
}

func TestRanked_YAML(t *testing.T) {
	var buf bytes.Buffer
	ranked := recommend.RankTopTickets([]types.Ticket{
		{Key: "A-1", Summary: "Old", Priority: "P3", AgeDays: 200},
		{Key: "A-2", Summary: "New", Priority: "P3", AgeDays: 1},
	})

	require.NoError(t, NewPrinter(&buf, FormatYAML).Ranked(ranked))

	var got []types.RankedTicket
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "A-1", got[0].Ticket.Key)
	assert.Equal(t, 20, got[0].Score)
}

func TestTicketAnalysis_Human(t *testing.T) {
	var buf bytes.Buffer
	ticket := &types.Ticket{Key: "A-1", Summary: "Printer", Priority: "P1", Status: "To Do", Labels: []string{"hw"}}
	rec := recommend.Recommend(ticket)
	analysis := &types.Analysis{Reasoning: "It is urgent", NextSteps: []string{"Call vendor"}, Context: "References A-2"}

	require.NoError(t, NewPrinter(&buf, "HUMAN").TicketAnalysis(ticket, analysis, &rec))
	out := buf.String()

	assert.Contains(t, out, "A-1 Printer")
	assert.Contains(t, out, "labels: hw")
	assert.Contains(t, out, "1. Call vendor")
	assert.Contains(t, out, "References A-2")
	assert.Contains(t, out, rec.Primary.Instruction)
}

func TestURL(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewPrinter(&buf, FormatJSON).URL("A-1", "https://jira.example.com/browse/A-1"))
	assert.JSONEq(t, `{"key": "A-1", "url": "https://jira.example.com/browse/A-1"}`, buf.String())
}

func TestWrapText(t *testing.T) {
	assert.Equal(t, "  aaa bbb\n  ccc", wrapText("aaa bbb ccc", 10, "  "))
	assert.Equal(t, "  ééé ééé\n  ééé", wrapText("ééé ééé ééé", 10, "  "))
	assert.Equal(t, "  abcdefghijkl\n  xy", wrapText("abcdefghijkl xy", 5, "  "))
	assert.Equal(t, "  one\n\n  two", wrapText("one\n\ntwo", 10, "  "))
}
