package recommend

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clintrovert/ticketpilot/pkg/types"
)

func TestScore_VeryOldOnly(t *testing.T) {
	score, reasoning := Score(types.Ticket{
		Key:      "OPS-1",
		Priority: "P3",
		Status:   types.StatusToDo,
		AgeDays:  200,
	})
	assert.Equal(t, 20, score)
	assert.Contains(t, reasoning, "200 days")
}

func TestScore_TopPriorityAging(t *testing.T) {
	for _, status := range []string{types.StatusToDo, types.StatusInProgress, types.StatusWaiting} {
		score, _ := Score(types.Ticket{Key: "OPS-2", Priority: "P1", Status: status, AgeDays: 40})
		assert.GreaterOrEqual(t, score, 40, status)
	}
}

func TestScore_Accumulates(t *testing.T) {
	score, reasoning := Score(types.Ticket{
		Key:       "OPS-3",
		Priority:  "P1 - Critical",
		Status:    types.StatusInProgress,
		AgeDays:   200,
		StaleDays: 45,
		Labels:    []string{"voc_feedback"},
	})
	assert.Equal(t, 20+30+40+25, score)
	// last matching rule owns the reasoning
	assert.Contains(t, reasoning, "customer feedback")
}

func TestScore_EscalationEmphasis(t *testing.T) {
	_, short := Score(types.Ticket{Priority: "P1", AgeDays: 45})
	_, long := Score(types.Ticket{Priority: "P1", AgeDays: 120})
	assert.NotContains(t, short, "three months")
	assert.Contains(t, long, "three months")
}

func TestScore_StaleThreshold(t *testing.T) {
	at, _ := Score(types.Ticket{Status: types.StatusInProgress, StaleDays: StaleInProgressDays})
	over, _ := Score(types.Ticket{Status: types.StatusInProgress, StaleDays: StaleInProgressDays + 1})
	assert.Equal(t, 0, at)
	assert.Equal(t, 30, over)
}

func TestScore_Routine(t *testing.T) {
	score, reasoning := Score(types.Ticket{Key: "OPS-4", Priority: "P3", AgeDays: 3})
	assert.Equal(t, 0, score)
	assert.Equal(t, routineReasoning, reasoning)
}

func TestRankTopTickets_LimitAndOrder(t *testing.T) {
	tickets := []types.Ticket{
		{Key: "A", AgeDays: 1},
		{Key: "B", AgeDays: 200},
		{Key: "C", Priority: "P1", AgeDays: 40},
		{Key: "D", AgeDays: 2},
		{Key: "E", Labels: []string{CustomerFeedbackLabel}},
	}
	top := RankTopTickets(tickets)
	require.Len(t, top, MaxTopTickets)
	assert.Equal(t, []string{"C", "E", "B"}, keys(top))
	for i := 1; i < len(top); i++ {
		assert.GreaterOrEqual(t, top[i-1].Score, top[i].Score)
	}
}

func TestRankTopTickets_StableTies(t *testing.T) {
	var tickets []types.Ticket
	for i := 0; i < 6; i++ {
		tickets = append(tickets, types.Ticket{Key: fmt.Sprintf("T-%d", i), AgeDays: 10})
	}
	tickets[4].AgeDays = 300

	top := RankTopTickets(tickets)
	assert.Equal(t, []string{"T-4", "T-0", "T-1"}, keys(top))
}

func TestRankTopTickets_Empty(t *testing.T) {
	assert.Empty(t, RankTopTickets(nil))
}

func TestIsTopPriority(t *testing.T) {
	for _, p := range []string{"P1", "p1", "P1 - Critical", "P1-Critical", "p1 ", "P0", "p0-", "P0 - Blocker", "Critical", "Highest", " P0 ", "P1:urgent"} {
		assert.True(t, IsTopPriority(p), p)
	}
	for _, p := range []string{"P2", "P10", "P2 - P1 backlog", "p01", "High", "Low", "", " - "} {
		assert.False(t, IsTopPriority(p), p)
	}
}

func keys(ranked []types.RankedTicket) []string {
	out := make([]string, len(ranked))
	for i, r := range ranked {
		out[i] = r.Ticket.Key
	}
	return out
}
