package gateway

import (
	"fmt"

	"github.com/clintrovert/ticketpilot/pkg/types"
)

// FallbackTickets returns the built-in sample ticket set used when the service is unavailable
func FallbackTickets() []types.Ticket {
	return []types.Ticket{
		{
			Key:       "CPE-3117",
			Summary:   "Address customer login failures",
			Priority:  "P1",
			Status:    types.StatusInProgress,
			Labels:    []string{"VOC_Feedback"},
			IssueType: "Bug",
			AgeDays:   12,
			StaleDays: 4,
		},
		{
			Key:       "CPE-2048",
			Summary:   "Improve dashboard performance",
			Priority:  "P2",
			Status:    types.StatusToDo,
			IssueType: "Story",
			AgeDays:   34,
			StaleDays: 9,
		},
	}
}

// FallbackAnalysis returns the built-in sample analysis matching FallbackTickets
func FallbackAnalysis() *types.Analysis {
	return &types.Analysis{
		TopPriority: "CPE-3117",
		Reasoning:   "Your top priority should be CPE-3117 because it is blocking several customer sign-ins.",
		Urgency:     "This ticket affects customers directly and has been open for several days without progress.",
		NextSteps: []string{
			"Review recent authentication logs",
			"Reproduce the login issue locally",
			"Prepare a hotfix and communicate status",
		},
		HowICanHelp: []string{
			"Research similar incidents",
			"Draft a status update comment",
		},
		OtherNotable: []types.NotableTicket{
			{Key: "CPE-2048", Note: "Performance complaints increasing from users"},
		},
	}
}

// FallbackSession returns the built-in sample session
func FallbackSession() *Session {
	return &Session{
		Tickets:  FallbackTickets(),
		Analysis: FallbackAnalysis(),
		Fallback: true,
	}
}

// TicketFallbackAnalysis synthesizes a minimal analysis from the ticket's own fields
func TicketFallbackAnalysis(t *types.Ticket) *types.Analysis {
	return &types.Analysis{
		TopPriority: t.Key,
		Reasoning: fmt.Sprintf("%s is %s priority and has been open for %d days.",
			t.Key, orUnknown(t.Priority), t.AgeDays),
		Urgency: fmt.Sprintf("Status is %s and it was last updated %d days ago.",
			orUnknown(t.Status), t.StaleDays),
		NextSteps: []string{
			"Review ticket details",
			"Identify blockers",
			"Plan next action",
		},
		HowICanHelp: []string{
			"Analyze the issue",
			"Suggest approach",
			"Draft updates",
		},
		OtherNotable: []types.NotableTicket{},
	}
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
