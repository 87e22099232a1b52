package recommend

import (
	"fmt"
	"strings"

	"github.com/clintrovert/ticketpilot/pkg/types"
)

type rule struct {
	kind  types.RecommendationKind
	match func(t *types.Ticket) bool
	build func(t *types.Ticket) types.Recommendation
}

// rules is evaluated in order; the first match wins. The last rule always matches.
var rules = []rule{
	{
		kind: types.KindVerifyExists,
		match: func(t *types.Ticket) bool {
			s := strings.ToLower(t.Summary)
			return strings.Contains(s, "integration") && strings.Contains(s, "fail") && t.AgeDays > 180
		},
		build: func(t *types.Ticket) types.Recommendation {
			return types.Recommendation{
				Title:     "Verify the issue still exists",
				Reasoning: fmt.Sprintf("This integration failure was reported %d days ago. The integration may have been fixed or replaced since.", t.AgeDays),
				Primary: types.Action{
					Label:       "Test current state",
					Description: "Check whether the integration still fails today",
					Instruction: fmt.Sprintf("Re-run the flow described in %s (%q) and record whether it still fails.", t.Key, t.Summary),
				},
				Secondary: types.Action{
					Label:       "Research recent fixes",
					Description: "Look for releases or changes that touched this integration",
					Instruction: fmt.Sprintf("Search release notes and change logs from the last %d days for fixes related to %q.", t.AgeDays, t.Summary),
				},
			}
		},
	},
	{
		kind: types.KindEscalateOrClose,
		match: func(t *types.Ticket) bool {
			return IsTopPriority(t.Priority) && t.AgeDays > 90
		},
		build: func(t *types.Ticket) types.Recommendation {
			return types.Recommendation{
				Title:     "Escalate or close",
				Reasoning: fmt.Sprintf("A %s ticket open for %d days is either blocked or no longer critical.", t.Priority, t.AgeDays),
				Primary: types.Action{
					Label:       "Escalate",
					Description: "Raise the ticket with your lead or the owning team",
					Instruction: fmt.Sprintf("Escalate %s: it has been %s for %d days with no resolution.", t.Key, t.Priority, t.AgeDays),
				},
				Secondary: types.Action{
					Label:       "Re-assess priority",
					Description: "Confirm the priority still reflects business impact",
					Instruction: fmt.Sprintf("Review whether %s should remain %s, lower it, or close it.", t.Key, t.Priority),
				},
			}
		},
	},
	{
		kind: types.KindCheckProgress,
		match: func(t *types.Ticket) bool {
			return isInProgress(t) && t.StaleDays > StaleInProgressDays
		},
		build: func(t *types.Ticket) types.Recommendation {
			return types.Recommendation{
				Title:     "Check progress",
				Reasoning: fmt.Sprintf("%s is in progress but has not been updated for %d days.", t.Key, t.StaleDays),
				Primary: types.Action{
					Label:       "Contact assignee",
					Description: "Ask for a status update and any blockers",
					Instruction: fmt.Sprintf("Message %s about %s: no updates in %d days. What is blocking it?", assigneeOf(t), t.Key, t.StaleDays),
				},
				Secondary: types.Action{
					Label:       "Review recent activity",
					Description: "Look at comments, linked changes and history",
					Instruction: fmt.Sprintf("Read the history of %s since its last update %d days ago.", t.Key, t.StaleDays),
				},
			}
		},
	},
	{
		kind: types.KindCheckPatch,
		match: func(t *types.Ticket) bool {
			return summaryContains(t, "vulnerab", "security")
		},
		build: func(t *types.Ticket) types.Recommendation {
			return types.Recommendation{
				Title:     "Check for a patch",
				Reasoning: fmt.Sprintf("%s is security related; a vendor fix may already be available.", t.Key),
				Primary: types.Action{
					Label:       "Check for available fix",
					Description: "Look up advisories and vendor patches",
					Instruction: fmt.Sprintf("Search vendor advisories for a patch addressing %q.", t.Summary),
				},
				Secondary: types.Action{
					Label:       "Assess impact",
					Description: "Determine which systems are exposed",
					Instruction: fmt.Sprintf("List the systems affected by %s and rate their exposure.", t.Key),
				},
			}
		},
	},
	{
		kind: types.KindReproduce,
		match: func(t *types.Ticket) bool {
			return hasCustomerLabel(t) || summaryContains(t, "customer", "user")
		},
		build: func(t *types.Ticket) types.Recommendation {
			return types.Recommendation{
				Title:     "Reproduce the issue",
				Reasoning: fmt.Sprintf("%s affects customers directly; confirm the behavior before changing anything.", t.Key),
				Primary: types.Action{
					Label:       "Reproduce",
					Description: "Follow the reported steps in a test environment",
					Instruction: fmt.Sprintf("Reproduce %q and capture logs or screenshots.", t.Summary),
				},
				Secondary: types.Action{
					Label:       "Contact affected users",
					Description: "Gather details from the people who reported it",
					Instruction: fmt.Sprintf("Ask the reporters of %s for exact steps, timestamps and environment.", t.Key),
				},
			}
		},
	},
	{
		kind: types.KindGatherContext,
		match: func(t *types.Ticket) bool {
			return t.AgeDays < 7
		},
		build: func(t *types.Ticket) types.Recommendation {
			return types.Recommendation{
				Title:     "Gather context",
				Reasoning: fmt.Sprintf("%s was opened %d days ago; understand it fully before starting.", t.Key, t.AgeDays),
				Primary: types.Action{
					Label:       "Investigate requirements",
					Description: "Clarify scope and acceptance criteria",
					Instruction: fmt.Sprintf("Confirm what done looks like for %q with the requester.", t.Summary),
				},
				Secondary: types.Action{
					Label:       "Check dependencies",
					Description: "Find related tickets and systems",
					Instruction: fmt.Sprintf("Look for tickets and services that %s depends on.", t.Key),
				},
			}
		},
	},
	{
		kind:  types.KindAnalyzeStatus,
		match: func(t *types.Ticket) bool { return true },
		build: func(t *types.Ticket) types.Recommendation {
			return types.Recommendation{
				Title:     "Analyze current status",
				Reasoning: fmt.Sprintf("%s is %d days old and was last updated %d days ago.", t.Key, t.AgeDays, t.StaleDays),
				Primary: types.Action{
					Label:       "Review status",
					Description: "Read the latest updates and current state",
					Instruction: fmt.Sprintf("Review %s (%q) and note where it stands.", t.Key, t.Summary),
				},
				Secondary: types.Action{
					Label:       "Identify blockers",
					Description: "List anything preventing progress",
					Instruction: fmt.Sprintf("Ask %s what is blocking %s.", assigneeOf(t), t.Key),
				},
			}
		},
	},
}

// Recommend returns the contextual recommendation for ticket.
// A nil ticket yields the generic status recommendation.
func Recommend(ticket *types.Ticket) types.Recommendation {
	t := ticket
	if t == nil {
		t = &types.Ticket{}
	}
	for _, r := range rules {
		if r.match(t) {
			rec := r.build(t)
			rec.Kind = r.kind
			rec.TicketKey = t.Key
			return rec
		}
	}
	// unreachable: the last rule always matches
	return types.Recommendation{Kind: types.KindAnalyzeStatus, TicketKey: t.Key}
}

// Rules returns the contextual rule kinds in evaluation order
func Rules() []types.RecommendationKind {
	kinds := make([]types.RecommendationKind, len(rules))
	for i, r := range rules {
		kinds[i] = r.kind
	}
	return kinds
}

func assigneeOf(t *types.Ticket) string {
	if strings.TrimSpace(t.Assignee) == "" {
		return "the assignee"
	}
	return t.Assignee
}
