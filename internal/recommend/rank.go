package recommend

import (
	"fmt"
	"sort"

	"github.com/clintrovert/ticketpilot/pkg/types"
)

const routineReasoning = "No urgent signals; give this ticket routine attention."

type scoreRule struct {
	name   string
	points int
	match  func(t *types.Ticket) bool
	reason func(t *types.Ticket) string
}

var scoreRules = []scoreRule{
	{
		name:   "very_old",
		points: 20,
		match:  func(t *types.Ticket) bool { return t.AgeDays > 180 },
		reason: func(t *types.Ticket) string {
			return fmt.Sprintf("Open for %d days, it may be stale or no longer relevant. Verify it still applies and close it if not.", t.AgeDays)
		},
	},
	{
		name:   "stalled_in_progress",
		points: 30,
		match: func(t *types.Ticket) bool {
			return isInProgress(t) && t.StaleDays > StaleInProgressDays
		},
		reason: func(t *types.Ticket) string {
			return fmt.Sprintf("In progress but untouched for %d days. Follow up on blockers.", t.StaleDays)
		},
	},
	{
		name:   "aging_top_priority",
		points: 40,
		match: func(t *types.Ticket) bool {
			return IsTopPriority(t.Priority) && t.AgeDays > 30
		},
		reason: func(t *types.Ticket) string {
			r := fmt.Sprintf("%s ticket open for %d days. Escalate it.", t.Priority, t.AgeDays)
			if t.AgeDays > 90 {
				r += " It has been critical for over three months and needs immediate attention."
			}
			return r
		},
	},
	{
		name:   "customer_feedback",
		points: 25,
		match:  hasCustomerLabel,
		reason: func(t *types.Ticket) string {
			return "Raised from customer feedback. Verify the issue still reproduces before investigating."
		},
	},
}

// Score returns the ticket's cumulative urgency score and the reasoning of the last matching rule
func Score(t types.Ticket) (int, string) {
	score := 0
	reasoning := routineReasoning
	for _, r := range scoreRules {
		if !r.match(&t) {
			continue
		}
		score += r.points
		reasoning = r.reason(&t)
	}
	return score, reasoning
}

// Rank scores every ticket and orders them by descending score.
// Tickets with equal scores keep their input order.
func Rank(tickets []types.Ticket) []types.RankedTicket {
	ranked := make([]types.RankedTicket, 0, len(tickets))
	for _, t := range tickets {
		score, reasoning := Score(t)
		ranked = append(ranked, types.RankedTicket{
			Ticket:    t,
			Score:     score,
			Reasoning: reasoning,
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}

// RankTopTickets returns at most MaxTopTickets tickets in ranking order
func RankTopTickets(tickets []types.Ticket) []types.RankedTicket {
	ranked := Rank(tickets)
	if len(ranked) > MaxTopTickets {
		ranked = ranked[:MaxTopTickets]
	}
	return ranked
}
