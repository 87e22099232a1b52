// Package recommend scores tickets for urgency and picks contextual next actions.
//
// Both halves are deterministic rule tables. Ranking rules are cumulative: every
// matching rule adds its points and the last match supplies the reasoning.
// Contextual rules are first-match-wins.
package recommend

import (
	"strings"
	"unicode"

	"github.com/clintrovert/ticketpilot/pkg/types"
)

const (
	// StaleInProgressDays is the staleness above which an in-progress ticket needs a follow-up.
	// Used by both ranking and contextual recommendations.
	StaleInProgressDays = 30

	// CustomerFeedbackLabel marks tickets raised from customer feedback
	CustomerFeedbackLabel = "VOC_Feedback"

	// MaxTopTickets is the length of the ranked short-list
	MaxTopTickets = 3
)

var topPriorities = map[string]bool{
	"p0":       true,
	"p1":       true,
	"critical": true,
	"highest":  true,
	"blocker":  true,
}

// IsTopPriority reports whether priority is the tracker's top category.
// Only the leading word counts, so Jira names such as "P1 - Critical" count as P1.
func IsTopPriority(priority string) bool {
	words := strings.FieldsFunc(strings.ToLower(priority), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	return len(words) > 0 && topPriorities[words[0]]
}

func isInProgress(t *types.Ticket) bool {
	return strings.EqualFold(strings.TrimSpace(t.Status), types.StatusInProgress)
}

func hasCustomerLabel(t *types.Ticket) bool {
	return t.HasLabel(CustomerFeedbackLabel)
}

func summaryContains(t *types.Ticket, words ...string) bool {
	summary := strings.ToLower(t.Summary)
	for _, w := range words {
		if strings.Contains(summary, w) {
			return true
		}
	}
	return false
}
