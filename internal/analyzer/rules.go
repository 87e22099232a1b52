package analyzer

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/clintrovert/ticketpilot/internal/recommend"
	"github.com/clintrovert/ticketpilot/pkg/types"
)

// RuleAnalyzer analyzes tickets with the heuristic ranking and recommendation rules.
// It never fails.
type RuleAnalyzer struct{}

// NewRuleAnalyzer creates a new rule-based analyzer
func NewRuleAnalyzer() *RuleAnalyzer {
	return &RuleAnalyzer{}
}

// AnalyzeWorkload picks the highest scoring ticket
func (r *RuleAnalyzer) AnalyzeWorkload(_ context.Context, tickets []types.Ticket) (*types.Analysis, error) {
	if len(tickets) == 0 {
		return &types.Analysis{
			Reasoning:    "No tickets found",
			Urgency:      "No open tickets to analyze.",
			NextSteps:    []string{},
			HowICanHelp:  []string{},
			OtherNotable: []types.NotableTicket{},
		}, nil
	}

	ranked := recommend.Rank(tickets)
	top := ranked[0]
	rec := recommend.Recommend(&top.Ticket)

	notable := make([]types.NotableTicket, 0, types.MaxNotable)
	for _, rt := range ranked[1:] {
		if len(notable) == types.MaxNotable {
			break
		}
		notable = append(notable, types.NotableTicket{Key: rt.Ticket.Key, Note: rt.Reasoning})
	}

	return &types.Analysis{
		TopPriority: top.Ticket.Key,
		Reasoning:   top.Reasoning,
		Urgency: fmt.Sprintf("You have %d tickets. Focus on %s first - %s",
			len(tickets), top.Ticket.Key, strings.TrimSuffix(top.Reasoning, ".")+"."),
		NextSteps: []string{
			rec.Primary.Instruction,
			rec.Secondary.Instruction,
			"Post a status update on " + top.Ticket.Key,
		},
		HowICanHelp: []string{
			"Analyze the issue",
			"Suggest approach",
			"Draft updates",
		},
		OtherNotable: notable,
		Dependencies: FindDependencies(tickets),
	}, nil
}

// AnalyzeTicket derives the analysis from the ticket's contextual recommendation
func (r *RuleAnalyzer) AnalyzeTicket(_ context.Context, ticket *types.Ticket, related []types.Ticket) (*types.Analysis, error) {
	rec := recommend.Recommend(ticket)
	score, _ := recommend.Score(*ticket)

	return &types.Analysis{
		TopPriority: ticket.Key,
		Reasoning:   rec.Reasoning,
		Urgency: fmt.Sprintf("%s: %s priority, %s, %d days old, last updated %d days ago (urgency score %d).",
			rec.Title, orUnknown(ticket.Priority), orUnknown(ticket.Status), ticket.AgeDays, ticket.StaleDays, score),
		NextSteps: []string{
			rec.Primary.Instruction,
			rec.Secondary.Instruction,
		},
		HowICanHelp: []string{
			rec.Primary.Label,
			rec.Secondary.Label,
			"Draft a status update comment",
		},
		OtherNotable: []types.NotableTicket{},
		Context:      relatedContext(ticket, related),
	}, nil
}

// relatedContext describes which session tickets the ticket references or is referenced by
func relatedContext(ticket *types.Ticket, related []types.Ticket) string {
	all := []types.Ticket{*ticket}
	for _, t := range related {
		if !strings.EqualFold(t.Key, ticket.Key) {
			all = append(all, t)
		}
	}
	deps := FindDependencies(all)

	var parts []string
	if refs := deps[ticket.Key]; len(refs) > 0 {
		parts = append(parts, "References "+strings.Join(refs, ", "))
	}
	var referencedBy []string
	for key, refs := range deps {
		if key == ticket.Key {
			continue
		}
		for _, ref := range refs {
			if ref == ticket.Key {
				referencedBy = append(referencedBy, key)
			}
		}
	}
	if len(referencedBy) > 0 {
		sort.Strings(referencedBy)
		parts = append(parts, "Referenced by "+strings.Join(referencedBy, ", "))
	}
	return strings.Join(parts, ". ")
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
