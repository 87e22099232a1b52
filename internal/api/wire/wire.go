// Package wire defines the JSON shapes shared by the REST and gRPC APIs.
package wire

import (
	"github.com/clintrovert/ticketpilot/internal/assistant"
	"github.com/clintrovert/ticketpilot/pkg/types"
)

// TicketRef is a ticket reference in an analysis
type TicketRef struct {
	Key     string `json:"key"`
	Summary string `json:"summary"`
}

// AnalysisResponse is the analysis wire shape read by the dashboard gateway
type AnalysisResponse struct {
	TopPriority       *types.Ticket       `json:"top_priority"`
	PriorityReasoning string              `json:"priority_reasoning"`
	Summary           string              `json:"summary"`
	NextSteps         []string            `json:"next_steps"`
	CanHelpWith       []string            `json:"can_help_with"`
	OtherNotable      []TicketRef         `json:"other_notable"`
	Context           string              `json:"context,omitempty"`
	Dependencies      map[string][]string `json:"dependencies,omitempty"`
}

// SessionResponse is returned by POST /api/session/start
type SessionResponse struct {
	Tickets  []types.Ticket    `json:"tickets"`
	Analysis *AnalysisResponse `json:"analysis"`
}

// AnalyzeResponse is returned by POST /api/ticket/{key}/analyze
type AnalyzeResponse struct {
	Ticket   *types.Ticket     `json:"ticket"`
	Analysis *AnalysisResponse `json:"analysis"`
}

// URLResponse is returned by GET /api/ticket/{key}/url
type URLResponse struct {
	URL string `json:"url"`
}

// RankedResponse is returned by GET /api/tickets/ranked
type RankedResponse struct {
	Tickets []types.RankedTicket `json:"tickets"`
}

// PRResponse is returned by the ticket PR endpoints
type PRResponse struct {
	WorkflowID string `json:"workflow_id"`
	Status     string `json:"status"`
	RunID      string `json:"run_id,omitempty"`
}

// NotifyResponse is returned by POST /api/ticket/{key}/notify
type NotifyResponse struct {
	Success bool `json:"success"`
}

// ErrorResponse carries a request failure
type ErrorResponse struct {
	Error string `json:"error"`
}

// ToAnalysisResponse resolves ticket references against tickets
func ToAnalysisResponse(a *types.Analysis, tickets []types.Ticket) *AnalysisResponse {
	if a == nil {
		return nil
	}

	resp := &AnalysisResponse{
		PriorityReasoning: a.Reasoning,
		Summary:           a.Urgency,
		NextSteps:         nonNil(a.NextSteps),
		CanHelpWith:       nonNil(a.HowICanHelp),
		OtherNotable:      make([]TicketRef, 0, len(a.OtherNotable)),
		Context:           a.Context,
		Dependencies:      a.Dependencies,
	}

	if a.TopPriority != "" {
		if t := lookup(tickets, a.TopPriority); t != nil {
			resp.TopPriority = t
		} else {
			resp.TopPriority = &types.Ticket{Key: a.TopPriority}
		}
	}

	for _, n := range a.OtherNotable {
		summary := n.Note
		if summary == "" {
			if t := lookup(tickets, n.Key); t != nil {
				summary = t.Summary
			}
		}
		resp.OtherNotable = append(resp.OtherNotable, TicketRef{Key: n.Key, Summary: summary})
	}

	return resp
}

// ToSessionResponse converts a session into its wire shape
func ToSessionResponse(s *assistant.Session) SessionResponse {
	tickets := s.Tickets
	if tickets == nil {
		tickets = []types.Ticket{}
	}
	return SessionResponse{
		Tickets:  tickets,
		Analysis: ToAnalysisResponse(s.Analysis, s.Tickets),
	}
}

// ToAnalyzeResponse converts a single-ticket analysis into its wire shape
func ToAnalyzeResponse(t *types.Ticket, a *types.Analysis, s *assistant.Session) AnalyzeResponse {
	tickets := []types.Ticket{*t}
	if s != nil {
		tickets = append(tickets, s.Tickets...)
	}
	return AnalyzeResponse{
		Ticket:   t,
		Analysis: ToAnalysisResponse(a, tickets),
	}
}

func lookup(tickets []types.Ticket, key string) *types.Ticket {
	for i := range tickets {
		if tickets[i].Key == key {
			t := tickets[i]
			return &t
		}
	}
	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
