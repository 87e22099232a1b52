package gateway

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/araddon/dateparse"

	"github.com/clintrovert/ticketpilot/pkg/types"
)

// wireTicket is the ticket shape returned by the analysis service
type wireTicket struct {
	Key           string   `json:"key"`
	Summary       string   `json:"summary"`
	Description   string   `json:"description"`
	Priority      string   `json:"priority"`
	Status        string   `json:"status"`
	Created       string   `json:"created"`
	Updated       string   `json:"updated"`
	Assignee      string   `json:"assignee"`
	Labels        []string `json:"labels"`
	IssueType     string   `json:"issue_type"`
	CommentsCount int      `json:"comments_count"`
}

// topPriorityRef accepts either a ticket object or a bare key
type topPriorityRef struct {
	Key string
}

func (r *topPriorityRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if data[0] == '"' {
		return json.Unmarshal(data, &r.Key)
	}
	var obj struct {
		Key string `json:"key"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	r.Key = obj.Key
	return nil
}

type wireNotable struct {
	Key     string `json:"key"`
	Summary string `json:"summary"`
}

type wireAnalysis struct {
	TopPriority       topPriorityRef      `json:"top_priority"`
	PriorityReasoning string              `json:"priority_reasoning"`
	Summary           string              `json:"summary"`
	NextSteps         []string            `json:"next_steps"`
	CanHelpWith       []string            `json:"can_help_with"`
	OtherNotable      []wireNotable       `json:"other_notable"`
	Context           string              `json:"context"`
	Dependencies      map[string][]string `json:"dependencies"`
}

type sessionResponse struct {
	Tickets  []wireTicket  `json:"tickets"`
	Analysis *wireAnalysis `json:"analysis"`
}

type analyzeResponse struct {
	Analysis *wireAnalysis `json:"analysis"`
	Ticket   *wireTicket   `json:"ticket"`
}

type urlResponse struct {
	URL string `json:"url"`
}

func parseTimestamp(s string) *time.Time {
	if s == "" {
		return nil
	}
	ts, err := dateparse.ParseAny(s)
	if err != nil {
		return nil
	}
	return &ts
}

func (w wireTicket) toTicket(now time.Time) types.Ticket {
	t := types.Ticket{
		Key:           w.Key,
		Summary:       w.Summary,
		Description:   w.Description,
		Priority:      w.Priority,
		Status:        w.Status,
		Assignee:      w.Assignee,
		Labels:        w.Labels,
		IssueType:     w.IssueType,
		CommentsCount: w.CommentsCount,
		Created:       parseTimestamp(w.Created),
		Updated:       parseTimestamp(w.Updated),
	}
	t.Normalize(now)
	return t
}

func (w *wireAnalysis) toAnalysis() *types.Analysis {
	a := &types.Analysis{
		TopPriority:  w.TopPriority.Key,
		Reasoning:    w.PriorityReasoning,
		Urgency:      w.Summary,
		NextSteps:    nonNil(w.NextSteps),
		HowICanHelp:  nonNil(w.CanHelpWith),
		OtherNotable: []types.NotableTicket{},
		Context:      w.Context,
		Dependencies: w.Dependencies,
	}
	for _, n := range w.OtherNotable {
		if len(a.OtherNotable) == types.MaxNotable {
			break
		}
		a.OtherNotable = append(a.OtherNotable, types.NotableTicket{Key: n.Key, Note: n.Summary})
	}
	return a
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
