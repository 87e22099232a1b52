// Package dashboard holds the assistant's view state as an explicit value.
//
// Handlers are pure: they take a State and return the next State. Requests carry
// sequence numbers so a slow response cannot overwrite the result of a later one.
package dashboard

import (
	"strings"

	"github.com/clintrovert/ticketpilot/internal/gateway"
	"github.com/clintrovert/ticketpilot/internal/recommend"
	"github.com/clintrovert/ticketpilot/pkg/types"
)

// View selects which panel is shown
type View string

// Views
const (
	ViewAnalysis View = "analysis"
	ViewWork     View = "work"
)

// ParseView parses a view name, defaulting to ViewAnalysis
func ParseView(s string) View {
	if View(strings.ToLower(s)) == ViewWork {
		return ViewWork
	}
	return ViewAnalysis
}

// State is the complete dashboard state
type State struct {
	View            View
	DemoMode        bool
	Loading         bool
	AnalysisLoading bool
	Tickets         []types.Ticket
	Analysis        *types.Analysis
	SelectedKey     string
	SessionSeq      uint64
	AnalysisSeq     uint64

	// SessionAnalysisSeq is AnalysisSeq as of the latest BeginSession.
	// A session result only replaces Analysis while the two still match.
	SessionAnalysisSeq uint64
}

// NewState returns the initial state: demo mode on the fallback dataset
func NewState() State {
	return State{
		View:     ViewAnalysis,
		DemoMode: true,
		Tickets:  gateway.FallbackTickets(),
		Analysis: gateway.FallbackAnalysis(),
	}
}

// SetView switches the visible panel
func SetView(s State, v View) State {
	s.View = v
	return s
}

// Select focuses a ticket. An empty key clears the selection.
func Select(s State, key string) State {
	s.SelectedKey = strings.TrimSpace(key)
	return s
}

// ToggleDemoMode flips between demo and live data.
// Entering demo mode restores the fallback dataset; leaving it requires a session fetch,
// reported by the returned bool.
func ToggleDemoMode(s State) (State, bool) {
	s.DemoMode = !s.DemoMode
	if s.DemoMode {
		s.Tickets = gateway.FallbackTickets()
		s.Analysis = gateway.FallbackAnalysis()
		s.Loading = false
		s.AnalysisLoading = false
		// invalidate anything in flight
		s.SessionSeq++
		s.AnalysisSeq++
		return s, false
	}
	return s, true
}

// BeginSession marks a session fetch in flight and returns its sequence number.
// Any per-ticket analysis still in flight is invalidated.
func BeginSession(s State) (State, uint64) {
	s.SessionSeq++
	s.AnalysisSeq++
	s.SessionAnalysisSeq = s.AnalysisSeq
	s.Loading = true
	s.AnalysisLoading = true
	return s, s.SessionSeq
}

// ApplySession stores a session result. Results from superseded requests are ignored.
func ApplySession(s State, seq uint64, session *gateway.Session) State {
	if seq != s.SessionSeq || session == nil {
		return s
	}
	s.Loading = false
	s.Tickets = session.Tickets
	if s.SelectedKey != "" {
		if _, ok := s.Ticket(s.SelectedKey); !ok {
			s.SelectedKey = ""
		}
	}
	// a per-ticket analysis begun after this session owns Analysis
	if s.AnalysisSeq != s.SessionAnalysisSeq {
		return s
	}
	s.AnalysisLoading = false
	if session.Analysis != nil {
		s.Analysis = session.Analysis
	}
	return s
}

// BeginAnalysis marks a per-ticket analysis in flight and returns its sequence number
func BeginAnalysis(s State, key string) (State, uint64) {
	s.AnalysisSeq++
	s.SelectedKey = key
	s.AnalysisLoading = true
	return s, s.AnalysisSeq
}

// ApplyAnalysis stores a per-ticket analysis. Results from superseded requests are ignored.
func ApplyAnalysis(s State, seq uint64, analysis *types.Analysis) State {
	if seq != s.AnalysisSeq || analysis == nil {
		return s
	}
	s.AnalysisLoading = false
	s.Analysis = analysis
	return s
}

// Ticket finds a ticket by key, ignoring case
func (s State) Ticket(key string) (*types.Ticket, bool) {
	for i := range s.Tickets {
		if strings.EqualFold(s.Tickets[i].Key, key) {
			return &s.Tickets[i], true
		}
	}
	return nil, false
}

// TopPriorityKey returns the analysis's top priority key, if any
func (s State) TopPriorityKey() string {
	if s.Analysis == nil {
		return ""
	}
	return s.Analysis.TopPriority
}

// FocusTicket returns the selected ticket, or the top priority one when nothing is selected.
// The second result is false when the reference does not resolve to a held ticket.
func (s State) FocusTicket() (*types.Ticket, bool) {
	key := s.SelectedKey
	if key == "" {
		key = s.TopPriorityKey()
	}
	if key == "" {
		return nil, false
	}
	return s.Ticket(key)
}

// NotableRef is an "other notable" entry with its resolved ticket
type NotableRef struct {
	types.NotableTicket
	Ticket   *types.Ticket
	Resolved bool
}

// ResolveNotable resolves the analysis's other-notable keys against the held tickets
func (s State) ResolveNotable() []NotableRef {
	if s.Analysis == nil {
		return nil
	}
	refs := make([]NotableRef, 0, len(s.Analysis.OtherNotable))
	for _, n := range s.Analysis.OtherNotable {
		t, ok := s.Ticket(n.Key)
		refs = append(refs, NotableRef{NotableTicket: n, Ticket: t, Resolved: ok})
	}
	return refs
}

// Recommendation computes the contextual recommendation for the focus ticket
func (s State) Recommendation() (types.Recommendation, bool) {
	t, ok := s.FocusTicket()
	if !ok {
		return types.Recommendation{}, false
	}
	return recommend.Recommend(t), true
}

// Ranked returns the heuristic short-list for the held tickets
func (s State) Ranked() []types.RankedTicket {
	return recommend.RankTopTickets(s.Tickets)
}
