package types

// NotableTicket is a secondary ticket worth mentioning alongside the top priority
type NotableTicket struct {
	Key  string `json:"key" yaml:"key"`
	Note string `json:"note" yaml:"note"`
}

// MaxNotable is the number of "other notable" entries an analysis keeps
const MaxNotable = 2

// Analysis is a prioritization of the current workload or of a single ticket
type Analysis struct {
	TopPriority  string              `json:"top_priority" yaml:"top_priority"`
	Reasoning    string              `json:"reasoning" yaml:"reasoning"`
	Urgency      string              `json:"urgency" yaml:"urgency"`
	NextSteps    []string            `json:"next_steps" yaml:"next_steps"`
	HowICanHelp  []string            `json:"how_i_can_help" yaml:"how_i_can_help"`
	OtherNotable []NotableTicket     `json:"other_notable" yaml:"other_notable"`
	Context      string              `json:"context,omitempty" yaml:"context,omitempty"`
	Dependencies map[string][]string `json:"dependencies,omitempty" yaml:"dependencies,omitempty"`
}

// RankedTicket is a ticket with its heuristic urgency score
type RankedTicket struct {
	Ticket    Ticket `json:"ticket" yaml:"ticket"`
	Score     int    `json:"score" yaml:"score"`
	Reasoning string `json:"reasoning" yaml:"reasoning"`
}
