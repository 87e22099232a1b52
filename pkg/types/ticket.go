package types

import (
	"strings"
	"time"
)

// Ticket statuses reported by the tracker
const (
	StatusToDo       = "To Do"
	StatusInProgress = "In Progress"
	StatusBacklog    = "Backlog"
	StatusWaiting    = "Waiting"
	StatusDone       = "Done"
)

// Ticket is an immutable snapshot of a tracked unit of work
type Ticket struct {
	Key           string     `json:"key" yaml:"key"`
	Summary       string     `json:"summary" yaml:"summary"`
	Description   string     `json:"description,omitempty" yaml:"description,omitempty"`
	Priority      string     `json:"priority" yaml:"priority"`
	Status        string     `json:"status" yaml:"status"`
	Assignee      string     `json:"assignee,omitempty" yaml:"assignee,omitempty"`
	Labels        []string   `json:"labels,omitempty" yaml:"labels,omitempty"`
	IssueType     string     `json:"issue_type,omitempty" yaml:"issue_type,omitempty"`
	CommentsCount int        `json:"comments_count" yaml:"comments_count"`
	Created       *time.Time `json:"created,omitempty" yaml:"created,omitempty"`
	Updated       *time.Time `json:"updated,omitempty" yaml:"updated,omitempty"`
	AgeDays       int        `json:"age_days" yaml:"age_days"`
	StaleDays     int        `json:"stale_days" yaml:"stale_days"`
}

// HasLabel reports whether the ticket carries label, ignoring case
func (t *Ticket) HasLabel(label string) bool {
	for _, l := range t.Labels {
		if strings.EqualFold(l, label) {
			return true
		}
	}
	return false
}

// DaysSince returns the ceiling of whole days elapsed between ts and now.
// A nil or future timestamp yields zero.
func DaysSince(ts *time.Time, now time.Time) int {
	if ts == nil || ts.IsZero() {
		return 0
	}
	elapsed := now.Sub(*ts)
	if elapsed <= 0 {
		return 0
	}
	day := 24 * time.Hour
	days := int(elapsed / day)
	if elapsed%day != 0 {
		days++
	}
	return days
}

// Normalize derives AgeDays and StaleDays from the raw timestamps.
// Absent timestamps yield zero.
func (t *Ticket) Normalize(now time.Time) {
	t.AgeDays = DaysSince(t.Created, now)
	t.StaleDays = DaysSince(t.Updated, now)
}
