package github

import (
	"fmt"
	"path"
	"strings"

	"github.com/clintrovert/ticketpilot/pkg/types"
)

const (
	branchPrefix   = "assistant/"
	maxTitleInName = 30
)

// GenerateBranchName builds the ticket branch name, e.g. assistant/CPE-1-fix-login
func GenerateBranchName(ticketKey, summary string) string {
	name := branchPrefix + sanitizeBranchName(ticketKey)
	if s := strings.Trim(sanitizeBranchName(truncateString(summary, maxTitleInName)), "-_"); s != "" {
		name += "-" + s
	}
	return name
}

// GeneratePRTitle generates a PR title from the ticket key and summary
func GeneratePRTitle(ticketKey, summary string) string {
	return ticketKey + ": " + summary
}

// NotesPath is the repository path of a ticket's notes file
func NotesPath(ticketKey string) string {
	return path.Join("notes", sanitizeBranchName(ticketKey)+".md")
}

// CommitMessage is the commit message for a ticket's notes
func CommitMessage(ticketKey string) string {
	return "chore: add notes for " + ticketKey
}

// RenderTicketNotes renders the markdown notes committed for a ticket
func RenderTicketNotes(t *types.Ticket, rec *types.Recommendation, analysis *types.Analysis) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# %s: %s\n\n", t.Key, t.Summary))
	sb.WriteString(fmt.Sprintf("- **Priority:** %s\n", t.Priority))
	sb.WriteString(fmt.Sprintf("- **Status:** %s\n", t.Status))
	sb.WriteString(fmt.Sprintf("- **Age:** %d days (last updated %d days ago)\n", t.AgeDays, t.StaleDays))
	if len(t.Labels) > 0 {
		sb.WriteString(fmt.Sprintf("- **Labels:** %s\n", strings.Join(t.Labels, ", ")))
	}

	if t.Description != "" {
		sb.WriteString("\n## Description\n\n")
		sb.WriteString(t.Description + "\n")
	}

	if rec != nil {
		sb.WriteString("\n## Recommendation\n\n")
		sb.WriteString(fmt.Sprintf("**%s**. %s\n\n", rec.Title, rec.Reasoning))
		sb.WriteString(fmt.Sprintf("1. %s: %s\n", rec.Primary.Label, rec.Primary.Instruction))
		sb.WriteString(fmt.Sprintf("2. %s: %s\n", rec.Secondary.Label, rec.Secondary.Instruction))
	}

	if analysis != nil {
		if analysis.Reasoning != "" {
			sb.WriteString("\n## Analysis\n\n")
			sb.WriteString(analysis.Reasoning + "\n")
		}
		if len(analysis.NextSteps) > 0 {
			sb.WriteString("\n## Next steps\n\n")
			for _, step := range analysis.NextSteps {
				sb.WriteString("- " + step + "\n")
			}
		}
		if analysis.Context != "" {
			sb.WriteString("\n## Related\n\n")
			sb.WriteString(analysis.Context + "\n")
		}
	}

	return sb.String()
}

// GeneratePRDescription generates the PR body for a ticket
func GeneratePRDescription(t *types.Ticket, rec *types.Recommendation, ticketURL string) string {
	var sb strings.Builder

	sb.WriteString("## Notes for " + t.Key + "\n\n")
	if ticketURL != "" {
		sb.WriteString("**Ticket:** " + ticketURL + "\n")
	} else {
		sb.WriteString("**Ticket:** " + t.Key + "\n")
	}
	sb.WriteString(fmt.Sprintf("**Priority:** %s | **Status:** %s\n\n", t.Priority, t.Status))

	if rec != nil {
		sb.WriteString("## Suggested next action\n\n")
		sb.WriteString(rec.Primary.Description + "\n")
	}

	sb.WriteString("\nThe full ticket notes are in `" + NotesPath(t.Key) + "`.\n")

	return sb.String()
}

func truncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen])
}

func sanitizeBranchName(s string) string {
	var result strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			result.WriteRune(r)
		} else if r == ' ' {
			result.WriteRune('-')
		}
	}
	return result.String()
}
