package workflows

import (
	"github.com/clintrovert/ticketpilot/pkg/types"
)

// TicketPRInput is the input for the ticket PR workflow
type TicketPRInput struct {
	Ticket         types.Ticket
	Recommendation *types.Recommendation
	Analysis       *types.Analysis
	Repository     *types.RepositoryInfo
	TicketURL      string
}

// WorkflowID is the ID of the ticket PR workflow for key.
// Reusing it keeps a ticket to one running workflow.
func WorkflowID(ticketKey string) string {
	return "ticket-pr-" + ticketKey
}
