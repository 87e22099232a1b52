package leader

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/clintrovert/ticketpilot/internal/assistant"
	"github.com/clintrovert/ticketpilot/internal/notify"
	"github.com/clintrovert/ticketpilot/pkg/types"
)

// SnapshotSource emits ticket snapshots until ctx is done
type SnapshotSource interface {
	Start(ctx context.Context, snapshots chan<- []types.Ticket)
}

// Refresher re-analyzes the session for a new snapshot
type Refresher interface {
	Refresh(ctx context.Context, tickets []types.Ticket) (*assistant.Session, error)
}

// Orchestrator keeps the assistant session in step with the tracker
type Orchestrator struct {
	poller      SnapshotSource
	assistant   Refresher
	notifier    notify.Notifier
	jiraBaseURL string
	logger      *zap.Logger
	lastTop     string
}

// NewOrchestrator creates a new orchestrator. notifier may be nil.
func NewOrchestrator(
	poller SnapshotSource,
	assistant Refresher,
	notifier notify.Notifier,
	jiraBaseURL string,
	logger *zap.Logger,
) *Orchestrator {
	return &Orchestrator{
		poller:      poller,
		assistant:   assistant,
		notifier:    notifier,
		jiraBaseURL: jiraBaseURL,
		logger:      logger,
	}
}

// Start starts the orchestration loop
func (o *Orchestrator) Start(ctx context.Context) error {
	snapshots := make(chan []types.Ticket, 1)

	go o.poller.Start(ctx, snapshots)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case tickets := <-snapshots:
			if err := o.processSnapshot(ctx, tickets); err != nil {
				o.logger.Error("failed to process snapshot",
					zap.Int("tickets", len(tickets)),
					zap.Error(err),
				)
			}
		}
	}
}

// processSnapshot refreshes the session and announces a new top priority
func (o *Orchestrator) processSnapshot(ctx context.Context, tickets []types.Ticket) error {
	session, err := o.assistant.Refresh(ctx, tickets)
	if err != nil {
		return fmt.Errorf("failed to refresh session: %w", err)
	}

	top := session.Analysis.TopPriority
	if top == "" || top == o.lastTop {
		return nil
	}

	first := o.lastTop == ""
	o.lastTop = top
	o.logger.Info("top priority changed", zap.String("ticket", top))

	if first || o.notifier == nil {
		return nil
	}

	for i := range session.Tickets {
		if session.Tickets[i].Key != top {
			continue
		}
		msg := "New top priority: " + notify.TicketMessage(&session.Tickets[i], o.jiraBaseURL)
		if err := o.notifier.Notify(ctx, msg); err != nil {
			return fmt.Errorf("failed to announce top priority: %w", err)
		}
	}
	return nil
}
