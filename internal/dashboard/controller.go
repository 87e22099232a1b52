package dashboard

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/clintrovert/ticketpilot/internal/gateway"
	"github.com/clintrovert/ticketpilot/pkg/types"
)

// Gateway is the data source the controller drives
type Gateway interface {
	StartSession(ctx context.Context) *gateway.Session
	AnalyzeTicket(ctx context.Context, ticket *types.Ticket) *types.Analysis
	TicketURL(ctx context.Context, key string) (string, error)
}

// Controller applies gateway results to the dashboard state.
// A new request of a kind cancels the previous one of the same kind.
type Controller struct {
	gateway Gateway
	logger  *zap.Logger

	mu             sync.Mutex
	state          State
	cancelSession  context.CancelFunc
	cancelAnalysis context.CancelFunc
}

// NewController creates a new controller in demo mode
func NewController(gw Gateway, logger *zap.Logger) *Controller {
	return &Controller{
		gateway: gw,
		logger:  logger,
		state:   NewState(),
	}
}

// State returns a snapshot of the current state
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// SetView switches the visible panel
func (c *Controller) SetView(v View) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = SetView(c.state, v)
	return c.state
}

// ToggleDemoMode flips demo mode, fetching a live session when leaving it
func (c *Controller) ToggleDemoMode(ctx context.Context) State {
	c.mu.Lock()
	next, fetch := ToggleDemoMode(c.state)
	c.state = next
	if !fetch {
		c.cancelLocked()
		c.mu.Unlock()
		return next
	}
	c.mu.Unlock()
	return c.Refresh(ctx)
}

// Refresh fetches a new session. In demo mode it is a no-op.
func (c *Controller) Refresh(ctx context.Context) State {
	c.mu.Lock()
	if c.state.DemoMode {
		s := c.state
		c.mu.Unlock()
		return s
	}
	if c.cancelSession != nil {
		c.cancelSession()
	}
	if c.cancelAnalysis != nil {
		c.cancelAnalysis()
		c.cancelAnalysis = nil
	}
	ctx, cancel := context.WithCancel(ctx)
	c.cancelSession = cancel
	next, seq := BeginSession(c.state)
	c.state = next
	c.mu.Unlock()
	defer cancel()

	session := c.gateway.StartSession(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq != c.state.SessionSeq {
		c.logger.Debug("dropping superseded session result", zap.Uint64("seq", seq))
	}
	c.state = ApplySession(c.state, seq, session)
	return c.state
}

// Focus selects a held ticket and requests its analysis.
// In demo mode the selection changes without a network call.
func (c *Controller) Focus(ctx context.Context, key string) (State, error) {
	c.mu.Lock()
	ticket, ok := c.state.Ticket(key)
	if !ok {
		s := c.state
		c.mu.Unlock()
		return s, fmt.Errorf("ticket %s not found", key)
	}
	if c.state.DemoMode {
		c.state = Select(c.state, ticket.Key)
		s := c.state
		c.mu.Unlock()
		return s, nil
	}
	if c.cancelAnalysis != nil {
		c.cancelAnalysis()
	}
	ctx, cancel := context.WithCancel(ctx)
	c.cancelAnalysis = cancel
	next, seq := BeginAnalysis(c.state, ticket.Key)
	c.state = next
	t := *ticket
	c.mu.Unlock()
	defer cancel()

	analysis := c.gateway.AnalyzeTicket(ctx, &t)

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq != c.state.AnalysisSeq {
		c.logger.Debug("dropping superseded analysis result",
			zap.String("ticket", t.Key),
			zap.Uint64("seq", seq),
		)
	}
	c.state = ApplyAnalysis(c.state, seq, analysis)
	return c.state, nil
}

// TicketURL resolves the tracker URL of a ticket
func (c *Controller) TicketURL(ctx context.Context, key string) (string, error) {
	return c.gateway.TicketURL(ctx, key)
}

func (c *Controller) cancelLocked() {
	if c.cancelSession != nil {
		c.cancelSession()
		c.cancelSession = nil
	}
	if c.cancelAnalysis != nil {
		c.cancelAnalysis()
		c.cancelAnalysis = nil
	}
}
