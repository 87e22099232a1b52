package dashboard

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/clintrovert/ticketpilot/internal/gateway"
	"github.com/clintrovert/ticketpilot/pkg/types"
)

type fakeGateway struct {
	session *gateway.Session

	mu       sync.Mutex
	release  map[string]chan struct{}
	started  chan string
	sessions int
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		session: &gateway.Session{
			Tickets: []types.Ticket{
				{Key: "OPS-1", Summary: "Slow", AgeDays: 10},
				{Key: "OPS-2", Summary: "Broken", AgeDays: 3},
			},
			Analysis: &types.Analysis{TopPriority: "OPS-1"},
		},
		release: map[string]chan struct{}{},
		started: make(chan string, 4),
	}
}

func (f *fakeGateway) gate(key string) chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch, ok := f.release[key]
	if !ok {
		ch = make(chan struct{})
		f.release[key] = ch
	}
	return ch
}

func (f *fakeGateway) StartSession(ctx context.Context) *gateway.Session {
	f.mu.Lock()
	f.sessions++
	f.mu.Unlock()
	return f.session
}

func (f *fakeGateway) AnalyzeTicket(ctx context.Context, ticket *types.Ticket) *types.Analysis {
	f.started <- ticket.Key
	// ignores cancellation on purpose to simulate a slow server
	<-f.gate(ticket.Key)
	return &types.Analysis{TopPriority: ticket.Key, Reasoning: "analysis of " + ticket.Key}
}

func (f *fakeGateway) TicketURL(ctx context.Context, key string) (string, error) {
	return "https://tracker.example.com/browse/" + key, nil
}

func TestController_DemoModeSkipsNetwork(t *testing.T) {
	gw := newFakeGateway()
	c := NewController(gw, zap.NewNop())

	s := c.Refresh(context.Background())
	assert.True(t, s.DemoMode)
	assert.Zero(t, gw.sessions)

	s, err := c.Focus(context.Background(), "CPE-2048")
	require.NoError(t, err)
	assert.Equal(t, "CPE-2048", s.SelectedKey)
}

func TestController_ToggleFetchesLiveSession(t *testing.T) {
	gw := newFakeGateway()
	c := NewController(gw, zap.NewNop())

	s := c.ToggleDemoMode(context.Background())
	assert.False(t, s.DemoMode)
	assert.False(t, s.Loading)
	assert.Equal(t, 1, gw.sessions)
	assert.Equal(t, "OPS-1", s.TopPriorityKey())
	require.Len(t, s.Tickets, 2)

	s = c.ToggleDemoMode(context.Background())
	assert.True(t, s.DemoMode)
	assert.Equal(t, gateway.FallbackTickets(), s.Tickets)
}

func TestController_FocusUnknownTicket(t *testing.T) {
	c := NewController(newFakeGateway(), zap.NewNop())
	c.ToggleDemoMode(context.Background())

	_, err := c.Focus(context.Background(), "NOPE-1")
	assert.Error(t, err)
}

func TestController_LateAnalysisDoesNotOverwrite(t *testing.T) {
	gw := newFakeGateway()
	c := NewController(gw, zap.NewNop())
	c.ToggleDemoMode(context.Background())

	firstDone := make(chan State, 1)
	go func() {
		s, _ := c.Focus(context.Background(), "OPS-1")
		firstDone <- s
	}()
	require.Equal(t, "OPS-1", waitStarted(t, gw))

	secondDone := make(chan State, 1)
	go func() {
		s, _ := c.Focus(context.Background(), "OPS-2")
		secondDone <- s
	}()
	require.Equal(t, "OPS-2", waitStarted(t, gw))

	close(gw.gate("OPS-2"))
	second := <-secondDone
	assert.Equal(t, "OPS-2", second.Analysis.TopPriority)

	close(gw.gate("OPS-1"))
	<-firstDone

	final := c.State()
	assert.Equal(t, "OPS-2", final.Analysis.TopPriority)
	assert.Equal(t, "OPS-2", final.SelectedKey)
	assert.False(t, final.AnalysisLoading)
}

func TestController_RefreshSupersedesInFlightAnalysis(t *testing.T) {
	gw := newFakeGateway()
	c := NewController(gw, zap.NewNop())
	c.ToggleDemoMode(context.Background())

	done := make(chan State, 1)
	go func() {
		s, _ := c.Focus(context.Background(), "OPS-2")
		done <- s
	}()
	require.Equal(t, "OPS-2", waitStarted(t, gw))

	gw.session = &gateway.Session{
		Tickets:  []types.Ticket{{Key: "NEW-1", Summary: "Fresh", AgeDays: 1}},
		Analysis: &types.Analysis{TopPriority: "NEW-1", Reasoning: "session analysis"},
	}
	s := c.Refresh(context.Background())
	assert.Equal(t, "NEW-1", s.TopPriorityKey())

	close(gw.gate("OPS-2"))
	<-done

	final := c.State()
	assert.Equal(t, "NEW-1", final.TopPriorityKey())
	assert.Equal(t, "session analysis", final.Analysis.Reasoning)
	assert.False(t, final.AnalysisLoading)
	focus, ok := final.FocusTicket()
	require.True(t, ok)
	assert.Equal(t, "NEW-1", focus.Key)
}

func TestController_TicketURL(t *testing.T) {
	c := NewController(newFakeGateway(), zap.NewNop())
	u, err := c.TicketURL(context.Background(), "OPS-1")
	require.NoError(t, err)
	assert.Equal(t, "https://tracker.example.com/browse/OPS-1", u)
}

func waitStarted(t *testing.T, gw *fakeGateway) string {
	t.Helper()
	select {
	case key := <-gw.started:
		return key
	case <-time.After(5 * time.Second):
		t.Fatal("analysis request never started")
		return ""
	}
}
