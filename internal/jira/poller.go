package jira

import (
	"context"
	"encoding/hex"
	"sort"
	"sync"
	"time"

	"github.com/zeebo/blake3"
	"go.uber.org/zap"

	"github.com/clintrovert/ticketpilot/pkg/types"
)

// TicketLister lists the current ticket snapshot
type TicketLister interface {
	MyTickets(ctx context.Context) ([]types.Ticket, error)
}

// Poller polls Jira for the assigned ticket snapshot and emits it when it changes
type Poller struct {
	client   TicketLister
	logger   *zap.Logger
	interval time.Duration
	lastHash string
	mu       sync.RWMutex
}

// NewPoller creates a new Jira poller
func NewPoller(client TicketLister, interval time.Duration, logger *zap.Logger) *Poller {
	return &Poller{
		client:   client,
		logger:   logger,
		interval: interval,
	}
}

// Start starts the polling loop
func (p *Poller) Start(ctx context.Context, snapshots chan<- []types.Ticket) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	// Initial poll
	p.poll(ctx, snapshots)

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("stopping jira poller")
			return
		case <-ticker.C:
			p.poll(ctx, snapshots)
		}
	}
}

// poll performs a single poll operation
func (p *Poller) poll(ctx context.Context, snapshots chan<- []types.Ticket) {
	tickets, err := p.client.MyTickets(ctx)
	if err != nil {
		p.logger.Error("failed to poll tickets", zap.Error(err))
		return
	}

	hash := SnapshotHash(tickets)
	if !p.changed(hash) {
		return
	}

	select {
	case snapshots <- tickets:
		p.markSeen(hash)
		p.logger.Info("ticket snapshot changed",
			zap.Int("tickets", len(tickets)),
			zap.String("hash", hash[:12]),
		)
	case <-ctx.Done():
	}
}

func (p *Poller) changed(hash string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.lastHash != hash
}

func (p *Poller) markSeen(hash string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lastHash = hash
}

// Reset forgets the last emitted snapshot so the next poll always emits
func (p *Poller) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lastHash = ""
}

// SnapshotHash identifies a ticket snapshot by each ticket's key and last update.
// Order of tickets does not matter.
func SnapshotHash(tickets []types.Ticket) string {
	keys := make([]string, 0, len(tickets))
	for _, t := range tickets {
		updated := ""
		if t.Updated != nil {
			updated = t.Updated.UTC().Format(time.RFC3339Nano)
		}
		keys = append(keys, t.Key+":"+updated+":"+t.Status)
	}
	sort.Strings(keys)

	h := blake3.New()
	for _, k := range keys {
		h.Write([]byte(k))
		h.Write([]byte{'|'})
	}
	return hex.EncodeToString(h.Sum(nil))
}
