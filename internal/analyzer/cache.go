package analyzer

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"sync"
	"time"

	"github.com/zeebo/blake3"
	"go.uber.org/zap"

	"github.com/clintrovert/ticketpilot/pkg/types"
)

// DefaultCacheTTL bounds how long a cached analysis is served
const DefaultCacheTTL = 24 * time.Hour

type cacheEntry struct {
	analysis *types.Analysis
	stored   time.Time
}

// CachedAnalyzer memoizes analyses keyed by a digest of the tickets analyzed
type CachedAnalyzer struct {
	next   Analyzer
	logger *zap.Logger
	ttl    time.Duration
	now    func() time.Time

	mu      sync.Mutex
	entries map[string]cacheEntry
}

// NewCachedAnalyzer creates a new caching analyzer around next
func NewCachedAnalyzer(next Analyzer, ttl time.Duration, logger *zap.Logger) *CachedAnalyzer {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &CachedAnalyzer{
		next:    next,
		logger:  logger,
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]cacheEntry),
	}
}

// AnalyzeWorkload returns a cached workload analysis or computes a new one
func (c *CachedAnalyzer) AnalyzeWorkload(ctx context.Context, tickets []types.Ticket) (*types.Analysis, error) {
	key := "workload:" + digest(tickets)
	if a, ok := c.get(key); ok {
		return a, nil
	}

	a, err := c.next.AnalyzeWorkload(ctx, tickets)
	if err != nil {
		return nil, err
	}
	c.put(key, a)
	return a, nil
}

// AnalyzeTicket returns a cached ticket analysis or computes a new one
func (c *CachedAnalyzer) AnalyzeTicket(ctx context.Context, ticket *types.Ticket, related []types.Ticket) (*types.Analysis, error) {
	key := "ticket:" + digest(append([]types.Ticket{*ticket}, related...))
	if a, ok := c.get(key); ok {
		return a, nil
	}

	a, err := c.next.AnalyzeTicket(ctx, ticket, related)
	if err != nil {
		return nil, err
	}
	c.put(key, a)
	return a, nil
}

// Invalidate drops every cached analysis
func (c *CachedAnalyzer) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cacheEntry)
}

func (c *CachedAnalyzer) get(key string) (*types.Analysis, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().Sub(e.stored) > c.ttl {
		delete(c.entries, key)
		return nil, false
	}
	c.logger.Debug("analysis cache hit", zap.String("key", key))
	return e.analysis, true
}

func (c *CachedAnalyzer) put(key string, a *types.Analysis) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for k, e := range c.entries {
		if now.Sub(e.stored) > c.ttl {
			delete(c.entries, k)
		}
	}
	c.entries[key] = cacheEntry{analysis: a, stored: now}
}

// Len returns the number of cached analyses
func (c *CachedAnalyzer) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func digest(tickets []types.Ticket) string {
	summaries := make([]promptTicket, 0, len(tickets))
	for _, t := range tickets {
		summaries = append(summaries, toPromptTicket(t))
	}
	data, _ := json.Marshal(summaries)
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:16])
}
