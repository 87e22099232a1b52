package analyzer

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/clintrovert/ticketpilot/pkg/types"
)

// Analyzer interface for prioritizing ticket workloads
type Analyzer interface {
	// AnalyzeWorkload picks the top priority ticket of the set and explains why
	AnalyzeWorkload(ctx context.Context, tickets []types.Ticket) (*types.Analysis, error)
	// AnalyzeTicket analyzes a single ticket; related holds the rest of the session for context
	AnalyzeTicket(ctx context.Context, ticket *types.Ticket, related []types.Ticket) (*types.Analysis, error)
}

// WithFallback returns an Analyzer that uses fallback whenever primary fails
func WithFallback(primary, fallback Analyzer, logger *zap.Logger) Analyzer {
	return &fallbackChain{primary: primary, fallback: fallback, logger: logger}
}

// NewChain builds the analyzer the server runs: model results are cached for ttl and
// rule-based analysis stands in whenever the model fails. Fallback results are never
// cached, so the model is retried on the next request. A nil model uses rules only.
func NewChain(model Analyzer, ttl time.Duration, logger *zap.Logger) Analyzer {
	rules := NewRuleAnalyzer()
	if model == nil {
		return rules
	}
	return WithFallback(NewCachedAnalyzer(model, ttl, logger), rules, logger)
}

type fallbackChain struct {
	primary  Analyzer
	fallback Analyzer
	logger   *zap.Logger
}

func (c *fallbackChain) AnalyzeWorkload(ctx context.Context, tickets []types.Ticket) (*types.Analysis, error) {
	a, err := c.primary.AnalyzeWorkload(ctx, tickets)
	if err == nil {
		return a, nil
	}
	c.logger.Warn("workload analysis failed, using rule-based fallback", zap.Error(err))
	return c.fallback.AnalyzeWorkload(ctx, tickets)
}

func (c *fallbackChain) AnalyzeTicket(ctx context.Context, ticket *types.Ticket, related []types.Ticket) (*types.Analysis, error) {
	a, err := c.primary.AnalyzeTicket(ctx, ticket, related)
	if err == nil {
		return a, nil
	}
	c.logger.Warn("ticket analysis failed, using rule-based fallback",
		zap.String("ticket", ticket.Key),
		zap.Error(err),
	)
	return c.fallback.AnalyzeTicket(ctx, ticket, related)
}

// FindDependencies maps each ticket to the other tickets its summary or description mentions
func FindDependencies(tickets []types.Ticket) map[string][]string {
	deps := make(map[string][]string)
	for _, t := range tickets {
		text := strings.ToLower(t.Summary + " " + t.Description)
		for _, other := range tickets {
			if other.Key == t.Key || other.Key == "" {
				continue
			}
			if strings.Contains(text, strings.ToLower(other.Key)) {
				deps[t.Key] = append(deps[t.Key], other.Key)
			}
		}
	}
	return deps
}

// findTicket returns the ticket with key, ignoring case
func findTicket(tickets []types.Ticket, key string) (*types.Ticket, bool) {
	key = strings.TrimSpace(key)
	for i := range tickets {
		if strings.EqualFold(tickets[i].Key, key) {
			return &tickets[i], true
		}
	}
	return nil, false
}
