// Package assistant holds the analysis service's session state and the
// operations exposed over REST and gRPC.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/clintrovert/ticketpilot/internal/analyzer"
	"github.com/clintrovert/ticketpilot/internal/notify"
	"github.com/clintrovert/ticketpilot/internal/recommend"
	"github.com/clintrovert/ticketpilot/internal/temporal"
	"github.com/clintrovert/ticketpilot/internal/temporal/workflows"
	"github.com/clintrovert/ticketpilot/pkg/types"
)

// ErrTicketNotFound is returned when a key is neither in the session nor in the tracker
var ErrTicketNotFound = errors.New("ticket not found")

// ErrNotificationsDisabled is returned by Notify when no notifier is configured
var ErrNotificationsDisabled = errors.New("notifications are not configured")

// ErrPullRequestsDisabled is returned by the PR operations when no workflow client is configured
var ErrPullRequestsDisabled = errors.New("pull request workflows are not configured")

// TicketSource reads tickets from the issue tracker
type TicketSource interface {
	MyTickets(ctx context.Context) ([]types.Ticket, error)
	Ticket(ctx context.Context, key string) (*types.Ticket, error)
	TicketURL(key string) string
}

// PRWorkflows starts and tracks ticket PR workflows
type PRWorkflows interface {
	StartTicketPRWorkflow(ctx context.Context, input workflows.TicketPRInput) (string, error)
	GetWorkflowStatus(ctx context.Context, workflowID string) (*temporal.WorkflowStatus, error)
	CancelWorkflow(ctx context.Context, workflowID string) error
}

// Session is the ticket snapshot and workload analysis of the current session
type Session struct {
	Tickets   []types.Ticket
	Analysis  *types.Analysis
	StartedAt time.Time
}

// Service coordinates the tracker, analyzer and notifier
type Service struct {
	source      TicketSource
	analyzer    analyzer.Analyzer
	notifier    notify.Notifier
	prs         PRWorkflows
	repo        *types.RepositoryInfo
	jiraBaseURL string
	logger      *zap.Logger
	now         func() time.Time

	mu      sync.RWMutex
	session *Session
}

// NewService creates a new assistant service. notifier may be nil.
func NewService(
	source TicketSource,
	a analyzer.Analyzer,
	notifier notify.Notifier,
	jiraBaseURL string,
	logger *zap.Logger,
) *Service {
	return &Service{
		source:      source,
		analyzer:    a,
		notifier:    notifier,
		jiraBaseURL: jiraBaseURL,
		logger:      logger,
		now:         time.Now,
	}
}

// WithPullRequests enables the ticket PR operations against repo
func (s *Service) WithPullRequests(prs PRWorkflows, repo *types.RepositoryInfo) *Service {
	s.prs = prs
	s.repo = repo
	return s
}

// StartSession loads the user's open tickets and analyzes the workload
func (s *Service) StartSession(ctx context.Context) (*Session, error) {
	tickets, err := s.source.MyTickets(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tickets: %w", err)
	}
	return s.Refresh(ctx, tickets)
}

// Refresh replaces the session with a new ticket snapshot and re-analyzes it
func (s *Service) Refresh(ctx context.Context, tickets []types.Ticket) (*Session, error) {
	analysis, err := s.analyzer.AnalyzeWorkload(ctx, tickets)
	if err != nil {
		return nil, fmt.Errorf("failed to analyze workload: %w", err)
	}

	session := &Session{
		Tickets:   tickets,
		Analysis:  analysis,
		StartedAt: s.now(),
	}

	s.mu.Lock()
	s.session = session
	s.mu.Unlock()

	s.logger.Info("session refreshed",
		zap.Int("tickets", len(tickets)),
		zap.String("top_priority", analysis.TopPriority),
	)
	return session, nil
}

// Current returns the current session, or nil before the first StartSession
func (s *Service) Current() *Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session
}

// FindTicket looks the key up in the session first and then in the tracker
func (s *Service) FindTicket(ctx context.Context, key string) (*types.Ticket, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, ErrTicketNotFound
	}

	if t := s.sessionTicket(key); t != nil {
		return t, nil
	}

	t, err := s.source.Ticket(ctx, key)
	if err != nil {
		s.logger.Debug("ticket lookup failed", zap.String("ticket", key), zap.Error(err))
		return nil, fmt.Errorf("%w: %s", ErrTicketNotFound, key)
	}
	return t, nil
}

// AnalyzeTicket analyzes a single ticket in the context of the session
func (s *Service) AnalyzeTicket(ctx context.Context, key string) (*types.Ticket, *types.Analysis, error) {
	t, err := s.FindTicket(ctx, key)
	if err != nil {
		return nil, nil, err
	}

	analysis, err := s.analyzer.AnalyzeTicket(ctx, t, s.sessionTickets())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to analyze ticket %s: %w", t.Key, err)
	}
	return t, analysis, nil
}

// TicketURL returns the tracker URL for key
func (s *Service) TicketURL(key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", ErrTicketNotFound
	}
	return s.source.TicketURL(key), nil
}

// Recommendation returns the contextual recommendation for key
func (s *Service) Recommendation(ctx context.Context, key string) (*types.Recommendation, error) {
	t, err := s.FindTicket(ctx, key)
	if err != nil {
		return nil, err
	}
	rec := recommend.Recommend(t)
	return &rec, nil
}

// Ranked returns the highest scoring tickets of the session
func (s *Service) Ranked() []types.RankedTicket {
	return recommend.RankTopTickets(s.sessionTickets())
}

// Notify sends a Slack notification about key
func (s *Service) Notify(ctx context.Context, key string) error {
	if s.notifier == nil {
		return ErrNotificationsDisabled
	}

	t, err := s.FindTicket(ctx, key)
	if err != nil {
		return err
	}

	if err := s.notifier.Notify(ctx, notify.TicketMessage(t, s.jiraBaseURL)); err != nil {
		return fmt.Errorf("failed to notify about %s: %w", t.Key, err)
	}
	return nil
}

// StartPR starts the workflow that opens a notes PR for key
func (s *Service) StartPR(ctx context.Context, key string) (string, error) {
	if s.prs == nil || s.repo == nil {
		return "", ErrPullRequestsDisabled
	}

	t, analysis, err := s.AnalyzeTicket(ctx, key)
	if err != nil {
		return "", err
	}
	rec := recommend.Recommend(t)
	ticketURL, _ := s.TicketURL(t.Key)

	repo := *s.repo
	workflowID, err := s.prs.StartTicketPRWorkflow(ctx, workflows.TicketPRInput{
		Ticket:         *t,
		Recommendation: &rec,
		Analysis:       analysis,
		Repository:     &repo,
		TicketURL:      ticketURL,
	})
	if err != nil {
		return "", fmt.Errorf("failed to start pull request for %s: %w", t.Key, err)
	}
	return workflowID, nil
}

// PRStatus describes the PR workflow of key
func (s *Service) PRStatus(ctx context.Context, key string) (*temporal.WorkflowStatus, error) {
	if s.prs == nil {
		return nil, ErrPullRequestsDisabled
	}
	return s.prs.GetWorkflowStatus(ctx, workflows.WorkflowID(strings.ToUpper(strings.TrimSpace(key))))
}

// CancelPR cancels the PR workflow of key and returns its ID
func (s *Service) CancelPR(ctx context.Context, key string) (string, error) {
	if s.prs == nil {
		return "", ErrPullRequestsDisabled
	}
	id := workflows.WorkflowID(strings.ToUpper(strings.TrimSpace(key)))
	if err := s.prs.CancelWorkflow(ctx, id); err != nil {
		return "", err
	}
	return id, nil
}

func (s *Service) sessionTickets() []types.Ticket {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session == nil {
		return nil
	}
	return s.session.Tickets
}

func (s *Service) sessionTicket(key string) *types.Ticket {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session == nil {
		return nil
	}
	for i := range s.session.Tickets {
		if strings.EqualFold(s.session.Tickets[i].Key, key) {
			t := s.session.Tickets[i]
			return &t
		}
	}
	return nil
}
