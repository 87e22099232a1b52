// Package gateway talks to the ticket analysis service and normalizes its responses.
// Every failure degrades to a built-in fallback instead of surfacing an error.
package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/clintrovert/ticketpilot/pkg/types"
)

// DefaultBaseURL is the analysis service address used when none is configured
const DefaultBaseURL = "http://localhost:8000"

// Session is the result of starting a session
type Session struct {
	Tickets  []types.Ticket
	Analysis *types.Analysis
	// Fallback is true when the built-in dataset was substituted
	Fallback bool
}

// Client calls the analysis service
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
	now        func() time.Time
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient overrides the HTTP client
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.httpClient = c }
}

// WithClock overrides the clock used for age and staleness
func WithClock(now func() time.Time) Option {
	return func(cl *Client) { cl.now = now }
}

// NewClient creates a new gateway client
func NewClient(baseURL string, logger *zap.Logger, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 60 * time.Second},
		logger:     logger,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// StartSession fetches the ticket list and overall analysis.
// Any failure returns the fallback session.
func (c *Client) StartSession(ctx context.Context) *Session {
	var resp sessionResponse
	if err := c.do(ctx, http.MethodPost, "/api/session/start", &resp); err != nil {
		c.logger.Warn("failed to start session, using fallback data", zap.Error(err))
		return FallbackSession()
	}

	now := c.now()
	tickets := make([]types.Ticket, 0, len(resp.Tickets))
	for _, wt := range resp.Tickets {
		if wt.Key == "" {
			continue
		}
		tickets = append(tickets, wt.toTicket(now))
	}

	session := &Session{Tickets: tickets}
	if resp.Analysis != nil {
		session.Analysis = resp.Analysis.toAnalysis()
	}

	c.logger.Info("started session",
		zap.Int("tickets", len(tickets)),
		zap.String("top_priority", topKey(session.Analysis)),
	)
	return session
}

// AnalyzeTicket requests an analysis scoped to ticket.
// Any failure returns an analysis synthesized from the ticket's own fields.
func (c *Client) AnalyzeTicket(ctx context.Context, ticket *types.Ticket) *types.Analysis {
	var resp analyzeResponse
	path := "/api/ticket/" + url.PathEscape(ticket.Key) + "/analyze"
	if err := c.do(ctx, http.MethodPost, path, &resp); err != nil || resp.Analysis == nil {
		if err == nil {
			err = fmt.Errorf("response has no analysis")
		}
		c.logger.Warn("failed to analyze ticket, using fallback analysis",
			zap.String("ticket", ticket.Key),
			zap.Error(err),
		)
		return TicketFallbackAnalysis(ticket)
	}

	analysis := resp.Analysis.toAnalysis()
	if analysis.TopPriority == "" {
		analysis.TopPriority = ticket.Key
	}
	return analysis
}

// TicketURL returns the tracker URL for key
func (c *Client) TicketURL(ctx context.Context, key string) (string, error) {
	var resp urlResponse
	path := "/api/ticket/" + url.PathEscape(key) + "/url"
	if err := c.do(ctx, http.MethodGet, path, &resp); err != nil {
		c.logger.Warn("failed to get ticket url", zap.String("ticket", key), zap.Error(err))
		return "", err
	}

	u, err := url.ParseRequestURI(resp.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("invalid ticket url %q", resp.URL)
	}
	return u.String(), nil
}

func (c *Client) do(ctx context.Context, method, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if method == http.MethodPost {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("%s returned status %d", path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return nil
}

func topKey(a *types.Analysis) string {
	if a == nil {
		return ""
	}
	return a.TopPriority
}
