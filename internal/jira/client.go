package jira

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	jira "github.com/andygrunwald/go-jira"
	"go.uber.org/zap"

	"github.com/clintrovert/ticketpilot/pkg/types"
)

// DefaultJQL selects the open tickets assigned to the authenticated user
const DefaultJQL = "assignee = currentUser() AND statusCategory != Done ORDER BY priority DESC, updated DESC"

const maxResults = 50

var ticketFields = []string{
	"summary", "description", "priority", "status", "assignee",
	"created", "updated", "comment", "labels", "issuetype",
}

// Client wraps Jira API client functionality
type Client struct {
	client  *jira.Client
	logger  *zap.Logger
	baseURL string
	jql     string
	now     func() time.Time
}

// NewClient creates a new Jira client
func NewClient(baseURL, username, apiToken, jql string, logger *zap.Logger) (*Client, error) {
	httpClient := http.DefaultClient
	if username != "" || apiToken != "" {
		tp := jira.BasicAuthTransport{
			Username: username,
			Password: apiToken,
		}
		httpClient = tp.Client()
	}

	client, err := jira.NewClient(httpClient, baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create jira client: %w", err)
	}

	if jql == "" {
		jql = DefaultJQL
	}

	return &Client{
		client:  client,
		logger:  logger,
		baseURL: strings.TrimRight(baseURL, "/"),
		jql:     jql,
		now:     time.Now,
	}, nil
}

// MyTickets retrieves the open tickets matched by the client's JQL
func (c *Client) MyTickets(ctx context.Context) ([]types.Ticket, error) {
	issues, _, err := c.client.Issue.SearchWithContext(ctx, c.jql, &jira.SearchOptions{
		MaxResults: maxResults,
		Fields:     ticketFields,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search issues: %w", err)
	}

	now := c.now()
	tickets := make([]types.Ticket, 0, len(issues))
	for i := range issues {
		tickets = append(tickets, issueToTicket(&issues[i], now))
	}

	c.logger.Info("fetched tickets from jira", zap.Int("count", len(tickets)))
	return tickets, nil
}

// Ticket retrieves a specific ticket by key
func (c *Client) Ticket(ctx context.Context, key string) (*types.Ticket, error) {
	issue, _, err := c.client.Issue.GetWithContext(ctx, key, &jira.GetQueryOptions{
		Fields: strings.Join(ticketFields, ","),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get issue %s: %w", key, err)
	}

	t := issueToTicket(issue, c.now())
	return &t, nil
}

// TicketURL returns the browse URL of a ticket
func (c *Client) TicketURL(key string) string {
	return fmt.Sprintf("%s/browse/%s", c.baseURL, strings.ToUpper(strings.TrimSpace(key)))
}

// AddComment adds a comment to a ticket
func (c *Client) AddComment(ctx context.Context, key, comment string) error {
	_, _, err := c.client.Issue.AddCommentWithContext(ctx, key, &jira.Comment{
		Body: comment,
	})
	if err != nil {
		return fmt.Errorf("failed to add comment: %w", err)
	}

	return nil
}

// issueToTicket converts a Jira issue to a Ticket
func issueToTicket(issue *jira.Issue, now time.Time) types.Ticket {
	t := types.Ticket{Key: issue.Key}
	fields := issue.Fields
	if fields == nil {
		return t
	}

	t.Summary = fields.Summary
	t.Description = fields.Description
	t.Labels = fields.Labels
	t.IssueType = fields.Type.Name
	t.Priority = "Unknown"
	if fields.Priority != nil {
		t.Priority = fields.Priority.Name
	}
	if fields.Status != nil {
		t.Status = fields.Status.Name
	}
	if fields.Assignee != nil {
		t.Assignee = fields.Assignee.DisplayName
	}
	if fields.Comments != nil {
		t.CommentsCount = len(fields.Comments.Comments)
	}
	if created := time.Time(fields.Created); !created.IsZero() {
		t.Created = &created
	}
	if updated := time.Time(fields.Updated); !updated.IsZero() {
		t.Updated = &updated
	}
	t.Normalize(now)

	return t
}
