package jira

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/clintrovert/ticketpilot/pkg/types"
)

const searchResponse = `{
	"startAt": 0,
	"maxResults": 50,
	"total": 2,
	"issues": [
		{
			"id": "10001",
			"key": "CPE-3117",
			"fields": {
				"summary": "Address customer login failures",
				"description": "Users see a 500 on login",
				"priority": {"name": "P1"},
				"status": {"name": "In Progress"},
				"assignee": {"displayName": "Dana Scully"},
				"created": "2025-02-28T12:00:00.000+0000",
				"updated": "2025-03-08T12:00:00.000+0000",
				"labels": ["VOC_Feedback"],
				"issuetype": {"name": "Bug"},
				"comment": {"comments": [{"body": "looking"}, {"body": "still broken"}]}
			}
		},
		{
			"id": "10002",
			"key": "CPE-2048",
			"fields": {
				"summary": "Improve dashboard performance",
				"status": {"name": "To Do"},
				"issuetype": {"name": "Story"}
			}
		}
	]
}`

func newTestJira(t *testing.T) (*Client, *http.ServeMux) {
	t.Helper()
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	c, err := NewClient(srv.URL+"/", "me@example.com", "token", "", zap.NewNop())
	require.NoError(t, err)
	c.now = func() time.Time { return time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC) }
	return c, mux
}

func TestMyTickets(t *testing.T) {
	c, mux := newTestJira(t)
	mux.HandleFunc("/rest/api/2/search", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, DefaultJQL, r.URL.Query().Get("jql"))
		user, _, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "me@example.com", user)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(searchResponse))
	})

	tickets, err := c.MyTickets(context.Background())
	require.NoError(t, err)
	require.Len(t, tickets, 2)

	first := tickets[0]
	assert.Equal(t, "CPE-3117", first.Key)
	assert.Equal(t, "Users see a 500 on login", first.Description)
	assert.Equal(t, "P1", first.Priority)
	assert.Equal(t, types.StatusInProgress, first.Status)
	assert.Equal(t, "Dana Scully", first.Assignee)
	assert.Equal(t, "Bug", first.IssueType)
	assert.Equal(t, []string{"VOC_Feedback"}, first.Labels)
	assert.Equal(t, 2, first.CommentsCount)
	assert.Equal(t, 10, first.AgeDays)
	assert.Equal(t, 2, first.StaleDays)

	second := tickets[1]
	assert.Equal(t, "Unknown", second.Priority)
	assert.Empty(t, second.Assignee)
	assert.Zero(t, second.AgeDays)
}

func TestMyTickets_Error(t *testing.T) {
	c, mux := newTestJira(t)
	mux.HandleFunc("/rest/api/2/search", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"errorMessages":["bad jql"]}`, http.StatusBadRequest)
	})

	_, err := c.MyTickets(context.Background())
	assert.Error(t, err)
}

func TestTicketURL(t *testing.T) {
	c, _ := newTestJira(t)
	assert.Equal(t, c.baseURL+"/browse/CPE-3117", c.TicketURL(" cpe-3117 "))
}
