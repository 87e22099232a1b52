package temporal

import (
	"context"
	"fmt"

	"go.temporal.io/api/enums/v1"
	"go.temporal.io/sdk/client"
	"go.uber.org/zap"

	"github.com/clintrovert/ticketpilot/internal/temporal/workflows"
)

// WorkflowStatus describes a ticket PR workflow execution
type WorkflowStatus struct {
	WorkflowID string
	RunID      string
	Status     string
	Running    bool
}

// Client wraps Temporal client functionality
type Client struct {
	temporalClient client.Client
	logger         *zap.Logger
	taskQueue      string
}

// NewClient creates a new Temporal client
func NewClient(address, namespace, taskQueue string, logger *zap.Logger) (*Client, error) {
	c, err := client.Dial(client.Options{
		HostPort:  address,
		Namespace: namespace,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create temporal client: %w", err)
	}

	return NewClientFrom(c, taskQueue, logger), nil
}

// NewClientFrom wraps an existing Temporal client
func NewClientFrom(c client.Client, taskQueue string, logger *zap.Logger) *Client {
	return &Client{
		temporalClient: c,
		logger:         logger,
		taskQueue:      taskQueue,
	}
}

// StartTicketPRWorkflow starts the PR workflow for a ticket
func (c *Client) StartTicketPRWorkflow(ctx context.Context, input workflows.TicketPRInput) (string, error) {
	workflowOptions := client.StartWorkflowOptions{
		ID:                       workflows.WorkflowID(input.Ticket.Key),
		TaskQueue:                c.taskQueue,
		WorkflowIDConflictPolicy: enums.WORKFLOW_ID_CONFLICT_POLICY_FAIL,
	}

	we, err := c.temporalClient.ExecuteWorkflow(ctx, workflowOptions, workflows.TicketPRWorkflow, input)
	if err != nil {
		return "", fmt.Errorf("failed to start workflow: %w", err)
	}

	c.logger.Info("started workflow",
		zap.String("workflow_id", we.GetID()),
		zap.String("run_id", we.GetRunID()),
		zap.String("ticket", input.Ticket.Key),
	)

	return we.GetID(), nil
}

// GetWorkflowStatus describes the latest run of a workflow
func (c *Client) GetWorkflowStatus(ctx context.Context, workflowID string) (*WorkflowStatus, error) {
	resp, err := c.temporalClient.DescribeWorkflowExecution(ctx, workflowID, "")
	if err != nil {
		return nil, fmt.Errorf("failed to describe workflow: %w", err)
	}

	info := resp.GetWorkflowExecutionInfo()
	status := info.GetStatus()
	return &WorkflowStatus{
		WorkflowID: workflowID,
		RunID:      info.GetExecution().GetRunId(),
		Status:     status.String(),
		Running:    status == enums.WORKFLOW_EXECUTION_STATUS_RUNNING,
	}, nil
}

// CancelWorkflow cancels a running workflow
func (c *Client) CancelWorkflow(ctx context.Context, workflowID string) error {
	if err := c.temporalClient.CancelWorkflow(ctx, workflowID, ""); err != nil {
		return fmt.Errorf("failed to cancel workflow: %w", err)
	}
	return nil
}

// Close closes the Temporal client
func (c *Client) Close() {
	c.temporalClient.Close()
}
