package main

import (
	"log"
	"os"

	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"
	"go.uber.org/zap"

	"github.com/clintrovert/ticketpilot/internal/activities"
	"github.com/clintrovert/ticketpilot/internal/github"
	"github.com/clintrovert/ticketpilot/internal/jira"
	"github.com/clintrovert/ticketpilot/internal/notify"
	workflows "github.com/clintrovert/ticketpilot/internal/temporal/workflows"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer logger.Sync()

	temporalAddress := getEnv("TEMPORAL_ADDRESS", "localhost:7233")
	temporalNamespace := getEnv("TEMPORAL_NAMESPACE", "default")
	taskQueue := getEnv("TASK_QUEUE", "ticket-pr-queue")
	githubToken := getEnv("GITHUB_TOKEN", "")
	workspaceDir := getEnv("WORKSPACE_DIR", "/tmp/ticketpilot-workspace")
	jiraBaseURL := getEnv("JIRA_BASE_URL", "")
	jiraUsername := getEnv("JIRA_USERNAME", "")
	jiraToken := getEnv("JIRA_TOKEN", "")
	slackWebhookURL := getEnv("SLACK_WEBHOOK_URL", "")
	slackBotToken := getEnv("SLACK_BOT_TOKEN", "")
	slackChannel := getEnv("SLACK_CHANNEL", "")

	c, err := client.Dial(client.Options{
		HostPort:  temporalAddress,
		Namespace: temporalNamespace,
	})
	if err != nil {
		logger.Fatal("failed to create temporal client", zap.Error(err))
	}
	defer c.Close()

	githubClient := github.NewClient(githubToken, workspaceDir, logger)
	githubActivities := activities.NewGitHubActivities(githubClient, logger)

	// Without Jira credentials the PR is still opened, only the ticket comment is skipped
	var jiraActivities *activities.JiraActivities
	if jiraBaseURL != "" && jiraUsername != "" && jiraToken != "" {
		jiraClient, err := jira.NewClient(jiraBaseURL, jiraUsername, jiraToken, "", logger)
		if err != nil {
			logger.Warn("failed to create jira client", zap.Error(err))
		} else {
			jiraActivities = activities.NewJiraActivities(jiraClient, logger)
		}
	}

	slack := notify.NewSlackNotifier(notify.SlackConfig{
		WebhookURL: slackWebhookURL,
		BotToken:   slackBotToken,
		Channel:    slackChannel,
	}, logger)
	var notifier notify.Notifier
	if slack.Enabled() {
		notifier = slack
	}
	notifyActivities := activities.NewNotifyActivities(notifier, logger)

	w := worker.New(c, taskQueue, worker.Options{})

	w.RegisterWorkflow(workflows.TicketPRWorkflow)
	activities.Register(w, githubActivities, jiraActivities, notifyActivities)

	logger.Info("starting worker",
		zap.String("task_queue", taskQueue),
		zap.String("namespace", temporalNamespace),
	)

	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Fatal("worker failed", zap.Error(err))
	}

	logger.Info("worker stopped")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
