package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"google.golang.org/grpc"

	"github.com/clintrovert/ticketpilot/internal/analyzer"
	grpcapi "github.com/clintrovert/ticketpilot/internal/api/grpc"
	"github.com/clintrovert/ticketpilot/internal/api/rest"
	"github.com/clintrovert/ticketpilot/internal/assistant"
	"github.com/clintrovert/ticketpilot/internal/jira"
	"github.com/clintrovert/ticketpilot/internal/leader"
	"github.com/clintrovert/ticketpilot/internal/notify"
	"github.com/clintrovert/ticketpilot/internal/temporal"
	"github.com/clintrovert/ticketpilot/pkg/types"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(fmt.Sprintf("failed to create logger: %v", err))
	}
	defer logger.Sync()

	temporalAddress := getEnv("TEMPORAL_ADDRESS", "")
	temporalNamespace := getEnv("TEMPORAL_NAMESPACE", "default")
	taskQueue := getEnv("TASK_QUEUE", "ticket-pr-queue")
	jiraBaseURL := getEnv("JIRA_BASE_URL", "")
	jiraUsername := getEnv("JIRA_USERNAME", "")
	jiraToken := getEnv("JIRA_TOKEN", "")
	jiraJQL := getEnv("JIRA_JQL", jira.DefaultJQL)
	jiraPollInterval := getEnv("JIRA_POLL_INTERVAL", "5m")
	openaiAPIKey := getEnv("OPENAI_API_KEY", "")
	openaiModel := getEnv("OPENAI_MODEL", "")
	githubRepo := getEnv("GITHUB_REPO", "")
	githubBaseBranch := getEnv("GITHUB_BASE_BRANCH", "main")
	slackWebhookURL := getEnv("SLACK_WEBHOOK_URL", "")
	slackBotToken := getEnv("SLACK_BOT_TOKEN", "")
	slackChannel := getEnv("SLACK_CHANNEL", "")
	restPort := getEnv("REST_PORT", "8000")
	grpcPort := getEnv("GRPC_PORT", "9090")

	pollInterval, err := time.ParseDuration(jiraPollInterval)
	if err != nil {
		logger.Warn("invalid poll interval, using default", zap.Error(err))
		pollInterval = 5 * time.Minute
	}

	jiraClient, err := jira.NewClient(jiraBaseURL, jiraUsername, jiraToken, jiraJQL, logger)
	if err != nil {
		logger.Fatal("failed to create jira client", zap.Error(err))
	}

	var model analyzer.Analyzer
	if openaiAPIKey != "" {
		model = analyzer.NewAIAnalyzer(openaiAPIKey, openaiModel, logger)
	} else {
		logger.Warn("OPENAI_API_KEY not set, using rule-based analysis")
	}
	ticketAnalyzer := analyzer.NewChain(model, analyzer.DefaultCacheTTL, logger)

	slack := notify.NewSlackNotifier(notify.SlackConfig{
		WebhookURL: slackWebhookURL,
		BotToken:   slackBotToken,
		Channel:    slackChannel,
	}, logger)
	var notifier notify.Notifier
	if slack.Enabled() {
		notifier = slack
	}

	svc := assistant.NewService(jiraClient, ticketAnalyzer, notifier, jiraBaseURL, logger)

	if temporalAddress != "" && githubRepo != "" {
		repo, err := types.ParseRepository(githubRepo, githubBaseBranch)
		if err != nil {
			logger.Fatal("invalid GITHUB_REPO", zap.Error(err))
		}
		temporalClient, err := temporal.NewClient(temporalAddress, temporalNamespace, taskQueue, logger)
		if err != nil {
			logger.Fatal("failed to create temporal client", zap.Error(err))
		}
		defer temporalClient.Close()
		svc.WithPullRequests(temporalClient, repo)
	} else {
		logger.Info("TEMPORAL_ADDRESS or GITHUB_REPO not set, pull request workflows disabled")
	}

	poller := jira.NewPoller(jiraClient, pollInterval, logger)
	orchestrator := leader.NewOrchestrator(poller, svc, notifier, jiraBaseURL, logger)

	restHandler := rest.NewHandler(svc, logger)
	grpcServer := grpcapi.NewServer(svc, logger)

	router := chi.NewRouter()
	restHandler.RegisterRoutes(router)

	restAddr := fmt.Sprintf(":%s", restPort)
	restServer := &http.Server{
		Addr:    restAddr,
		Handler: router,
	}

	go func() {
		logger.Info("starting REST API server", zap.String("address", restAddr))
		if err := restServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start REST server", zap.Error(err))
		}
	}()

	grpcAddr := fmt.Sprintf(":%s", grpcPort)
	grpcListener, err := net.Listen("tcp", grpcAddr)
	if err != nil {
		logger.Fatal("failed to listen on gRPC port", zap.Error(err))
	}

	grpcSrv := grpc.NewServer()
	grpcServer.Register(grpcSrv)

	go func() {
		logger.Info("starting gRPC server", zap.String("address", grpcAddr))
		if err := grpcSrv.Serve(grpcListener); err != nil {
			logger.Fatal("failed to start gRPC server", zap.Error(err))
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if jiraBaseURL != "" {
		go func() {
			if err := orchestrator.Start(ctx); err != nil && ctx.Err() == nil {
				logger.Error("orchestrator failed", zap.Error(err))
			}
		}()
	} else {
		logger.Warn("JIRA_BASE_URL not set, ticket polling disabled")
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutting down")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	grpcServer.Shutdown()
	restServer.Shutdown(shutdownCtx)
	grpcSrv.GracefulStop()

	logger.Info("shutdown complete")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
