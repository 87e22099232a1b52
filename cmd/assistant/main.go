package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/clintrovert/ticketpilot/internal/gateway"
)

var (
	version = "v0.1.0" // Overwritten at build time
)

type globalOptions struct {
	apiURL       string
	outputFormat string
	verbose      bool
}

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "assistant",
		Short: "Personal ticket assistant",
		Long: `assistant shows which of your tickets needs attention first and
suggests the next action for each one.

Without --live the dashboard runs on built-in demo data.`,
		SilenceUsage: true,
	}

	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&opts.apiURL, "api-url", getEnv("ASSISTANT_API_BASE_URL", gateway.DefaultBaseURL), "Analysis service base URL")
	rootCmd.PersistentFlags().StringVarP(&opts.outputFormat, "output", "o", "human", "Output format (human, json, yaml)")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Verbose output")

	rootCmd.AddCommand(
		newDashboardCmd(opts),
		newAnalyzeCmd(opts),
		newOpenCmd(opts),
		newRankCmd(opts),
		newVersionCmd(),
	)

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "assistant version %s\n", version)
		},
	}
}

func (o *globalOptions) logger() *zap.Logger {
	if !o.verbose {
		return zap.NewNop()
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

func (o *globalOptions) gateway(logger *zap.Logger) *gateway.Client {
	return gateway.NewClient(o.apiURL, logger)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
