package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"

	"github.com/clintrovert/ticketpilot/internal/dashboard"
	"github.com/clintrovert/ticketpilot/internal/formatter"
)

type dashboardOptions struct {
	live  bool
	view  string
	focus string
}

func newDashboardCmd(global *globalOptions) *cobra.Command {
	opts := &dashboardOptions{}

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show the ticket dashboard",
		Long: `Show the ticket dashboard.

The analysis view shows the overall workload analysis and the focused ticket.
The work view shows the recommended action and the three highest ranked tickets.`,
		Example: `  # Demo data, analysis view
  assistant dashboard

  # Live data, work view focused on one ticket
  assistant dashboard --live --view work --focus CPE-3117`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDashboard(cmd.Context(), cmd.OutOrStdout(), global, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.live, "live", false, "Fetch live data instead of demo data")
	cmd.Flags().StringVar(&opts.view, "view", string(dashboard.ViewAnalysis), "Panel to show (analysis, work)")
	cmd.Flags().StringVar(&opts.focus, "focus", "", "Ticket key to focus")

	return cmd
}

func runDashboard(ctx context.Context, out io.Writer, global *globalOptions, opts *dashboardOptions) error {
	logger := global.logger()
	defer logger.Sync()

	ctrl := dashboard.NewController(global.gateway(logger), logger)

	if opts.live {
		withSpinner(global, "Loading tickets...", func() {
			ctrl.ToggleDemoMode(ctx)
		})
	}

	state := ctrl.SetView(dashboard.ParseView(opts.view))

	if opts.focus != "" {
		var err error
		withSpinner(global, fmt.Sprintf("Analyzing %s...", opts.focus), func() {
			state, err = ctrl.Focus(ctx, opts.focus)
		})
		if err != nil {
			return err
		}
	}

	return formatter.NewPrinter(out, global.outputFormat).Dashboard(state)
}

// withSpinner runs fn while showing a spinner on stderr.
// Structured output and verbose logging suppress it.
func withSpinner(global *globalOptions, suffix string, fn func()) {
	if global.outputFormat != formatter.FormatHuman || global.verbose {
		fn()
		return
	}
	s := spinner.New(spinner.CharSets[11], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = " " + suffix
	s.Start()
	defer s.Stop()
	fn()
}
