package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/clintrovert/ticketpilot/internal/dashboard"
	"github.com/clintrovert/ticketpilot/internal/formatter"
	"github.com/clintrovert/ticketpilot/internal/recommend"
)

func newAnalyzeCmd(global *globalOptions) *cobra.Command {
	var demo bool

	cmd := &cobra.Command{
		Use:   "analyze KEY",
		Short: "Analyze a single ticket",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := global.logger()
			defer logger.Sync()

			ctx := cmd.Context()
			ctrl := dashboard.NewController(global.gateway(logger), logger)
			if !demo {
				withSpinner(global, "Loading tickets...", func() {
					ctrl.ToggleDemoMode(ctx)
				})
			}

			var (
				state dashboard.State
				err   error
			)
			withSpinner(global, fmt.Sprintf("Analyzing %s...", args[0]), func() {
				state, err = ctrl.Focus(ctx, args[0])
			})
			if err != nil {
				return err
			}

			ticket, ok := state.FocusTicket()
			if !ok {
				return fmt.Errorf("ticket %s not found", args[0])
			}
			rec := recommend.Recommend(ticket)

			return formatter.NewPrinter(cmd.OutOrStdout(), global.outputFormat).TicketAnalysis(ticket, state.Analysis, &rec)
		},
	}

	cmd.Flags().BoolVar(&demo, "demo", false, "Use demo data instead of the analysis service")

	return cmd
}
