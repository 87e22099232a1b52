package main

import (
	"github.com/spf13/cobra"

	"github.com/clintrovert/ticketpilot/internal/formatter"
	"github.com/clintrovert/ticketpilot/internal/gateway"
	"github.com/clintrovert/ticketpilot/internal/recommend"
	"github.com/clintrovert/ticketpilot/pkg/types"
)

func newRankCmd(global *globalOptions) *cobra.Command {
	var demo bool

	cmd := &cobra.Command{
		Use:   "rank",
		Short: "List the three tickets that most need attention",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := global.logger()
			defer logger.Sync()

			var tickets []types.Ticket
			if demo {
				tickets = gateway.FallbackTickets()
			} else {
				withSpinner(global, "Loading tickets...", func() {
					tickets = global.gateway(logger).StartSession(cmd.Context()).Tickets
				})
			}

			return formatter.NewPrinter(cmd.OutOrStdout(), global.outputFormat).Ranked(recommend.RankTopTickets(tickets))
		},
	}

	cmd.Flags().BoolVar(&demo, "demo", false, "Use demo data instead of the analysis service")

	return cmd
}
