package main

import (
	"github.com/spf13/cobra"

	"github.com/clintrovert/ticketpilot/internal/formatter"
)

func newOpenCmd(global *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "open KEY",
		Short: "Print the tracker URL of a ticket",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := global.logger()
			defer logger.Sync()

			u, err := global.gateway(logger).TicketURL(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return formatter.NewPrinter(cmd.OutOrStdout(), global.outputFormat).URL(args[0], u)
		},
	}
}
