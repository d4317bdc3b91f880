package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/budgetivoire/budgetivoire/internal/app"
	"github.com/budgetivoire/budgetivoire/internal/config"
	"github.com/budgetivoire/budgetivoire/internal/export"
)

func balanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "balance",
		Short: "Print the balance and expense breakdown",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(a *app.App, _ *config.Config) error {
				snap, err := a.Ledger.Snapshot(cmd.Context())
				if err != nil {
					return err
				}

				st, err := a.Settings.Get(cmd.Context())
				if err != nil {
					return err
				}

				fmt.Fprint(cmd.OutOrStdout(), export.Summary(snap, st.Currency))

				return nil
			})
		},
	}
}
