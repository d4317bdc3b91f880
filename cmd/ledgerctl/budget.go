package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/budgetivoire/budgetivoire/internal/app"
	"github.com/budgetivoire/budgetivoire/internal/config"
	"github.com/budgetivoire/budgetivoire/internal/ledger"
)

func budgetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "budget",
		Short: "Inspect and set monthly category budgets",
	}

	cmd.AddCommand(budgetSetCmd())
	cmd.AddCommand(budgetReportCmd())

	return cmd
}

func budgetSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <category> <limit>",
		Short: "Set the monthly limit of a category (0 clears it)",
		Example: `  ledgerctl budget set "Nourriture & Marché" "60 000"
  ledgerctl budget set "Loisirs & Maquis" 0`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := ledger.LookupCategory(args[0])
			if err != nil {
				return err
			}

			limit, err := ledger.ParseAmount(args[1])
			if err != nil {
				return err
			}

			return withApp(cmd, func(a *app.App, _ *config.Config) error {
				if _, err := a.Budgets.SetLimit(cmd.Context(), cat, limit); err != nil {
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", cat, ledger.FormatAmount(limit))

				return nil
			})
		},
	}
}

func budgetReportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Show month-to-date spend against each limit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(a *app.App, _ *config.Config) error {
				snap, err := a.Ledger.Snapshot(cmd.Context())
				if err != nil {
					return err
				}

				limits, err := a.Budgets.Limits(cmd.Context())
				if err != nil {
					return err
				}

				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "CATÉGORIE\tDÉPENSÉ\tLIMITE\t%")

				for _, l := range a.Aggregator.Report(snap, limits) {
					limit, pct := "-", "-"
					if l.HasLimit {
						limit = ledger.FormatAmount(l.Limit)
						pct = fmt.Sprintf("%.0f", l.Percent)
					}

					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", l.Category, ledger.FormatAmount(l.Spent), limit, pct)
				}

				return tw.Flush()
			})
		},
	}
}
