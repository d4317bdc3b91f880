package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/budgetivoire/budgetivoire/internal/app"
	"github.com/budgetivoire/budgetivoire/internal/config"
)

func importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Import a ledger, wallet or bank CSV export",
		Long: `Import transactions from a CSV export. The layout is detected from the
header row. Entries already in the ledger are skipped, so importing the
same file twice is harmless.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening %s: %w", args[0], err)
			}
			defer f.Close()

			return withApp(cmd, func(a *app.App, _ *config.Config) error {
				res, err := a.Importer.Import(cmd.Context(), f)
				if err != nil {
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "%d imported, %d already present\n", len(res.Imported), len(res.Skipped))

				return nil
			})
		},
	}
}
