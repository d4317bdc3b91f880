package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/budgetivoire/budgetivoire/internal/app"
	"github.com/budgetivoire/budgetivoire/internal/config"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Open migrates before returning.
			return withApp(cmd, func(*app.App, *config.Config) error {
				slog.Info("database is up to date")
				return nil
			})
		},
	}
}
