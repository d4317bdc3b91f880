package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/budgetivoire/budgetivoire/internal/app"
	"github.com/budgetivoire/budgetivoire/internal/config"
)

func exportCmd() *cobra.Command {
	var (
		format string
		out    string
		dir    string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the ledger as CSV or XLSX",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(a *app.App, _ *config.Config) error {
				if dir != "" {
					paths, err := a.Exporter.Export(cmd.Context(), dir)
					if err != nil {
						return err
					}

					for _, p := range paths {
						fmt.Fprintln(cmd.OutOrStdout(), p)
					}

					return nil
				}

				var write func(context.Context, io.Writer) error

				switch format {
				case "csv":
					write = a.Exporter.WriteCSV
				case "xlsx":
					write = a.Exporter.WriteXLSX
				default:
					return fmt.Errorf("unknown format %q: use csv or xlsx", format)
				}

				if out == "" || out == "-" {
					return write(cmd.Context(), cmd.OutOrStdout())
				}

				f, err := os.Create(out)
				if err != nil {
					return fmt.Errorf("creating %s: %w", out, err)
				}
				defer f.Close()

				if err := write(cmd.Context(), f); err != nil {
					return err
				}

				return f.Close()
			})
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "csv", "output format (csv, xlsx)")
	cmd.Flags().StringVarP(&out, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVar(&dir, "dir", "", "write both formats into this directory")

	return cmd
}
