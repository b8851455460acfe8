package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/finviz/internal/app"
	"github.com/MrJamesThe3rd/finviz/internal/money"
	"github.com/MrJamesThe3rd/finviz/internal/summary"
)

func newSummaryCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show this month's and overall totals with the last six months",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withApp(cmd, func(ctx context.Context, a *app.App) error {
				d, err := a.Summary.Dashboard(ctx)
				if err != nil {
					return err
				}

				fmt.Fprintln(cmd.OutOrStdout(), renderSummary(d.Summary, d.Monthly, a.Money, time.Now()))

				return nil
			})
		},
	}
}

func renderSummary(sum summary.Summary, series []summary.Month, f *money.Formatter, now time.Time) string {
	totals := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("", now.Format("Jan 2006"), "OVERALL").
		Row("Income", f.Format(sum.CurrentMonth.Income), f.Format(sum.Overall.Income)).
		Row("Expenses", f.Format(sum.CurrentMonth.Expenses), f.Format(sum.Overall.Expenses)).
		Row("Balance", f.Format(sum.CurrentMonth.Balance), f.Format(sum.Overall.Balance))

	if len(series) == 0 {
		return totals.String()
	}

	monthly := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("MONTH", "INCOME", "EXPENSES", "NET")

	for _, m := range series {
		monthly.Row(m.Label, f.Format(m.Income), f.Format(m.Expenses), f.Format(m.Net))
	}

	return totals.String() + "\n" + monthly.String()
}

func newImportCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Import a bank or finviz CSV export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			return opts.withApp(cmd, func(ctx context.Context, a *app.App) error {
				res, err := a.Import.Import(ctx, f)
				if err != nil {
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "Imported %d transactions (%s format)\n", len(res.Transactions), res.Profile)

				return nil
			})
		},
	}
}

func newExportCommand(opts *options) *cobra.Command {
	var (
		dir    string
		report bool
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write all transactions as CSV to stdout, or CSV plus a report to --dir",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withApp(cmd, func(ctx context.Context, a *app.App) error {
				switch {
				case dir != "":
					paths, err := a.Export.ToDir(ctx, dir)
					if err != nil {
						return err
					}

					for _, p := range paths {
						fmt.Fprintln(cmd.OutOrStdout(), p)
					}

					return nil
				case report:
					return a.Export.Report(ctx, cmd.OutOrStdout())
				}

				_, err := a.Export.WriteCSV(ctx, cmd.OutOrStdout())

				return err
			})
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "write finviz-<date>.csv and .txt into this directory")
	cmd.Flags().BoolVar(&report, "report", false, "print the plain-text report instead of CSV")

	return cmd
}
