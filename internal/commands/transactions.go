package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/finviz/internal/app"
	txhttp "github.com/MrJamesThe3rd/finviz/internal/http/transaction"
	"github.com/MrJamesThe3rd/finviz/internal/transaction"
)

func newListCommand(opts *options) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all transactions, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withApp(cmd, func(ctx context.Context, a *app.App) error {
				txs, err := a.Transactions.List(ctx)
				if err != nil {
					return err
				}

				if asJSON {
					enc := json.NewEncoder(cmd.OutOrStdout())
					enc.SetIndent("", "  ")

					return enc.Encode(txhttp.NewResponseList(txs))
				}

				if len(txs) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No transactions.")
					return nil
				}

				t := table.New().
					Border(lipgloss.NormalBorder()).
					Headers("ID", "DATE", "TYPE", "AMOUNT", "DESCRIPTION")

				for _, tx := range txs {
					t.Row(
						tx.ID.String(),
						tx.Date.Format(time.DateOnly),
						string(tx.Type),
						a.Money.Signed(tx.Amount, tx.Type == transaction.TypeIncome),
						tx.Description,
					)
				}

				fmt.Fprintln(cmd.OutOrStdout(), t.String())

				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")

	return cmd
}

func newAddCommand(opts *options) *cobra.Command {
	var p transaction.Payload

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a transaction",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withApp(cmd, func(ctx context.Context, a *app.App) error {
				tx, err := a.Transactions.Create(ctx, p)
				if err != nil {
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "Added %s %s %q (%s)\n",
					tx.Type, a.Money.Format(tx.Amount), tx.Description, tx.ID)

				return nil
			})
		},
	}

	cmd.Flags().StringVar(&p.Amount, "amount", "", "positive amount, e.g. 125.50")
	cmd.Flags().StringVar(&p.Date, "date", time.Now().Format(time.DateOnly), "date as YYYY-MM-DD")
	cmd.Flags().StringVar(&p.Description, "description", "", "what the money was for")
	cmd.Flags().StringVar(&p.Type, "type", string(transaction.TypeExpense), "income or expense")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("description")

	return cmd
}

func newDeleteCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Permanently delete a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return transaction.ErrNotFound
			}

			return opts.withApp(cmd, func(ctx context.Context, a *app.App) error {
				if err := a.Transactions.Delete(ctx, id); err != nil {
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", id)

				return nil
			})
		},
	}
}
