package commands

import (
	"fmt"

	"expense-log-be/internal/dto"

	"github.com/fatih/color"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func newBalanceCommand() *cobra.Command {
	var set string

	cmd := &cobra.Command{
		Use:   "balance",
		Short: "Show the account balance, or overwrite it with --set",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := openLedger()
			if err != nil {
				return err
			}

			if set != "" {
				amount, err := decimal.NewFromString(set)
				if err != nil {
					return fmt.Errorf("parsing --set: %w", err)
				}
				account, err := l.bankLog.SetOrUpdateBalance(cmd.Context(), &dto.SetBalanceRequest{InitialBalance: amount})
				if err != nil {
					return err
				}
				color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "Balance set to %s\n", account.CurrentBalance.StringFixed(2))
				return nil
			}

			account, err := l.bankLog.GetAccount(cmd.Context())
			if err != nil {
				return err
			}
			if account == nil {
				color.New(color.FgYellow).Fprintln(cmd.OutOrStdout(), "No account yet. Use --set to create one.")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (updated %s)\n",
				account.CurrentBalance.StringFixed(2),
				account.LastUpdated.In(l.location).Format("2006-01-02 15:04"),
			)
			return nil
		},
	}

	cmd.Flags().StringVar(&set, "set", "", "new balance, e.g. 1250.00")

	return cmd
}
