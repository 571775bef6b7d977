package commands

import (
	"fmt"
	"strings"

	"expense-log-be/internal/dto"
	"expense-log-be/internal/pkg/serverutils"

	"github.com/fatih/color"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func newRecordCommand() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "record <credit|debit> <amount> <description>",
		Short: "Post a transaction against the account",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := parseRecordArgs(args, date)
			if err != nil {
				return err
			}
			if err := serverutils.ValidateRequest(*req); err != nil {
				return err
			}

			l, err := openLedger()
			if err != nil {
				return err
			}

			tx, err := l.bankLog.RecordTransaction(cmd.Context(), req)
			if err != nil {
				return err
			}
			color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "%s %s recorded, balance now %s\n",
				tx.TypeLabel, tx.Amount.StringFixed(2), tx.BalanceAfterTransaction.StringFixed(2))
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "date logged (YYYY-MM-DD); defaults to now")

	return cmd
}

func parseRecordArgs(args []string, date string) (*dto.RecordTransactionRequest, error) {
	amount, err := decimal.NewFromString(args[1])
	if err != nil {
		return nil, fmt.Errorf("parsing amount %q: %w", args[1], err)
	}
	return &dto.RecordTransactionRequest{
		TransactionType: strings.ToUpper(args[0]),
		Amount:          amount,
		Description:     args[2],
		DateLogged:      date,
	}, nil
}
