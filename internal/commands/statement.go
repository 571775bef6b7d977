package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"expense-log-be/internal/constant"
	"expense-log-be/internal/pkg/mailer"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newStatementCommand() *cobra.Command {
	var month string
	var outDir string
	var mailTo string

	cmd := &cobra.Command{
		Use:   "statement",
		Short: "Write or mail a month's PDF statement",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := openLedger()
			if err != nil {
				return err
			}

			target := time.Now().In(l.location)
			if month != "" {
				target, err = time.ParseInLocation(constant.MonthLayout, month, l.location)
				if err != nil {
					return fmt.Errorf("parsing --month: %w", err)
				}
			}

			pdf, filename, err := l.statement.MonthlyStatement(cmd.Context(), target)
			if err != nil {
				return err
			}

			if mailTo != "" {
				if l.smtp.Host == "" {
					return fmt.Errorf("SMTP_HOST is not set")
				}
				sender := fmt.Sprintf("%s <%s>", l.smtp.SenderName, l.smtp.Email)
				mail := mailer.NewEmailService(l.smtp.Host, l.smtp.Port, l.smtp.Email, l.smtp.Password, sender, l.logger)
				if err := mail.SendStatement(mailTo, target, filename, pdf); err != nil {
					return err
				}
				color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "Mailed %s to %s\n", filename, mailTo)
				return nil
			}

			path := filepath.Join(outDir, filename)
			if err := os.WriteFile(path, pdf, 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", path, err)
			}
			color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}

	cmd.Flags().StringVar(&month, "month", "", "month to export (YYYY-MM); defaults to the current month")
	cmd.Flags().StringVar(&outDir, "out", ".", "output directory")
	cmd.Flags().StringVar(&mailTo, "mail-to", "", "email the statement instead of writing it")

	return cmd
}
