package commands

import (
	"time"

	"expense-log-be/internal/config"
	"expense-log-be/internal/pkg/logger"
	"expense-log-be/internal/repository/memory"
	"expense-log-be/internal/repository/unitofwork"
	"expense-log-be/internal/service"
	"expense-log-be/pkg/database"

	"github.com/spf13/cobra"
)

// NewRootCommand creates the ledgerctl command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "ledgerctl",
		Short: "Operate the expense log from the shell",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newBalanceCommand())
	rootCmd.AddCommand(newRecordCommand())
	rootCmd.AddCommand(newStatementCommand())
	rootCmd.AddCommand(newHashPasswordCommand())

	return rootCmd
}

type ledger struct {
	bankLog   service.IBankLogService
	statement service.IStatementService
	location  *time.Location
	smtp      config.SMTPConfig
	logger    logger.ILogger
}

// openLedger connects to the configured database. Commands run outside the
// server, so no events are published.
func openLedger() (*ledger, error) {
	cfg := config.Load()
	db, err := database.NewGormDBFromDSN(cfg.Database.Connection, database.PoolConfig{MaxOpenConns: 2}, false)
	if err != nil {
		return nil, err
	}

	log := logger.NewNopLogger()
	uowFactory := unitofwork.NewRepositoryFactory(db)
	return &ledger{
		bankLog:   service.NewBankLogService(uowFactory, nil, memory.NewDateCache(time.Minute), cfg.Location(), log),
		statement: service.NewStatementService(uowFactory, log),
		location:  cfg.Location(),
		smtp:      cfg.SMTP,
		logger:    log,
	}, nil
}
