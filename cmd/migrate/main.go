package main

import (
	"flag"
	"log"
	"os"

	"expense-log-be/internal/config"
	"expense-log-be/internal/model"
	"expense-log-be/migrations"
	"expense-log-be/pkg/database"

	"github.com/fatih/color"
)

func main() {
	down := flag.Bool("down", false, "revert the last versioned migration instead of migrating up")
	flag.Parse()

	cfg := config.Load()
	if cfg.Database.Connection == "" {
		color.Red("Error: DB_CONNECTION_STRING is not set")
		os.Exit(1)
	}

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection, database.PoolConfig{MaxOpenConns: 1}, true)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal("Error: Failed to get sql.DB:", err)
	}

	if *down {
		color.Yellow("Reverting last versioned migration...")
		if err := migrations.Down(sqlDB); err != nil {
			color.Red("Error: %v", err)
			os.Exit(1)
		}
		color.Green("Done.")
		return
	}

	color.Cyan("Step 1: Setting up extensions...")
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto;`).Error; err != nil {
		color.Yellow("Warn: Failed to create pgcrypto extension: %v. Continuing...", err)
	}

	color.Cyan("Step 2: Running AutoMigrate...")
	models := []interface{}{
		&model.BankAccount{},
		&model.BankTransaction{},
		&model.MonthlySalary{},
		&model.Expense{},
	}
	if err := db.AutoMigrate(models...); err != nil {
		color.Red("Error: AutoMigrate failed: %v", err)
		os.Exit(1)
	}

	color.Cyan("Step 3: Applying versioned constraints...")
	if err := migrations.Up(sqlDB); err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}

	color.Green("Migration complete: %d tables ready.", len(models))
}
