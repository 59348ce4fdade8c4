package main

import (
	"travel-backoffice/internal/config"
	"travel-backoffice/internal/database"
	"travel-backoffice/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", "error", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}

	logger.Info("Running database migrations")
	if err := database.Migrate(db); err != nil {
		logger.Fatal("Migration failed", "error", err)
	}
	if err := database.SeedChartOfAccounts(db, "IRR"); err != nil {
		logger.Fatal("Chart of accounts seed failed", "error", err)
	}

	logger.Info("Migrations completed successfully")
}
