package main

import (
	"github.com/hibiken/asynq"

	"travel-backoffice/internal/config"
	"travel-backoffice/internal/consumers"
	"travel-backoffice/internal/database"
	"travel-backoffice/internal/services"
	"travel-backoffice/internal/worker"
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

	fundService := services.NewFundService(db)
	commissionService := services.NewCommissionService(db)
	accountingService := services.NewAccountingService(db)
	processor := consumers.NewLedgerProcessor(db, fundService, commissionService, accountingService)

	redisOpt := asynq.RedisClientOpt{Addr: cfg.RedisAddr}

	logger.Info("Starting asynq worker", "redis", cfg.RedisAddr)
	worker.StartWorker(redisOpt, processor)
}
