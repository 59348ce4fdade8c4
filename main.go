package main

import (
	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"

	"travel-backoffice/internal/config"
	"travel-backoffice/internal/database"
	"travel-backoffice/internal/handlers"
	"travel-backoffice/internal/services"
	"travel-backoffice/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", "error", err)
	}

	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	if err := database.Migrate(db); err != nil {
		logger.Fatal("Failed to run migrations", "error", err)
	}
	if err := database.SeedChartOfAccounts(db, "IRR"); err != nil {
		logger.Fatal("Failed to seed chart of accounts", "error", err)
	}

	// Redis/Asynq client for the reconciliation queue
	asynqClient := asynq.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer asynqClient.Close()

	// Services
	fundService := services.NewFundService(db)
	flightService := services.NewFlightService(db)
	commissionService := services.NewCommissionService(db)
	accountingService := services.NewAccountingService(db)
	providerGateway := services.NewProviderGateway(cfg)
	bookingService := services.NewBookingService(db, fundService, flightService, commissionService, accountingService, providerGateway, asynqClient)

	// Handlers
	walletHandler := handlers.NewWalletHandler(fundService)
	bookingHandler := handlers.NewBookingHandler(bookingService)
	accountingHandler := handlers.NewAccountingHandler(accountingService)

	r := gin.Default()

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "Travel back-office service",
		})
	})

	// Wallet Routes
	r.POST("/wallets/deposit", walletHandler.Deposit)
	r.POST("/wallets/block", walletHandler.BlockFunds)
	r.POST("/wallets/unblock", walletHandler.UnblockFunds)
	r.POST("/wallets/confirm-payment", walletHandler.ConfirmPayment)
	r.GET("/wallets/balance", walletHandler.GetBalance)
	r.GET("/wallets/transactions", walletHandler.GetTransactions)

	// Booking Routes
	r.POST("/bookings", bookingHandler.CreateBooking)
	r.GET("/bookings/:id", bookingHandler.GetBooking)
	r.POST("/bookings/:id/confirm", bookingHandler.ConfirmBooking)
	r.POST("/bookings/:id/reject", bookingHandler.RejectBooking)
	r.POST("/bookings/:id/cancel", bookingHandler.CancelBooking)

	// Accounting Routes
	r.GET("/accounting/trial-balance", accountingHandler.TrialBalance)
	r.GET("/accounting/profit-loss", accountingHandler.ProfitAndLoss)
	r.GET("/accounting/balance-sheet", accountingHandler.BalanceSheet)
	r.GET("/accounting/accounts/:id/ledger", accountingHandler.AccountLedger)

	// Nightly reconciliation sweeps
	reconciliationService := services.NewReconciliationService(db, asynqClient)
	reconciliationService.StartScheduler()

	logger.Info("HTTP server starting", "port", cfg.HttpPort)
	if err := r.Run(":" + cfg.HttpPort); err != nil {
		logger.Fatal("Failed to start server", "error", err)
	}
}
