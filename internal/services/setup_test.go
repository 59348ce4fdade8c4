package services

import (
	"fmt"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"travel-backoffice/internal/database"
	"travel-backoffice/internal/models"
)

// setupTestDB opens a fresh in-memory sqlite database per test. The shared
// cache keeps gorm's pooled connections on the same database.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

func seedWallet(t *testing.T, db *gorm.DB, userId int, balance float64) models.Wallet {
	t.Helper()
	wallet := models.Wallet{UserId: userId, Currency: "IRR", Balance: balance}
	if err := db.Create(&wallet).Error; err != nil {
		t.Fatalf("failed to seed wallet: %v", err)
	}
	return wallet
}

func seedFlight(t *testing.T, db *gorm.DB, flight models.Flight) models.Flight {
	t.Helper()
	if flight.Airline == "" {
		flight.Airline = "Iran Air"
	}
	if flight.FlightNo == "" {
		flight.FlightNo = "IR-452"
	}
	if flight.Origin == "" {
		flight.Origin = "THR"
	}
	if flight.Destination == "" {
		flight.Destination = "MHD"
	}
	if flight.Capacity == 0 {
		flight.Capacity = 100
	}
	if flight.Status == "" {
		flight.Status = models.FlightBookable
	}
	if flight.Source == "" {
		flight.Source = models.SourceManual
	}
	if err := db.Create(&flight).Error; err != nil {
		t.Fatalf("failed to seed flight: %v", err)
	}
	return flight
}

func seedTenant(t *testing.T, db *gorm.DB, tenant models.Tenant) models.Tenant {
	t.Helper()
	if tenant.Name == "" {
		tenant.Name = "test agency"
	}
	if tenant.CommissionType == "" {
		tenant.CommissionType = models.CommissionPercentage
	}
	if tenant.ParentCommissionType == "" {
		tenant.ParentCommissionType = models.CommissionPercentage
	}
	if tenant.PricingType == "" {
		tenant.PricingType = models.PricingGross
	}
	if err := db.Create(&tenant).Error; err != nil {
		t.Fatalf("failed to seed tenant: %v", err)
	}
	return tenant
}

func seedAccounts(t *testing.T, db *gorm.DB) {
	t.Helper()
	if err := database.SeedChartOfAccounts(db, "IRR"); err != nil {
		t.Fatalf("failed to seed chart of accounts: %v", err)
	}
}
