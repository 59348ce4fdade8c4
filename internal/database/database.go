package database

import (
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"travel-backoffice/internal/config"
	"travel-backoffice/internal/models"
)

func Connect(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.DbUser,
		cfg.DbPassword,
		cfg.DbHost,
		cfg.DbPort,
		cfg.DbName,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	return db, nil
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Wallet{},
		&models.WalletTransaction{},
		&models.Flight{},
		&models.Booking{},
		&models.Passenger{},
		&models.Ticket{},
		&models.Account{},
		&models.JournalEntry{},
		&models.Transaction{},
		&models.Tenant{},
		&models.CommissionTransaction{},
	)
}

// chart of accounts seeded at startup; root categories are invariant.
var chartOfAccounts = []struct {
	Code     string
	Name     string
	Type     models.AccountType
	Parent   string
	IsParent bool
}{
	{Code: "1000", Name: "Assets", Type: models.AccountAsset, IsParent: true},
	{Code: "1001", Name: "Cash", Type: models.AccountAsset, Parent: "1000"},
	{Code: "1002", Name: "Receivables", Type: models.AccountAsset, Parent: "1000"},
	{Code: "2000", Name: "Liabilities", Type: models.AccountLiability, IsParent: true},
	{Code: "2001", Name: "Customer Liability", Type: models.AccountLiability, Parent: "2000"},
	{Code: "2002", Name: "Supplier Payable", Type: models.AccountLiability, Parent: "2000"},
	{Code: "3000", Name: "Equity", Type: models.AccountEquity, IsParent: true},
	{Code: "3001", Name: "Retained Earnings", Type: models.AccountEquity, Parent: "3000"},
	{Code: "4000", Name: "Revenue", Type: models.AccountRevenue, IsParent: true},
	{Code: "4001", Name: "Ticket Sales", Type: models.AccountRevenue, Parent: "4000"},
	{Code: "5000", Name: "Expenses", Type: models.AccountExpense, IsParent: true},
	{Code: "5001", Name: "Ticket Cost", Type: models.AccountExpense, Parent: "5000"},
}

// SeedChartOfAccounts inserts any missing accounts. Existing rows are left
// untouched so re-running migrations never resets balances.
func SeedChartOfAccounts(db *gorm.DB, currency string) error {
	ids := map[string]int{}

	for _, a := range chartOfAccounts {
		var acct models.Account
		err := db.Where("code = ?", a.Code).First(&acct).Error
		if err == nil {
			ids[a.Code] = acct.ID
			continue
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}

		acct = models.Account{
			Code:     a.Code,
			Name:     a.Name,
			Type:     a.Type,
			IsParent: a.IsParent,
			Currency: currency,
		}
		if a.Parent != "" {
			parentId := ids[a.Parent]
			acct.ParentId = &parentId
		}
		if err := db.Create(&acct).Error; err != nil {
			return err
		}
		ids[a.Code] = acct.ID
	}
	return nil
}
