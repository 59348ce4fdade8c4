package models

import (
	"time"
)

type AccountType string

const (
	AccountAsset     AccountType = "ASSET"
	AccountLiability AccountType = "LIABILITY"
	AccountRevenue   AccountType = "REVENUE"
	AccountExpense   AccountType = "EXPENSE"
	AccountEquity    AccountType = "EQUITY"
)

// Account is a node in the chart of accounts. Parent accounts are grouping
// labels only; balances live on the leaves.
type Account struct {
	ID        int         `gorm:"primaryKey;autoIncrement" json:"id"`
	Code      string      `gorm:"column:code;size:20;not null;uniqueIndex" json:"code"`
	Name      string      `gorm:"column:name;size:255;not null" json:"name"`
	Type      AccountType `gorm:"column:type;size:50;not null" json:"type"`
	ParentId  *int        `gorm:"column:parent_id" json:"parent_id"`
	IsParent  bool        `gorm:"column:is_parent;default:false" json:"is_parent"`
	Balance   float64     `gorm:"column:balance;type:decimal(20,2);default:0.00" json:"balance"`
	Currency  string      `gorm:"column:currency;size:10;not null" json:"currency"`
	CreatedAt time.Time   `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time   `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Account) TableName() string {
	return "accounts"
}

// DebitNormal reports whether the account balance grows on the debit side.
func (t AccountType) DebitNormal() bool {
	return t == AccountAsset || t == AccountExpense
}
