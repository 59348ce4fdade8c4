package models

import (
	"time"
)

// Wallet holds settled funds for one user in one currency. Balance only
// moves on deposits and payment settlement; BlockedAmount is a cached
// aggregate of this wallet's PENDING BLOCK transactions.
type Wallet struct {
	ID            int       `gorm:"primaryKey;autoIncrement" json:"id"`
	UserId        int       `gorm:"column:user_id;not null;uniqueIndex:idx_wallet_user_currency" json:"user_id"`
	Currency      string    `gorm:"column:currency;size:10;not null;uniqueIndex:idx_wallet_user_currency" json:"currency"`
	Balance       float64   `gorm:"column:balance;type:decimal(20,2);default:0.00" json:"balance"`
	BlockedAmount float64   `gorm:"column:blocked_amount;type:decimal(20,2);default:0.00" json:"blocked_amount"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Wallet) TableName() string {
	return "wallets"
}

func (w Wallet) AvailableBalance() float64 {
	return w.Balance - w.BlockedAmount
}
