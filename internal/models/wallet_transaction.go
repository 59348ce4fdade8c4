package models

import (
	"time"
)

type WalletTrxType string

const (
	TrxBlock          WalletTrxType = "BLOCK"
	TrxUnblock        WalletTrxType = "UNBLOCK"
	TrxPayment        WalletTrxType = "PAYMENT"
	TrxDeposit        WalletTrxType = "DEPOSIT"
	TrxCredit         WalletTrxType = "CREDIT"
	TrxBookingPayment WalletTrxType = "BOOKING_PAYMENT"
)

type WalletTrxStatus string

const (
	TrxPending   WalletTrxStatus = "PENDING"
	TrxCompleted WalletTrxStatus = "COMPLETED"
	TrxCancelled WalletTrxStatus = "CANCELLED"
)

// WalletTransaction is an append-only log row. Only the status column of a
// PENDING BLOCK row ever changes after insert.
type WalletTransaction struct {
	ID               int             `gorm:"primaryKey;autoIncrement" json:"id"`
	WalletId         int             `gorm:"column:wallet_id;not null;index:idx_wtrx_wallet" json:"wallet_id"`
	UserId           int             `gorm:"column:user_id;not null;index:idx_wtrx_user" json:"user_id"`
	Type             WalletTrxType   `gorm:"column:type;size:50;not null" json:"type"`
	Status           WalletTrxStatus `gorm:"column:status;size:50;not null;default:PENDING" json:"status"`
	Amount           float64         `gorm:"column:amount;type:decimal(20,2);not null" json:"amount"`
	Currency         string          `gorm:"column:currency;size:10;not null" json:"currency"`
	Description      string          `gorm:"column:description;type:text" json:"description"`
	Metadata         string          `gorm:"column:metadata;type:text" json:"metadata"`
	RelatedBookingId *int            `gorm:"column:related_booking_id" json:"related_booking_id"`
	CreatedAt        time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (WalletTransaction) TableName() string {
	return "wallet_transactions"
}
