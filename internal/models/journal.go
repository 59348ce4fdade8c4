package models

import (
	"time"
)

// JournalEntry is a single financial event. Its Transaction lines must
// balance: sum of debits equals sum of credits.
type JournalEntry struct {
	ID          int       `gorm:"primaryKey;autoIncrement" json:"id"`
	Description string    `gorm:"column:description;type:text" json:"description"`
	Date        time.Time `gorm:"column:date;not null" json:"date"`
	BookingId   *int      `gorm:"column:booking_id;index:idx_journal_booking" json:"booking_id"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (JournalEntry) TableName() string {
	return "journal_entries"
}

// Transaction is one ledger line of a journal entry. Not to be confused
// with WalletTransaction, which belongs to the wallet log.
type Transaction struct {
	ID             int       `gorm:"primaryKey;autoIncrement" json:"id"`
	JournalEntryId int       `gorm:"column:journal_entry_id;not null;index:idx_trx_journal" json:"journal_entry_id"`
	AccountId      int       `gorm:"column:account_id;not null;index:idx_trx_account" json:"account_id"`
	Debit          float64   `gorm:"column:debit;type:decimal(20,2);default:0.00" json:"debit"`
	Credit         float64   `gorm:"column:credit;type:decimal(20,2);default:0.00" json:"credit"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Transaction) TableName() string {
	return "transactions"
}
