package services

import (
	"errors"
	"fmt"
	"math"
	"time"

	"gorm.io/gorm"

	"travel-backoffice/internal/models"
	"travel-backoffice/pkg/common"
)

// Leaf account codes used by booking postings. The chart itself is seeded
// by the migrate command; these roots never change.
const (
	AcctCash            = "1001"
	AcctSupplierPayable = "2002"
	AcctTicketSales     = "4001"
	AcctTicketCost      = "5001"
)

// AccountingService posts balanced double-entry journal entries and serves
// the read-side reports derived from them.
type AccountingService struct {
	DB *gorm.DB
}

func NewAccountingService(db *gorm.DB) *AccountingService {
	return &AccountingService{DB: db}
}

type journalLine struct {
	AccountCode string
	Debit       float64
	Credit      float64
}

// CreateAccountingEntries records the financial side-effect of one booking:
// a sale pair (cash against ticket revenue) and, when the flight carries a
// supplier cost, a cost pair (ticket cost against supplier payable) on the
// same entry.
func (s *AccountingService) CreateAccountingEntries(bookingId int, amount float64, userId int) (models.JournalEntry, error) {
	var booking models.Booking
	if err := s.DB.First(&booking, bookingId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.JournalEntry{}, &BookingNotFoundError{BookingId: bookingId}
		}
		return models.JournalEntry{}, err
	}

	var flight models.Flight
	if err := s.DB.First(&flight, booking.FlightId).Error; err != nil {
		return models.JournalEntry{}, err
	}

	lines := []journalLine{
		{AccountCode: AcctCash, Debit: amount},
		{AccountCode: AcctTicketSales, Credit: amount},
	}
	if flight.SupplierCost > 0 {
		var paxCount int64
		if err := s.DB.Model(&models.Passenger{}).Where("booking_id = ?", bookingId).Count(&paxCount).Error; err != nil {
			return models.JournalEntry{}, err
		}
		if paxCount == 0 {
			paxCount = 1
		}
		cost := flight.SupplierCost * float64(paxCount)
		lines = append(lines,
			journalLine{AccountCode: AcctTicketCost, Debit: cost},
			journalLine{AccountCode: AcctSupplierPayable, Credit: cost},
		)
	}

	description := fmt.Sprintf("ticket sale, booking %s for user %d", booking.ConfirmationCode, userId)
	return s.postEntry(description, &bookingId, lines)
}

// postEntry writes one balanced journal entry and applies each line to its
// account balance by the account type's natural sign.
func (s *AccountingService) postEntry(description string, bookingId *int, lines []journalLine) (models.JournalEntry, error) {
	var debits, credits float64
	for _, l := range lines {
		debits += l.Debit
		credits += l.Credit
	}
	if math.Abs(debits-credits) > 0.001 {
		return models.JournalEntry{}, &UnbalancedJournalError{Debits: debits, Credits: credits}
	}

	var entry models.JournalEntry
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		entry = models.JournalEntry{
			Description: description,
			Date:        time.Now(),
			BookingId:   bookingId,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}

		for _, l := range lines {
			var acct models.Account
			if err := tx.Where("code = ? AND is_parent = ?", l.AccountCode, false).First(&acct).Error; err != nil {
				return fmt.Errorf("leaf account %s: %w", l.AccountCode, err)
			}

			line := models.Transaction{
				JournalEntryId: entry.ID,
				AccountId:      acct.ID,
				Debit:          l.Debit,
				Credit:         l.Credit,
			}
			if err := tx.Create(&line).Error; err != nil {
				return err
			}

			delta := l.Debit - l.Credit
			if !acct.Type.DebitNormal() {
				delta = l.Credit - l.Debit
			}
			if err := tx.Model(&models.Account{}).Where("id = ?", acct.ID).
				UpdateColumn("balance", gorm.Expr("balance + ?", delta)).Error; err != nil {
				return err
			}
		}
		return nil
	})
	return entry, err
}

// EntryExistsForBooking is the reconciliation guard: a booking with a
// journal entry is never posted twice.
func (s *AccountingService) EntryExistsForBooking(bookingId int) (bool, error) {
	var count int64
	err := s.DB.Model(&models.JournalEntry{}).Where("booking_id = ?", bookingId).Count(&count).Error
	return count > 0, err
}

type TrialBalanceRow struct {
	AccountCode string  `json:"account_code"`
	AccountName string  `json:"account_name"`
	Debit       float64 `json:"debit"`
	Credit      float64 `json:"credit"`
}

type TrialBalanceReport struct {
	Rows        []TrialBalanceRow `json:"rows"`
	TotalDebit  float64           `json:"total_debit"`
	TotalCredit float64           `json:"total_credit"`
}

// TrialBalance aggregates posted lines per leaf account. Total debits must
// equal total credits for any period.
func (s *AccountingService) TrialBalance() (TrialBalanceReport, error) {
	var rows []TrialBalanceRow
	err := s.DB.Model(&models.Transaction{}).
		Select("accounts.code AS account_code, accounts.name AS account_name, COALESCE(SUM(transactions.debit), 0) AS debit, COALESCE(SUM(transactions.credit), 0) AS credit").
		Joins("JOIN accounts ON accounts.id = transactions.account_id").
		Group("accounts.code, accounts.name").
		Order("accounts.code").
		Scan(&rows).Error
	if err != nil {
		return TrialBalanceReport{}, err
	}

	report := TrialBalanceReport{Rows: rows}
	for _, r := range rows {
		report.TotalDebit += r.Debit
		report.TotalCredit += r.Credit
	}
	return report, nil
}

type ProfitAndLossReport struct {
	Revenue   []TrialBalanceRow `json:"revenue"`
	Expenses  []TrialBalanceRow `json:"expenses"`
	TotalRev  float64           `json:"total_revenue"`
	TotalExp  float64           `json:"total_expenses"`
	NetIncome float64           `json:"net_income"`
}

func (s *AccountingService) ProfitAndLoss(from, to time.Time) (ProfitAndLossReport, error) {
	var report ProfitAndLossReport

	query := func(acctType models.AccountType) ([]TrialBalanceRow, error) {
		var rows []TrialBalanceRow
		err := s.DB.Model(&models.Transaction{}).
			Select("accounts.code AS account_code, accounts.name AS account_name, COALESCE(SUM(transactions.debit), 0) AS debit, COALESCE(SUM(transactions.credit), 0) AS credit").
			Joins("JOIN accounts ON accounts.id = transactions.account_id").
			Joins("JOIN journal_entries ON journal_entries.id = transactions.journal_entry_id").
			Where("accounts.type = ? AND journal_entries.date >= ? AND journal_entries.date < ?", acctType, from, to).
			Group("accounts.code, accounts.name").
			Order("accounts.code").
			Scan(&rows).Error
		return rows, err
	}

	revenue, err := query(models.AccountRevenue)
	if err != nil {
		return report, err
	}
	expenses, err := query(models.AccountExpense)
	if err != nil {
		return report, err
	}

	report.Revenue = revenue
	report.Expenses = expenses
	for _, r := range revenue {
		report.TotalRev += r.Credit - r.Debit
	}
	for _, r := range expenses {
		report.TotalExp += r.Debit - r.Credit
	}
	report.NetIncome = report.TotalRev - report.TotalExp
	return report, nil
}

type BalanceSheetReport struct {
	Assets      []models.Account `json:"assets"`
	Liabilities []models.Account `json:"liabilities"`
	Equity      []models.Account `json:"equity"`
	TotalAssets float64          `json:"total_assets"`
	TotalLiab   float64          `json:"total_liabilities"`
	TotalEquity float64          `json:"total_equity"`
	NetIncome   float64          `json:"net_income"`
}

func (s *AccountingService) BalanceSheet() (BalanceSheetReport, error) {
	var report BalanceSheetReport

	leaves := func(acctType models.AccountType) ([]models.Account, float64, error) {
		var accounts []models.Account
		err := s.DB.Where("type = ? AND is_parent = ?", acctType, false).Order("code").Find(&accounts).Error
		var total float64
		for _, a := range accounts {
			total += a.Balance
		}
		return accounts, total, err
	}

	var err error
	if report.Assets, report.TotalAssets, err = leaves(models.AccountAsset); err != nil {
		return report, err
	}
	if report.Liabilities, report.TotalLiab, err = leaves(models.AccountLiability); err != nil {
		return report, err
	}
	if report.Equity, report.TotalEquity, err = leaves(models.AccountEquity); err != nil {
		return report, err
	}

	// undistributed revenue minus expenses closes into net income
	var revenue, expenses float64
	if err = s.DB.Model(&models.Account{}).Where("type = ? AND is_parent = ?", models.AccountRevenue, false).
		Select("COALESCE(SUM(balance), 0)").Scan(&revenue).Error; err != nil {
		return report, err
	}
	if err = s.DB.Model(&models.Account{}).Where("type = ? AND is_parent = ?", models.AccountExpense, false).
		Select("COALESCE(SUM(balance), 0)").Scan(&expenses).Error; err != nil {
		return report, err
	}
	report.NetIncome = revenue - expenses
	return report, nil
}

type LedgerLine struct {
	JournalEntryId int       `json:"journal_entry_id"`
	Description    string    `json:"description"`
	Date           time.Time `json:"date"`
	Debit          float64   `json:"debit"`
	Credit         float64   `json:"credit"`
}

// AccountLedger lists an account's posted lines, newest first.
func (s *AccountingService) AccountLedger(accountId, page, limit int) (common.PaginationResult, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if page < 1 {
		page = 1
	}

	base := s.DB.Model(&models.Transaction{}).Where("transactions.account_id = ?", accountId)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return common.PaginationResult{}, err
	}

	var lines []LedgerLine
	err := base.
		Select("transactions.journal_entry_id, journal_entries.description, journal_entries.date, transactions.debit, transactions.credit").
		Joins("JOIN journal_entries ON journal_entries.id = transactions.journal_entry_id").
		Order("journal_entries.date DESC, transactions.id DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Scan(&lines).Error
	if err != nil {
		return common.PaginationResult{}, err
	}

	return common.PaginateResponse(lines, total, page, limit, "ledger fetched"), nil
}
