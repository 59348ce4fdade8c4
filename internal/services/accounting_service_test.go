package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travel-backoffice/internal/models"
	"travel-backoffice/pkg/common"
)

func accountByCode(t *testing.T, svc *AccountingService, code string) models.Account {
	t.Helper()
	var acct models.Account
	require.NoError(t, svc.DB.Where("code = ? AND is_parent = ?", code, false).First(&acct).Error)
	return acct
}

func seedBookingForAccounting(t *testing.T, svc *AccountingService, supplierCost float64) models.Booking {
	t.Helper()
	flight := seedFlight(t, svc.DB, models.Flight{Fare: 900_000, Taxes: 80_000, Fees: 20_000, SupplierCost: supplierCost})
	booking := models.Booking{
		UserId:              1,
		TenantId:            1,
		FlightId:            flight.ID,
		TotalPrice:          1_000_000,
		Status:              models.BookingConfirmed,
		Source:              models.SourceManual,
		WalletTransactionId: 1,
		ConfirmationCode:    common.GenerateReference(),
	}
	require.NoError(t, svc.DB.Create(&booking).Error)
	pax := models.Passenger{BookingId: booking.ID, FirstName: "Sara", LastName: "Mohammadi", DocumentNo: "0012345678"}
	require.NoError(t, svc.DB.Create(&pax).Error)
	return booking
}

func TestCreateAccountingEntriesSalePair(t *testing.T) {
	db := setupTestDB(t)
	seedAccounts(t, db)
	svc := NewAccountingService(db)
	booking := seedBookingForAccounting(t, svc, 0)

	entry, err := svc.CreateAccountingEntries(booking.ID, 1_000_000, booking.UserId)
	require.NoError(t, err)
	require.NotNil(t, entry.BookingId)
	assert.Equal(t, booking.ID, *entry.BookingId)

	var lines []models.Transaction
	require.NoError(t, db.Where("journal_entry_id = ?", entry.ID).Find(&lines).Error)
	require.Len(t, lines, 2)

	var debits, credits float64
	for _, l := range lines {
		debits += l.Debit
		credits += l.Credit
	}
	assert.Equal(t, debits, credits)

	// cash grows on the debit side, revenue on the credit side
	assert.Equal(t, 1_000_000.0, accountByCode(t, svc, AcctCash).Balance)
	assert.Equal(t, 1_000_000.0, accountByCode(t, svc, AcctTicketSales).Balance)
}

func TestCreateAccountingEntriesWithSupplierCost(t *testing.T) {
	db := setupTestDB(t)
	seedAccounts(t, db)
	svc := NewAccountingService(db)
	booking := seedBookingForAccounting(t, svc, 700_000)

	entry, err := svc.CreateAccountingEntries(booking.ID, 1_000_000, booking.UserId)
	require.NoError(t, err)

	var lines []models.Transaction
	require.NoError(t, db.Where("journal_entry_id = ?", entry.ID).Find(&lines).Error)
	require.Len(t, lines, 4)

	assert.Equal(t, 1_000_000.0, accountByCode(t, svc, AcctCash).Balance)
	assert.Equal(t, 1_000_000.0, accountByCode(t, svc, AcctTicketSales).Balance)
	assert.Equal(t, 700_000.0, accountByCode(t, svc, AcctTicketCost).Balance)
	assert.Equal(t, 700_000.0, accountByCode(t, svc, AcctSupplierPayable).Balance)
}

func TestCreateAccountingEntriesMissingBooking(t *testing.T) {
	db := setupTestDB(t)
	seedAccounts(t, db)
	svc := NewAccountingService(db)

	_, err := svc.CreateAccountingEntries(404, 1000, 1)
	var notFound *BookingNotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestPostEntryRejectsUnbalancedLines(t *testing.T) {
	db := setupTestDB(t)
	seedAccounts(t, db)
	svc := NewAccountingService(db)

	_, err := svc.postEntry("broken entry", nil, []journalLine{
		{AccountCode: AcctCash, Debit: 1000},
		{AccountCode: AcctTicketSales, Credit: 900},
	})
	var unbalanced *UnbalancedJournalError
	require.ErrorAs(t, err, &unbalanced)
	assert.Equal(t, 1000.0, unbalanced.Debits)
	assert.Equal(t, 900.0, unbalanced.Credits)

	// nothing may be written for a rejected entry
	var count int64
	db.Model(&models.JournalEntry{}).Count(&count)
	assert.EqualValues(t, 0, count)
}

func TestEntryExistsForBooking(t *testing.T) {
	db := setupTestDB(t)
	seedAccounts(t, db)
	svc := NewAccountingService(db)
	booking := seedBookingForAccounting(t, svc, 0)

	exists, err := svc.EntryExistsForBooking(booking.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = svc.CreateAccountingEntries(booking.ID, 1_000_000, booking.UserId)
	require.NoError(t, err)

	exists, err = svc.EntryExistsForBooking(booking.ID)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestTrialBalanceBalances(t *testing.T) {
	db := setupTestDB(t)
	seedAccounts(t, db)
	svc := NewAccountingService(db)
	booking := seedBookingForAccounting(t, svc, 700_000)

	_, err := svc.CreateAccountingEntries(booking.ID, 1_000_000, booking.UserId)
	require.NoError(t, err)

	report, err := svc.TrialBalance()
	require.NoError(t, err)
	assert.Equal(t, report.TotalDebit, report.TotalCredit)
	assert.Equal(t, 1_700_000.0, report.TotalDebit)
	assert.Len(t, report.Rows, 4)
}

func TestProfitAndLoss(t *testing.T) {
	db := setupTestDB(t)
	seedAccounts(t, db)
	svc := NewAccountingService(db)
	booking := seedBookingForAccounting(t, svc, 700_000)

	_, err := svc.CreateAccountingEntries(booking.ID, 1_000_000, booking.UserId)
	require.NoError(t, err)

	now := time.Now()
	report, err := svc.ProfitAndLoss(now.Add(-time.Hour), now.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1_000_000.0, report.TotalRev)
	assert.Equal(t, 700_000.0, report.TotalExp)
	assert.Equal(t, 300_000.0, report.NetIncome)

	// a window before the posting sees nothing
	empty, err := svc.ProfitAndLoss(now.Add(-48*time.Hour), now.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 0.0, empty.TotalRev)
	assert.Equal(t, 0.0, empty.TotalExp)
}

func TestBalanceSheet(t *testing.T) {
	db := setupTestDB(t)
	seedAccounts(t, db)
	svc := NewAccountingService(db)
	booking := seedBookingForAccounting(t, svc, 700_000)

	_, err := svc.CreateAccountingEntries(booking.ID, 1_000_000, booking.UserId)
	require.NoError(t, err)

	report, err := svc.BalanceSheet()
	require.NoError(t, err)
	assert.Equal(t, 1_000_000.0, report.TotalAssets)
	assert.Equal(t, 700_000.0, report.TotalLiab)
	assert.Equal(t, 300_000.0, report.NetIncome)
	// assets = liabilities + equity + net income
	assert.Equal(t, report.TotalAssets, report.TotalLiab+report.TotalEquity+report.NetIncome)
}

func TestAccountLedgerPagination(t *testing.T) {
	db := setupTestDB(t)
	seedAccounts(t, db)
	svc := NewAccountingService(db)

	for i := 0; i < 3; i++ {
		booking := seedBookingForAccounting(t, svc, 0)
		_, err := svc.CreateAccountingEntries(booking.ID, 1_000_000, booking.UserId)
		require.NoError(t, err)
	}

	cash := accountByCode(t, svc, AcctCash)
	result, err := svc.AccountLedger(cash.ID, 1, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 3, result.Count)
	assert.Equal(t, 2, result.LastPage)
	lines := result.Data.([]LedgerLine)
	assert.Len(t, lines, 2)
}
