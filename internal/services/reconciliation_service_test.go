package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travel-backoffice/internal/models"
	"travel-backoffice/pkg/common"
)

func seedSweepBooking(t *testing.T, svc *ReconciliationService, source models.BookingSource, status models.BookingStatus) models.Booking {
	t.Helper()
	booking := models.Booking{
		UserId:              1,
		TenantId:            1,
		FlightId:            1,
		TotalPrice:          500_000,
		Status:              status,
		Source:              source,
		WalletTransactionId: 1,
		ConfirmationCode:    common.GenerateReference(),
	}
	require.NoError(t, svc.DB.Create(&booking).Error)
	return booking
}

func TestFindMissingEntries(t *testing.T) {
	db := setupTestDB(t)
	svc := NewReconciliationService(db, nil)

	// manual bookings owe an entry from creation on
	manualPending := seedSweepBooking(t, svc, models.SourceManual, models.BookingPending)
	manualCancelled := seedSweepBooking(t, svc, models.SourceManual, models.BookingCancelled)

	// external bookings only owe one once settled
	externalPending := seedSweepBooking(t, svc, models.SourceSepehr, models.BookingPending)
	externalCompleted := seedSweepBooking(t, svc, models.SourceSepehr, models.BookingCompleted)

	// an already-posted manual booking is not owed again
	manualPosted := seedSweepBooking(t, svc, models.SourceManual, models.BookingCompleted)
	entry := models.JournalEntry{Description: "posted", Date: time.Now(), BookingId: &manualPosted.ID}
	require.NoError(t, db.Create(&entry).Error)

	missing, err := svc.findMissingEntries()
	require.NoError(t, err)

	ids := make([]int, 0, len(missing))
	for _, b := range missing {
		ids = append(ids, b.ID)
	}
	assert.ElementsMatch(t, []int{manualPending.ID, externalCompleted.ID}, ids)
	assert.NotContains(t, ids, manualCancelled.ID)
	assert.NotContains(t, ids, externalPending.ID)
	assert.NotContains(t, ids, manualPosted.ID)
}

func seedCommission(t *testing.T, svc *ReconciliationService, bookingId int, status models.CommissionStatus) {
	t.Helper()
	ct := models.CommissionTransaction{
		TenantId: 1, BookingId: bookingId, TotalAmount: 500_000,
		AgentAmount: 25_000, ParentAmount: 10_000, Status: status,
	}
	require.NoError(t, svc.DB.Create(&ct).Error)
}

func TestFindStuckCommissions(t *testing.T) {
	db := setupTestDB(t)
	svc := NewReconciliationService(db, nil)

	// terminal bookings whose commission never left PENDING
	completed := seedSweepBooking(t, svc, models.SourceManual, models.BookingCompleted)
	seedCommission(t, svc, completed.ID, models.CommissionPending)
	rejected := seedSweepBooking(t, svc, models.SourceManual, models.BookingRejected)
	seedCommission(t, svc, rejected.ID, models.CommissionPending)

	// open bookings legitimately keep a PENDING commission
	pending := seedSweepBooking(t, svc, models.SourceManual, models.BookingPending)
	seedCommission(t, svc, pending.ID, models.CommissionPending)
	suspended := seedSweepBooking(t, svc, models.SourceSepehr, models.BookingSuspended)
	seedCommission(t, svc, suspended.ID, models.CommissionPending)

	// already-settled commissions are done
	settled := seedSweepBooking(t, svc, models.SourceManual, models.BookingCompleted)
	seedCommission(t, svc, settled.ID, models.CommissionPaid)

	rows, err := svc.findStuckCommissions()
	require.NoError(t, err)
	require.Len(t, rows, 2)

	byBooking := map[int]models.BookingStatus{}
	for _, r := range rows {
		byBooking[r.BookingId] = r.BookingStatus
	}
	assert.Equal(t, models.BookingCompleted, byBooking[completed.ID])
	assert.Equal(t, models.BookingRejected, byBooking[rejected.ID])
	assert.NotContains(t, byBooking, pending.ID)
	assert.NotContains(t, byBooking, suspended.ID)
	assert.NotContains(t, byBooking, settled.ID)
}

func TestFindDriftedWallets(t *testing.T) {
	db := setupTestDB(t)
	funds := NewFundService(db)
	svc := NewReconciliationService(db, nil)

	healthy := seedWallet(t, db, 1, 1_000_000)
	_, err := funds.BlockFunds(1, "IRR", 300_000, "reservation", "BK0001")
	require.NoError(t, err)

	drifting := seedWallet(t, db, 2, 1_000_000)
	require.NoError(t, db.Model(&models.Wallet{}).Where("id = ?", drifting.ID).
		UpdateColumn("blocked_amount", 123_456).Error)

	ids, err := svc.findDriftedWallets()
	require.NoError(t, err)
	assert.Equal(t, []int{drifting.ID}, ids)
	assert.NotContains(t, ids, healthy.ID)
}
