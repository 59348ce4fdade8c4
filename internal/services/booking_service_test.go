package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"travel-backoffice/internal/models"
)

type stubProvider struct {
	booking   ProviderBooking
	err       error
	cancelled []string
}

func (s *stubProvider) BookFlight(ctx context.Context, flight models.Flight, passengers []models.Passenger, contact ContactInfo) (ProviderBooking, error) {
	return s.booking, s.err
}

func (s *stubProvider) CancelBooking(ctx context.Context, externalBookingId string) error {
	s.cancelled = append(s.cancelled, externalBookingId)
	return nil
}

type bookingHarness struct {
	db       *gorm.DB
	bookings *BookingService
	provider *stubProvider
	tenant   models.Tenant
}

func newBookingHarness(t *testing.T) *bookingHarness {
	t.Helper()

	db := setupTestDB(t)
	seedAccounts(t, db)

	funds := NewFundService(db)
	flights := NewFlightService(db)
	commissions := NewCommissionService(db)
	accounting := NewAccountingService(db)

	provider := &stubProvider{booking: ProviderBooking{ExternalBookingId: "EXT-1", Pnr: "PNR123"}}
	gateway := NewStubGateway(map[models.BookingSource]ProviderClient{
		models.SourceSepehr: provider,
	}, time.Second)

	tenant := seedTenant(t, db, models.Tenant{
		CommissionRate:       5,
		ParentCommissionRate: 2,
		PricingType:          models.PricingGross,
	})

	return &bookingHarness{
		db:       db,
		bookings: NewBookingService(db, funds, flights, commissions, accounting, gateway, nil),
		provider: provider,
		tenant:   tenant,
	}
}

func (h *bookingHarness) createRequest(flightId int, paxCount int) CreateBookingRequest {
	passengers := make([]PassengerInput, 0, paxCount)
	for i := 0; i < paxCount; i++ {
		passengers = append(passengers, PassengerInput{
			FirstName:  "Ali",
			LastName:   "Rezaei",
			DocumentNo: "0011223344",
		})
	}
	return CreateBookingRequest{
		UserId:     1,
		TenantId:   h.tenant.ID,
		FlightId:   flightId,
		Currency:   "IRR",
		Passengers: passengers,
		Contact:    ContactInfo{Email: "ali@example.com", Phone: "+989120000000"},
	}
}

func TestCreateManualBooking(t *testing.T) {
	h := newBookingHarness(t)
	seedWallet(t, h.db, 1, 2_000_000)
	flight := seedFlight(t, h.db, models.Flight{Fare: 450_000, Taxes: 40_000, Fees: 10_000})

	booking, err := h.bookings.CreateBooking(context.Background(), h.createRequest(flight.ID, 2))
	require.NoError(t, err)
	assert.Equal(t, models.BookingPending, booking.Status)
	assert.Equal(t, 1_000_000.0, booking.TotalPrice)
	assert.NotEmpty(t, booking.ConfirmationCode)

	// the price is reserved, not spent
	var wallet models.Wallet
	require.NoError(t, h.db.Where("user_id = ?", 1).First(&wallet).Error)
	assert.Equal(t, 2_000_000.0, wallet.Balance)
	assert.Equal(t, 1_000_000.0, wallet.BlockedAmount)

	var updated models.Flight
	require.NoError(t, h.db.First(&updated, flight.ID).Error)
	assert.Equal(t, 2, updated.BookedSeats)

	var block models.WalletTransaction
	require.NoError(t, h.db.First(&block, booking.WalletTransactionId).Error)
	require.NotNil(t, block.RelatedBookingId)
	assert.Equal(t, booking.ID, *block.RelatedBookingId)

	var commission models.CommissionTransaction
	require.NoError(t, h.db.Where("booking_id = ?", booking.ID).First(&commission).Error)
	assert.Equal(t, models.CommissionPending, commission.Status)
	assert.Equal(t, 50_000.0, commission.AgentAmount)

	// self-serviced sales are posted to the journal immediately
	exists, err := h.bookings.Accounting.EntryExistsForBooking(booking.ID)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestCreateBookingInsufficientFunds(t *testing.T) {
	h := newBookingHarness(t)
	seedWallet(t, h.db, 1, 100_000)
	flight := seedFlight(t, h.db, models.Flight{Fare: 500_000})

	_, err := h.bookings.CreateBooking(context.Background(), h.createRequest(flight.ID, 1))
	var insufficient *InsufficientBalanceError
	require.ErrorAs(t, err, &insufficient)

	var count int64
	h.db.Model(&models.Booking{}).Count(&count)
	assert.EqualValues(t, 0, count)

	var updated models.Flight
	require.NoError(t, h.db.First(&updated, flight.ID).Error)
	assert.Equal(t, 0, updated.BookedSeats)
}

func TestCreateBookingNoPassengers(t *testing.T) {
	h := newBookingHarness(t)
	seedWallet(t, h.db, 1, 1_000_000)
	flight := seedFlight(t, h.db, models.Flight{Fare: 500_000})

	_, err := h.bookings.CreateBooking(context.Background(), h.createRequest(flight.ID, 0))
	assert.Error(t, err)
}

func TestCreateBookingFlightNotBookable(t *testing.T) {
	h := newBookingHarness(t)
	seedWallet(t, h.db, 1, 5_000_000)
	flight := seedFlight(t, h.db, models.Flight{Fare: 500_000, Status: models.FlightClosed})

	_, err := h.bookings.CreateBooking(context.Background(), h.createRequest(flight.ID, 1))
	var unavailable *FlightUnavailableError
	require.ErrorAs(t, err, &unavailable)
}

func TestCreateBookingNotEnoughSeats(t *testing.T) {
	h := newBookingHarness(t)
	seedWallet(t, h.db, 1, 50_000_000)
	flight := seedFlight(t, h.db, models.Flight{Fare: 500_000, Capacity: 3, BookedSeats: 2})

	_, err := h.bookings.CreateBooking(context.Background(), h.createRequest(flight.ID, 2))
	var unavailable *FlightUnavailableError
	require.ErrorAs(t, err, &unavailable)
}

func TestCreateExternalBookingStoresConfirmation(t *testing.T) {
	h := newBookingHarness(t)
	seedWallet(t, h.db, 1, 2_000_000)
	flight := seedFlight(t, h.db, models.Flight{Fare: 500_000, Source: models.SourceSepehr})

	booking, err := h.bookings.CreateBooking(context.Background(), h.createRequest(flight.ID, 1))
	require.NoError(t, err)
	assert.Equal(t, models.BookingPending, booking.Status)
	assert.Equal(t, "EXT-1", booking.ExternalBookingId)
	assert.Equal(t, "PNR123", booking.Pnr)
	assert.True(t, booking.SupplierConfirmed())

	var stored models.Booking
	require.NoError(t, h.db.First(&stored, booking.ID).Error)
	assert.Equal(t, "EXT-1", stored.ExternalBookingId)
	assert.Equal(t, "PNR123", stored.Pnr)

	// externally-sourced sales are only posted at confirmation
	exists, err := h.bookings.Accounting.EntryExistsForBooking(booking.ID)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestCreateExternalBookingSupplierFailureSuspends(t *testing.T) {
	h := newBookingHarness(t)
	h.provider.err = errors.New("supplier timeout")
	seedWallet(t, h.db, 1, 2_000_000)
	flight := seedFlight(t, h.db, models.Flight{Fare: 500_000, Source: models.SourceSepehr})

	booking, err := h.bookings.CreateBooking(context.Background(), h.createRequest(flight.ID, 1))
	require.NoError(t, err, "a supplier failure must not fail the booking")
	assert.Equal(t, models.BookingSuspended, booking.Status)

	var stored models.Booking
	require.NoError(t, h.db.First(&stored, booking.ID).Error)
	assert.Equal(t, models.BookingSuspended, stored.Status)
	assert.Equal(t, "awaiting supplier confirmation", stored.StatusReason)

	// money stays reserved while the admin decides
	var wallet models.Wallet
	require.NoError(t, h.db.Where("user_id = ?", 1).First(&wallet).Error)
	assert.Equal(t, 500_000.0, wallet.BlockedAmount)
}

func TestConfirmBookingSettlesAndIssuesTickets(t *testing.T) {
	h := newBookingHarness(t)
	seedWallet(t, h.db, 1, 2_000_000)
	flight := seedFlight(t, h.db, models.Flight{Fare: 450_000, Taxes: 40_000, Fees: 10_000})

	booking, err := h.bookings.CreateBooking(context.Background(), h.createRequest(flight.ID, 2))
	require.NoError(t, err)

	confirmed, err := h.bookings.ConfirmBooking(context.Background(), booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingCompleted, confirmed.Status)

	var wallet models.Wallet
	require.NoError(t, h.db.Where("user_id = ?", 1).First(&wallet).Error)
	assert.Equal(t, 1_000_000.0, wallet.Balance)
	assert.Equal(t, 0.0, wallet.BlockedAmount)

	var tickets []models.Ticket
	require.NoError(t, h.db.Where("booking_id = ?", booking.ID).Order("id").Find(&tickets).Error)
	require.Len(t, tickets, 2)
	assert.Equal(t, booking.ConfirmationCode+"-01", tickets[0].TicketNo)
	assert.Equal(t, "1A", tickets[0].SeatNo)
	assert.Equal(t, "1B", tickets[1].SeatNo)

	var commission models.CommissionTransaction
	require.NoError(t, h.db.Where("booking_id = ?", booking.ID).First(&commission).Error)
	assert.Equal(t, models.CommissionPaid, commission.Status)
}

func TestConfirmBookingSurvivesCommissionFailure(t *testing.T) {
	h := newBookingHarness(t)
	seedWallet(t, h.db, 1, 2_000_000)
	flight := seedFlight(t, h.db, models.Flight{Fare: 500_000})

	booking, err := h.bookings.CreateBooking(context.Background(), h.createRequest(flight.ID, 1))
	require.NoError(t, err)

	// wipe the commission row so settlement has nothing to update
	require.NoError(t, h.db.Where("booking_id = ?", booking.ID).
		Delete(&models.CommissionTransaction{}).Error)

	confirmed, err := h.bookings.ConfirmBooking(context.Background(), booking.ID)
	require.NoError(t, err, "a commission hiccup must not block the confirmation")
	assert.Equal(t, models.BookingCompleted, confirmed.Status)

	var wallet models.Wallet
	require.NoError(t, h.db.Where("user_id = ?", 1).First(&wallet).Error)
	assert.Equal(t, 1_500_000.0, wallet.Balance)
	assert.Equal(t, 0.0, wallet.BlockedAmount)
}

func TestConfirmBookingTwiceFails(t *testing.T) {
	h := newBookingHarness(t)
	seedWallet(t, h.db, 1, 2_000_000)
	flight := seedFlight(t, h.db, models.Flight{Fare: 500_000})

	booking, err := h.bookings.CreateBooking(context.Background(), h.createRequest(flight.ID, 1))
	require.NoError(t, err)

	_, err = h.bookings.ConfirmBooking(context.Background(), booking.ID)
	require.NoError(t, err)

	_, err = h.bookings.ConfirmBooking(context.Background(), booking.ID)
	var stateErr *InvalidBookingStateError
	require.ErrorAs(t, err, &stateErr)
	assert.Equal(t, models.BookingCompleted, stateErr.Status)

	// the failed confirm must not charge again
	var wallet models.Wallet
	require.NoError(t, h.db.Where("user_id = ?", 1).First(&wallet).Error)
	assert.Equal(t, 1_500_000.0, wallet.Balance)
}

func TestConfirmSuspendedBooking(t *testing.T) {
	h := newBookingHarness(t)
	h.provider.err = errors.New("supplier timeout")
	seedWallet(t, h.db, 1, 2_000_000)
	flight := seedFlight(t, h.db, models.Flight{Fare: 500_000, Source: models.SourceSepehr})

	booking, err := h.bookings.CreateBooking(context.Background(), h.createRequest(flight.ID, 1))
	require.NoError(t, err)
	require.Equal(t, models.BookingSuspended, booking.Status)

	confirmed, err := h.bookings.ConfirmBooking(context.Background(), booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingCompleted, confirmed.Status)

	// confirmation is when an external sale reaches the journal
	exists, err := h.bookings.Accounting.EntryExistsForBooking(booking.ID)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestRejectBookingReleasesEverything(t *testing.T) {
	h := newBookingHarness(t)
	seedWallet(t, h.db, 1, 2_000_000)
	flight := seedFlight(t, h.db, models.Flight{Fare: 500_000})

	booking, err := h.bookings.CreateBooking(context.Background(), h.createRequest(flight.ID, 2))
	require.NoError(t, err)

	rejected, err := h.bookings.RejectBooking(context.Background(), booking.ID, "fare no longer available")
	require.NoError(t, err)
	assert.Equal(t, models.BookingRejected, rejected.Status)

	var wallet models.Wallet
	require.NoError(t, h.db.Where("user_id = ?", 1).First(&wallet).Error)
	assert.Equal(t, 2_000_000.0, wallet.Balance)
	assert.Equal(t, 0.0, wallet.BlockedAmount)

	var updated models.Flight
	require.NoError(t, h.db.First(&updated, flight.ID).Error)
	assert.Equal(t, 0, updated.BookedSeats)

	var commission models.CommissionTransaction
	require.NoError(t, h.db.Where("booking_id = ?", booking.ID).First(&commission).Error)
	assert.Equal(t, models.CommissionCancelled, commission.Status)

	var stored models.Booking
	require.NoError(t, h.db.First(&stored, booking.ID).Error)
	assert.Equal(t, "fare no longer available", stored.StatusReason)
}

func TestCancelBooking(t *testing.T) {
	h := newBookingHarness(t)
	seedWallet(t, h.db, 1, 2_000_000)
	flight := seedFlight(t, h.db, models.Flight{Fare: 500_000})

	booking, err := h.bookings.CreateBooking(context.Background(), h.createRequest(flight.ID, 1))
	require.NoError(t, err)

	cancelled, err := h.bookings.CancelBooking(context.Background(), booking.ID, "customer withdrew")
	require.NoError(t, err)
	assert.Equal(t, models.BookingCancelled, cancelled.Status)

	var wallet models.Wallet
	require.NoError(t, h.db.Where("user_id = ?", 1).First(&wallet).Error)
	assert.Equal(t, 2_000_000.0, wallet.Balance)
	assert.Equal(t, 0.0, wallet.BlockedAmount)
}

func TestCancelCompletedBookingFails(t *testing.T) {
	h := newBookingHarness(t)
	seedWallet(t, h.db, 1, 2_000_000)
	flight := seedFlight(t, h.db, models.Flight{Fare: 500_000})

	booking, err := h.bookings.CreateBooking(context.Background(), h.createRequest(flight.ID, 1))
	require.NoError(t, err)
	_, err = h.bookings.ConfirmBooking(context.Background(), booking.ID)
	require.NoError(t, err)

	_, err = h.bookings.CancelBooking(context.Background(), booking.ID, "too late")
	var stateErr *InvalidBookingStateError
	require.ErrorAs(t, err, &stateErr)

	// a settled booking keeps its money movement
	var wallet models.Wallet
	require.NoError(t, h.db.Where("user_id = ?", 1).First(&wallet).Error)
	assert.Equal(t, 1_500_000.0, wallet.Balance)
}

func TestCancelExternalBookingNotifiesSupplier(t *testing.T) {
	h := newBookingHarness(t)
	seedWallet(t, h.db, 1, 2_000_000)
	flight := seedFlight(t, h.db, models.Flight{Fare: 500_000, Source: models.SourceSepehr})

	booking, err := h.bookings.CreateBooking(context.Background(), h.createRequest(flight.ID, 1))
	require.NoError(t, err)

	_, err = h.bookings.CancelBooking(context.Background(), booking.ID, "customer withdrew")
	require.NoError(t, err)
	assert.Equal(t, []string{"EXT-1"}, h.provider.cancelled)
}

func TestGetBookingNotFound(t *testing.T) {
	h := newBookingHarness(t)

	_, _, _, err := h.bookings.GetBooking(404)
	var notFound *BookingNotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestSeatAssignment(t *testing.T) {
	assert.Equal(t, "1A", seatFor(0))
	assert.Equal(t, "1F", seatFor(5))
	assert.Equal(t, "2A", seatFor(6))
	assert.Equal(t, "3C", seatFor(14))
}
