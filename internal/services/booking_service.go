package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"
	"gorm.io/gorm"

	"travel-backoffice/internal/models"
	"travel-backoffice/pkg/common"
	"travel-backoffice/pkg/logger"
)

// Asynq task types. Reconciliation re-posts journal entries that failed
// inline, the audit task repairs a drifted blocked-amount cache, and the
// commission tasks retry a settle/reverse whose inline update failed.
const (
	TaskAccountingReconcile = "accounting:reconcile"
	TaskWalletAudit         = "wallet:audit"
	TaskCommissionSettle    = "commission:settle"
	TaskCommissionReverse   = "commission:reverse"
)

type ReconcilePayload struct {
	BookingId int     `json:"booking_id"`
	Amount    float64 `json:"amount"`
	UserId    int     `json:"user_id"`
}

type WalletAuditPayload struct {
	WalletId int `json:"wallet_id"`
}

func NewReconcileTask(p ReconcilePayload) (*asynq.Task, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskAccountingReconcile, data), nil
}

func NewWalletAuditTask(p WalletAuditPayload) (*asynq.Task, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskWalletAudit, data), nil
}

type CommissionTaskPayload struct {
	BookingId int `json:"booking_id"`
}

func NewCommissionSettleTask(p CommissionTaskPayload) (*asynq.Task, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskCommissionSettle, data), nil
}

func NewCommissionReverseTask(p CommissionTaskPayload) (*asynq.Task, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskCommissionReverse, data), nil
}

// BookingService drives the booking state machine: pricing, fund blocking,
// best-effort supplier booking and the admin confirm/reject/cancel actions.
type BookingService struct {
	DB          *gorm.DB
	Funds       *FundService
	Flights     *FlightService
	Commissions *CommissionService
	Accounting  *AccountingService
	Gateway     *ProviderGateway
	Queue       *asynq.Client
}

func NewBookingService(db *gorm.DB, funds *FundService, flights *FlightService, commissions *CommissionService, accounting *AccountingService, gateway *ProviderGateway, queue *asynq.Client) *BookingService {
	return &BookingService{
		DB:          db,
		Funds:       funds,
		Flights:     flights,
		Commissions: commissions,
		Accounting:  accounting,
		Gateway:     gateway,
		Queue:       queue,
	}
}

type PassengerInput struct {
	FirstName  string `json:"first_name" binding:"required"`
	LastName   string `json:"last_name" binding:"required"`
	DocumentNo string `json:"document_no" binding:"required"`
}

type CreateBookingRequest struct {
	UserId     int              `json:"user_id"`
	TenantId   int              `json:"tenant_id"`
	FlightId   int              `json:"flight_id"`
	Currency   string           `json:"currency"`
	Passengers []PassengerInput `json:"passengers"`
	Contact    ContactInfo      `json:"contact"`
}

// CreateBooking prices the itinerary, reserves the money and persists the
// booking. The supplier call afterwards is best-effort: its failure parks
// the booking in SUSPENDED for admin review, it never fails the request.
func (s *BookingService) CreateBooking(ctx context.Context, req CreateBookingRequest) (models.Booking, error) {
	if len(req.Passengers) == 0 {
		return models.Booking{}, fmt.Errorf("booking needs at least one passenger")
	}

	flight, err := s.Flights.GetFlight(req.FlightId)
	if err != nil {
		return models.Booking{}, err
	}
	if err := s.Flights.EnsureBookable(flight, len(req.Passengers)); err != nil {
		return models.Booking{}, err
	}

	basePrice := flight.PerSeatPrice() * float64(len(req.Passengers))
	breakdown, err := s.Commissions.CalculateFinalPriceForTenant(req.TenantId, basePrice, flight.Source)
	if err != nil {
		return models.Booking{}, err
	}

	confirmation := common.GenerateReference()
	block, err := s.Funds.BlockFunds(req.UserId, req.Currency, breakdown.FinalPrice,
		"reservation for booking "+confirmation, confirmation)
	if err != nil {
		return models.Booking{}, err
	}

	booking := models.Booking{
		UserId:              req.UserId,
		TenantId:            req.TenantId,
		FlightId:            flight.ID,
		TotalPrice:          breakdown.FinalPrice,
		Status:              models.BookingPending,
		Source:              flight.Source,
		WalletTransactionId: block.TransactionId,
		ConfirmationCode:    confirmation,
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.Flights.ReserveSeats(tx, flight.ID, len(req.Passengers)); err != nil {
			return err
		}
		if err := tx.Create(&booking).Error; err != nil {
			return err
		}
		for _, p := range req.Passengers {
			pax := models.Passenger{
				BookingId:  booking.ID,
				FirstName:  p.FirstName,
				LastName:   p.LastName,
				DocumentNo: p.DocumentNo,
			}
			if err := tx.Create(&pax).Error; err != nil {
				return err
			}
		}
		return tx.Model(&models.WalletTransaction{}).Where("id = ?", block.TransactionId).
			UpdateColumn("related_booking_id", booking.ID).Error
	})
	if err != nil {
		// the reservation must not outlive a booking that was never persisted
		if _, uerr := s.Funds.UnblockFunds(block.TransactionId, "booking creation failed"); uerr != nil {
			logger.Error("failed to release block after booking failure",
				"transaction_id", block.TransactionId, "error", uerr)
		}
		return models.Booking{}, err
	}

	if _, err := s.Commissions.CalculateCommissionForBooking(req.TenantId, booking.ID, basePrice, flight.Source); err != nil {
		logger.Error("failed to record commission", "booking_id", booking.ID, "error", err)
	}

	if flight.Source == models.SourceManual {
		// self-serviced sale; the money story is already complete, record it
		if _, err := s.Accounting.CreateAccountingEntries(booking.ID, breakdown.FinalPrice, req.UserId); err != nil {
			logger.Error("accounting posting failed, scheduling reconciliation",
				"booking_id", booking.ID, "error", err)
			s.enqueueReconcile(ReconcilePayload{BookingId: booking.ID, Amount: breakdown.FinalPrice, UserId: req.UserId})
		}
		return booking, nil
	}

	passengers, err := s.bookingPassengers(booking.ID)
	if err != nil {
		logger.Error("failed to load passengers for supplier call", "booking_id", booking.ID, "error", err)
		return booking, nil
	}

	external, err := s.Gateway.BookFlight(ctx, flight.Source, flight, passengers, req.Contact)
	if err != nil {
		// unconfirmed by supplier; an admin decides what happens next
		logger.Warn("supplier did not confirm booking",
			"booking_id", booking.ID, "source", flight.Source, "error", err)
		if err := s.DB.Model(&models.Booking{}).Where("id = ?", booking.ID).
			Updates(map[string]interface{}{"status": models.BookingSuspended, "status_reason": "awaiting supplier confirmation"}).Error; err != nil {
			logger.Error("failed to suspend booking", "booking_id", booking.ID, "error", err)
		}
		booking.Status = models.BookingSuspended
		return booking, nil
	}

	if err := s.DB.Model(&models.Booking{}).Where("id = ?", booking.ID).
		Updates(map[string]interface{}{"external_booking_id": external.ExternalBookingId, "pnr": external.Pnr}).Error; err != nil {
		logger.Error("failed to store supplier confirmation", "booking_id", booking.ID, "error", err)
	}
	booking.ExternalBookingId = external.ExternalBookingId
	booking.Pnr = external.Pnr
	return booking, nil
}

// ConfirmBooking settles the reserved funds, issues one ticket per
// passenger and completes the booking. The settlement's status
// precondition rejects a second confirm instead of paying twice.
func (s *BookingService) ConfirmBooking(ctx context.Context, bookingId int) (models.Booking, error) {
	var booking models.Booking

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		booking, err = s.transition(tx, bookingId, models.BookingConfirmed, "confirmed", "")
		if err != nil {
			return err
		}

		if _, err := s.Funds.confirmPayment(tx, booking.WalletTransactionId, booking.ID); err != nil {
			return err
		}

		var passengers []models.Passenger
		if err := tx.Where("booking_id = ?", bookingId).Order("id").Find(&passengers).Error; err != nil {
			return err
		}
		for i, p := range passengers {
			ticket := models.Ticket{
				BookingId:   bookingId,
				PassengerId: p.ID,
				TicketNo:    fmt.Sprintf("%s-%02d", booking.ConfirmationCode, i+1),
				SeatNo:      seatFor(i),
			}
			if err := tx.Create(&ticket).Error; err != nil {
				return err
			}
		}

		// tickets issued, the booking is done
		booking.Status = models.BookingCompleted
		return tx.Model(&models.Booking{}).Where("id = ?", bookingId).
			UpdateColumn("status", models.BookingCompleted).Error
	})
	if err != nil {
		return models.Booking{}, err
	}

	if err := s.Commissions.SettleCommission(bookingId); err != nil {
		logger.Error("failed to settle commission, scheduling retry", "booking_id", bookingId, "error", err)
		s.enqueueCommission(TaskCommissionSettle, bookingId)
	}

	if booking.Source != models.SourceManual {
		// externally-sourced sales are recorded at confirmation time
		if _, err := s.Accounting.CreateAccountingEntries(bookingId, booking.TotalPrice, booking.UserId); err != nil {
			logger.Error("accounting posting failed, scheduling reconciliation",
				"booking_id", bookingId, "error", err)
			s.enqueueReconcile(ReconcilePayload{BookingId: bookingId, Amount: booking.TotalPrice, UserId: booking.UserId})
		}
	}
	return booking, nil
}

// RejectBooking releases the reserved funds with the admin's reason.
func (s *BookingService) RejectBooking(ctx context.Context, bookingId int, reason string) (models.Booking, error) {
	booking, err := s.release(bookingId, models.BookingRejected, "rejected", reason)
	if err != nil {
		return models.Booking{}, err
	}
	s.abandonExternal(ctx, booking)
	return booking, nil
}

// CancelBooking withdraws a not-yet-settled booking and releases its funds.
// Settled (CONFIRMED/COMPLETED) bookings are terminal; reversing them would
// be a refund, which is a different operation.
func (s *BookingService) CancelBooking(ctx context.Context, bookingId int, reason string) (models.Booking, error) {
	booking, err := s.release(bookingId, models.BookingCancelled, "cancelled", reason)
	if err != nil {
		return models.Booking{}, err
	}
	s.abandonExternal(ctx, booking)
	return booking, nil
}

func (s *BookingService) GetBooking(bookingId int) (models.Booking, []models.Passenger, []models.Ticket, error) {
	var booking models.Booking
	if err := s.DB.First(&booking, bookingId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return booking, nil, nil, &BookingNotFoundError{BookingId: bookingId}
		}
		return booking, nil, nil, err
	}

	var passengers []models.Passenger
	if err := s.DB.Where("booking_id = ?", bookingId).Order("id").Find(&passengers).Error; err != nil {
		return booking, nil, nil, err
	}
	var tickets []models.Ticket
	if err := s.DB.Where("booking_id = ?", bookingId).Order("id").Find(&tickets).Error; err != nil {
		return booking, nil, nil, err
	}
	return booking, passengers, tickets, nil
}

// transition is the compare-and-set guard: the status update only matches
// rows still in a non-terminal state, so two concurrent admin actions can
// never both win.
func (s *BookingService) transition(tx *gorm.DB, bookingId int, to models.BookingStatus, action, reason string) (models.Booking, error) {
	var booking models.Booking
	if err := tx.First(&booking, bookingId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return booking, &BookingNotFoundError{BookingId: bookingId}
		}
		return booking, err
	}

	updates := map[string]interface{}{"status": to}
	if reason != "" {
		updates["status_reason"] = reason
	}
	result := tx.Model(&models.Booking{}).
		Where("id = ? AND status IN ?", bookingId,
			[]models.BookingStatus{models.BookingPending, models.BookingSuspended}).
		Updates(updates)
	if result.Error != nil {
		return booking, result.Error
	}
	if result.RowsAffected == 0 {
		return booking, &InvalidBookingStateError{BookingId: bookingId, Status: booking.Status, Action: action}
	}
	booking.Status = to
	return booking, nil
}

func (s *BookingService) release(bookingId int, to models.BookingStatus, action, reason string) (models.Booking, error) {
	var booking models.Booking
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		booking, err = s.transition(tx, bookingId, to, action, reason)
		if err != nil {
			return err
		}
		if _, err := s.Funds.unblockFunds(tx, booking.WalletTransactionId, reason); err != nil {
			return err
		}

		var paxCount int64
		if err := tx.Model(&models.Passenger{}).Where("booking_id = ?", bookingId).Count(&paxCount).Error; err != nil {
			return err
		}
		return s.Flights.ReleaseSeats(tx, booking.FlightId, int(paxCount))
	})
	if err != nil {
		return models.Booking{}, err
	}

	if err := s.Commissions.ReverseCommission(bookingId); err != nil {
		logger.Error("failed to reverse commission, scheduling retry", "booking_id", bookingId, "error", err)
		s.enqueueCommission(TaskCommissionReverse, bookingId)
	}
	return booking, nil
}

// abandonExternal tells the supplier to drop an externally-held booking.
// Best-effort, like the booking call itself.
func (s *BookingService) abandonExternal(ctx context.Context, booking models.Booking) {
	if booking.Source == models.SourceManual || booking.ExternalBookingId == "" {
		return
	}
	if err := s.Gateway.CancelBooking(ctx, booking.Source, booking.ExternalBookingId); err != nil {
		logger.Warn("supplier cancel failed",
			"booking_id", booking.ID, "external_booking_id", booking.ExternalBookingId, "error", err)
	}
}

func (s *BookingService) bookingPassengers(bookingId int) ([]models.Passenger, error) {
	var passengers []models.Passenger
	err := s.DB.Where("booking_id = ?", bookingId).Order("id").Find(&passengers).Error
	return passengers, err
}

func (s *BookingService) enqueueReconcile(p ReconcilePayload) {
	if s.Queue == nil {
		return
	}
	task, err := NewReconcileTask(p)
	if err != nil {
		logger.Error("failed to build reconcile task", "booking_id", p.BookingId, "error", err)
		return
	}
	if _, err := s.Queue.Enqueue(task, asynq.TaskID(fmt.Sprintf("reconcile:%d", p.BookingId))); err != nil {
		logger.Error("failed to enqueue reconcile task", "booking_id", p.BookingId, "error", err)
	}
}

func (s *BookingService) enqueueCommission(taskType string, bookingId int) {
	if s.Queue == nil {
		return
	}
	payload := CommissionTaskPayload{BookingId: bookingId}
	var task *asynq.Task
	var err error
	if taskType == TaskCommissionSettle {
		task, err = NewCommissionSettleTask(payload)
	} else {
		task, err = NewCommissionReverseTask(payload)
	}
	if err != nil {
		logger.Error("failed to build commission task", "booking_id", bookingId, "error", err)
		return
	}
	if _, err := s.Queue.Enqueue(task, asynq.TaskID(fmt.Sprintf("%s:%d", taskType, bookingId))); err != nil {
		logger.Error("failed to enqueue commission task", "booking_id", bookingId, "type", taskType, "error", err)
	}
}

// seatFor maps passenger order to a seat, six abreast.
func seatFor(i int) string {
	return fmt.Sprintf("%d%c", i/6+1, rune('A'+i%6))
}
