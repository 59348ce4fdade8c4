package services

import (
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"travel-backoffice/internal/models"
	"travel-backoffice/pkg/logger"
)

// ReconciliationService finds financial state the inline paths failed to
// record and queues repairs: bookings whose journal entry was never posted,
// and wallets whose cached blocked amount drifted from the PENDING BLOCK
// sum.
type ReconciliationService struct {
	DB    *gorm.DB
	Queue *asynq.Client
}

func NewReconciliationService(db *gorm.DB, queue *asynq.Client) *ReconciliationService {
	return &ReconciliationService{DB: db, Queue: queue}
}

// findMissingEntries lists the bookings that should have a journal entry
// but do not: manual bookings from creation on, external bookings once
// settled.
func (s *ReconciliationService) findMissingEntries() ([]models.Booking, error) {
	var bookings []models.Booking
	err := s.DB.
		Where("(source = ? AND status NOT IN ?) OR (source != ? AND status IN ?)",
			models.SourceManual,
			[]models.BookingStatus{models.BookingRejected, models.BookingCancelled},
			models.SourceManual,
			[]models.BookingStatus{models.BookingConfirmed, models.BookingCompleted}).
		Where("id NOT IN (?)", s.DB.Model(&models.JournalEntry{}).Select("booking_id").Where("booking_id IS NOT NULL")).
		Find(&bookings).Error
	return bookings, err
}

// SweepMissingEntries enqueues a reconcile task per booking with a missing
// journal entry.
func (s *ReconciliationService) SweepMissingEntries() (int, error) {
	bookings, err := s.findMissingEntries()
	if err != nil {
		return 0, err
	}

	queued := 0
	for _, b := range bookings {
		task, err := NewReconcileTask(ReconcilePayload{BookingId: b.ID, Amount: b.TotalPrice, UserId: b.UserId})
		if err != nil {
			return queued, err
		}
		if _, err := s.Queue.Enqueue(task, asynq.TaskID(fmt.Sprintf("reconcile:%d", b.ID))); err != nil {
			logger.Error("failed to enqueue reconcile task", "booking_id", b.ID, "error", err)
			continue
		}
		queued++
	}
	return queued, nil
}

// findDriftedWallets lists wallet ids whose cached blocked amount no
// longer matches their PENDING BLOCK rows.
func (s *ReconciliationService) findDriftedWallets() ([]int, error) {
	var ids []int
	err := s.DB.Model(&models.Wallet{}).
		Select("wallets.id").
		Joins("LEFT JOIN wallet_transactions wt ON wt.wallet_id = wallets.id AND wt.type = ? AND wt.status = ?",
			models.TrxBlock, models.TrxPending).
		Group("wallets.id, wallets.blocked_amount").
		Having("wallets.blocked_amount != COALESCE(SUM(wt.amount), 0)").
		Scan(&ids).Error
	return ids, err
}

// SweepBlockedDrift enqueues an audit task per drifted wallet.
func (s *ReconciliationService) SweepBlockedDrift() (int, error) {
	wallets, err := s.findDriftedWallets()
	if err != nil {
		return 0, err
	}

	queued := 0
	for _, id := range wallets {
		task, err := NewWalletAuditTask(WalletAuditPayload{WalletId: id})
		if err != nil {
			return queued, err
		}
		if _, err := s.Queue.Enqueue(task, asynq.TaskID(fmt.Sprintf("wallet-audit:%d", id))); err != nil {
			logger.Error("failed to enqueue wallet audit task", "wallet_id", id, "error", err)
			continue
		}
		queued++
	}
	return queued, nil
}

type stuckCommission struct {
	BookingId     int
	BookingStatus models.BookingStatus
}

// findStuckCommissions lists PENDING commissions whose booking already
// reached a terminal state, so the inline settle/reverse must have been
// lost. Bookings still PENDING/SUSPENDED legitimately keep theirs open.
func (s *ReconciliationService) findStuckCommissions() ([]stuckCommission, error) {
	var rows []stuckCommission
	err := s.DB.Model(&models.CommissionTransaction{}).
		Select("commission_transactions.booking_id AS booking_id, bookings.status AS booking_status").
		Joins("JOIN bookings ON bookings.id = commission_transactions.booking_id").
		Where("commission_transactions.status = ?", models.CommissionPending).
		Where("bookings.status IN ?", []models.BookingStatus{
			models.BookingConfirmed, models.BookingCompleted,
			models.BookingRejected, models.BookingCancelled,
		}).
		Scan(&rows).Error
	return rows, err
}

// SweepStuckCommissions enqueues a settle task per commission stuck behind
// a settled booking and a reverse task per one stuck behind a reject or
// cancel.
func (s *ReconciliationService) SweepStuckCommissions() (int, error) {
	rows, err := s.findStuckCommissions()
	if err != nil {
		return 0, err
	}

	queued := 0
	for _, r := range rows {
		taskType := TaskCommissionSettle
		task, err := NewCommissionSettleTask(CommissionTaskPayload{BookingId: r.BookingId})
		if r.BookingStatus == models.BookingRejected || r.BookingStatus == models.BookingCancelled {
			taskType = TaskCommissionReverse
			task, err = NewCommissionReverseTask(CommissionTaskPayload{BookingId: r.BookingId})
		}
		if err != nil {
			return queued, err
		}
		if _, err := s.Queue.Enqueue(task, asynq.TaskID(fmt.Sprintf("%s:%d", taskType, r.BookingId))); err != nil {
			logger.Error("failed to enqueue commission task", "booking_id", r.BookingId, "type", taskType, "error", err)
			continue
		}
		queued++
	}
	return queued, nil
}

// StartScheduler runs the sweeps nightly at 00:30.
func (s *ReconciliationService) StartScheduler() {
	c := cron.New()
	_, err := c.AddFunc("30 0 * * *", func() {
		logger.Info("running nightly reconciliation sweep")
		if n, err := s.SweepMissingEntries(); err != nil {
			logger.Error("missing-entry sweep failed", "error", err)
		} else if n > 0 {
			logger.Info("queued missing journal entries", "count", n)
		}
		if n, err := s.SweepStuckCommissions(); err != nil {
			logger.Error("stuck-commission sweep failed", "error", err)
		} else if n > 0 {
			logger.Info("queued stuck commissions", "count", n)
		}
		if n, err := s.SweepBlockedDrift(); err != nil {
			logger.Error("blocked-drift sweep failed", "error", err)
		} else if n > 0 {
			logger.Warn("queued drifted wallets for audit", "count", n)
		}
	})
	if err != nil {
		logger.Error("failed to schedule reconciliation sweep", "error", err)
		return
	}
	c.Start()
	logger.Info("reconciliation scheduler started", "schedule", "daily 00:30")
}
