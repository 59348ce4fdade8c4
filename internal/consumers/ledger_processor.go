package consumers

import (
	"gorm.io/gorm"

	"travel-backoffice/internal/services"
	"travel-backoffice/pkg/logger"
)

// LedgerProcessor executes the queued repair work: re-posting journal
// entries, re-deriving drifted blocked amounts and retrying commission
// status updates.
type LedgerProcessor struct {
	DB          *gorm.DB
	Funds       *services.FundService
	Commissions *services.CommissionService
	Accounting  *services.AccountingService
}

func NewLedgerProcessor(db *gorm.DB, funds *services.FundService, commissions *services.CommissionService, accounting *services.AccountingService) *LedgerProcessor {
	return &LedgerProcessor{
		DB:          db,
		Funds:       funds,
		Commissions: commissions,
		Accounting:  accounting,
	}
}

// ProcessReconcile posts the missing journal entry for one booking. Safe
// to replay: a booking that already has an entry is skipped.
func (p *LedgerProcessor) ProcessReconcile(payload services.ReconcilePayload) error {
	exists, err := p.Accounting.EntryExistsForBooking(payload.BookingId)
	if err != nil {
		return err
	}
	if exists {
		logger.Debug("journal entry already posted", "booking_id", payload.BookingId)
		return nil
	}

	if _, err := p.Accounting.CreateAccountingEntries(payload.BookingId, payload.Amount, payload.UserId); err != nil {
		return err
	}
	logger.Info("reconciled journal entry", "booking_id", payload.BookingId, "amount", payload.Amount)
	return nil
}

// ProcessCommissionSettle retries marking a booking's commission PAID.
// Replays are no-ops: the status update is guarded on PENDING.
func (p *LedgerProcessor) ProcessCommissionSettle(payload services.CommissionTaskPayload) error {
	if err := p.Commissions.SettleCommission(payload.BookingId); err != nil {
		return err
	}
	logger.Info("commission settled", "booking_id", payload.BookingId)
	return nil
}

// ProcessCommissionReverse retries cancelling a booking's commission.
func (p *LedgerProcessor) ProcessCommissionReverse(payload services.CommissionTaskPayload) error {
	if err := p.Commissions.ReverseCommission(payload.BookingId); err != nil {
		return err
	}
	logger.Info("commission reversed", "booking_id", payload.BookingId)
	return nil
}

// ProcessWalletAudit repairs a wallet whose cached blocked amount drifted
// from the PENDING BLOCK sum.
func (p *LedgerProcessor) ProcessWalletAudit(payload services.WalletAuditPayload) error {
	pending, err := p.Funds.RecomputeBlocked(payload.WalletId)
	if err != nil {
		return err
	}
	logger.Info("wallet blocked amount audited", "wallet_id", payload.WalletId, "blocked", pending)
	return nil
}
