package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"travel-backoffice/internal/models"
)

// FundService is the admission-control layer for spending: funds are
// reserved with BlockFunds and either released (UnblockFunds) or settled
// (ConfirmPayment). Balance is only ever reduced at settlement time, so
// available balance is balance minus blocked by construction.
type FundService struct {
	DB *gorm.DB
}

func NewFundService(db *gorm.DB) *FundService {
	return &FundService{DB: db}
}

type BlockResult struct {
	TransactionId    int     `json:"transaction_id"`
	BlockedAmount    float64 `json:"blocked_amount"`
	RemainingBalance float64 `json:"remaining_balance"`
}

type UnblockResult struct {
	UnblockedAmount  float64 `json:"unblocked_amount"`
	RemainingBalance float64 `json:"remaining_balance"`
}

type PaymentResult struct {
	TransactionId    int     `json:"transaction_id"`
	RemainingBalance float64 `json:"remaining_balance"`
}

type DepositResult struct {
	TransactionId int     `json:"transaction_id"`
	Balance       float64 `json:"balance"`
}

type BalanceResult struct {
	Currency         string  `json:"currency"`
	Balance          float64 `json:"balance"`
	BlockedAmount    float64 `json:"blocked_amount"`
	AvailableBalance float64 `json:"available_balance"`
}

// lockedWallet loads the wallet row under a pessimistic row lock so that
// concurrent block/unblock/confirm calls on the same wallet serialize.
// The sqlite dialect used by tests has no row locks; the whole database
// locks on write there, which gives the same guarantee.
func lockedWallet(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// pendingBlockSum recomputes the blocked aggregate from the PENDING BLOCK
// rows. Always derived inside the caller's transaction, never delta-updated,
// so a missed update can never make the cache drift from the log.
func pendingBlockSum(tx *gorm.DB, walletId int) (float64, error) {
	var sum float64
	err := tx.Model(&models.WalletTransaction{}).
		Where("wallet_id = ? AND type = ? AND status = ?", walletId, models.TrxBlock, models.TrxPending).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&sum).Error
	return sum, err
}

// BlockFunds reserves amount against the user's wallet. It never touches
// balance, only the blocked aggregate, so a block can never overdraw.
func (s *FundService) BlockFunds(userId int, currency string, amount float64, reason, bookingRef string) (BlockResult, error) {
	var res BlockResult
	if amount <= 0 {
		return res, fmt.Errorf("block amount must be positive, got %.2f", amount)
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var wallet models.Wallet
		if err := lockedWallet(tx).Where("user_id = ? AND currency = ?", userId, currency).First(&wallet).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &WalletNotFoundError{UserId: userId, Currency: currency}
			}
			return err
		}

		pending, err := pendingBlockSum(tx, wallet.ID)
		if err != nil {
			return err
		}
		available := wallet.Balance - pending
		if available < amount {
			return &InsufficientBalanceError{Requested: amount, Available: available}
		}

		block := models.WalletTransaction{
			WalletId:    wallet.ID,
			UserId:      userId,
			Type:        models.TrxBlock,
			Status:      models.TrxPending,
			Amount:      amount,
			Currency:    currency,
			Description: reason,
			Metadata:    bookingRef,
		}
		if err := tx.Create(&block).Error; err != nil {
			return err
		}

		pending, err = pendingBlockSum(tx, wallet.ID)
		if err != nil {
			return err
		}
		if err := tx.Model(&wallet).UpdateColumn("blocked_amount", pending).Error; err != nil {
			return err
		}

		res = BlockResult{
			TransactionId:    block.ID,
			BlockedAmount:    pending,
			RemainingBalance: wallet.Balance - pending,
		}
		return nil
	})
	return res, err
}

// UnblockFunds releases a reservation without spending it.
func (s *FundService) UnblockFunds(transactionId int, reason string) (UnblockResult, error) {
	var res UnblockResult
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		res, err = s.unblockFunds(tx, transactionId, reason)
		return err
	})
	return res, err
}

// unblockFunds is the transaction-scoped body; the booking state machine
// runs it inside the same transaction as the status change.
func (s *FundService) unblockFunds(tx *gorm.DB, transactionId int, reason string) (UnblockResult, error) {
	var res UnblockResult
	err := func() error {
		block, wallet, err := s.pendingBlock(tx, transactionId)
		if err != nil {
			return err
		}

		release := models.WalletTransaction{
			WalletId:         wallet.ID,
			UserId:           block.UserId,
			Type:             models.TrxUnblock,
			Status:           models.TrxCompleted,
			Amount:           block.Amount,
			Currency:         block.Currency,
			Description:      reason,
			RelatedBookingId: block.RelatedBookingId,
		}
		if err := tx.Create(&release).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.WalletTransaction{}).Where("id = ?", block.ID).
			UpdateColumn("status", models.TrxCancelled).Error; err != nil {
			return err
		}

		pending, err := pendingBlockSum(tx, wallet.ID)
		if err != nil {
			return err
		}
		if err := tx.Model(&models.Wallet{}).Where("id = ?", wallet.ID).
			UpdateColumn("blocked_amount", pending).Error; err != nil {
			return err
		}

		res = UnblockResult{
			UnblockedAmount:  block.Amount,
			RemainingBalance: wallet.Balance - pending,
		}
		return nil
	}()
	return res, err
}

// ConfirmPayment settles a reservation: the blocked amount leaves the
// balance for good. This is the only place balance is ever decremented.
func (s *FundService) ConfirmPayment(transactionId, bookingId int) (PaymentResult, error) {
	var res PaymentResult
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		res, err = s.confirmPayment(tx, transactionId, bookingId)
		return err
	})
	return res, err
}

func (s *FundService) confirmPayment(tx *gorm.DB, transactionId, bookingId int) (PaymentResult, error) {
	var res PaymentResult
	err := func() error {
		block, wallet, err := s.pendingBlock(tx, transactionId)
		if err != nil {
			return err
		}

		trxType := models.TrxPayment
		var relatedBooking *int
		if bookingId != 0 {
			trxType = models.TrxBookingPayment
			relatedBooking = &bookingId
		}

		payment := models.WalletTransaction{
			WalletId:         wallet.ID,
			UserId:           block.UserId,
			Type:             trxType,
			Status:           models.TrxCompleted,
			Amount:           block.Amount,
			Currency:         block.Currency,
			Description:      fmt.Sprintf("settlement of block %d", block.ID),
			RelatedBookingId: relatedBooking,
		}
		if err := tx.Create(&payment).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.WalletTransaction{}).Where("id = ?", block.ID).
			UpdateColumn("status", models.TrxCompleted).Error; err != nil {
			return err
		}

		newBalance := wallet.Balance - block.Amount
		if err := tx.Model(&models.Wallet{}).Where("id = ?", wallet.ID).
			UpdateColumn("balance", newBalance).Error; err != nil {
			return err
		}

		pending, err := pendingBlockSum(tx, wallet.ID)
		if err != nil {
			return err
		}
		if err := tx.Model(&models.Wallet{}).Where("id = ?", wallet.ID).
			UpdateColumn("blocked_amount", pending).Error; err != nil {
			return err
		}

		res = PaymentResult{
			TransactionId:    payment.ID,
			RemainingBalance: newBalance - pending,
		}
		return nil
	}()
	return res, err
}

// pendingBlock locks the owning wallet and re-reads the target row under
// that lock. The status precondition makes unblock/confirm reject a second
// call instead of silently no-oping.
func (s *FundService) pendingBlock(tx *gorm.DB, transactionId int) (models.WalletTransaction, models.Wallet, error) {
	var block models.WalletTransaction
	var wallet models.Wallet

	if err := tx.First(&block, transactionId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return block, wallet, &InvalidTransactionStateError{TransactionId: transactionId}
		}
		return block, wallet, err
	}
	if err := lockedWallet(tx).First(&wallet, block.WalletId).Error; err != nil {
		return block, wallet, err
	}
	// re-read now that the wallet is locked; a concurrent settle may have
	// flipped the status between the first read and the lock
	if err := tx.First(&block, transactionId).Error; err != nil {
		return block, wallet, err
	}
	if block.Type != models.TrxBlock || block.Status != models.TrxPending {
		return block, wallet, &InvalidTransactionStateError{
			TransactionId: block.ID,
			Type:          block.Type,
			Status:        block.Status,
		}
	}
	return block, wallet, nil
}

// Deposit tops up the wallet, creating it on first use.
func (s *FundService) Deposit(userId int, currency string, amount float64, channel, description string) (DepositResult, error) {
	return s.credit(userId, currency, amount, models.TrxDeposit, channel, description)
}

// Credit is the admin adjustment path; same mechanics as Deposit under a
// different transaction type.
func (s *FundService) Credit(userId int, currency string, amount float64, description string) (DepositResult, error) {
	return s.credit(userId, currency, amount, models.TrxCredit, "admin", description)
}

func (s *FundService) credit(userId int, currency string, amount float64, trxType models.WalletTrxType, channel, description string) (DepositResult, error) {
	var res DepositResult
	if amount <= 0 {
		return res, fmt.Errorf("credit amount must be positive, got %.2f", amount)
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var wallet models.Wallet
		err := lockedWallet(tx).Where("user_id = ? AND currency = ?", userId, currency).First(&wallet).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			wallet = models.Wallet{UserId: userId, Currency: currency}
			err = tx.Create(&wallet).Error
		}
		if err != nil {
			return err
		}

		trx := models.WalletTransaction{
			WalletId:    wallet.ID,
			UserId:      userId,
			Type:        trxType,
			Status:      models.TrxCompleted,
			Amount:      amount,
			Currency:    currency,
			Description: description,
			Metadata:    channel,
		}
		if err := tx.Create(&trx).Error; err != nil {
			return err
		}

		newBalance := wallet.Balance + amount
		if err := tx.Model(&models.Wallet{}).Where("id = ?", wallet.ID).
			UpdateColumn("balance", newBalance).Error; err != nil {
			return err
		}

		res = DepositResult{TransactionId: trx.ID, Balance: newBalance}
		return nil
	})
	return res, err
}

// RecomputeBlocked re-derives the blocked aggregate from the transaction
// log under the wallet lock. Used by the audit sweep to repair drift.
func (s *FundService) RecomputeBlocked(walletId int) (float64, error) {
	var pending float64
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var wallet models.Wallet
		if err := lockedWallet(tx).First(&wallet, walletId).Error; err != nil {
			return err
		}
		var err error
		if pending, err = pendingBlockSum(tx, walletId); err != nil {
			return err
		}
		if wallet.BlockedAmount == pending {
			return nil
		}
		return tx.Model(&models.Wallet{}).Where("id = ?", walletId).
			UpdateColumn("blocked_amount", pending).Error
	})
	return pending, err
}

func (s *FundService) GetWalletBalance(userId int, currency string) (BalanceResult, error) {
	var wallet models.Wallet
	if err := s.DB.Where("user_id = ? AND currency = ?", userId, currency).First(&wallet).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return BalanceResult{}, &WalletNotFoundError{UserId: userId, Currency: currency}
		}
		return BalanceResult{}, err
	}
	return BalanceResult{
		Currency:         wallet.Currency,
		Balance:          wallet.Balance,
		BlockedAmount:    wallet.BlockedAmount,
		AvailableBalance: wallet.AvailableBalance(),
	}, nil
}

func (s *FundService) GetWalletTransactions(userId, limit int) ([]models.WalletTransaction, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	var transactions []models.WalletTransaction
	err := s.DB.Where("user_id = ?", userId).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&transactions).Error
	return transactions, err
}
