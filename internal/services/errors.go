package services

import (
	"fmt"

	"travel-backoffice/internal/models"
)

// InsufficientBalanceError rejects a block that exceeds the wallet's
// available balance.
type InsufficientBalanceError struct {
	Requested float64
	Available float64
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance: requested %.2f, available %.2f", e.Requested, e.Available)
}

type WalletNotFoundError struct {
	UserId   int
	Currency string
}

func (e *WalletNotFoundError) Error() string {
	return fmt.Sprintf("wallet not found for user %d (%s)", e.UserId, e.Currency)
}

// InvalidTransactionStateError rejects an unblock/confirm on a row that is
// not a PENDING BLOCK. Callers hitting this on a retry should treat the
// reservation as already settled.
type InvalidTransactionStateError struct {
	TransactionId int
	Type          models.WalletTrxType
	Status        models.WalletTrxStatus
}

func (e *InvalidTransactionStateError) Error() string {
	if e.Type == "" {
		return fmt.Sprintf("wallet transaction %d not found", e.TransactionId)
	}
	return fmt.Sprintf("wallet transaction %d is %s %s, expected PENDING BLOCK", e.TransactionId, e.Status, e.Type)
}

type BookingNotFoundError struct {
	BookingId int
}

func (e *BookingNotFoundError) Error() string {
	return fmt.Sprintf("booking %d not found", e.BookingId)
}

// InvalidBookingStateError rejects a transition attempted from a terminal
// or mismatched state.
type InvalidBookingStateError struct {
	BookingId int
	Status    models.BookingStatus
	Action    string
}

func (e *InvalidBookingStateError) Error() string {
	return fmt.Sprintf("booking %d cannot be %s from state %s", e.BookingId, e.Action, e.Status)
}

type FlightUnavailableError struct {
	FlightId int
	Reason   string
}

func (e *FlightUnavailableError) Error() string {
	return fmt.Sprintf("flight %d is not bookable: %s", e.FlightId, e.Reason)
}

// UnbalancedJournalError guards the double-entry invariant before any line
// is written. Observing it means a posting-logic bug.
type UnbalancedJournalError struct {
	Debits  float64
	Credits float64
}

func (e *UnbalancedJournalError) Error() string {
	return fmt.Sprintf("journal entry does not balance: debits %.2f, credits %.2f", e.Debits, e.Credits)
}
