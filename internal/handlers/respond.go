package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"travel-backoffice/internal/services"
	"travel-backoffice/pkg/common"
)

// respondError maps the service error taxonomy onto HTTP statuses. State
// precondition failures are client errors; anything unknown is a 500.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError

	var insufficient *services.InsufficientBalanceError
	var walletNotFound *services.WalletNotFoundError
	var trxState *services.InvalidTransactionStateError
	var bookingNotFound *services.BookingNotFoundError
	var bookingState *services.InvalidBookingStateError
	var flightUnavailable *services.FlightUnavailableError

	switch {
	case errors.As(err, &insufficient):
		status = http.StatusUnprocessableEntity
	case errors.As(err, &walletNotFound), errors.As(err, &bookingNotFound):
		status = http.StatusNotFound
	case errors.As(err, &trxState), errors.As(err, &bookingState):
		status = http.StatusConflict
	case errors.As(err, &flightUnavailable):
		status = http.StatusUnprocessableEntity
	}

	c.JSON(status, common.NewErrorResponse(err.Error(), status))
}
