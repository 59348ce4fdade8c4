package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"travel-backoffice/internal/services"
	"travel-backoffice/pkg/common"
)

type WalletHandler struct {
	Funds *services.FundService
}

func NewWalletHandler(funds *services.FundService) *WalletHandler {
	return &WalletHandler{Funds: funds}
}

type DepositRequest struct {
	UserId      int     `json:"user_id" binding:"required"`
	Currency    string  `json:"currency" binding:"required"`
	Amount      float64 `json:"amount" binding:"required,gt=0"`
	Source      string  `json:"source"`
	Description string  `json:"description"`
}

func (h *WalletHandler) Deposit(c *gin.Context) {
	var req DepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(err.Error(), http.StatusBadRequest))
		return
	}

	result, err := h.Funds.Deposit(req.UserId, req.Currency, req.Amount, req.Source, req.Description)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(result, "Deposit successful"))
}

type BlockFundsRequest struct {
	UserId     int     `json:"user_id" binding:"required"`
	Currency   string  `json:"currency" binding:"required"`
	Amount     float64 `json:"amount" binding:"required,gt=0"`
	Reason     string  `json:"reason"`
	BookingRef string  `json:"booking_ref"`
}

func (h *WalletHandler) BlockFunds(c *gin.Context) {
	var req BlockFundsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(err.Error(), http.StatusBadRequest))
		return
	}

	result, err := h.Funds.BlockFunds(req.UserId, req.Currency, req.Amount, req.Reason, req.BookingRef)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(result, "Funds blocked"))
}

type UnblockFundsRequest struct {
	TransactionId int    `json:"transaction_id" binding:"required"`
	Reason        string `json:"reason"`
}

func (h *WalletHandler) UnblockFunds(c *gin.Context) {
	var req UnblockFundsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(err.Error(), http.StatusBadRequest))
		return
	}

	result, err := h.Funds.UnblockFunds(req.TransactionId, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(result, "Funds released"))
}

type ConfirmPaymentRequest struct {
	TransactionId int `json:"transaction_id" binding:"required"`
	BookingId     int `json:"booking_id"`
}

func (h *WalletHandler) ConfirmPayment(c *gin.Context) {
	var req ConfirmPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(err.Error(), http.StatusBadRequest))
		return
	}

	result, err := h.Funds.ConfirmPayment(req.TransactionId, req.BookingId)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(result, "Payment settled"))
}

func (h *WalletHandler) GetBalance(c *gin.Context) {
	userId, err := strconv.Atoi(c.Query("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("Invalid user_id", http.StatusBadRequest))
		return
	}
	currency := c.DefaultQuery("currency", "IRR")

	result, err := h.Funds.GetWalletBalance(userId, currency)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(result, "Wallet balance"))
}

func (h *WalletHandler) GetTransactions(c *gin.Context) {
	userId, err := strconv.Atoi(c.Query("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("Invalid user_id", http.StatusBadRequest))
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	transactions, err := h.Funds.GetWalletTransactions(userId, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(transactions, "Wallet transactions"))
}
