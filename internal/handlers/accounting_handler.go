package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"travel-backoffice/internal/services"
	"travel-backoffice/pkg/common"
)

type AccountingHandler struct {
	Accounting *services.AccountingService
}

func NewAccountingHandler(accounting *services.AccountingService) *AccountingHandler {
	return &AccountingHandler{Accounting: accounting}
}

func (h *AccountingHandler) TrialBalance(c *gin.Context) {
	report, err := h.Accounting.TrialBalance()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(report, "Trial balance"))
}

func (h *AccountingHandler) ProfitAndLoss(c *gin.Context) {
	now := time.Now()
	from := now.AddDate(0, -1, 0)
	to := now

	if v := c.Query("from"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			c.JSON(http.StatusBadRequest, common.NewErrorResponse("Invalid from date, expected YYYY-MM-DD", http.StatusBadRequest))
			return
		}
		from = parsed
	}
	if v := c.Query("to"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			c.JSON(http.StatusBadRequest, common.NewErrorResponse("Invalid to date, expected YYYY-MM-DD", http.StatusBadRequest))
			return
		}
		to = parsed.AddDate(0, 0, 1)
	}

	report, err := h.Accounting.ProfitAndLoss(from, to)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(report, "Profit and loss"))
}

func (h *AccountingHandler) BalanceSheet(c *gin.Context) {
	report, err := h.Accounting.BalanceSheet()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(report, "Balance sheet"))
}

func (h *AccountingHandler) AccountLedger(c *gin.Context) {
	accountId, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("Invalid account id", http.StatusBadRequest))
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	result, err := h.Accounting.AccountLedger(accountId, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
