package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"travel-backoffice/internal/services"
	"travel-backoffice/pkg/common"
)

type BookingHandler struct {
	Bookings *services.BookingService
}

func NewBookingHandler(bookings *services.BookingService) *BookingHandler {
	return &BookingHandler{Bookings: bookings}
}

func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req services.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(err.Error(), http.StatusBadRequest))
		return
	}

	booking, err := h.Bookings.CreateBooking(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, common.NewSuccessResponse(booking, "Booking created"))
}

func (h *BookingHandler) GetBooking(c *gin.Context) {
	bookingId, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("Invalid booking id", http.StatusBadRequest))
		return
	}

	booking, passengers, tickets, err := h.Bookings.GetBooking(bookingId)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(gin.H{
		"booking":    booking,
		"passengers": passengers,
		"tickets":    tickets,
	}, "Booking details"))
}

func (h *BookingHandler) ConfirmBooking(c *gin.Context) {
	bookingId, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("Invalid booking id", http.StatusBadRequest))
		return
	}

	booking, err := h.Bookings.ConfirmBooking(c.Request.Context(), bookingId)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(booking, "Booking confirmed"))
}

type RejectBookingRequest struct {
	Reason string `json:"reason"`
}

func (h *BookingHandler) RejectBooking(c *gin.Context) {
	bookingId, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("Invalid booking id", http.StatusBadRequest))
		return
	}

	var req RejectBookingRequest
	_ = c.ShouldBindJSON(&req)

	booking, err := h.Bookings.RejectBooking(c.Request.Context(), bookingId, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(booking, "Booking rejected"))
}

func (h *BookingHandler) CancelBooking(c *gin.Context) {
	bookingId, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("Invalid booking id", http.StatusBadRequest))
		return
	}

	var req RejectBookingRequest
	_ = c.ShouldBindJSON(&req)

	booking, err := h.Bookings.CancelBooking(c.Request.Context(), bookingId, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(booking, "Booking cancelled"))
}
