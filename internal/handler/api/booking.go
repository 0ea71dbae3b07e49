package api

import (
	"context"
	"errors"
	"net/http"

	reqdto "booking-engine/internal/handler/dto/request"
	resdto "booking-engine/internal/handler/dto/response"
	"booking-engine/internal/handler/middleware"
	"booking-engine/internal/pkg/errs"
	"booking-engine/internal/usecase/commands"
	"booking-engine/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BookingHandler struct {
	bookingCommands commands.BookingCommands
	bookingQueries  queries.BookingQueries
}

func NewBookingHandler(bookingCommands commands.BookingCommands, bookingQueries queries.BookingQueries) *BookingHandler {
	return &BookingHandler{
		bookingCommands: bookingCommands,
		bookingQueries:  bookingQueries,
	}
}

// @Summary Create booking
// @Description Commit a booking, optionally consuming a capacity lock
// @Tags bookings
// @Accept json
// @Produce json
// @Param X-Checkout-Session header string true "Checkout session token"
// @Param request body reqdto.CreateBookingRequest true "Booking request"
// @Success 201 {object} resdto.BookingResponse
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /bookings [post]
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	sessionID := middleware.GetSessionID(c)
	if sessionID == "" {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	var req reqdto.CreateBookingRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	params := commands.CreateBookingParams{
		SlotID:     req.SlotID,
		CustomerID: req.CustomerID,
		SessionID:  sessionID,
		AdultCount: req.AdultCount,
		ChildCount: req.ChildCount,
		TotalCount: req.TotalCount,
		TotalCents: req.TotalCents,
		OfferID:    req.OfferID,
		LockID:     req.LockID,
	}

	bookingID, err := h.bookingCommands.Create(c.Request.Context(), params)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrSlotNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Slot not found",
			})
		case errors.Is(err, commands.ErrLockExpiredOrInvalid):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Lock is expired or does not exist",
			})
		case errors.Is(err, commands.ErrSessionMismatch):
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Lock is held by a different session",
			})
		case errors.Is(err, commands.ErrSlotMismatch):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Lock does not belong to the requested slot",
			})
		case errors.Is(err, commands.ErrQuantityMismatch):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Lock capacity does not match party size",
			})
		case errors.Is(err, commands.ErrTenantDeactivated):
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Tenant is deactivated",
			})
		case errors.Is(err, commands.ErrInvalidOffer):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": "Offer is missing, inactive, or for another service",
			})
		case errors.Is(err, commands.ErrInsufficientCapacity):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Slot capacity no longer covers the party",
			})
		case errors.Is(err, commands.ErrInvalidBookingRequest):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": "Invalid booking request",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	view, err := h.bookingQueries.GetByID(c.Request.Context(), bookingID)
	if err != nil {
		// The booking committed; degrade to the id so the client can refetch.
		c.JSON(http.StatusCreated, gin.H{"id": bookingID})
		return
	}
	c.JSON(http.StatusCreated, resdto.FromBookingView(view))
}

// @Summary Get booking
// @Description Get booking by ID
// @Tags bookings
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} resdto.BookingResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /bookings/{id} [get]
func (h *BookingHandler) GetBooking(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid booking ID format",
		})
		return
	}

	view, err := h.bookingQueries.GetByID(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrBookingNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Booking not found",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromBookingView(view))
}

// @Summary Check in booking
// @Description Move a confirmed booking to checked_in
// @Tags bookings
// @Produce json
// @Param id path string true "Booking ID"
// @Success 204
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /bookings/{id}/check-in [post]
func (h *BookingHandler) CheckIn(c *gin.Context) {
	h.applyTransition(c, h.bookingCommands.CheckIn)
}

// @Summary Complete booking
// @Description Close out a checked-in booking
// @Tags bookings
// @Produce json
// @Param id path string true "Booking ID"
// @Success 204
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /bookings/{id}/complete [post]
func (h *BookingHandler) Complete(c *gin.Context) {
	h.applyTransition(c, h.bookingCommands.Complete)
}

// @Summary Mark booking no-show
// @Description Mark a confirmed booking as no_show
// @Tags bookings
// @Produce json
// @Param id path string true "Booking ID"
// @Success 204
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /bookings/{id}/no-show [post]
func (h *BookingHandler) MarkNoShow(c *gin.Context) {
	h.applyTransition(c, h.bookingCommands.MarkNoShow)
}

// @Summary Record payment
// @Description Record a full or partial payment against a booking
// @Tags bookings
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param request body reqdto.RecordPaymentRequest true "Payment request"
// @Success 204
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /bookings/{id}/payment [post]
func (h *BookingHandler) RecordPayment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid booking ID format",
		})
		return
	}

	var req reqdto.RecordPaymentRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	h.respondTransition(c, h.bookingCommands.RecordPayment(c.Request.Context(), id, req.Partial))
}

func (h *BookingHandler) applyTransition(c *gin.Context, fn func(ctx context.Context, id uuid.UUID) error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid booking ID format",
		})
		return
	}
	h.respondTransition(c, fn(c.Request.Context(), id))
}

func (h *BookingHandler) respondTransition(c *gin.Context, err error) {
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrBookingNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Booking not found",
			})
		case errors.Is(err, commands.ErrInvalidTransition):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Booking status transition not allowed",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}
	c.Status(http.StatusNoContent)
}
