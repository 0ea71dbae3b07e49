package api

import (
	"errors"
	"net/http"

	reqdto "booking-engine/internal/handler/dto/request"
	resdto "booking-engine/internal/handler/dto/response"
	"booking-engine/internal/handler/middleware"
	"booking-engine/internal/usecase/commands"
	"booking-engine/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type LockHandler struct {
	lockCommands commands.LockCommands
	lockQueries  queries.LockQueries
}

func NewLockHandler(lockCommands commands.LockCommands, lockQueries queries.LockQueries) *LockHandler {
	return &LockHandler{
		lockCommands: lockCommands,
		lockQueries:  lockQueries,
	}
}

// @Summary Acquire capacity lock
// @Description Hold slot capacity for the current checkout session
// @Tags locks
// @Accept json
// @Produce json
// @Param X-Checkout-Session header string false "Checkout session token"
// @Param request body reqdto.AcquireLockRequest true "Lock request"
// @Success 201 {object} resdto.LockResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /locks [post]
func (h *LockHandler) AcquireLock(c *gin.Context) {
	sessionID := middleware.GetSessionID(c)
	if sessionID == "" {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	var req reqdto.AcquireLockRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	result, err := h.lockCommands.Acquire(c.Request.Context(), req.SlotID, sessionID, req.Amount)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrSlotNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Slot not found",
			})
		case errors.Is(err, commands.ErrCapacityUnavailable):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Requested capacity is not available",
			})
		case errors.Is(err, commands.ErrInvalidAmount):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Amount must be at least 1",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusCreated, resdto.FromAcquireLockResult(result))
}

// @Summary Get lock status
// @Description Report whether the lock is still valid for this session and its remaining TTL
// @Tags locks
// @Produce json
// @Param X-Checkout-Session header string true "Checkout session token"
// @Param id path string true "Lock ID"
// @Success 200 {object} resdto.LockStatusResponse
// @Failure 400 {object} map[string]string
// @Router /locks/{id} [get]
func (h *LockHandler) GetLockStatus(c *gin.Context) {
	lockID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid lock ID format",
		})
		return
	}

	view, err := h.lockQueries.Status(c.Request.Context(), lockID, middleware.GetSessionID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, resdto.FromLockStatusView(view))
}

// @Summary Release capacity lock
// @Description Return held capacity to the slot; idempotent for already-gone locks
// @Tags locks
// @Produce json
// @Param X-Checkout-Session header string true "Checkout session token"
// @Param id path string true "Lock ID"
// @Success 204
// @Failure 400 {object} map[string]string
// @Router /locks/{id} [delete]
func (h *LockHandler) ReleaseLock(c *gin.Context) {
	lockID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid lock ID format",
		})
		return
	}

	err = h.lockCommands.Release(c.Request.Context(), lockID, middleware.GetSessionID(c))
	if err != nil && !errors.Is(err, commands.ErrLockNotFound) {
		// A vanished lock was reaped or already consumed; release succeeded
		// from the caller's point of view.
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary List active locks for slots
// @Description Aggregate live held capacity per slot for listing pages
// @Tags locks
// @Accept json
// @Produce json
// @Param request body reqdto.ActiveLocksRequest true "Slot IDs"
// @Success 200 {array} resdto.ActiveLockResponse
// @Failure 400 {object} map[string]string
// @Router /locks/active [post]
func (h *LockHandler) GetActiveLocks(c *gin.Context) {
	var req reqdto.ActiveLocksRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	views, err := h.lockQueries.ActiveForSlots(c.Request.Context(), req.SlotIDs)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	response := make([]*resdto.ActiveLockResponse, len(views))
	for i, v := range views {
		response[i] = resdto.FromActiveLockView(v)
	}
	c.JSON(http.StatusOK, response)
}
