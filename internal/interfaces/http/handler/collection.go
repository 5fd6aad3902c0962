package handler

import (
	"errors"
	"net/http"

	billingapp "github.com/fiado/backend/internal/application/billing"
	"github.com/fiado/backend/internal/infrastructure/scheduler"
	"github.com/fiado/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RescheduleRequest changes an open order's due date and time
type RescheduleRequest struct {
	DueDate string `json:"due_date" binding:"required,len=10"`
	DueTime string `json:"due_time" binding:"omitempty,len=5"`
}

// CollectionHandler serves the open-balance view and the mutations the
// collection screen performs on open orders
type CollectionHandler struct {
	BaseHandler
	collectionService *billingapp.CollectionService
	reminderScheduler *scheduler.ReminderScheduler
}

// NewCollectionHandler creates a new CollectionHandler. reminderScheduler
// may be nil when the reminder job is disabled.
func NewCollectionHandler(collectionService *billingapp.CollectionService, reminderScheduler *scheduler.ReminderScheduler) *CollectionHandler {
	return &CollectionHandler{
		collectionService: collectionService,
		reminderScheduler: reminderScheduler,
	}
}

// ListOpenBalances returns open orders grouped per client, with interest
// recomputed as of the request and a ready-to-share WhatsApp link
func (h *CollectionHandler) ListOpenBalances(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	balances, err := h.collectionService.ListOpenBalances(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, balances)
}

// Settle marks an order as paid in person, freezing principal plus the
// interest accrued up to now
func (h *CollectionHandler) Settle(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	result, err := h.collectionService.Settle(c.Request.Context(), tenantID, orderID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// Reschedule edits an open order's due date and time
func (h *CollectionHandler) Reschedule(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	var req RescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if err := h.collectionService.Reschedule(c.Request.Context(), tenantID, orderID, req.DueDate, req.DueTime); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// RunReminders triggers one reminder sweep immediately instead of waiting
// for the next scheduled tick. The sweep spans all tenants; the stats are
// returned to the caller.
func (h *CollectionHandler) RunReminders(c *gin.Context) {
	if h.reminderScheduler == nil {
		h.Error(c, http.StatusServiceUnavailable, dto.ErrCodeInvalidState, "Reminder job is disabled")
		return
	}

	stats, err := h.reminderScheduler.TriggerNow(c.Request.Context())
	if err != nil {
		if errors.Is(err, scheduler.ErrSchedulerNotRunning) {
			h.Error(c, http.StatusServiceUnavailable, dto.ErrCodeInvalidState, "Reminder job is not running")
			return
		}
		h.InternalError(c, "Reminder sweep failed")
		return
	}

	h.Success(c, stats)
}

// ReminderStatus reports whether the background reminder job is running
func (h *CollectionHandler) ReminderStatus(c *gin.Context) {
	running := h.reminderScheduler != nil && h.reminderScheduler.IsRunning()
	h.Success(c, gin.H{"running": running})
}
