package handler

import (
	financeapp "github.com/fiado/backend/internal/application/finance"
	"github.com/gin-gonic/gin"
)

// FinanceHandler serves the received-amounts panel
type FinanceHandler struct {
	BaseHandler
	financeService *financeapp.FinanceService
}

// NewFinanceHandler creates a new FinanceHandler
func NewFinanceHandler(financeService *financeapp.FinanceService) *FinanceHandler {
	return &FinanceHandler{
		financeService: financeService,
	}
}

// GetSummary returns the tenant's total received, open order count and
// recent settlements
func (h *FinanceHandler) GetSummary(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	summary, err := h.financeService.GetSummary(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, summary)
}
