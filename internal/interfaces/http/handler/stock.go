package handler

import (
	"context"

	orderingapp "github.com/fiado/backend/internal/application/ordering"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// stockMovement is the shared shape of StockService.Add and Remove
type stockMovement func(ctx context.Context, tenantID, productID uuid.UUID, req orderingapp.StockMovementRequest) (*orderingapp.StockItemResponse, error)

// StockHandler handles stock position API endpoints
type StockHandler struct {
	BaseHandler
	stockService *orderingapp.StockService
}

// NewStockHandler creates a new StockHandler
func NewStockHandler(stockService *orderingapp.StockService) *StockHandler {
	return &StockHandler{
		stockService: stockService,
	}
}

// List returns every product's stock position with low-stock flags
func (h *StockHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	items, err := h.stockService.List(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, items)
}

// Add increases a product's on-hand quantity
func (h *StockHandler) Add(c *gin.Context) {
	h.move(c, h.stockService.Add)
}

// Remove decreases a product's on-hand quantity
func (h *StockHandler) Remove(c *gin.Context) {
	h.move(c, h.stockService.Remove)
}

// move runs one stock movement against the product in the path
func (h *StockHandler) move(c *gin.Context, op stockMovement) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	var req orderingapp.StockMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	item, err := op(c.Request.Context(), tenantID, productID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, item)
}

// SetMinimum updates a product's low-stock threshold
func (h *StockHandler) SetMinimum(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	var req orderingapp.StockMinimumRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	item, err := h.stockService.SetMinimum(c.Request.Context(), tenantID, productID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, item)
}
