package handler

import (
	orderingapp "github.com/fiado/backend/internal/application/ordering"
	"github.com/gin-gonic/gin"
)

// StorefrontHandler serves the public self-service storefront. No
// authentication: clients identify themselves by name and phone on the
// order form.
type StorefrontHandler struct {
	BaseHandler
	storefrontService *orderingapp.StorefrontService
}

// NewStorefrontHandler creates a new StorefrontHandler
func NewStorefrontHandler(storefrontService *orderingapp.StorefrontService) *StorefrontHandler {
	return &StorefrontHandler{
		storefrontService: storefrontService,
	}
}

// ListProducts returns the storefront catalog
func (h *StorefrontHandler) ListProducts(c *gin.Context) {
	products, err := h.storefrontService.ListProducts(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, products)
}

// PlaceOrder puts a self-service purchase on the caller's tab, creating
// the client record on first order. The response carries Pix payment data
// when the payment provider is configured.
func (h *StorefrontHandler) PlaceOrder(c *gin.Context) {
	var req orderingapp.StorefrontOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	order, err := h.storefrontService.PlaceOrder(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, order)
}
