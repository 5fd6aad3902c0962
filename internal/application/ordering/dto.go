package ordering

import (
	"time"

	"github.com/fiado/backend/internal/domain/ordering"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// Client DTOs
// =============================================================================

// CreateClientRequest represents a request to register a new client
type CreateClientRequest struct {
	Name  string `json:"name" binding:"required,min=1,max=200"`
	Phone string `json:"phone" binding:"max=50"`
}

// UpdateClientRequest represents a request to update a client
type UpdateClientRequest struct {
	Name  string `json:"name" binding:"required,min=1,max=200"`
	Phone string `json:"phone" binding:"max=50"`
}

// ClientResponse represents a client in API responses
type ClientResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
}

func toClientResponse(c *ordering.Client) *ClientResponse {
	return &ClientResponse{
		ID:        c.ID,
		Name:      c.Name,
		Phone:     c.Phone,
		CreatedAt: c.CreatedAt,
	}
}

// =============================================================================
// Product DTOs
// =============================================================================

// CreateProductRequest represents a request to create a new product
type CreateProductRequest struct {
	Name  string          `json:"name" binding:"required,min=1,max=200"`
	Price decimal.Decimal `json:"price" binding:"required"`
}

// UpdateProductRequest represents a request to update a product
type UpdateProductRequest struct {
	Name  string          `json:"name" binding:"required,min=1,max=200"`
	Price decimal.Decimal `json:"price" binding:"required"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	CreatedAt time.Time       `json:"created_at"`
}

func toProductResponse(p *ordering.Product) *ProductResponse {
	return &ProductResponse{
		ID:        p.ID,
		Name:      p.Name,
		Price:     p.Price,
		CreatedAt: p.CreatedAt,
	}
}

// =============================================================================
// Order DTOs
// =============================================================================

// CreateOrderRequest represents a request to put a purchase on a client's tab.
// DueDate and DueTime override the first-business-day default when given.
type CreateOrderRequest struct {
	ClientID  uuid.UUID `json:"client_id" binding:"required"`
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1"`
	DueDate   string    `json:"due_date" binding:"omitempty,len=10"`
	DueTime   string    `json:"due_time" binding:"omitempty,len=5"`
}

// OrderResponse represents an order in API responses, with the charge
// recomputed as of the request
type OrderResponse struct {
	ID          uuid.UUID       `json:"id"`
	ClientID    uuid.UUID       `json:"client_id"`
	ClientName  string          `json:"client_name"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Principal   decimal.Decimal `json:"principal"`
	Interest    decimal.Decimal `json:"interest"`
	Total       decimal.Decimal `json:"total"`
	DaysLate    int             `json:"days_late"`
	OrderDate   string          `json:"order_date"`
	DueDate     string          `json:"due_date"`
	DueTime     string          `json:"due_time"`
	State       string          `json:"state"`
	Paid        bool            `json:"paid"`
	AmountPaid  decimal.Decimal `json:"amount_paid"`
	PaymentDate *time.Time      `json:"payment_date,omitempty"`
	Notified    bool            `json:"notified"`
	InvoiceURL  string          `json:"invoice_url,omitempty"`
}

// =============================================================================
// Stock DTOs
// =============================================================================

// StockMovementRequest represents a stock addition or removal
type StockMovementRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

// StockMinimumRequest represents a low-stock threshold update
type StockMinimumRequest struct {
	Minimum int `json:"minimum" binding:"min=0"`
}

// StockItemResponse represents one product's stock position
type StockItemResponse struct {
	ProductID    uuid.UUID `json:"product_id"`
	ProductName  string    `json:"product_name"`
	Quantity     int       `json:"quantity"`
	Minimum      int       `json:"minimum"`
	BelowMinimum bool      `json:"below_minimum"`
}

// =============================================================================
// Storefront DTOs
// =============================================================================

// StorefrontOrderRequest is the public self-service order form: no
// authentication, the client identifies themselves by name and phone.
type StorefrontOrderRequest struct {
	Name      string    `json:"name" binding:"required,min=1,max=200"`
	Phone     string    `json:"phone" binding:"required,min=8,max=50"`
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1"`
}

// StorefrontOrderResponse confirms a self-service order. The Pix fields are
// empty when payment-provider enrichment is disabled or failed.
type StorefrontOrderResponse struct {
	OrderID     uuid.UUID       `json:"order_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	Total       decimal.Decimal `json:"total"`
	DueDate     string          `json:"due_date"`
	InvoiceURL  string          `json:"invoice_url,omitempty"`
	PixPayload  string          `json:"pix_payload,omitempty"`
	PixQRCode   string          `json:"pix_qr_code,omitempty"`
}
