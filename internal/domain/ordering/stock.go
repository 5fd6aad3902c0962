package ordering

import (
	"github.com/fiado/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// StockItem tracks the on-hand quantity of one product for one tenant,
// with a minimum threshold used for low-stock warnings.
type StockItem struct {
	shared.TenantEntity
	ProductID uuid.UUID
	Quantity  int
	Minimum   int
}

// NewStockItem creates an empty stock row for a product.
func NewStockItem(tenantID, productID uuid.UUID) *StockItem {
	return &StockItem{
		TenantEntity: shared.NewTenantEntity(tenantID),
		ProductID:    productID,
	}
}

// Add increases the on-hand quantity.
func (s *StockItem) Add(qty int) error {
	if qty < 1 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be at least 1")
	}
	s.Quantity += qty
	return nil
}

// Remove decreases the on-hand quantity, refusing to go negative.
func (s *StockItem) Remove(qty int) error {
	if qty < 1 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be at least 1")
	}
	if qty > s.Quantity {
		return shared.NewDomainError("INSUFFICIENT_STOCK", "Not enough stock on hand")
	}
	s.Quantity -= qty
	return nil
}

// SetMinimum updates the low-stock threshold.
func (s *StockItem) SetMinimum(minimum int) error {
	if minimum < 0 {
		return shared.NewDomainError("INVALID_MINIMUM", "Minimum cannot be negative")
	}
	s.Minimum = minimum
	return nil
}

// BelowMinimum reports whether the on-hand quantity is under the threshold.
func (s *StockItem) BelowMinimum() bool {
	return s.Minimum > 0 && s.Quantity < s.Minimum
}
