package ordering

import (
	"strings"

	"github.com/fiado/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a sellable item with a unit price. The price is live: unpaid
// orders always bill against the current price, not the price at creation.
type Product struct {
	shared.TenantEntity
	Name  string
	Price decimal.Decimal
}

// NewProduct creates a product. The unit price must be positive.
func NewProduct(tenantID uuid.UUID, name string, price decimal.Decimal) (*Product, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Product name is required")
	}
	if price.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_PRICE", "Product price must be greater than zero")
	}
	return &Product{
		TenantEntity: shared.NewTenantEntity(tenantID),
		Name:         name,
		Price:        price,
	}, nil
}

// Update changes the product's name and price.
func (p *Product) Update(name string, price decimal.Decimal) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name is required")
	}
	if price.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_PRICE", "Product price must be greater than zero")
	}
	p.Name = name
	p.Price = price
	return nil
}
