package ordering

import (
	"context"
	"errors"
	"sort"

	"github.com/fiado/backend/internal/domain/ordering"
	"github.com/fiado/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// StockService handles stock movements and the low-stock overview
type StockService struct {
	stockRepo   ordering.StockRepository
	productRepo ordering.ProductRepository
}

// NewStockService creates a new StockService
func NewStockService(stockRepo ordering.StockRepository, productRepo ordering.ProductRepository) *StockService {
	return &StockService{
		stockRepo:   stockRepo,
		productRepo: productRepo,
	}
}

// Add increases a product's on-hand quantity
func (s *StockService) Add(ctx context.Context, tenantID, productID uuid.UUID, req StockMovementRequest) (*StockItemResponse, error) {
	item, product, err := s.load(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}
	if err := item.Add(req.Quantity); err != nil {
		return nil, err
	}
	if err := s.stockRepo.Update(ctx, item); err != nil {
		return nil, err
	}
	return toStockResponse(item, product.Name), nil
}

// Remove decreases a product's on-hand quantity
func (s *StockService) Remove(ctx context.Context, tenantID, productID uuid.UUID, req StockMovementRequest) (*StockItemResponse, error) {
	item, product, err := s.load(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}
	if err := item.Remove(req.Quantity); err != nil {
		return nil, err
	}
	if err := s.stockRepo.Update(ctx, item); err != nil {
		return nil, err
	}
	return toStockResponse(item, product.Name), nil
}

// SetMinimum updates a product's low-stock threshold
func (s *StockService) SetMinimum(ctx context.Context, tenantID, productID uuid.UUID, req StockMinimumRequest) (*StockItemResponse, error) {
	item, product, err := s.load(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}
	if err := item.SetMinimum(req.Minimum); err != nil {
		return nil, err
	}
	if err := s.stockRepo.Update(ctx, item); err != nil {
		return nil, err
	}
	return toStockResponse(item, product.Name), nil
}

// List returns the tenant's stock positions sorted by product name
func (s *StockService) List(ctx context.Context, tenantID uuid.UUID) ([]StockItemResponse, error) {
	items, err := s.stockRepo.FindAllForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	products, err := s.productRepo.FindAllForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	names := make(map[uuid.UUID]string, len(products))
	for i := range products {
		names[products[i].ID] = products[i].Name
	}

	responses := make([]StockItemResponse, 0, len(items))
	for i := range items {
		responses = append(responses, *toStockResponse(&items[i], names[items[i].ProductID]))
	}
	sort.Slice(responses, func(i, j int) bool { return responses[i].ProductName < responses[j].ProductName })
	return responses, nil
}

// load fetches the product and its stock row, creating the row for
// products that predate stock tracking.
func (s *StockService) load(ctx context.Context, tenantID, productID uuid.UUID) (*ordering.StockItem, *ordering.Product, error) {
	product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, productID)
	if err != nil {
		return nil, nil, err
	}
	item, err := s.stockRepo.FindByProduct(ctx, tenantID, productID)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, nil, err
		}
		item = ordering.NewStockItem(tenantID, productID)
		if err := s.stockRepo.Save(ctx, item); err != nil {
			return nil, nil, err
		}
	}
	return item, product, nil
}

func toStockResponse(item *ordering.StockItem, productName string) *StockItemResponse {
	return &StockItemResponse{
		ProductID:    item.ProductID,
		ProductName:  productName,
		Quantity:     item.Quantity,
		Minimum:      item.Minimum,
		BelowMinimum: item.BelowMinimum(),
	}
}
