package ordering

import (
	"context"

	"github.com/fiado/backend/internal/domain/ordering"
	"github.com/google/uuid"
)

// ProductService handles product-related business operations
type ProductService struct {
	productRepo ordering.ProductRepository
	stockRepo   ordering.StockRepository
}

// NewProductService creates a new ProductService
func NewProductService(productRepo ordering.ProductRepository, stockRepo ordering.StockRepository) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		stockRepo:   stockRepo,
	}
}

// Create creates a product together with its empty stock row
func (s *ProductService) Create(ctx context.Context, tenantID uuid.UUID, req CreateProductRequest) (*ProductResponse, error) {
	product, err := ordering.NewProduct(tenantID, req.Name, req.Price)
	if err != nil {
		return nil, err
	}
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	if err := s.stockRepo.Save(ctx, ordering.NewStockItem(tenantID, product.ID)); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// Update changes a product's name and unit price. Repricing retroactively
// changes the amount due on the product's unpaid orders.
func (s *ProductService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := product.Update(req.Name, req.Price); err != nil {
		return nil, err
	}
	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// Delete removes a product
func (s *ProductService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	if _, err := s.productRepo.FindByIDForTenant(ctx, tenantID, id); err != nil {
		return err
	}
	return s.productRepo.Delete(ctx, tenantID, id)
}

// GetByID retrieves a product by ID
func (s *ProductService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// List retrieves all of the tenant's products
func (s *ProductService) List(ctx context.Context, tenantID uuid.UUID) ([]ProductResponse, error) {
	products, err := s.productRepo.FindAllForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	responses := make([]ProductResponse, 0, len(products))
	for i := range products {
		responses = append(responses, *toProductResponse(&products[i]))
	}
	return responses, nil
}
