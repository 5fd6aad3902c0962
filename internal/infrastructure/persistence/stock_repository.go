package persistence

import (
	"context"
	"errors"

	"github.com/fiado/backend/internal/domain/ordering"
	"github.com/fiado/backend/internal/domain/shared"
	"github.com/fiado/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormStockRepository implements StockRepository using GORM
type GormStockRepository struct {
	db *gorm.DB
}

// NewGormStockRepository creates a new GormStockRepository
func NewGormStockRepository(db *gorm.DB) *GormStockRepository {
	return &GormStockRepository{db: db}
}

// Save creates or updates a stock row
func (r *GormStockRepository) Save(ctx context.Context, item *ordering.StockItem) error {
	model := models.StockModelFromDomain(item)
	return r.db.WithContext(ctx).Save(model).Error
}

// Update persists changes to an existing stock row
func (r *GormStockRepository) Update(ctx context.Context, item *ordering.StockItem) error {
	model := models.StockModelFromDomain(item)
	return r.db.WithContext(ctx).Save(model).Error
}

// FindByProduct finds the stock row of a product within a tenant
func (r *GormStockRepository) FindByProduct(ctx context.Context, tenantID, productID uuid.UUID) (*ordering.StockItem, error) {
	var model models.StockModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND produto_id = ?", tenantID, productID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForTenant finds all stock rows for a tenant
func (r *GormStockRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]ordering.StockItem, error) {
	var stockModels []models.StockModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Find(&stockModels).Error; err != nil {
		return nil, err
	}

	items := make([]ordering.StockItem, len(stockModels))
	for i, model := range stockModels {
		items[i] = *model.ToDomain()
	}
	return items, nil
}

// Ensure GormStockRepository implements StockRepository
var _ ordering.StockRepository = (*GormStockRepository)(nil)
