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

// GormClientRepository implements ClientRepository using GORM
type GormClientRepository struct {
	db *gorm.DB
}

// NewGormClientRepository creates a new GormClientRepository
func NewGormClientRepository(db *gorm.DB) *GormClientRepository {
	return &GormClientRepository{db: db}
}

// Save creates or updates a client
func (r *GormClientRepository) Save(ctx context.Context, client *ordering.Client) error {
	model := models.ClientModelFromDomain(client)
	return r.db.WithContext(ctx).Save(model).Error
}

// Update persists changes to an existing client
func (r *GormClientRepository) Update(ctx context.Context, client *ordering.Client) error {
	model := models.ClientModelFromDomain(client)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete removes a client within a tenant
func (r *GormClientRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.ClientModel{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByIDForTenant finds a client by ID within a tenant
func (r *GormClientRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*ordering.Client, error) {
	var model models.ClientModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForTenant finds all clients for a tenant ordered by name
func (r *GormClientRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]ordering.Client, error) {
	var clientModels []models.ClientModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("nome ASC").
		Find(&clientModels).Error; err != nil {
		return nil, err
	}

	clients := make([]ordering.Client, len(clientModels))
	for i, model := range clientModels {
		clients[i] = *model.ToDomain()
	}
	return clients, nil
}

// FindByPhone finds a client by its canonical digits-only phone within a tenant
func (r *GormClientRepository) FindByPhone(ctx context.Context, tenantID uuid.UUID, phone string) (*ordering.Client, error) {
	if phone == "" {
		return nil, shared.NewDomainError("INVALID_PHONE", "Phone cannot be empty")
	}
	var model models.ClientModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND telefone = ?", tenantID, phone).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Ensure GormClientRepository implements ClientRepository
var _ ordering.ClientRepository = (*GormClientRepository)(nil)
