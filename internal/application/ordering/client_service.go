package ordering

import (
	"context"

	"github.com/fiado/backend/internal/domain/ordering"
	"github.com/google/uuid"
)

// ClientService handles client-related business operations
type ClientService struct {
	clientRepo ordering.ClientRepository
}

// NewClientService creates a new ClientService
func NewClientService(clientRepo ordering.ClientRepository) *ClientService {
	return &ClientService{
		clientRepo: clientRepo,
	}
}

// Create registers a new client
func (s *ClientService) Create(ctx context.Context, tenantID uuid.UUID, req CreateClientRequest) (*ClientResponse, error) {
	client, err := ordering.NewClient(tenantID, req.Name, req.Phone)
	if err != nil {
		return nil, err
	}
	if err := s.clientRepo.Save(ctx, client); err != nil {
		return nil, err
	}
	return toClientResponse(client), nil
}

// Update changes a client's name and phone
func (s *ClientService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateClientRequest) (*ClientResponse, error) {
	client, err := s.clientRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := client.Rename(req.Name, req.Phone); err != nil {
		return nil, err
	}
	if err := s.clientRepo.Update(ctx, client); err != nil {
		return nil, err
	}
	return toClientResponse(client), nil
}

// Delete removes a client
func (s *ClientService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	if _, err := s.clientRepo.FindByIDForTenant(ctx, tenantID, id); err != nil {
		return err
	}
	return s.clientRepo.Delete(ctx, tenantID, id)
}

// GetByID retrieves a client by ID
func (s *ClientService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*ClientResponse, error) {
	client, err := s.clientRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	return toClientResponse(client), nil
}

// List retrieves all of the tenant's clients
func (s *ClientService) List(ctx context.Context, tenantID uuid.UUID) ([]ClientResponse, error) {
	clients, err := s.clientRepo.FindAllForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	responses := make([]ClientResponse, 0, len(clients))
	for i := range clients {
		responses = append(responses, *toClientResponse(&clients[i]))
	}
	return responses, nil
}
