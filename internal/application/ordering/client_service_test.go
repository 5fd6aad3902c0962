package ordering

import (
	"context"
	"testing"

	"github.com/fiado/backend/internal/domain/ordering"
	"github.com/fiado/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestClientService_Create(t *testing.T) {
	tenantID := uuid.New()

	t.Run("should normalize phone on creation", func(t *testing.T) {
		clients := new(MockClientRepository)
		svc := NewClientService(clients)

		clients.On("Save", mock.Anything, mock.MatchedBy(func(c *ordering.Client) bool {
			return c.Phone == "11988887777"
		})).Return(nil)

		resp, err := svc.Create(context.Background(), tenantID, CreateClientRequest{
			Name:  "Maria Silva",
			Phone: "(11) 98888-7777",
		})

		assert.NoError(t, err)
		assert.Equal(t, "11988887777", resp.Phone)
	})

	t.Run("should reject blank name", func(t *testing.T) {
		clients := new(MockClientRepository)
		svc := NewClientService(clients)

		resp, err := svc.Create(context.Background(), tenantID, CreateClientRequest{Name: "   "})

		assert.Error(t, err)
		assert.Nil(t, resp)
		clients.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestClientService_Update(t *testing.T) {
	tenantID := uuid.New()

	t.Run("should rename and renormalize phone", func(t *testing.T) {
		clients := new(MockClientRepository)
		svc := NewClientService(clients)

		client, _ := ordering.NewClient(tenantID, "Maria", "11988887777")
		clients.On("FindByIDForTenant", mock.Anything, tenantID, client.ID).Return(client, nil)
		clients.On("Update", mock.Anything, client).Return(nil)

		resp, err := svc.Update(context.Background(), tenantID, client.ID, UpdateClientRequest{
			Name:  "Maria Souza",
			Phone: "11 97777-0000",
		})

		assert.NoError(t, err)
		assert.Equal(t, "Maria Souza", resp.Name)
		assert.Equal(t, "11977770000", resp.Phone)
	})

	t.Run("should not touch another tenant's client", func(t *testing.T) {
		clients := new(MockClientRepository)
		svc := NewClientService(clients)

		id := uuid.New()
		clients.On("FindByIDForTenant", mock.Anything, tenantID, id).Return(nil, shared.ErrNotFound)

		_, err := svc.Update(context.Background(), tenantID, id, UpdateClientRequest{Name: "X"})

		assert.ErrorIs(t, err, shared.ErrNotFound)
		clients.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}

func TestClientService_Delete(t *testing.T) {
	tenantID := uuid.New()

	clients := new(MockClientRepository)
	svc := NewClientService(clients)

	id := uuid.New()
	clients.On("FindByIDForTenant", mock.Anything, tenantID, id).Return(nil, shared.ErrNotFound)

	err := svc.Delete(context.Background(), tenantID, id)

	assert.ErrorIs(t, err, shared.ErrNotFound)
	clients.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
}
