package billing

import (
	"context"
	"time"

	"github.com/fiado/backend/internal/domain/ordering"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockOrderRepository is a mock implementation of ordering.OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Save(ctx context.Context, order *ordering.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, order *ordering.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*ordering.Order, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ordering.Order), args.Error(1)
}

func (m *MockOrderRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]ordering.BillableOrder, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ordering.BillableOrder), args.Error(1)
}

func (m *MockOrderRepository) FindOpenForTenant(ctx context.Context, tenantID uuid.UUID) ([]ordering.BillableOrder, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ordering.BillableOrder), args.Error(1)
}

func (m *MockOrderRepository) FindByAsaasPaymentID(ctx context.Context, paymentID string) (*ordering.Order, error) {
	args := m.Called(ctx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ordering.Order), args.Error(1)
}

func (m *MockOrderRepository) FindPendingNotification(ctx context.Context) ([]ordering.BillableOrder, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ordering.BillableOrder), args.Error(1)
}

func (m *MockOrderRepository) MarkNotified(ctx context.Context, orderID uuid.UUID, at time.Time) (bool, error) {
	args := m.Called(ctx, orderID, at)
	return args.Bool(0), args.Error(1)
}

func (m *MockOrderRepository) TotalReceived(ctx context.Context, tenantID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockOrderRepository) CountOpen(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) RecentSettlements(ctx context.Context, tenantID uuid.UUID, limit int) ([]ordering.Settlement, error) {
	args := m.Called(ctx, tenantID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ordering.Settlement), args.Error(1)
}

// MockDispatcher is a mock implementation of MessageDispatcher
type MockDispatcher struct {
	mock.Mock
}

func (m *MockDispatcher) Send(ctx context.Context, phone, text string) error {
	args := m.Called(ctx, phone, text)
	return args.Error(0)
}
