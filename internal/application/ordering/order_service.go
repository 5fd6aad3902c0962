package ordering

import (
	"context"
	"time"

	"github.com/fiado/backend/internal/domain/billing"
	"github.com/fiado/backend/internal/domain/ordering"
	"github.com/fiado/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// OrderService handles the order ledger: putting purchases on a tab and
// listing them with charges recomputed as of the request.
type OrderService struct {
	orderRepo   ordering.OrderRepository
	clientRepo  ordering.ClientRepository
	productRepo ordering.ProductRepository
	calc        billing.InterestCalculator

	Now func() time.Time
}

// NewOrderService creates a new OrderService
func NewOrderService(
	orderRepo ordering.OrderRepository,
	clientRepo ordering.ClientRepository,
	productRepo ordering.ProductRepository,
	calc billing.InterestCalculator,
) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		clientRepo:  clientRepo,
		productRepo: productRepo,
		calc:        calc,
		Now:         time.Now,
	}
}

// Create puts a purchase on a client's tab. Client and product must belong
// to the tenant; the due date defaults to the first business day of the
// next month when not overridden.
func (s *OrderService) Create(ctx context.Context, tenantID uuid.UUID, req CreateOrderRequest) (*OrderResponse, error) {
	client, err := s.clientRepo.FindByIDForTenant(ctx, tenantID, req.ClientID)
	if err != nil {
		return nil, err
	}
	product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, req.ProductID)
	if err != nil {
		return nil, err
	}

	now := s.Now()
	order, err := ordering.NewOrder(tenantID, client.ID, product.ID, req.Quantity, now)
	if err != nil {
		return nil, err
	}
	if req.DueDate != "" {
		if parsed, parseErr := time.ParseInLocation("2006-01-02", req.DueDate, time.Local); parseErr == nil {
			order.DueDate = parsed
		}
	}
	if billing.ValidDueTime(req.DueTime) {
		order.DueTime = req.DueTime
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}

	row := ordering.BillableOrder{
		Order:       *order,
		ClientName:  client.Name,
		ClientPhone: client.Phone,
		ProductName: product.Name,
		UnitPrice:   product.Price,
	}
	return s.toOrderResponse(&row, now), nil
}

// GetByID retrieves one order with its charge recomputed as of the request
func (s *OrderService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*OrderResponse, error) {
	rows, err := s.orderRepo.FindAllForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	now := s.Now()
	for i := range rows {
		if rows[i].Order.ID == id {
			return s.toOrderResponse(&rows[i], now), nil
		}
	}
	return nil, shared.ErrNotFound
}

// List retrieves the tenant's orders, newest first, with live charges for
// the open ones and frozen amounts for the settled ones.
func (s *OrderService) List(ctx context.Context, tenantID uuid.UUID) ([]OrderResponse, error) {
	rows, err := s.orderRepo.FindAllForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	now := s.Now()
	responses := make([]OrderResponse, 0, len(rows))
	for i := range rows {
		responses = append(responses, *s.toOrderResponse(&rows[i], now))
	}
	return responses, nil
}

func (s *OrderService) toOrderResponse(row *ordering.BillableOrder, now time.Time) *OrderResponse {
	order := &row.Order

	dueDate := order.DueDate
	if dueDate.IsZero() {
		dueDate = billing.DefaultDueDate(order.OrderDate)
	}
	dueInstant := billing.ResolveDueInstant(dueDate, order.DueTime)
	principal := order.Principal(row.UnitPrice)

	resp := &OrderResponse{
		ID:          order.ID,
		ClientID:    order.ClientID,
		ClientName:  row.ClientName,
		ProductID:   order.ProductID,
		ProductName: row.ProductName,
		Quantity:    order.Quantity,
		UnitPrice:   row.UnitPrice,
		Principal:   principal,
		OrderDate:   order.OrderDate.Format("2006-01-02"),
		DueDate:     dueDate.Format("2006-01-02"),
		DueTime:     order.DueTime,
		State:       string(order.State()),
		Paid:        order.Paid,
		AmountPaid:  order.AmountPaid,
		PaymentDate: order.PaymentDate,
		Notified:    order.Notified,
		InvoiceURL:  order.AsaasInvoiceURL,
	}

	if order.Paid {
		// Settled orders report their frozen amounts; interest stops
		// accruing at settlement.
		resp.Interest = order.InterestPaid
		resp.Total = order.AmountPaid
		return resp
	}

	charge := s.calc.ChargeAt(principal, dueInstant, now)
	resp.Interest = charge.Interest
	resp.Total = charge.Total
	resp.DaysLate = charge.DaysLate
	return resp
}
