package billing

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/fiado/backend/internal/domain/billing"
	"github.com/fiado/backend/internal/domain/ordering"
	"github.com/fiado/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// OpenOrderItem is one open order on the collection screen, with the
// charge recomputed as of the request.
type OpenOrderItem struct {
	OrderID     uuid.UUID       `json:"order_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Principal   decimal.Decimal `json:"principal"`
	DueDate     string          `json:"due_date"`
	DueTime     string          `json:"due_time"`
	DaysLate    int             `json:"days_late"`
	Interest    decimal.Decimal `json:"interest"`
	Total       decimal.Decimal `json:"total"`
}

// ClientBalance groups a client's open orders with accumulated totals and
// a ready-to-share WhatsApp link (empty when the client has no phone).
type ClientBalance struct {
	ClientID     uuid.UUID       `json:"client_id"`
	Name         string          `json:"name"`
	Phone        string          `json:"phone"`
	Principal    decimal.Decimal `json:"principal"`
	Interest     decimal.Decimal `json:"interest"`
	Total        decimal.Decimal `json:"total"`
	WhatsAppLink string          `json:"whatsapp_link,omitempty"`
	Orders       []OpenOrderItem `json:"orders"`
}

// SettleResult reports the frozen amounts of a manual settlement.
type SettleResult struct {
	OrderID   uuid.UUID       `json:"order_id"`
	Principal decimal.Decimal `json:"principal"`
	Interest  decimal.Decimal `json:"interest"`
	Total     decimal.Decimal `json:"total"`
	DaysLate  int             `json:"days_late"`
	PaidAt    time.Time       `json:"paid_at"`
}

// CollectionService serves the open-balance (cobrança) view and the two
// tenant-scoped mutations on open orders: manual settlement and due-date
// rescheduling.
type CollectionService struct {
	orders ordering.OrderRepository
	calc   billing.InterestCalculator
	logger *zap.Logger

	Now func() time.Time
}

// NewCollectionService creates a new CollectionService.
func NewCollectionService(orders ordering.OrderRepository, calc billing.InterestCalculator, logger *zap.Logger) *CollectionService {
	return &CollectionService{
		orders: orders,
		calc:   calc,
		logger: logger,
		Now:    time.Now,
	}
}

// ListOpenBalances returns the tenant's unpaid orders grouped per client.
// Paid orders never appear here regardless of their interest fields.
func (s *CollectionService) ListOpenBalances(ctx context.Context, tenantID uuid.UUID) ([]ClientBalance, error) {
	rows, err := s.orders.FindOpenForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	now := s.Now()
	byClient := make(map[uuid.UUID]*ClientBalance)

	for i := range rows {
		row := &rows[i]
		order := &row.Order

		dueDate := order.DueDate
		if dueDate.IsZero() {
			dueDate = billing.DefaultDueDate(order.OrderDate)
		}
		dueInstant := billing.ResolveDueInstant(dueDate, order.DueTime)
		charge := s.calc.ChargeAt(order.Principal(row.UnitPrice), dueInstant, now)

		balance, ok := byClient[order.ClientID]
		if !ok {
			balance = &ClientBalance{
				ClientID:  order.ClientID,
				Name:      row.ClientName,
				Phone:     row.ClientPhone,
				Principal: decimal.Zero,
				Interest:  decimal.Zero,
				Total:     decimal.Zero,
			}
			byClient[order.ClientID] = balance
		}

		balance.Principal = balance.Principal.Add(charge.Principal)
		balance.Interest = balance.Interest.Add(charge.Interest)
		balance.Total = balance.Total.Add(charge.Total)
		balance.Orders = append(balance.Orders, OpenOrderItem{
			OrderID:     order.ID,
			ProductName: row.ProductName,
			Quantity:    order.Quantity,
			UnitPrice:   row.UnitPrice,
			Principal:   charge.Principal,
			DueDate:     dueDate.Format("2006-01-02"),
			DueTime:     order.DueTime,
			DaysLate:    charge.DaysLate,
			Interest:    charge.Interest,
			Total:       charge.Total,
		})
	}

	balances := make([]ClientBalance, 0, len(byClient))
	for _, balance := range byClient {
		balance.WhatsAppLink = whatsAppLink(balance.Phone, renderBalanceSummary(balance, s.calc.DailyRate))
		balances = append(balances, *balance)
	}
	sort.Slice(balances, func(i, j int) bool { return balances[i].Name < balances[j].Name })
	return balances, nil
}

// Settle marks one order paid, recomputing principal, interest and total as
// of now and freezing them on the order. Settling a missing, foreign or
// already-paid order is a benign no-op returning nil, nil.
func (s *CollectionService) Settle(ctx context.Context, tenantID, orderID uuid.UUID) (*SettleResult, error) {
	row, err := s.findBillable(ctx, tenantID, orderID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	order := &row.Order
	if order.Paid {
		return nil, nil
	}

	now := s.Now()
	dueDate := order.DueDate
	if dueDate.IsZero() {
		dueDate = billing.DefaultDueDate(order.OrderDate)
	}
	dueInstant := billing.ResolveDueInstant(dueDate, order.DueTime)
	charge := s.calc.ChargeAt(order.Principal(row.UnitPrice), dueInstant, now)

	if err := order.Settle(charge, now); err != nil {
		return nil, err
	}
	if err := s.orders.Update(ctx, order); err != nil {
		return nil, err
	}

	s.logger.Info("Order settled",
		zap.String("order_id", order.ID.String()),
		zap.String("total", charge.Total.StringFixed(2)),
		zap.Int("days_late", charge.DaysLate))

	return &SettleResult{
		OrderID:   order.ID,
		Principal: charge.Principal,
		Interest:  charge.Interest,
		Total:     charge.Total,
		DaysLate:  charge.DaysLate,
		PaidAt:    now,
	}, nil
}

// Reschedule edits the due date and time of an open order. A malformed date
// keeps the stored date; a malformed time keeps the stored time. Paid or
// foreign orders are untouched.
func (s *CollectionService) Reschedule(ctx context.Context, tenantID, orderID uuid.UUID, dueDate, dueTime string) error {
	order, err := s.orders.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil
		}
		return err
	}

	newDate := order.DueDate
	if parsed, parseErr := time.ParseInLocation("2006-01-02", dueDate, time.Local); parseErr == nil {
		newDate = parsed
	}

	if err := order.Reschedule(newDate, dueTime); err != nil {
		if errors.Is(err, shared.ErrInvalidState) {
			return nil
		}
		return err
	}
	return s.orders.Update(ctx, order)
}

// findBillable loads one order with its client/product references by
// filtering the tenant's open rows.
func (s *CollectionService) findBillable(ctx context.Context, tenantID, orderID uuid.UUID) (*ordering.BillableOrder, error) {
	rows, err := s.orders.FindOpenForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	for i := range rows {
		if rows[i].Order.ID == orderID {
			return &rows[i], nil
		}
	}
	return nil, shared.ErrNotFound
}
