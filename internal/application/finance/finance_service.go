// Package finance serves the owner's money panel: what came in and what is
// still on the street.
package finance

import (
	"context"
	"time"

	"github.com/fiado/backend/internal/domain/ordering"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// recentSettlementLimit bounds the settlement feed on the panel.
const recentSettlementLimit = 10

// SettlementEntry is one settled order on the panel
type SettlementEntry struct {
	OrderID     uuid.UUID       `json:"order_id"`
	ClientName  string          `json:"client_name"`
	ProductName string          `json:"product_name"`
	AmountPaid  decimal.Decimal `json:"amount_paid"`
	PaymentDate *time.Time      `json:"payment_date,omitempty"`
}

// Summary aggregates the tenant's financial position
type Summary struct {
	TotalReceived decimal.Decimal   `json:"total_received"`
	OpenOrders    int64             `json:"open_orders"`
	Recent        []SettlementEntry `json:"recent_settlements"`
}

// FinanceService aggregates settled amounts for the finance panel
type FinanceService struct {
	orderRepo ordering.OrderRepository
}

// NewFinanceService creates a new FinanceService
func NewFinanceService(orderRepo ordering.OrderRepository) *FinanceService {
	return &FinanceService{
		orderRepo: orderRepo,
	}
}

// GetSummary returns total received, open order count and the most recent
// settlements for one tenant
func (s *FinanceService) GetSummary(ctx context.Context, tenantID uuid.UUID) (*Summary, error) {
	total, err := s.orderRepo.TotalReceived(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	open, err := s.orderRepo.CountOpen(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	settlements, err := s.orderRepo.RecentSettlements(ctx, tenantID, recentSettlementLimit)
	if err != nil {
		return nil, err
	}

	recent := make([]SettlementEntry, 0, len(settlements))
	for i := range settlements {
		settlement := &settlements[i]
		recent = append(recent, SettlementEntry{
			OrderID:     settlement.OrderID,
			ClientName:  settlement.ClientName,
			ProductName: settlement.ProductName,
			AmountPaid:  settlement.AmountPaid,
			PaymentDate: settlement.PaymentDate,
		})
	}

	return &Summary{
		TotalReceived: total,
		OpenOrders:    open,
		Recent:        recent,
	}, nil
}
