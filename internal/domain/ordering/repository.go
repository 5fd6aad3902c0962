package ordering

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BillableOrder is the typed row used by the reminder job and the open
// balance view: one open order joined with the client it bills and the
// product it prices against. Decoded once at the store boundary so the job
// never touches loosely-typed rows.
type BillableOrder struct {
	Order       Order
	ClientName  string
	ClientPhone string
	ProductName string
	UnitPrice   decimal.Decimal
}

// Settlement is a closed order with display fields for the finance panel.
type Settlement struct {
	OrderID     uuid.UUID
	ClientName  string
	ProductName string
	AmountPaid  decimal.Decimal
	PaymentDate *time.Time
}

// OrderRepository is the order ledger.
type OrderRepository interface {
	Save(ctx context.Context, order *Order) error
	Update(ctx context.Context, order *Order) error
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Order, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]BillableOrder, error)
	FindOpenForTenant(ctx context.Context, tenantID uuid.UUID) ([]BillableOrder, error)
	FindByAsaasPaymentID(ctx context.Context, paymentID string) (*Order, error)

	// FindPendingNotification returns every order with paid=false and
	// dispatched=false across all tenants, joined with client and product.
	FindPendingNotification(ctx context.Context) ([]BillableOrder, error)

	// MarkNotified flips the dispatched flag for one order as a single
	// guarded update (only while still unpaid and un-notified) and reports
	// whether a row changed. Committed per order so a crash mid-batch never
	// loses more than the in-flight candidate.
	MarkNotified(ctx context.Context, orderID uuid.UUID, at time.Time) (bool, error)

	TotalReceived(ctx context.Context, tenantID uuid.UUID) (decimal.Decimal, error)
	CountOpen(ctx context.Context, tenantID uuid.UUID) (int64, error)
	RecentSettlements(ctx context.Context, tenantID uuid.UUID, limit int) ([]Settlement, error)
}

// ClientRepository stores clients per tenant.
type ClientRepository interface {
	Save(ctx context.Context, client *Client) error
	Update(ctx context.Context, client *Client) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Client, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]Client, error)
	FindByPhone(ctx context.Context, tenantID uuid.UUID, phone string) (*Client, error)
}

// ProductRepository stores products per tenant.
type ProductRepository interface {
	Save(ctx context.Context, product *Product) error
	Update(ctx context.Context, product *Product) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Product, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]Product, error)
}

// StockRepository stores per-product stock rows.
type StockRepository interface {
	Save(ctx context.Context, item *StockItem) error
	Update(ctx context.Context, item *StockItem) error
	FindByProduct(ctx context.Context, tenantID, productID uuid.UUID) (*StockItem, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]StockItem, error)
}
