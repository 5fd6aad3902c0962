// Package ordering contains the order ledger: orders on a running tab,
// the clients that owe them and the products they reference.
package ordering

import (
	"time"

	"github.com/fiado/backend/internal/domain/billing"
	"github.com/fiado/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order lifecycle. Two persisted flags define the reachable states:
//
//	OPEN_PENDING  paid=false dispatched=false
//	OPEN_NOTIFIED paid=false dispatched=true
//	CLOSED        paid=true  (terminal, any dispatched)
//
// The reminder job drives the only OPEN_PENDING -> OPEN_NOTIFIED transition;
// settlement and the payment webhook drive transitions into CLOSED.
type OrderState string

const (
	OrderStateOpenPending  OrderState = "OPEN_PENDING"
	OrderStateOpenNotified OrderState = "OPEN_NOTIFIED"
	OrderStateClosed       OrderState = "CLOSED"
)

// Order is the central entity of the ledger. Principal is not snapshotted:
// it is always product unit price x quantity at read time, so repricing a
// product retroactively changes the amount due on its unpaid orders.
type Order struct {
	shared.TenantEntity
	ClientID  uuid.UUID
	ProductID uuid.UUID
	Quantity  int

	OrderDate time.Time
	DueDate   time.Time
	DueTime   string // HH:MM, empty means billing.DefaultDueTime

	Paid         bool
	InterestPaid decimal.Decimal
	AmountPaid   decimal.Decimal
	PaymentDate  *time.Time

	Notified   bool
	NotifiedAt *time.Time

	// Payment-provider linkage, populated asynchronously by the storefront
	// enrichment and consumed by reminder text and webhook correlation.
	AsaasCustomerID string
	AsaasPaymentID  string
	AsaasInvoiceURL string
	PixPayload      string
	PixQRCode       string
	AsaasStatus     string
}

// NewOrder creates an open order. The due date defaults to the first
// business day of the month after the order date when none is given.
func NewOrder(tenantID, clientID, productID uuid.UUID, quantity int, orderDate time.Time) (*Order, error) {
	if quantity < 1 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be at least 1")
	}
	return &Order{
		TenantEntity: shared.NewTenantEntity(tenantID),
		ClientID:     clientID,
		ProductID:    productID,
		Quantity:     quantity,
		OrderDate:    orderDate,
		DueDate:      billing.DefaultDueDate(orderDate),
		DueTime:      billing.DefaultDueTime,
		InterestPaid: decimal.Zero,
		AmountPaid:   decimal.Zero,
	}, nil
}

// State derives the lifecycle state from the persisted flags.
func (o *Order) State() OrderState {
	switch {
	case o.Paid:
		return OrderStateClosed
	case o.Notified:
		return OrderStateOpenNotified
	default:
		return OrderStateOpenPending
	}
}

// DueInstant resolves the order's due date and time-of-day into the moment
// it becomes collectible.
func (o *Order) DueInstant() time.Time {
	return billing.ResolveDueInstant(o.DueDate, o.DueTime)
}

// Principal returns unit price x quantity for the current product price.
func (o *Order) Principal(unitPrice decimal.Decimal) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(o.Quantity)))
}

// MarkNotified records the reminder dispatch. Once notified an order never
// returns to pending; calling this again is a no-op and reports false.
func (o *Order) MarkNotified(at time.Time) bool {
	if o.Notified {
		return false
	}
	o.Notified = true
	o.NotifiedAt = &at
	return true
}

// Settle closes the order with a charge recomputed at settlement time,
// freezing the paid total and the interest portion for reporting.
func (o *Order) Settle(charge billing.Charge, at time.Time) error {
	if o.Paid {
		return shared.ErrInvalidState
	}
	o.Paid = true
	o.InterestPaid = charge.Interest
	o.AmountPaid = charge.Total
	o.PaymentDate = &at
	return nil
}

// SettleExternal closes the order from a payment-provider event, trusting
// the provider's settled amount verbatim (no interest recomputation).
func (o *Order) SettleExternal(amount decimal.Decimal, at time.Time, providerStatus string) error {
	if o.Paid {
		return shared.ErrInvalidState
	}
	o.Paid = true
	o.AmountPaid = amount
	o.PaymentDate = &at
	o.AsaasStatus = providerStatus
	return nil
}

// Reschedule moves the due date and time of a still-open order. A malformed
// time-of-day silently keeps the current value rather than failing the edit.
func (o *Order) Reschedule(dueDate time.Time, dueTime string) error {
	if o.Paid {
		return shared.ErrInvalidState
	}
	o.DueDate = dueDate
	if billing.ValidDueTime(dueTime) {
		o.DueTime = dueTime
	}
	return nil
}
