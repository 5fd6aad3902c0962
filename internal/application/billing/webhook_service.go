package billing

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/fiado/backend/internal/domain/ordering"
	"github.com/fiado/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Asaas event types that settle an order. Everything else is acknowledged
// and ignored.
const (
	EventPaymentConfirmed = "PAYMENT_CONFIRMED"
	EventPaymentReceived  = "PAYMENT_RECEIVED"
)

// WebhookEvent is the Asaas webhook payload shape the handler depends on.
type WebhookEvent struct {
	Event   string         `json:"event"`
	Payment PaymentPayload `json:"payment"`
}

// PaymentPayload carries the provider's view of the payment. Value fields
// are alternatives; the first non-zero one wins, matching the provider's
// inconsistent population across event types.
type PaymentPayload struct {
	ID                string          `json:"id"`
	Value             decimal.Decimal `json:"value"`
	NetValue          decimal.Decimal `json:"netValue"`
	OriginalValue     decimal.Decimal `json:"originalValue"`
	PaymentDate       string          `json:"paymentDate"`
	ClientPaymentDate string          `json:"clientPaymentDate"`
	ConfirmedDate     string          `json:"confirmedDate"`
}

// settledAmount picks the provider-reported amount.
func (p *PaymentPayload) settledAmount() decimal.Decimal {
	for _, v := range []decimal.Decimal{p.Value, p.NetValue, p.OriginalValue} {
		if !v.IsZero() {
			return v
		}
	}
	return decimal.Zero
}

// settledAt picks the provider-reported payment date, falling back to now.
// Asaas sends dates either as plain calendar dates or full timestamps.
func (p *PaymentPayload) settledAt(now time.Time) time.Time {
	for _, raw := range []string{p.PaymentDate, p.ClientPaymentDate, p.ConfirmedDate} {
		if raw == "" {
			continue
		}
		for _, layout := range []string{"2006-01-02", time.RFC3339, "2006-01-02 15:04:05"} {
			if t, err := time.ParseInLocation(layout, raw, time.Local); err == nil {
				return t
			}
		}
	}
	return now
}

// WebhookResult is what the webhook endpoint reports back to the provider.
type WebhookResult struct {
	OK      bool   `json:"ok"`
	Event   string `json:"event,omitempty"`
	OrderID string `json:"order_id,omitempty"`
	Note    string `json:"note,omitempty"`
}

// WebhookService settles orders from asynchronous payment-provider events.
// The provider's settled amount is trusted verbatim; no interest is
// recomputed on this path.
type WebhookService struct {
	orders ordering.OrderRepository
	logger *zap.Logger

	Now func() time.Time
}

// NewWebhookService creates a new WebhookService.
func NewWebhookService(orders ordering.OrderRepository, logger *zap.Logger) *WebhookService {
	return &WebhookService{
		orders: orders,
		logger: logger,
		Now:    time.Now,
	}
}

// Process handles one provider event. Unknown payment ids and event types
// are acknowledged without error: the endpoint may be shared with other
// systems and duplicate deliveries must never surface failures.
func (s *WebhookService) Process(ctx context.Context, event WebhookEvent) (*WebhookResult, error) {
	eventType := strings.ToUpper(strings.TrimSpace(event.Event))

	if eventType != EventPaymentConfirmed && eventType != EventPaymentReceived {
		s.logger.Debug("Ignoring webhook event type", zap.String("event", eventType))
		return &WebhookResult{OK: true, Event: eventType, Note: "ignored"}, nil
	}

	if event.Payment.ID == "" {
		return nil, shared.NewDomainError("MISSING_PAYMENT_ID", "Webhook event has no payment id")
	}

	order, err := s.orders.FindByAsaasPaymentID(ctx, event.Payment.ID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Info("Webhook payment not linked to any order",
				zap.String("payment_id", event.Payment.ID))
			return &WebhookResult{OK: true, Event: eventType, Note: "payment not linked"}, nil
		}
		return nil, err
	}

	now := s.Now()
	if err := order.SettleExternal(event.Payment.settledAmount(), event.Payment.settledAt(now), eventType); err != nil {
		if errors.Is(err, shared.ErrInvalidState) {
			// Duplicate delivery for an already-settled order.
			return &WebhookResult{OK: true, Event: eventType, OrderID: order.ID.String(), Note: "already paid"}, nil
		}
		return nil, err
	}
	if err := s.orders.Update(ctx, order); err != nil {
		return nil, err
	}

	s.logger.Info("Order settled by payment webhook",
		zap.String("order_id", order.ID.String()),
		zap.String("payment_id", event.Payment.ID),
		zap.String("event", eventType))

	return &WebhookResult{OK: true, Event: eventType, OrderID: order.ID.String()}, nil
}
