package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	billingapp "github.com/fiado/backend/internal/application/billing"
	"github.com/fiado/backend/internal/domain/ordering"
	"github.com/fiado/backend/internal/domain/shared"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// webhookOrderRepo backs the webhook service with a single in-memory order
// keyed by its provider payment id.
type webhookOrderRepo struct {
	order   *ordering.Order
	updated bool
}

func (r *webhookOrderRepo) Save(context.Context, *ordering.Order) error { return nil }
func (r *webhookOrderRepo) Update(_ context.Context, o *ordering.Order) error {
	r.order = o
	r.updated = true
	return nil
}

func (r *webhookOrderRepo) FindByIDForTenant(context.Context, uuid.UUID, uuid.UUID) (*ordering.Order, error) {
	return nil, shared.ErrNotFound
}

func (r *webhookOrderRepo) FindAllForTenant(context.Context, uuid.UUID) ([]ordering.BillableOrder, error) {
	return nil, nil
}

func (r *webhookOrderRepo) FindOpenForTenant(context.Context, uuid.UUID) ([]ordering.BillableOrder, error) {
	return nil, nil
}

func (r *webhookOrderRepo) FindByAsaasPaymentID(_ context.Context, paymentID string) (*ordering.Order, error) {
	if r.order != nil && r.order.AsaasPaymentID == paymentID {
		return r.order, nil
	}
	return nil, shared.ErrNotFound
}

func (r *webhookOrderRepo) FindPendingNotification(context.Context) ([]ordering.BillableOrder, error) {
	return nil, nil
}

func (r *webhookOrderRepo) MarkNotified(context.Context, uuid.UUID, time.Time) (bool, error) {
	return false, nil
}

func (r *webhookOrderRepo) TotalReceived(context.Context, uuid.UUID) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

func (r *webhookOrderRepo) CountOpen(context.Context, uuid.UUID) (int64, error) { return 0, nil }

func (r *webhookOrderRepo) RecentSettlements(context.Context, uuid.UUID, int) ([]ordering.Settlement, error) {
	return nil, nil
}

func newWebhookRouter(t *testing.T, repo ordering.OrderRepository, token string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	service := billingapp.NewWebhookService(repo, zap.NewNop())
	h := NewWebhookHandler(service, token, zap.NewNop())

	r := gin.New()
	r.POST("/payments/webhook/asaas", h.HandleAsaasEvent)
	return r
}

func newLinkedOrder(t *testing.T, paymentID string) *ordering.Order {
	t.Helper()
	order, err := ordering.NewOrder(uuid.New(), uuid.New(), uuid.New(), 2, time.Date(2025, 3, 10, 9, 0, 0, 0, time.Local))
	require.NoError(t, err)
	order.AsaasPaymentID = paymentID
	return order
}

func TestWebhookHandler_SettlesOrder(t *testing.T) {
	repo := &webhookOrderRepo{order: newLinkedOrder(t, "pay_123")}
	r := newWebhookRouter(t, repo, "")

	body := `{"event":"PAYMENT_RECEIVED","payment":{"id":"pay_123","value":60.50,"paymentDate":"2025-03-15"}}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/payments/webhook/asaas", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, repo.updated)
	assert.True(t, repo.order.Paid)
	assert.Equal(t, "60.5", repo.order.AmountPaid.String())
}

func TestWebhookHandler_RejectsBadToken(t *testing.T) {
	repo := &webhookOrderRepo{order: newLinkedOrder(t, "pay_123")}
	r := newWebhookRouter(t, repo, "secret-token")

	body := `{"event":"PAYMENT_RECEIVED","payment":{"id":"pay_123","value":60.50}}`

	for _, header := range []string{"", "wrong-token"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/payments/webhook/asaas", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		if header != "" {
			req.Header.Set(WebhookTokenHeader, header)
		}
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.False(t, repo.order.Paid)
	}
}

func TestWebhookHandler_AcceptsValidToken(t *testing.T) {
	repo := &webhookOrderRepo{order: newLinkedOrder(t, "pay_123")}
	r := newWebhookRouter(t, repo, "secret-token")

	body := `{"event":"PAYMENT_CONFIRMED","payment":{"id":"pay_123","value":30}}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/payments/webhook/asaas", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(WebhookTokenHeader, "secret-token")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, repo.order.Paid)
}

func TestWebhookHandler_IgnoresUnknownEventType(t *testing.T) {
	repo := &webhookOrderRepo{order: newLinkedOrder(t, "pay_123")}
	r := newWebhookRouter(t, repo, "")

	body := `{"event":"PAYMENT_OVERDUE","payment":{"id":"pay_123"}}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/payments/webhook/asaas", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.False(t, repo.order.Paid)
	assert.Contains(t, w.Body.String(), "ignored")
}

func TestWebhookHandler_UnknownPaymentAcknowledged(t *testing.T) {
	repo := &webhookOrderRepo{}
	r := newWebhookRouter(t, repo, "")

	body := `{"event":"PAYMENT_RECEIVED","payment":{"id":"pay_unknown","value":10}}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/payments/webhook/asaas", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestWebhookHandler_MissingPaymentID(t *testing.T) {
	repo := &webhookOrderRepo{}
	r := newWebhookRouter(t, repo, "")

	body := `{"event":"PAYMENT_RECEIVED","payment":{}}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/payments/webhook/asaas", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "ERR_MISSING_PAYMENT_ID")
}

func TestWebhookHandler_MalformedBody(t *testing.T) {
	r := newWebhookRouter(t, &webhookOrderRepo{}, "")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/payments/webhook/asaas", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
