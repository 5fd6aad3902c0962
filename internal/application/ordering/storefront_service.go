package ordering

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fiado/backend/internal/domain/identity"
	"github.com/fiado/backend/internal/domain/ordering"
	"github.com/fiado/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PixCharge is the payment-provider side of a storefront order.
type PixCharge struct {
	CustomerID string
	PaymentID  string
	InvoiceURL string
	Payload    string
	QRCode     string
}

// PaymentGateway creates Pix charges at the payment provider. Nil gateway
// means storefront orders are created without payment enrichment.
type PaymentGateway interface {
	CreateCustomer(ctx context.Context, name, phone string) (string, error)
	CreatePixCharge(ctx context.Context, customerID string, amount decimal.Decimal, dueDate time.Time, description string) (*PixCharge, error)
}

// StorefrontService serves the public self-service order form. Orders land
// on the oldest account's tenant; clients are matched by phone and created
// on first purchase.
type StorefrontService struct {
	userRepo    identity.UserRepository
	clientRepo  ordering.ClientRepository
	productRepo ordering.ProductRepository
	orderRepo   ordering.OrderRepository
	gateway     PaymentGateway
	logger      *zap.Logger

	Now func() time.Time
}

// NewStorefrontService creates a new StorefrontService. gateway may be nil.
func NewStorefrontService(
	userRepo identity.UserRepository,
	clientRepo ordering.ClientRepository,
	productRepo ordering.ProductRepository,
	orderRepo ordering.OrderRepository,
	gateway PaymentGateway,
	logger *zap.Logger,
) *StorefrontService {
	return &StorefrontService{
		userRepo:    userRepo,
		clientRepo:  clientRepo,
		productRepo: productRepo,
		orderRepo:   orderRepo,
		gateway:     gateway,
		logger:      logger,
		Now:         time.Now,
	}
}

// ListProducts returns the catalog shown on the public order form.
func (s *StorefrontService) ListProducts(ctx context.Context) ([]ProductResponse, error) {
	owner, err := s.userRepo.FindDefault(ctx)
	if err != nil {
		return nil, err
	}
	products, err := s.productRepo.FindAllForTenant(ctx, owner.ID)
	if err != nil {
		return nil, err
	}
	responses := make([]ProductResponse, 0, len(products))
	for i := range products {
		responses = append(responses, *toProductResponse(&products[i]))
	}
	return responses, nil
}

// PlaceOrder creates a self-service order. Payment enrichment is best
// effort: a provider failure still creates the order, just without Pix
// details, and the reminder flow collects it normally.
func (s *StorefrontService) PlaceOrder(ctx context.Context, req StorefrontOrderRequest) (*StorefrontOrderResponse, error) {
	owner, err := s.userRepo.FindDefault(ctx)
	if err != nil {
		return nil, err
	}
	tenantID := owner.ID

	product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, req.ProductID)
	if err != nil {
		return nil, err
	}

	client, err := s.findOrCreateClient(ctx, tenantID, req.Name, req.Phone)
	if err != nil {
		return nil, err
	}

	order, err := ordering.NewOrder(tenantID, client.ID, product.ID, req.Quantity, s.Now())
	if err != nil {
		return nil, err
	}

	total := order.Principal(product.Price)
	if s.gateway != nil {
		s.enrichWithPix(ctx, order, client, product, total)
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}

	s.logger.Info("Storefront order placed",
		zap.String("order_id", order.ID.String()),
		zap.String("client", client.Name),
		zap.String("total", total.StringFixed(2)))

	return &StorefrontOrderResponse{
		OrderID:     order.ID,
		ProductName: product.Name,
		Quantity:    order.Quantity,
		Total:       total,
		DueDate:     order.DueDate.Format("2006-01-02"),
		InvoiceURL:  order.AsaasInvoiceURL,
		PixPayload:  order.PixPayload,
		PixQRCode:   order.PixQRCode,
	}, nil
}

// findOrCreateClient matches the buyer by normalized phone within the
// tenant, registering a new client on first purchase.
func (s *StorefrontService) findOrCreateClient(ctx context.Context, tenantID uuid.UUID, name, phone string) (*ordering.Client, error) {
	normalized := ordering.NormalizePhone(phone)
	if normalized == "" {
		return nil, shared.NewDomainError("INVALID_PHONE", "A phone number is required to order")
	}

	client, err := s.clientRepo.FindByPhone(ctx, tenantID, normalized)
	if err == nil {
		return client, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	client, err = ordering.NewClient(tenantID, name, phone)
	if err != nil {
		return nil, err
	}
	if err := s.clientRepo.Save(ctx, client); err != nil {
		return nil, err
	}
	return client, nil
}

// enrichWithPix links the order to a provider customer and Pix charge.
// Failures are logged and swallowed.
func (s *StorefrontService) enrichWithPix(ctx context.Context, order *ordering.Order, client *ordering.Client, product *ordering.Product, total decimal.Decimal) {
	customerID, err := s.gateway.CreateCustomer(ctx, client.Name, client.Phone)
	if err != nil {
		s.logger.Warn("Payment provider customer creation failed, order proceeds without Pix",
			zap.String("client", client.Name),
			zap.Error(err))
		return
	}

	description := fmt.Sprintf("%s x%d", product.Name, order.Quantity)
	charge, err := s.gateway.CreatePixCharge(ctx, customerID, total, order.DueDate, description)
	if err != nil {
		s.logger.Warn("Pix charge creation failed, order proceeds without Pix",
			zap.String("client", client.Name),
			zap.Error(err))
		order.AsaasCustomerID = customerID
		return
	}

	order.AsaasCustomerID = customerID
	order.AsaasPaymentID = charge.PaymentID
	order.AsaasInvoiceURL = charge.InvoiceURL
	order.PixPayload = charge.Payload
	order.PixQRCode = charge.QRCode
	order.AsaasStatus = "PAYMENT_CREATED"
}
