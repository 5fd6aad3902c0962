package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/fiado/backend/internal/domain/ordering"
	"github.com/fiado/backend/internal/domain/shared"
	"github.com/fiado/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// billableSelect projects an order joined with its client and product into
// one flat row. Decoding happens here, once, so callers only ever see typed
// BillableOrder values.
const billableSelect = `pedidos.id, pedidos.tenant_id, pedidos.created_at, pedidos.updated_at,
pedidos.cliente_id, pedidos.produto_id, pedidos.quantidade,
pedidos.data_pedido, pedidos.vencimento, pedidos.hora_vencimento,
pedidos.pago, pedidos.juros, pedidos.valor_pago, pedidos.data_pagamento,
pedidos.whatsapp_enviado, pedidos.whatsapp_enviado_em,
pedidos.asaas_customer_id, pedidos.asaas_payment_id, pedidos.asaas_invoice_url,
pedidos.pix_payload, pedidos.pix_qrcode, pedidos.asaas_status,
clientes.nome AS client_name, clientes.telefone AS client_phone,
produtos.nome AS product_name, produtos.preco AS unit_price`

// billableRow is the scan target for the joined projection.
type billableRow struct {
	ID        uuid.UUID `gorm:"column:id"`
	TenantID  uuid.UUID `gorm:"column:tenant_id"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`

	ClientID  uuid.UUID `gorm:"column:cliente_id"`
	ProductID uuid.UUID `gorm:"column:produto_id"`
	Quantity  int       `gorm:"column:quantidade"`

	OrderDate time.Time `gorm:"column:data_pedido"`
	DueDate   time.Time `gorm:"column:vencimento"`
	DueTime   string    `gorm:"column:hora_vencimento"`

	Paid         bool            `gorm:"column:pago"`
	InterestPaid decimal.Decimal `gorm:"column:juros"`
	AmountPaid   decimal.Decimal `gorm:"column:valor_pago"`
	PaymentDate  *time.Time      `gorm:"column:data_pagamento"`

	Notified   bool       `gorm:"column:whatsapp_enviado"`
	NotifiedAt *time.Time `gorm:"column:whatsapp_enviado_em"`

	AsaasCustomerID string `gorm:"column:asaas_customer_id"`
	AsaasPaymentID  string `gorm:"column:asaas_payment_id"`
	AsaasInvoiceURL string `gorm:"column:asaas_invoice_url"`
	PixPayload      string `gorm:"column:pix_payload"`
	PixQRCode       string `gorm:"column:pix_qrcode"`
	AsaasStatus     string `gorm:"column:asaas_status"`

	ClientName  string          `gorm:"column:client_name"`
	ClientPhone string          `gorm:"column:client_phone"`
	ProductName string          `gorm:"column:product_name"`
	UnitPrice   decimal.Decimal `gorm:"column:unit_price"`
}

func (row *billableRow) toBillable() ordering.BillableOrder {
	return ordering.BillableOrder{
		Order: ordering.Order{
			TenantEntity: shared.TenantEntity{
				BaseEntity: shared.BaseEntity{
					ID:        row.ID,
					CreatedAt: row.CreatedAt,
					UpdatedAt: row.UpdatedAt,
				},
				TenantID: row.TenantID,
			},
			ClientID:        row.ClientID,
			ProductID:       row.ProductID,
			Quantity:        row.Quantity,
			OrderDate:       row.OrderDate,
			DueDate:         row.DueDate,
			DueTime:         row.DueTime,
			Paid:            row.Paid,
			InterestPaid:    row.InterestPaid,
			AmountPaid:      row.AmountPaid,
			PaymentDate:     row.PaymentDate,
			Notified:        row.Notified,
			NotifiedAt:      row.NotifiedAt,
			AsaasCustomerID: row.AsaasCustomerID,
			AsaasPaymentID:  row.AsaasPaymentID,
			AsaasInvoiceURL: row.AsaasInvoiceURL,
			PixPayload:      row.PixPayload,
			PixQRCode:       row.PixQRCode,
			AsaasStatus:     row.AsaasStatus,
		},
		ClientName:  row.ClientName,
		ClientPhone: row.ClientPhone,
		ProductName: row.ProductName,
		UnitPrice:   row.UnitPrice,
	}
}

// GormOrderRepository implements OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// Save creates or updates an order
func (r *GormOrderRepository) Save(ctx context.Context, order *ordering.Order) error {
	model := models.OrderModelFromDomain(order)
	return r.db.WithContext(ctx).Save(model).Error
}

// Update persists changes to an existing order
func (r *GormOrderRepository) Update(ctx context.Context, order *ordering.Order) error {
	model := models.OrderModelFromDomain(order)
	return r.db.WithContext(ctx).Save(model).Error
}

// FindByIDForTenant finds an order by ID within a tenant
func (r *GormOrderRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*ordering.Order, error) {
	var model models.OrderModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByAsaasPaymentID finds the order linked to a payment-provider charge.
// Payment ids are globally unique at the provider, so the lookup crosses
// tenants on purpose.
func (r *GormOrderRepository) FindByAsaasPaymentID(ctx context.Context, paymentID string) (*ordering.Order, error) {
	var model models.OrderModel
	if err := r.db.WithContext(ctx).
		Where("asaas_payment_id = ?", paymentID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForTenant returns every order of a tenant joined with its client
// and product, newest first.
func (r *GormOrderRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]ordering.BillableOrder, error) {
	var rows []billableRow
	if err := r.joined(ctx).
		Where("pedidos.tenant_id = ?", tenantID).
		Order("pedidos.data_pedido DESC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return toBillables(rows), nil
}

// FindOpenForTenant returns the unpaid orders of a tenant joined with client
// and product, oldest due first.
func (r *GormOrderRepository) FindOpenForTenant(ctx context.Context, tenantID uuid.UUID) ([]ordering.BillableOrder, error) {
	var rows []billableRow
	if err := r.joined(ctx).
		Where("pedidos.tenant_id = ? AND pedidos.pago = ?", tenantID, false).
		Order("pedidos.vencimento ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return toBillables(rows), nil
}

// FindPendingNotification returns every unpaid, un-notified order across all
// tenants. The reminder job decides per order whether it is actually due.
func (r *GormOrderRepository) FindPendingNotification(ctx context.Context) ([]ordering.BillableOrder, error) {
	var rows []billableRow
	if err := r.joined(ctx).
		Where("pedidos.pago = ? AND pedidos.whatsapp_enviado = ?", false, false).
		Order("pedidos.vencimento ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return toBillables(rows), nil
}

// MarkNotified flips the dispatched flag as a single guarded update and
// reports whether a row changed. The predicate repeats the pending condition
// so a concurrent settlement or a second job instance loses the race cleanly.
func (r *GormOrderRepository) MarkNotified(ctx context.Context, orderID uuid.UUID, at time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.OrderModel{}).
		Where("id = ? AND pago = ? AND whatsapp_enviado = ?", orderID, false, false).
		Updates(map[string]any{
			"whatsapp_enviado":    true,
			"whatsapp_enviado_em": at,
			"updated_at":          at,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// TotalReceived sums the settled amounts of a tenant's closed orders.
func (r *GormOrderRepository) TotalReceived(ctx context.Context, tenantID uuid.UUID) (decimal.Decimal, error) {
	var row struct {
		Total decimal.Decimal `gorm:"column:total"`
	}
	if err := r.db.WithContext(ctx).
		Model(&models.OrderModel{}).
		Select("COALESCE(SUM(valor_pago), 0) AS total").
		Where("tenant_id = ? AND pago = ?", tenantID, true).
		Scan(&row).Error; err != nil {
		return decimal.Zero, err
	}
	return row.Total, nil
}

// CountOpen counts a tenant's unpaid orders.
func (r *GormOrderRepository) CountOpen(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.OrderModel{}).
		Where("tenant_id = ? AND pago = ?", tenantID, false).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// RecentSettlements returns the latest closed orders of a tenant with the
// display fields the finance panel needs.
func (r *GormOrderRepository) RecentSettlements(ctx context.Context, tenantID uuid.UUID, limit int) ([]ordering.Settlement, error) {
	var rows []struct {
		OrderID     uuid.UUID       `gorm:"column:order_id"`
		ClientName  string          `gorm:"column:client_name"`
		ProductName string          `gorm:"column:product_name"`
		AmountPaid  decimal.Decimal `gorm:"column:valor_pago"`
		PaymentDate *time.Time      `gorm:"column:data_pagamento"`
	}
	if err := r.db.WithContext(ctx).
		Table("pedidos").
		Select(`pedidos.id AS order_id, clientes.nome AS client_name, produtos.nome AS product_name,
pedidos.valor_pago, pedidos.data_pagamento`).
		Joins("JOIN clientes ON clientes.id = pedidos.cliente_id").
		Joins("JOIN produtos ON produtos.id = pedidos.produto_id").
		Where("pedidos.tenant_id = ? AND pedidos.pago = ?", tenantID, true).
		Order("pedidos.data_pagamento DESC").
		Limit(limit).
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	settlements := make([]ordering.Settlement, len(rows))
	for i, row := range rows {
		settlements[i] = ordering.Settlement{
			OrderID:     row.OrderID,
			ClientName:  row.ClientName,
			ProductName: row.ProductName,
			AmountPaid:  row.AmountPaid,
			PaymentDate: row.PaymentDate,
		}
	}
	return settlements, nil
}

// joined starts the order query with the client and product joins applied.
func (r *GormOrderRepository) joined(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("pedidos").
		Select(billableSelect).
		Joins("JOIN clientes ON clientes.id = pedidos.cliente_id").
		Joins("JOIN produtos ON produtos.id = pedidos.produto_id")
}

func toBillables(rows []billableRow) []ordering.BillableOrder {
	orders := make([]ordering.BillableOrder, len(rows))
	for i := range rows {
		orders[i] = rows[i].toBillable()
	}
	return orders
}

// Ensure GormOrderRepository implements OrderRepository
var _ ordering.OrderRepository = (*GormOrderRepository)(nil)
