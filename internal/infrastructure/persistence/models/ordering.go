package models

import (
	"time"

	"github.com/fiado/backend/internal/domain/ordering"
	"github.com/fiado/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ClientModel is the persistence model for the Client domain entity.
type ClientModel struct {
	TenantModel
	Name  string `gorm:"column:nome;type:varchar(200);not null"`
	Phone string `gorm:"column:telefone;type:varchar(30);index"`
}

// TableName returns the table name for GORM
func (ClientModel) TableName() string {
	return "clientes"
}

// ToDomain converts the persistence model to a domain Client entity.
func (m *ClientModel) ToDomain() *ordering.Client {
	return &ordering.Client{
		TenantEntity: m.ToDomainTenantEntity(),
		Name:         m.Name,
		Phone:        m.Phone,
	}
}

// FromDomain populates the persistence model from a domain Client entity.
func (m *ClientModel) FromDomain(c *ordering.Client) {
	m.FromDomainTenantEntity(c.TenantEntity)
	m.Name = c.Name
	m.Phone = c.Phone
}

// ClientModelFromDomain creates a new persistence model from a domain Client entity.
func ClientModelFromDomain(c *ordering.Client) *ClientModel {
	m := &ClientModel{}
	m.FromDomain(c)
	return m
}

// ProductModel is the persistence model for the Product domain entity.
type ProductModel struct {
	TenantModel
	Name  string          `gorm:"column:nome;type:varchar(200);not null"`
	Price decimal.Decimal `gorm:"column:preco;type:decimal(18,2);not null"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "produtos"
}

// ToDomain converts the persistence model to a domain Product entity.
func (m *ProductModel) ToDomain() *ordering.Product {
	return &ordering.Product{
		TenantEntity: m.ToDomainTenantEntity(),
		Name:         m.Name,
		Price:        m.Price,
	}
}

// FromDomain populates the persistence model from a domain Product entity.
func (m *ProductModel) FromDomain(p *ordering.Product) {
	m.FromDomainTenantEntity(p.TenantEntity)
	m.Name = p.Name
	m.Price = p.Price
}

// ProductModelFromDomain creates a new persistence model from a domain Product entity.
func ProductModelFromDomain(p *ordering.Product) *ProductModel {
	m := &ProductModel{}
	m.FromDomain(p)
	return m
}

// StockModel is the persistence model for the StockItem domain entity. It
// declares TenantID itself instead of embedding TenantModel so the column
// can take part in the composite unique index with produto_id.
type StockModel struct {
	BaseModel
	TenantID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_estoque_tenant_produto,priority:1"`
	ProductID uuid.UUID `gorm:"column:produto_id;type:uuid;not null;uniqueIndex:idx_estoque_tenant_produto,priority:2"`
	Quantity  int       `gorm:"column:quantidade;not null;default:0"`
	Minimum   int       `gorm:"column:minimo;not null;default:0"`
}

// TableName returns the table name for GORM
func (StockModel) TableName() string {
	return "estoque"
}

// ToDomain converts the persistence model to a domain StockItem entity.
func (m *StockModel) ToDomain() *ordering.StockItem {
	return &ordering.StockItem{
		TenantEntity: shared.TenantEntity{
			BaseEntity: m.BaseModel.ToDomain(),
			TenantID:   m.TenantID,
		},
		ProductID: m.ProductID,
		Quantity:  m.Quantity,
		Minimum:   m.Minimum,
	}
}

// FromDomain populates the persistence model from a domain StockItem entity.
func (m *StockModel) FromDomain(s *ordering.StockItem) {
	m.FromDomainBaseEntity(s.BaseEntity)
	m.TenantID = s.TenantID
	m.ProductID = s.ProductID
	m.Quantity = s.Quantity
	m.Minimum = s.Minimum
}

// StockModelFromDomain creates a new persistence model from a domain StockItem entity.
func StockModelFromDomain(s *ordering.StockItem) *StockModel {
	m := &StockModel{}
	m.FromDomain(s)
	return m
}

// OrderModel is the persistence model for the Order domain entity. The paid
// and notified flags together encode the order lifecycle; the reminder job's
// at-most-once guarantee rests on the guarded update over (pago,
// whatsapp_enviado).
type OrderModel struct {
	TenantModel
	ClientID  uuid.UUID `gorm:"column:cliente_id;type:uuid;not null;index"`
	ProductID uuid.UUID `gorm:"column:produto_id;type:uuid;not null;index"`
	Quantity  int       `gorm:"column:quantidade;not null;default:1"`

	OrderDate time.Time `gorm:"column:data_pedido;not null"`
	DueDate   time.Time `gorm:"column:vencimento;not null;index"`
	DueTime   string    `gorm:"column:hora_vencimento;type:varchar(5)"`

	Paid         bool            `gorm:"column:pago;not null;default:false;index"`
	InterestPaid decimal.Decimal `gorm:"column:juros;type:decimal(18,2);not null;default:0"`
	AmountPaid   decimal.Decimal `gorm:"column:valor_pago;type:decimal(18,2);not null;default:0"`
	PaymentDate  *time.Time      `gorm:"column:data_pagamento"`

	Notified   bool       `gorm:"column:whatsapp_enviado;not null;default:false"`
	NotifiedAt *time.Time `gorm:"column:whatsapp_enviado_em"`

	AsaasCustomerID string `gorm:"column:asaas_customer_id;type:varchar(60)"`
	AsaasPaymentID  string `gorm:"column:asaas_payment_id;type:varchar(60);index"`
	AsaasInvoiceURL string `gorm:"column:asaas_invoice_url;type:varchar(300)"`
	PixPayload      string `gorm:"column:pix_payload;type:text"`
	PixQRCode       string `gorm:"column:pix_qrcode;type:text"`
	AsaasStatus     string `gorm:"column:asaas_status;type:varchar(40)"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "pedidos"
}

// ToDomain converts the persistence model to a domain Order entity.
func (m *OrderModel) ToDomain() *ordering.Order {
	return &ordering.Order{
		TenantEntity:    m.ToDomainTenantEntity(),
		ClientID:        m.ClientID,
		ProductID:       m.ProductID,
		Quantity:        m.Quantity,
		OrderDate:       m.OrderDate,
		DueDate:         m.DueDate,
		DueTime:         m.DueTime,
		Paid:            m.Paid,
		InterestPaid:    m.InterestPaid,
		AmountPaid:      m.AmountPaid,
		PaymentDate:     m.PaymentDate,
		Notified:        m.Notified,
		NotifiedAt:      m.NotifiedAt,
		AsaasCustomerID: m.AsaasCustomerID,
		AsaasPaymentID:  m.AsaasPaymentID,
		AsaasInvoiceURL: m.AsaasInvoiceURL,
		PixPayload:      m.PixPayload,
		PixQRCode:       m.PixQRCode,
		AsaasStatus:     m.AsaasStatus,
	}
}

// FromDomain populates the persistence model from a domain Order entity.
func (m *OrderModel) FromDomain(o *ordering.Order) {
	m.FromDomainTenantEntity(o.TenantEntity)
	m.ClientID = o.ClientID
	m.ProductID = o.ProductID
	m.Quantity = o.Quantity
	m.OrderDate = o.OrderDate
	m.DueDate = o.DueDate
	m.DueTime = o.DueTime
	m.Paid = o.Paid
	m.InterestPaid = o.InterestPaid
	m.AmountPaid = o.AmountPaid
	m.PaymentDate = o.PaymentDate
	m.Notified = o.Notified
	m.NotifiedAt = o.NotifiedAt
	m.AsaasCustomerID = o.AsaasCustomerID
	m.AsaasPaymentID = o.AsaasPaymentID
	m.AsaasInvoiceURL = o.AsaasInvoiceURL
	m.PixPayload = o.PixPayload
	m.PixQRCode = o.PixQRCode
	m.AsaasStatus = o.AsaasStatus
}

// OrderModelFromDomain creates a new persistence model from a domain Order entity.
func OrderModelFromDomain(o *ordering.Order) *OrderModel {
	m := &OrderModel{}
	m.FromDomain(o)
	return m
}
