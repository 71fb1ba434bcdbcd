package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/ordering"
	"github.com/storefront/backend/internal/domain/shared"
)

// OrderModel is the persistence model for the Order aggregate root.
type OrderModel struct {
	AggregateModel
	OrderNumber        string                 `gorm:"type:varchar(20);not null;uniqueIndex:idx_orders_number"`
	CustomerID         *uuid.UUID             `gorm:"type:uuid;index"`
	Email              string                 `gorm:"type:varchar(255);not null;index"`
	Status             ordering.OrderStatus   `gorm:"type:varchar(20);not null;default:'pending';index"`
	PaymentMethod      ordering.PaymentMethod `gorm:"type:varchar(20);not null;default:'cod'"`
	Items              []OrderItemModel       `gorm:"foreignKey:OrderID;references:ID"`
	Subtotal           decimal.Decimal        `gorm:"type:decimal(18,2);not null;default:0"`
	ShippingFee        decimal.Decimal        `gorm:"type:decimal(18,2);not null;default:0"`
	DiscountAmount     decimal.Decimal        `gorm:"type:decimal(18,2);not null;default:0"`
	Total              decimal.Decimal        `gorm:"type:decimal(18,2);not null;default:0"`
	CouponCode         string                 `gorm:"type:varchar(50)"`
	ShippingName       string                 `gorm:"type:varchar(200);not null"`
	ShippingPhone      string                 `gorm:"type:varchar(30);not null"`
	ShippingAddress    string                 `gorm:"type:varchar(500);not null"`
	ShippingCity       string                 `gorm:"type:varchar(100);not null"`
	ShippingProvince   string                 `gorm:"type:varchar(100);not null"`
	ShippingPostalCode string                 `gorm:"type:varchar(20);not null"`
	Courier            string                 `gorm:"type:varchar(100)"`
	TrackingNumber     string                 `gorm:"type:varchar(100)"`
	TrackingURL        string                 `gorm:"type:varchar(500)"`
	CustomerNotes      string                 `gorm:"type:text"`
	AdminNotes         string                 `gorm:"type:text"`
	CancelReason       string                 `gorm:"type:varchar(500)"`
	ShippedAt          *time.Time             `gorm:"index"`
	DeliveredAt        *time.Time             `gorm:"index"`
	CancelledAt        *time.Time
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts the persistence model to a domain Order aggregate.
func (m *OrderModel) ToDomain() *ordering.Order {
	order := &ordering.Order{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			BaseEntity: shared.BaseEntity{
				ID:        m.ID,
				CreatedAt: m.CreatedAt,
				UpdatedAt: m.UpdatedAt,
			},
			Version: m.Version,
		},
		OrderNumber:    m.OrderNumber,
		CustomerID:     m.CustomerID,
		Email:          m.Email,
		Status:         m.Status,
		PaymentMethod:  m.PaymentMethod,
		Subtotal:       m.Subtotal,
		ShippingFee:    m.ShippingFee,
		DiscountAmount: m.DiscountAmount,
		Total:          m.Total,
		CouponCode:     m.CouponCode,
		ShippingContact: ordering.ShippingContact{
			Name:       m.ShippingName,
			Phone:      m.ShippingPhone,
			Address:    m.ShippingAddress,
			City:       m.ShippingCity,
			Province:   m.ShippingProvince,
			PostalCode: m.ShippingPostalCode,
		},
		Courier:        m.Courier,
		TrackingNumber: m.TrackingNumber,
		TrackingURL:    m.TrackingURL,
		CustomerNotes:  m.CustomerNotes,
		AdminNotes:     m.AdminNotes,
		CancelReason:   m.CancelReason,
		ShippedAt:      m.ShippedAt,
		DeliveredAt:    m.DeliveredAt,
		CancelledAt:    m.CancelledAt,
		Items:          make([]ordering.OrderItem, len(m.Items)),
	}
	for i, item := range m.Items {
		order.Items[i] = *item.ToDomain()
	}
	return order
}

// FromDomain populates the persistence model from a domain Order aggregate.
func (m *OrderModel) FromDomain(o *ordering.Order) {
	m.FromDomainAggregateRoot(o.BaseAggregateRoot)
	m.OrderNumber = o.OrderNumber
	m.CustomerID = o.CustomerID
	m.Email = o.Email
	m.Status = o.Status
	m.PaymentMethod = o.PaymentMethod
	m.Subtotal = o.Subtotal
	m.ShippingFee = o.ShippingFee
	m.DiscountAmount = o.DiscountAmount
	m.Total = o.Total
	m.CouponCode = o.CouponCode
	m.ShippingName = o.ShippingContact.Name
	m.ShippingPhone = o.ShippingContact.Phone
	m.ShippingAddress = o.ShippingContact.Address
	m.ShippingCity = o.ShippingContact.City
	m.ShippingProvince = o.ShippingContact.Province
	m.ShippingPostalCode = o.ShippingContact.PostalCode
	m.Courier = o.Courier
	m.TrackingNumber = o.TrackingNumber
	m.TrackingURL = o.TrackingURL
	m.CustomerNotes = o.CustomerNotes
	m.AdminNotes = o.AdminNotes
	m.CancelReason = o.CancelReason
	m.ShippedAt = o.ShippedAt
	m.DeliveredAt = o.DeliveredAt
	m.CancelledAt = o.CancelledAt
	m.Items = make([]OrderItemModel, len(o.Items))
	for i, item := range o.Items {
		m.Items[i] = *OrderItemModelFromDomain(&item)
	}
}

// OrderModelFromDomain creates a new persistence model from a domain Order aggregate.
func OrderModelFromDomain(o *ordering.Order) *OrderModel {
	m := &OrderModel{}
	m.FromDomain(o)
	return m
}

// OrderItemModel is the persistence model for the OrderItem entity.
// Rows are immutable after creation.
type OrderItemModel struct {
	ID             uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrderID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID      *uuid.UUID      `gorm:"type:uuid;index"`
	VariantID      *uuid.UUID      `gorm:"type:uuid"`
	ProductName    string          `gorm:"type:varchar(200);not null"`
	VariantDetails string          `gorm:"type:varchar(200)"`
	SKU            string          `gorm:"type:varchar(50)"`
	UnitPrice      decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Quantity       int             `gorm:"not null"`
	TotalPrice     decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	CreatedAt      time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (OrderItemModel) TableName() string {
	return "order_items"
}

// ToDomain converts the persistence model to a domain OrderItem entity.
func (m *OrderItemModel) ToDomain() *ordering.OrderItem {
	return &ordering.OrderItem{
		ID:             m.ID,
		OrderID:        m.OrderID,
		ProductID:      m.ProductID,
		VariantID:      m.VariantID,
		ProductName:    m.ProductName,
		VariantDetails: m.VariantDetails,
		SKU:            m.SKU,
		UnitPrice:      m.UnitPrice,
		Quantity:       m.Quantity,
		TotalPrice:     m.TotalPrice,
		CreatedAt:      m.CreatedAt,
	}
}

// OrderItemModelFromDomain creates a new persistence model from a domain OrderItem entity.
func OrderItemModelFromDomain(i *ordering.OrderItem) *OrderItemModel {
	return &OrderItemModel{
		ID:             i.ID,
		OrderID:        i.OrderID,
		ProductID:      i.ProductID,
		VariantID:      i.VariantID,
		ProductName:    i.ProductName,
		VariantDetails: i.VariantDetails,
		SKU:            i.SKU,
		UnitPrice:      i.UnitPrice,
		Quantity:       i.Quantity,
		TotalPrice:     i.TotalPrice,
		CreatedAt:      i.CreatedAt,
	}
}

// OrderCounterModel is the single-row counter backing order number allocation.
// The row is incremented atomically in the same transaction that inserts the
// order, which keeps the sequence gap-tolerant but never duplicated.
type OrderCounterModel struct {
	Name      string    `gorm:"type:varchar(50);primary_key"`
	Value     int64     `gorm:"not null;default:0"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (OrderCounterModel) TableName() string {
	return "order_counters"
}
