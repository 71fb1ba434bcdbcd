package ordering

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/ordering"
)

// ShippingContactInput is the shipping snapshot captured at checkout
type ShippingContactInput struct {
	Name       string `json:"name" binding:"required,min=1,max=200"`
	Phone      string `json:"phone" binding:"required,min=1,max=50"`
	Address    string `json:"address" binding:"required,min=1,max=500"`
	City       string `json:"city" binding:"required,min=1,max=100"`
	Province   string `json:"province" binding:"required,min=1,max=100"`
	PostalCode string `json:"postal_code" binding:"required,min=1,max=20"`
}

// PlaceOrderItemInput is one resolved cart line in the checkout request
type PlaceOrderItemInput struct {
	ProductID      *uuid.UUID      `json:"product_id"`
	VariantID      *uuid.UUID      `json:"variant_id"`
	ProductName    string          `json:"product_name" binding:"required,min=1,max=200"`
	VariantDetails string          `json:"variant_details" binding:"max=200"`
	SKU            string          `json:"sku" binding:"max=100"`
	UnitPrice      decimal.Decimal `json:"unit_price" binding:"required"`
	Quantity       int             `json:"quantity" binding:"required,min=1"`
}

// PlaceOrderRequest represents a checkout request.
// CustomerID is populated from the authenticated gateway header, never
// from the request body.
type PlaceOrderRequest struct {
	CustomerID      *uuid.UUID            `json:"-"`
	Email           string                `json:"email" binding:"required,email"`
	PaymentMethod   string                `json:"payment_method" binding:"required"`
	Items           []PlaceOrderItemInput `json:"items" binding:"required,min=1,dive"`
	ShippingFee     decimal.Decimal       `json:"shipping_fee"`
	DiscountAmount  decimal.Decimal       `json:"discount_amount"`
	CouponCode      string                `json:"coupon_code" binding:"max=50"`
	CustomerNotes   string                `json:"customer_notes" binding:"max=1000"`
	ShippingContact ShippingContactInput  `json:"shipping_contact" binding:"required"`
}

// ShipOrderRequest carries the courier handoff details
type ShipOrderRequest struct {
	Courier        string `json:"courier" binding:"required,min=1,max=100"`
	TrackingNumber string `json:"tracking_number" binding:"required,min=1,max=100"`
	TrackingURL    string `json:"tracking_url" binding:"required,url"`
}

// CancelOrderRequest carries an optional cancellation reason
type CancelOrderRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

// OrderListFilter represents filter options for order listing
type OrderListFilter struct {
	Search     string     `form:"search"`
	CustomerID *uuid.UUID `form:"customer_id"`
	Email      string     `form:"email"`
	Status     string     `form:"status"`
	Statuses   []string   `form:"statuses"`
	StartDate  *time.Time `form:"start_date"`
	EndDate    *time.Time `form:"end_date"`
	Page       int        `form:"page"`
	PageSize   int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string     `form:"order_by"`
	OrderDir   string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// OrderItemResponse is a line item in an order response
type OrderItemResponse struct {
	ID             uuid.UUID       `json:"id"`
	ProductID      *uuid.UUID      `json:"product_id,omitempty"`
	VariantID      *uuid.UUID      `json:"variant_id,omitempty"`
	ProductName    string          `json:"product_name"`
	VariantDetails string          `json:"variant_details,omitempty"`
	SKU            string          `json:"sku,omitempty"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	Quantity       int             `json:"quantity"`
	TotalPrice     decimal.Decimal `json:"total_price"`
}

// ShippingContactResponse echoes the captured shipping snapshot
type ShippingContactResponse struct {
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	City       string `json:"city"`
	Province   string `json:"province"`
	PostalCode string `json:"postal_code"`
}

// OrderResponse represents an order in API responses
type OrderResponse struct {
	ID              uuid.UUID               `json:"id"`
	OrderNumber     string                  `json:"order_number"`
	CustomerID      *uuid.UUID              `json:"customer_id,omitempty"`
	Email           string                  `json:"email"`
	Status          string                  `json:"status"`
	PaymentMethod   string                  `json:"payment_method"`
	Items           []OrderItemResponse     `json:"items"`
	Subtotal        decimal.Decimal         `json:"subtotal"`
	ShippingFee     decimal.Decimal         `json:"shipping_fee"`
	DiscountAmount  decimal.Decimal         `json:"discount_amount"`
	Total           decimal.Decimal         `json:"total"`
	CouponCode      string                  `json:"coupon_code,omitempty"`
	ShippingContact ShippingContactResponse `json:"shipping_contact"`
	Courier         string                  `json:"courier,omitempty"`
	TrackingNumber  string                  `json:"tracking_number,omitempty"`
	TrackingURL     string                  `json:"tracking_url,omitempty"`
	CustomerNotes   string                  `json:"customer_notes,omitempty"`
	AdminNotes      string                  `json:"admin_notes,omitempty"`
	CancelReason    string                  `json:"cancel_reason,omitempty"`
	CreatedAt       time.Time               `json:"created_at"`
	UpdatedAt       time.Time               `json:"updated_at"`
	ShippedAt       *time.Time              `json:"shipped_at,omitempty"`
	DeliveredAt     *time.Time              `json:"delivered_at,omitempty"`
	CancelledAt     *time.Time              `json:"cancelled_at,omitempty"`
}

// ToOrderResponse converts a domain order to its API representation
func ToOrderResponse(order *ordering.Order) OrderResponse {
	items := make([]OrderItemResponse, len(order.Items))
	for i, item := range order.Items {
		items[i] = OrderItemResponse{
			ID:             item.ID,
			ProductID:      item.ProductID,
			VariantID:      item.VariantID,
			ProductName:    item.ProductName,
			VariantDetails: item.VariantDetails,
			SKU:            item.SKU,
			UnitPrice:      item.UnitPrice,
			Quantity:       item.Quantity,
			TotalPrice:     item.TotalPrice,
		}
	}

	return OrderResponse{
		ID:             order.ID,
		OrderNumber:    order.OrderNumber,
		CustomerID:     order.CustomerID,
		Email:          order.Email,
		Status:         order.Status.String(),
		PaymentMethod:  string(order.PaymentMethod),
		Items:          items,
		Subtotal:       order.Subtotal,
		ShippingFee:    order.ShippingFee,
		DiscountAmount: order.DiscountAmount,
		Total:          order.Total,
		CouponCode:     order.CouponCode,
		ShippingContact: ShippingContactResponse{
			Name:       order.ShippingContact.Name,
			Phone:      order.ShippingContact.Phone,
			Address:    order.ShippingContact.Address,
			City:       order.ShippingContact.City,
			Province:   order.ShippingContact.Province,
			PostalCode: order.ShippingContact.PostalCode,
		},
		Courier:        order.Courier,
		TrackingNumber: order.TrackingNumber,
		TrackingURL:    order.TrackingURL,
		CustomerNotes:  order.CustomerNotes,
		AdminNotes:     order.AdminNotes,
		CancelReason:   order.CancelReason,
		CreatedAt:      order.CreatedAt,
		UpdatedAt:      order.UpdatedAt,
		ShippedAt:      order.ShippedAt,
		DeliveredAt:    order.DeliveredAt,
		CancelledAt:    order.CancelledAt,
	}
}
