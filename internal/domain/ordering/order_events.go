package ordering

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeOrder = "Order"

// Event type constants
const (
	EventTypeOrderPlaced     = "OrderPlaced"
	EventTypeOrderProcessing = "OrderProcessing"
	EventTypeOrderShipped    = "OrderShipped"
	EventTypeOrderDelivered  = "OrderDelivered"
	EventTypeOrderCancelled  = "OrderCancelled"
)

// OrderItemInfo carries line item details inside order events.
// Notification templates substitute these fields directly.
type OrderItemInfo struct {
	ItemID         uuid.UUID       `json:"item_id"`
	ProductID      *uuid.UUID      `json:"product_id,omitempty"`
	ProductName    string          `json:"product_name"`
	VariantDetails string          `json:"variant_details,omitempty"`
	SKU            string          `json:"sku,omitempty"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	Quantity       int             `json:"quantity"`
	TotalPrice     decimal.Decimal `json:"total_price"`
}

func itemInfos(order *Order) []OrderItemInfo {
	items := make([]OrderItemInfo, len(order.Items))
	for i, item := range order.Items {
		items[i] = OrderItemInfo{
			ItemID:         item.ID,
			ProductID:      item.ProductID,
			ProductName:    item.ProductName,
			VariantDetails: item.VariantDetails,
			SKU:            item.SKU,
			UnitPrice:      item.UnitPrice,
			Quantity:       item.Quantity,
			TotalPrice:     item.TotalPrice,
		}
	}
	return items
}

// OrderPlacedEvent is raised when a new order is created.
// It drives the "order received" notification.
type OrderPlacedEvent struct {
	shared.BaseDomainEvent
	OrderID      uuid.UUID       `json:"order_id"`
	OrderNumber  string          `json:"order_number"`
	CustomerID   *uuid.UUID      `json:"customer_id,omitempty"`
	CustomerName string          `json:"customer_name"`
	Email        string          `json:"email"`
	Items        []OrderItemInfo `json:"items"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	ShippingFee  decimal.Decimal `json:"shipping_fee"`
	Discount     decimal.Decimal `json:"discount_amount"`
	Total        decimal.Decimal `json:"total"`
}

// NewOrderPlacedEvent creates a new OrderPlacedEvent
func NewOrderPlacedEvent(order *Order) *OrderPlacedEvent {
	return &OrderPlacedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderPlaced, AggregateTypeOrder, order.ID),
		OrderID:         order.ID,
		OrderNumber:     order.OrderNumber,
		CustomerID:      order.CustomerID,
		CustomerName:    order.ShippingContact.Name,
		Email:           order.Email,
		Items:           itemInfos(order),
		Subtotal:        order.Subtotal,
		ShippingFee:     order.ShippingFee,
		Discount:        order.DiscountAmount,
		Total:           order.Total,
	}
}

// EventType returns the event type name
func (e *OrderPlacedEvent) EventType() string {
	return EventTypeOrderPlaced
}

// OrderProcessingEvent is raised when an order moves to processing
type OrderProcessingEvent struct {
	shared.BaseDomainEvent
	OrderID      uuid.UUID       `json:"order_id"`
	OrderNumber  string          `json:"order_number"`
	CustomerName string          `json:"customer_name"`
	Email        string          `json:"email"`
	Items        []OrderItemInfo `json:"items"`
	Total        decimal.Decimal `json:"total"`
}

// NewOrderProcessingEvent creates a new OrderProcessingEvent
func NewOrderProcessingEvent(order *Order) *OrderProcessingEvent {
	return &OrderProcessingEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderProcessing, AggregateTypeOrder, order.ID),
		OrderID:         order.ID,
		OrderNumber:     order.OrderNumber,
		CustomerName:    order.ShippingContact.Name,
		Email:           order.Email,
		Items:           itemInfos(order),
		Total:           order.Total,
	}
}

// EventType returns the event type name
func (e *OrderProcessingEvent) EventType() string {
	return EventTypeOrderProcessing
}

// OrderShippedEvent is raised when an order is shipped.
// The courier and tracking fields feed the "shipped" notification.
type OrderShippedEvent struct {
	shared.BaseDomainEvent
	OrderID        uuid.UUID       `json:"order_id"`
	OrderNumber    string          `json:"order_number"`
	CustomerName   string          `json:"customer_name"`
	Email          string          `json:"email"`
	Items          []OrderItemInfo `json:"items"`
	Total          decimal.Decimal `json:"total"`
	Courier        string          `json:"courier"`
	TrackingNumber string          `json:"tracking_number"`
	TrackingURL    string          `json:"tracking_url"`
}

// NewOrderShippedEvent creates a new OrderShippedEvent
func NewOrderShippedEvent(order *Order) *OrderShippedEvent {
	return &OrderShippedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderShipped, AggregateTypeOrder, order.ID),
		OrderID:         order.ID,
		OrderNumber:     order.OrderNumber,
		CustomerName:    order.ShippingContact.Name,
		Email:           order.Email,
		Items:           itemInfos(order),
		Total:           order.Total,
		Courier:         order.Courier,
		TrackingNumber:  order.TrackingNumber,
		TrackingURL:     order.TrackingURL,
	}
}

// EventType returns the event type name
func (e *OrderShippedEvent) EventType() string {
	return EventTypeOrderShipped
}

// OrderDeliveredEvent is raised when an order is delivered.
// Delivery unlocks reviews and claims for the order.
type OrderDeliveredEvent struct {
	shared.BaseDomainEvent
	OrderID      uuid.UUID       `json:"order_id"`
	OrderNumber  string          `json:"order_number"`
	CustomerName string          `json:"customer_name"`
	Email        string          `json:"email"`
	Items        []OrderItemInfo `json:"items"`
	Total        decimal.Decimal `json:"total"`
}

// NewOrderDeliveredEvent creates a new OrderDeliveredEvent
func NewOrderDeliveredEvent(order *Order) *OrderDeliveredEvent {
	return &OrderDeliveredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderDelivered, AggregateTypeOrder, order.ID),
		OrderID:         order.ID,
		OrderNumber:     order.OrderNumber,
		CustomerName:    order.ShippingContact.Name,
		Email:           order.Email,
		Items:           itemInfos(order),
		Total:           order.Total,
	}
}

// EventType returns the event type name
func (e *OrderDeliveredEvent) EventType() string {
	return EventTypeOrderDelivered
}

// OrderCancelledEvent is raised when an order is cancelled.
// No customer notification is sent for cancellations.
type OrderCancelledEvent struct {
	shared.BaseDomainEvent
	OrderID      uuid.UUID `json:"order_id"`
	OrderNumber  string    `json:"order_number"`
	CustomerName string    `json:"customer_name"`
	Email        string    `json:"email"`
	CancelReason string    `json:"cancel_reason,omitempty"`
}

// NewOrderCancelledEvent creates a new OrderCancelledEvent
func NewOrderCancelledEvent(order *Order) *OrderCancelledEvent {
	return &OrderCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCancelled, AggregateTypeOrder, order.ID),
		OrderID:         order.ID,
		OrderNumber:     order.OrderNumber,
		CustomerName:    order.ShippingContact.Name,
		Email:           order.Email,
		CancelReason:    order.CancelReason,
	}
}

// EventType returns the event type name
func (e *OrderCancelledEvent) EventType() string {
	return EventTypeOrderCancelled
}
