package ordering

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// OrderStatus represents the fulfillment status of an order
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status.
// The forward chain is pending → processing → shipped → delivered; no state
// may be skipped and no backward move is legal. Cancellation is reachable
// from pending and processing only.
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	switch s {
	case OrderStatusPending:
		return target == OrderStatusProcessing || target == OrderStatusCancelled
	case OrderStatusProcessing:
		return target == OrderStatusShipped || target == OrderStatusCancelled
	case OrderStatusShipped:
		return target == OrderStatusDelivered
	case OrderStatusDelivered, OrderStatusCancelled:
		return false // Terminal states
	}
	return false
}

// PaymentMethod identifies how the order is paid
type PaymentMethod string

const (
	// PaymentMethodCOD is cash on delivery, the only supported method
	PaymentMethodCOD PaymentMethod = "cod"
)

// IsValid checks if the payment method is supported
func (p PaymentMethod) IsValid() bool {
	return p == PaymentMethodCOD
}

// ShippingContact is the delivery contact snapshot captured at order time.
// It is independent of any later profile edits.
type ShippingContact struct {
	Name       string
	Phone      string
	Address    string
	City       string
	Province   string
	PostalCode string
}

// Validate checks that every contact field is present
func (c ShippingContact) Validate() error {
	if c.Name == "" {
		return shared.NewDomainError("INVALID_SHIPPING_CONTACT", "Shipping name cannot be empty")
	}
	if c.Phone == "" {
		return shared.NewDomainError("INVALID_SHIPPING_CONTACT", "Shipping phone cannot be empty")
	}
	if c.Address == "" {
		return shared.NewDomainError("INVALID_SHIPPING_CONTACT", "Shipping address cannot be empty")
	}
	if c.City == "" {
		return shared.NewDomainError("INVALID_SHIPPING_CONTACT", "Shipping city cannot be empty")
	}
	if c.Province == "" {
		return shared.NewDomainError("INVALID_SHIPPING_CONTACT", "Shipping province cannot be empty")
	}
	if c.PostalCode == "" {
		return shared.NewDomainError("INVALID_SHIPPING_CONTACT", "Shipping postal code cannot be empty")
	}
	return nil
}

// OrderItem is a line item snapshot, immutable after order creation.
// Product name, variant details and prices are captured as text so the
// line survives later catalog changes or product deletion.
type OrderItem struct {
	ID             uuid.UUID
	OrderID        uuid.UUID
	ProductID      *uuid.UUID // nullable: product may be deleted later
	VariantID      *uuid.UUID
	ProductName    string
	VariantDetails string
	SKU            string
	UnitPrice      decimal.Decimal
	Quantity       int
	TotalPrice     decimal.Decimal // UnitPrice * Quantity
	CreatedAt      time.Time
}

// NewOrderItem creates a new order line item snapshot
func NewOrderItem(orderID uuid.UUID, productID, variantID *uuid.UUID, productName, variantDetails, sku string, unitPrice valueobject.Money, quantity int) (*OrderItem, error) {
	if productName == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if quantity < 1 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be at least 1")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	return &OrderItem{
		ID:             uuid.New(),
		OrderID:        orderID,
		ProductID:      productID,
		VariantID:      variantID,
		ProductName:    productName,
		VariantDetails: variantDetails,
		SKU:            sku,
		UnitPrice:      unitPrice.Amount(),
		Quantity:       quantity,
		TotalPrice:     unitPrice.Amount().Mul(decimal.NewFromInt(int64(quantity))),
		CreatedAt:      time.Now(),
	}, nil
}

// GetUnitPriceMoney returns the unit price as Money
func (i *OrderItem) GetUnitPriceMoney() valueobject.Money {
	return valueobject.NewMoneyPKR(i.UnitPrice)
}

// GetTotalPriceMoney returns the line total as Money
func (i *OrderItem) GetTotalPriceMoney() valueobject.Money {
	return valueobject.NewMoneyPKR(i.TotalPrice)
}

// Order is the aggregate root for one checkout event.
// It is created once in pending status, mutated only through the state
// machine transitions, and never deleted.
type Order struct {
	shared.BaseAggregateRoot
	OrderNumber     string
	CustomerID      *uuid.UUID // nil for guest checkout
	Email           string     // always required, notifications go here
	Status          OrderStatus
	PaymentMethod   PaymentMethod
	Items           []OrderItem
	Subtotal        decimal.Decimal // sum of line totals
	ShippingFee     decimal.Decimal
	DiscountAmount  decimal.Decimal
	Total           decimal.Decimal // Subtotal + ShippingFee - DiscountAmount
	CouponCode      string
	ShippingContact ShippingContact
	Courier         string // populated by Ship only
	TrackingNumber  string
	TrackingURL     string
	CustomerNotes   string
	AdminNotes      string
	CancelReason    string
	ShippedAt       *time.Time
	DeliveredAt     *time.Time
	CancelledAt     *time.Time
}

// CartLine is one resolved entry of the cart snapshot handed to NewOrder
type CartLine struct {
	ProductID      *uuid.UUID
	VariantID      *uuid.UUID
	ProductName    string
	VariantDetails string
	SKU            string
	UnitPrice      valueobject.Money
	Quantity       int
}

// NewOrder creates a new order from a cart snapshot.
// The cart must be non-empty and every line must carry a resolved unit
// price and a quantity of at least 1. Shipping fee and discount are
// accepted as already-computed inputs; the total is derived here and the
// subtotal/total invariants hold by construction.
func NewOrder(orderNumber string, customerID *uuid.UUID, email string, contact ShippingContact, paymentMethod PaymentMethod, lines []CartLine, shippingFee, discount valueobject.Money, couponCode, customerNotes string) (*Order, error) {
	if orderNumber == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if email == "" {
		return nil, shared.NewDomainError("INVALID_EMAIL", "Email is required")
	}
	if err := contact.Validate(); err != nil {
		return nil, err
	}
	if !paymentMethod.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", fmt.Sprintf("Unsupported payment method: %s", paymentMethod))
	}
	if len(lines) == 0 {
		return nil, shared.NewDomainError("EMPTY_CART", "Cannot create an order from an empty cart")
	}
	if shippingFee.IsNegative() {
		return nil, shared.NewDomainError("INVALID_SHIPPING_FEE", "Shipping fee cannot be negative")
	}
	if discount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_DISCOUNT", "Discount cannot be negative")
	}

	order := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderNumber:       orderNumber,
		CustomerID:        customerID,
		Email:             email,
		Status:            OrderStatusPending,
		PaymentMethod:     paymentMethod,
		Items:             make([]OrderItem, 0, len(lines)),
		ShippingFee:       shippingFee.Amount(),
		DiscountAmount:    discount.Amount(),
		CouponCode:        couponCode,
		ShippingContact:   contact,
		CustomerNotes:     customerNotes,
	}

	for _, line := range lines {
		item, err := NewOrderItem(order.ID, line.ProductID, line.VariantID, line.ProductName, line.VariantDetails, line.SKU, line.UnitPrice, line.Quantity)
		if err != nil {
			return nil, err
		}
		order.Items = append(order.Items, *item)
	}

	order.recalculateTotals()

	if order.DiscountAmount.GreaterThan(order.Subtotal.Add(order.ShippingFee)) {
		return nil, shared.NewDomainError("INVALID_DISCOUNT", "Discount cannot exceed subtotal plus shipping fee")
	}

	order.AddDomainEvent(NewOrderPlacedEvent(order))

	return order, nil
}

// Process transitions the order from pending to processing
func (o *Order) Process() error {
	if !o.Status.CanTransitionTo(OrderStatusProcessing) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot process order in %s status", o.Status))
	}

	o.Status = OrderStatusProcessing
	o.UpdatedAt = time.Now()

	o.AddDomainEvent(NewOrderProcessingEvent(o))

	return nil
}

// Ship transitions the order from processing to shipped.
// Courier name, tracking number and tracking URL are all required.
// ShippedAt is set exactly once, by this transition.
func (o *Order) Ship(courier, trackingNumber, trackingURL string) error {
	if !o.Status.CanTransitionTo(OrderStatusShipped) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot ship order in %s status", o.Status))
	}
	if courier == "" {
		return shared.NewDomainError("INVALID_COURIER", "Courier name is required")
	}
	if trackingNumber == "" {
		return shared.NewDomainError("INVALID_TRACKING", "Tracking number is required")
	}
	if trackingURL == "" {
		return shared.NewDomainError("INVALID_TRACKING", "Tracking URL is required")
	}

	now := time.Now()
	o.Status = OrderStatusShipped
	o.Courier = courier
	o.TrackingNumber = trackingNumber
	o.TrackingURL = trackingURL
	o.ShippedAt = &now
	o.UpdatedAt = now

	o.AddDomainEvent(NewOrderShippedEvent(o))

	return nil
}

// Deliver transitions the order from shipped to delivered.
// DeliveredAt is set exactly once. Delivery unlocks review submission and
// claim creation for this order.
func (o *Order) Deliver() error {
	if !o.Status.CanTransitionTo(OrderStatusDelivered) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot deliver order in %s status", o.Status))
	}

	now := time.Now()
	o.Status = OrderStatusDelivered
	o.DeliveredAt = &now
	o.UpdatedAt = now

	o.AddDomainEvent(NewOrderDeliveredEvent(o))

	return nil
}

// Cancel cancels the order. Allowed only in pending or processing status.
// The reason is optional.
func (o *Order) Cancel(reason string) error {
	if !o.Status.CanTransitionTo(OrderStatusCancelled) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot cancel order in %s status", o.Status))
	}

	now := time.Now()
	o.Status = OrderStatusCancelled
	o.CancelReason = reason
	o.CancelledAt = &now
	o.UpdatedAt = now

	o.AddDomainEvent(NewOrderCancelledEvent(o))

	return nil
}

// SetAdminNotes sets the operator-side notes
func (o *Order) SetAdminNotes(notes string) {
	o.AdminNotes = notes
	o.UpdatedAt = time.Now()
}

// recalculateTotals derives subtotal and total from the line items
func (o *Order) recalculateTotals() {
	subtotal := decimal.Zero
	for _, item := range o.Items {
		subtotal = subtotal.Add(item.TotalPrice)
	}
	o.Subtotal = subtotal
	o.Total = o.Subtotal.Add(o.ShippingFee).Sub(o.DiscountAmount)
}

// GetSubtotalMoney returns the subtotal as Money
func (o *Order) GetSubtotalMoney() valueobject.Money {
	return valueobject.NewMoneyPKR(o.Subtotal)
}

// GetTotalMoney returns the total as Money
func (o *Order) GetTotalMoney() valueobject.Money {
	return valueobject.NewMoneyPKR(o.Total)
}

// ItemCount returns the number of line items
func (o *Order) ItemCount() int {
	return len(o.Items)
}

// ContainsProduct returns true if any line item references the product
func (o *Order) ContainsProduct(productID uuid.UUID) bool {
	for idx := range o.Items {
		if o.Items[idx].ProductID != nil && *o.Items[idx].ProductID == productID {
			return true
		}
	}
	return false
}

// GetItemByProduct returns the line item referencing the product, or nil
func (o *Order) GetItemByProduct(productID uuid.UUID) *OrderItem {
	for idx := range o.Items {
		if o.Items[idx].ProductID != nil && *o.Items[idx].ProductID == productID {
			return &o.Items[idx]
		}
	}
	return nil
}

// IsGuest returns true if the order was placed without an account
func (o *Order) IsGuest() bool {
	return o.CustomerID == nil
}

// BelongsTo reports whether the order is owned by the given customer
func (o *Order) BelongsTo(customerID uuid.UUID) bool {
	return o.CustomerID != nil && *o.CustomerID == customerID
}

// IsPending returns true if the order is awaiting processing
func (o *Order) IsPending() bool {
	return o.Status == OrderStatusPending
}

// IsProcessing returns true if the order is being prepared
func (o *Order) IsProcessing() bool {
	return o.Status == OrderStatusProcessing
}

// IsShipped returns true if the order is shipped
func (o *Order) IsShipped() bool {
	return o.Status == OrderStatusShipped
}

// IsDelivered returns true if the order is delivered
func (o *Order) IsDelivered() bool {
	return o.Status == OrderStatusDelivered
}

// IsCancelled returns true if the order is cancelled
func (o *Order) IsCancelled() bool {
	return o.Status == OrderStatusCancelled
}

// IsTerminal returns true if the order is in a terminal state
func (o *Order) IsTerminal() bool {
	return o.IsDelivered() || o.IsCancelled()
}
