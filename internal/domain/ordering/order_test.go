package ordering

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test helpers
func testContact() ShippingContact {
	return ShippingContact{
		Name:       "Ayesha Khan",
		Phone:      "03001234567",
		Address:    "House 12, Street 4",
		City:       "Lahore",
		Province:   "Punjab",
		PostalCode: "54000",
	}
}

func testLines() []CartLine {
	productA := uuid.New()
	productB := uuid.New()
	return []CartLine{
		{
			ProductID:   &productA,
			ProductName: "Wireless Earbuds",
			SKU:         "WE-001",
			UnitPrice:   valueobject.NewMoneyPKRFromInt(2999),
			Quantity:    1,
		},
		{
			ProductID:      &productB,
			ProductName:    "Phone Case",
			VariantDetails: "Matte Black",
			SKU:            "PC-014",
			UnitPrice:      valueobject.NewMoneyPKRFromInt(2499),
			Quantity:       2,
		},
	}
}

func createTestOrder(t *testing.T) *Order {
	customerID := uuid.New()
	order, err := NewOrder("ORD-001", &customerID, "ayesha@example.com", testContact(), PaymentMethodCOD,
		testLines(), valueobject.NewMoneyPKRFromInt(200), valueobject.ZeroPKR(), "", "")
	require.NoError(t, err)
	return order
}

// ============================================
// OrderStatus Tests
// ============================================

func TestOrderStatus_IsValid(t *testing.T) {
	tests := []struct {
		status  OrderStatus
		isValid bool
	}{
		{OrderStatusPending, true},
		{OrderStatusProcessing, true},
		{OrderStatusShipped, true},
		{OrderStatusDelivered, true},
		{OrderStatusCancelled, true},
		{OrderStatus("invalid"), false},
		{OrderStatus(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.isValid, tt.status.IsValid())
		})
	}
}

func TestOrderStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from     OrderStatus
		to       OrderStatus
		canTrans bool
	}{
		// From pending
		{OrderStatusPending, OrderStatusProcessing, true},
		{OrderStatusPending, OrderStatusCancelled, true},
		{OrderStatusPending, OrderStatusShipped, false},
		{OrderStatusPending, OrderStatusDelivered, false},
		// From processing
		{OrderStatusProcessing, OrderStatusShipped, true},
		{OrderStatusProcessing, OrderStatusCancelled, true},
		{OrderStatusProcessing, OrderStatusPending, false},
		{OrderStatusProcessing, OrderStatusDelivered, false},
		// From shipped
		{OrderStatusShipped, OrderStatusDelivered, true},
		{OrderStatusShipped, OrderStatusCancelled, false},
		{OrderStatusShipped, OrderStatusPending, false},
		{OrderStatusShipped, OrderStatusProcessing, false},
		// From delivered (terminal)
		{OrderStatusDelivered, OrderStatusPending, false},
		{OrderStatusDelivered, OrderStatusProcessing, false},
		{OrderStatusDelivered, OrderStatusShipped, false},
		{OrderStatusDelivered, OrderStatusCancelled, false},
		// From cancelled (terminal)
		{OrderStatusCancelled, OrderStatusPending, false},
		{OrderStatusCancelled, OrderStatusProcessing, false},
		{OrderStatusCancelled, OrderStatusShipped, false},
		{OrderStatusCancelled, OrderStatusDelivered, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.canTrans, tt.from.CanTransitionTo(tt.to))
		})
	}
}

// ============================================
// NewOrder Tests
// ============================================

func TestNewOrder(t *testing.T) {
	customerID := uuid.New()

	t.Run("creates order with valid inputs", func(t *testing.T) {
		order, err := NewOrder("ORD-001", &customerID, "ayesha@example.com", testContact(), PaymentMethodCOD,
			testLines(), valueobject.NewMoneyPKRFromInt(200), valueobject.ZeroPKR(), "", "please call before delivery")
		require.NoError(t, err)
		require.NotNil(t, order)

		assert.Equal(t, "ORD-001", order.OrderNumber)
		assert.Equal(t, OrderStatusPending, order.Status)
		assert.Equal(t, PaymentMethodCOD, order.PaymentMethod)
		assert.Len(t, order.Items, 2)
		assert.Equal(t, "please call before delivery", order.CustomerNotes)
		assert.Nil(t, order.ShippedAt)
		assert.Nil(t, order.DeliveredAt)

		// 2999*1 + 2499*2 = 7997, + 200 shipping = 8197
		assert.True(t, order.Subtotal.Equal(decimal.NewFromInt(7997)), "subtotal was %s", order.Subtotal)
		assert.True(t, order.Total.Equal(decimal.NewFromInt(8197)), "total was %s", order.Total)

		events := order.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeOrderPlaced, events[0].EventType())
	})

	t.Run("total invariant holds with discount", func(t *testing.T) {
		order, err := NewOrder("ORD-002", &customerID, "ayesha@example.com", testContact(), PaymentMethodCOD,
			testLines(), valueobject.NewMoneyPKRFromInt(200), valueobject.NewMoneyPKRFromInt(500), "WELCOME500", "")
		require.NoError(t, err)

		expected := order.Subtotal.Add(order.ShippingFee).Sub(order.DiscountAmount)
		assert.True(t, order.Total.Equal(expected))
		assert.True(t, order.Total.Equal(decimal.NewFromInt(7697)))
		assert.Equal(t, "WELCOME500", order.CouponCode)
	})

	t.Run("guest checkout with nil customer", func(t *testing.T) {
		order, err := NewOrder("ORD-003", nil, "guest@example.com", testContact(), PaymentMethodCOD,
			testLines(), valueobject.ZeroPKR(), valueobject.ZeroPKR(), "", "")
		require.NoError(t, err)
		assert.True(t, order.IsGuest())
	})

	t.Run("rejects empty cart", func(t *testing.T) {
		_, err := NewOrder("ORD-004", &customerID, "ayesha@example.com", testContact(), PaymentMethodCOD,
			nil, valueobject.ZeroPKR(), valueobject.ZeroPKR(), "", "")
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "EMPTY_CART", domainErr.Code)
	})

	t.Run("rejects empty order number", func(t *testing.T) {
		_, err := NewOrder("", &customerID, "ayesha@example.com", testContact(), PaymentMethodCOD,
			testLines(), valueobject.ZeroPKR(), valueobject.ZeroPKR(), "", "")
		assert.Error(t, err)
	})

	t.Run("rejects missing email", func(t *testing.T) {
		_, err := NewOrder("ORD-005", nil, "", testContact(), PaymentMethodCOD,
			testLines(), valueobject.ZeroPKR(), valueobject.ZeroPKR(), "", "")
		assert.Error(t, err)
	})

	t.Run("rejects missing shipping contact field", func(t *testing.T) {
		contact := testContact()
		contact.City = ""
		_, err := NewOrder("ORD-006", &customerID, "ayesha@example.com", contact, PaymentMethodCOD,
			testLines(), valueobject.ZeroPKR(), valueobject.ZeroPKR(), "", "")
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_SHIPPING_CONTACT", domainErr.Code)
	})

	t.Run("rejects unknown payment method", func(t *testing.T) {
		_, err := NewOrder("ORD-007", &customerID, "ayesha@example.com", testContact(), PaymentMethod("card"),
			testLines(), valueobject.ZeroPKR(), valueobject.ZeroPKR(), "", "")
		assert.Error(t, err)
	})

	t.Run("rejects zero quantity line", func(t *testing.T) {
		productID := uuid.New()
		lines := []CartLine{{
			ProductID:   &productID,
			ProductName: "Wireless Earbuds",
			UnitPrice:   valueobject.NewMoneyPKRFromInt(2999),
			Quantity:    0,
		}}
		_, err := NewOrder("ORD-008", &customerID, "ayesha@example.com", testContact(), PaymentMethodCOD,
			lines, valueobject.ZeroPKR(), valueobject.ZeroPKR(), "", "")
		assert.Error(t, err)
	})
}

// ============================================
// OrderItem Tests
// ============================================

func TestNewOrderItem(t *testing.T) {
	orderID := uuid.New()
	productID := uuid.New()

	t.Run("computes line total", func(t *testing.T) {
		item, err := NewOrderItem(orderID, &productID, nil, "Phone Case", "Matte Black", "PC-014",
			valueobject.NewMoneyPKRFromInt(2499), 2)
		require.NoError(t, err)
		assert.True(t, item.TotalPrice.Equal(decimal.NewFromInt(4998)))
	})

	t.Run("allows nil product reference", func(t *testing.T) {
		item, err := NewOrderItem(orderID, nil, nil, "Discontinued Gadget", "", "",
			valueobject.NewMoneyPKRFromInt(100), 1)
		require.NoError(t, err)
		assert.Nil(t, item.ProductID)
	})

	t.Run("rejects negative price", func(t *testing.T) {
		neg := valueobject.NewMoneyPKRFromInt(-1)
		_, err := NewOrderItem(orderID, &productID, nil, "Phone Case", "", "", neg, 1)
		assert.Error(t, err)
	})

	t.Run("rejects empty product name", func(t *testing.T) {
		_, err := NewOrderItem(orderID, &productID, nil, "", "", "", valueobject.NewMoneyPKRFromInt(100), 1)
		assert.Error(t, err)
	})
}

// ============================================
// State machine transition Tests
// ============================================

func TestOrder_Process(t *testing.T) {
	t.Run("pending to processing", func(t *testing.T) {
		order := createTestOrder(t)
		order.ClearDomainEvents()

		require.NoError(t, order.Process())
		assert.Equal(t, OrderStatusProcessing, order.Status)

		events := order.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeOrderProcessing, events[0].EventType())
	})

	t.Run("rejected from shipped", func(t *testing.T) {
		order := createTestOrder(t)
		require.NoError(t, order.Process())
		require.NoError(t, order.Ship("TCS", "TCS12345", "https://tcs.example.com/track/TCS12345"))

		err := order.Process()
		require.Error(t, err)
		assert.Equal(t, OrderStatusShipped, order.Status)
	})
}

func TestOrder_Ship(t *testing.T) {
	t.Run("sets tracking fields and shipped_at", func(t *testing.T) {
		order := createTestOrder(t)
		require.NoError(t, order.Process())
		order.ClearDomainEvents()

		require.NoError(t, order.Ship("TCS", "TCS12345", "https://tcs.example.com/track/TCS12345"))
		assert.Equal(t, OrderStatusShipped, order.Status)
		assert.Equal(t, "TCS", order.Courier)
		assert.Equal(t, "TCS12345", order.TrackingNumber)
		require.NotNil(t, order.ShippedAt)

		events := order.GetDomainEvents()
		require.Len(t, events, 1)
		shipped, ok := events[0].(*OrderShippedEvent)
		require.True(t, ok)
		assert.Equal(t, "TCS12345", shipped.TrackingNumber)
	})

	t.Run("requires courier and tracking", func(t *testing.T) {
		order := createTestOrder(t)
		require.NoError(t, order.Process())

		assert.Error(t, order.Ship("", "TCS12345", "https://tcs.example.com"))
		assert.Error(t, order.Ship("TCS", "", "https://tcs.example.com"))
		assert.Error(t, order.Ship("TCS", "TCS12345", ""))
		assert.Equal(t, OrderStatusProcessing, order.Status)
		assert.Nil(t, order.ShippedAt)
	})

	t.Run("rejected from pending", func(t *testing.T) {
		order := createTestOrder(t)
		err := order.Ship("TCS", "TCS12345", "https://tcs.example.com")
		require.Error(t, err)
		assert.Equal(t, OrderStatusPending, order.Status)
	})
}

func TestOrder_Deliver(t *testing.T) {
	t.Run("sets delivered_at", func(t *testing.T) {
		order := createTestOrder(t)
		require.NoError(t, order.Process())
		require.NoError(t, order.Ship("TCS", "TCS12345", "https://tcs.example.com/track/TCS12345"))
		order.ClearDomainEvents()

		require.NoError(t, order.Deliver())
		assert.Equal(t, OrderStatusDelivered, order.Status)
		require.NotNil(t, order.DeliveredAt)
		assert.True(t, order.IsTerminal())

		events := order.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeOrderDelivered, events[0].EventType())
	})

	t.Run("rejected when not shipped", func(t *testing.T) {
		order := createTestOrder(t)
		require.Error(t, order.Deliver())
		assert.Equal(t, OrderStatusPending, order.Status)
		assert.Nil(t, order.DeliveredAt)
	})
}

func TestOrder_Cancel(t *testing.T) {
	t.Run("from pending with reason", func(t *testing.T) {
		order := createTestOrder(t)
		order.ClearDomainEvents()

		require.NoError(t, order.Cancel("changed my mind"))
		assert.Equal(t, OrderStatusCancelled, order.Status)
		assert.Equal(t, "changed my mind", order.CancelReason)
		require.NotNil(t, order.CancelledAt)
	})

	t.Run("reason is optional", func(t *testing.T) {
		order := createTestOrder(t)
		require.NoError(t, order.Process())
		require.NoError(t, order.Cancel(""))
		assert.Equal(t, OrderStatusCancelled, order.Status)
	})

	t.Run("rejected after shipping", func(t *testing.T) {
		order := createTestOrder(t)
		require.NoError(t, order.Process())
		require.NoError(t, order.Ship("TCS", "TCS12345", "https://tcs.example.com/track/TCS12345"))

		require.Error(t, order.Cancel("too late"))
		assert.Equal(t, OrderStatusShipped, order.Status)
	})

	t.Run("rejected after delivery", func(t *testing.T) {
		order := createTestOrder(t)
		require.NoError(t, order.Process())
		require.NoError(t, order.Ship("TCS", "TCS12345", "https://tcs.example.com/track/TCS12345"))
		require.NoError(t, order.Deliver())

		require.Error(t, order.Cancel(""))
		assert.Equal(t, OrderStatusDelivered, order.Status)
	})
}

// ============================================
// Query helpers
// ============================================

func TestOrder_ContainsProduct(t *testing.T) {
	order := createTestOrder(t)
	require.NotNil(t, order.Items[0].ProductID)

	assert.True(t, order.ContainsProduct(*order.Items[0].ProductID))
	assert.False(t, order.ContainsProduct(uuid.New()))
}

func TestOrder_BelongsTo(t *testing.T) {
	customerID := uuid.New()
	order, err := NewOrder("ORD-010", &customerID, "ayesha@example.com", testContact(), PaymentMethodCOD,
		testLines(), valueobject.ZeroPKR(), valueobject.ZeroPKR(), "", "")
	require.NoError(t, err)

	assert.True(t, order.BelongsTo(customerID))
	assert.False(t, order.BelongsTo(uuid.New()))

	guest, err := NewOrder("ORD-011", nil, "guest@example.com", testContact(), PaymentMethodCOD,
		testLines(), valueobject.ZeroPKR(), valueobject.ZeroPKR(), "", "")
	require.NoError(t, err)
	assert.False(t, guest.BelongsTo(customerID))
}
