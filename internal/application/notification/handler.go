package notification

import (
	"context"
	"fmt"

	"github.com/storefront/backend/internal/domain/ordering"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/config"
	infranotif "github.com/storefront/backend/internal/infrastructure/notification"
	"go.uber.org/zap"
)

// OrderNotificationHandler turns order lifecycle events into customer
// notifications. It runs behind the outbox processor, so a send failure here
// is retried with backoff and never affects the transition that produced the
// event.
type OrderNotificationHandler struct {
	sender   infranotif.Sender
	renderer *Renderer
	cfg      config.NotificationConfig
	logger   *zap.Logger
}

// NewOrderNotificationHandler creates a new OrderNotificationHandler
func NewOrderNotificationHandler(
	sender infranotif.Sender,
	renderer *Renderer,
	cfg config.NotificationConfig,
	logger *zap.Logger,
) *OrderNotificationHandler {
	return &OrderNotificationHandler{
		sender:   sender,
		renderer: renderer,
		cfg:      cfg,
		logger:   logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *OrderNotificationHandler) EventTypes() []string {
	return []string{
		ordering.EventTypeOrderPlaced,
		ordering.EventTypeOrderProcessing,
		ordering.EventTypeOrderShipped,
		ordering.EventTypeOrderDelivered,
		ordering.EventTypeOrderCancelled,
	}
}

// Handle renders and sends the template matching the transition
func (h *OrderNotificationHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *ordering.OrderPlacedEvent:
		return h.send(ctx, TemplateOrderReceived, e.Email, templateData{
			CustomerName: e.CustomerName,
			OrderNumber:  e.OrderNumber,
			Items:        e.Items,
			Total:        e.Total,
			ConfirmURL:   h.orderURL(e.OrderNumber, "confirm"),
		})
	case *ordering.OrderProcessingEvent:
		return h.send(ctx, TemplateProcessing, e.Email, templateData{
			CustomerName: e.CustomerName,
			OrderNumber:  e.OrderNumber,
			Items:        e.Items,
			Total:        e.Total,
		})
	case *ordering.OrderShippedEvent:
		return h.send(ctx, TemplateShipped, e.Email, templateData{
			CustomerName:   e.CustomerName,
			OrderNumber:    e.OrderNumber,
			Items:          e.Items,
			Total:          e.Total,
			Courier:        e.Courier,
			TrackingNumber: e.TrackingNumber,
			TrackingURL:    e.TrackingURL,
		})
	case *ordering.OrderDeliveredEvent:
		return h.send(ctx, TemplateDelivered, e.Email, templateData{
			CustomerName: e.CustomerName,
			OrderNumber:  e.OrderNumber,
			Items:        e.Items,
			Total:        e.Total,
			ReviewURL:    h.orderURL(e.OrderNumber, "review"),
			ClaimURL:     h.orderURL(e.OrderNumber, "claim"),
		})
	case *ordering.OrderCancelledEvent:
		// Cancellations have no customer template. The event is acknowledged
		// so the outbox entry is marked sent and not retried.
		h.logger.Info("order cancelled, no notification sent",
			zap.String("order_number", e.OrderNumber),
			zap.String("cancel_reason", e.CancelReason),
		)
		return nil
	default:
		h.logger.Warn("unexpected event type for notification",
			zap.String("event_type", event.EventType()),
		)
		return nil
	}
}

func (h *OrderNotificationHandler) send(ctx context.Context, kind TemplateKind, to string, data templateData) error {
	body, err := h.renderer.Render(kind, data)
	if err != nil {
		return fmt.Errorf("failed to render %s notification: %w", kind, err)
	}

	msg := infranotif.Message{
		To:      to,
		From:    h.cfg.FromAddress,
		Subject: subject(kind, data.OrderNumber),
		Body:    body,
	}

	if err := h.sender.Send(ctx, msg); err != nil {
		return fmt.Errorf("failed to send %s notification for order %s: %w", kind, data.OrderNumber, err)
	}

	h.logger.Info("order notification sent",
		zap.String("template", string(kind)),
		zap.String("order_number", data.OrderNumber),
		zap.String("to", to),
	)
	return nil
}

func (h *OrderNotificationHandler) orderURL(orderNumber, action string) string {
	return fmt.Sprintf("%s/orders/%s/%s", h.cfg.SiteBaseURL, orderNumber, action)
}

// Ensure OrderNotificationHandler implements EventHandler
var _ shared.EventHandler = (*OrderNotificationHandler)(nil)
