package event

import (
	"github.com/storefront/backend/internal/domain/claims"
	"github.com/storefront/backend/internal/domain/ordering"
)

// RegisterAllEvents registers all domain event types with the serializer
// This is required for the OutboxProcessor to deserialize events from the outbox table
func RegisterAllEvents(serializer *EventSerializer) {
	// Ordering domain events
	serializer.Register(ordering.EventTypeOrderPlaced, &ordering.OrderPlacedEvent{})
	serializer.Register(ordering.EventTypeOrderProcessing, &ordering.OrderProcessingEvent{})
	serializer.Register(ordering.EventTypeOrderShipped, &ordering.OrderShippedEvent{})
	serializer.Register(ordering.EventTypeOrderDelivered, &ordering.OrderDeliveredEvent{})
	serializer.Register(ordering.EventTypeOrderCancelled, &ordering.OrderCancelledEvent{})

	// Claims domain events
	serializer.Register(claims.EventTypeClaimSubmitted, &claims.ClaimSubmittedEvent{})
	serializer.Register(claims.EventTypeClaimStarted, &claims.ClaimStartedEvent{})
	serializer.Register(claims.EventTypeClaimClosed, &claims.ClaimClosedEvent{})
}
