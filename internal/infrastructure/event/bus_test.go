package event

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// testEvent implements DomainEvent for testing
type testEvent struct {
	shared.BaseDomainEvent
	Data string `json:"data"`
}

func newTestEvent(eventType string) *testEvent {
	return &testEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "TestAggregate", uuid.New()),
		Data:            "test data",
	}
}

// testHandler implements EventHandler for testing
type testHandler struct {
	eventTypes []string
	handled    []shared.DomainEvent
	err        error
	mu         sync.Mutex
}

func newTestHandler(eventTypes ...string) *testHandler {
	return &testHandler{
		eventTypes: eventTypes,
		handled:    make([]shared.DomainEvent, 0),
	}
}

func (h *testHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handled = append(h.handled, event)
	return h.err
}

func (h *testHandler) EventTypes() []string {
	return h.eventTypes
}

func (h *testHandler) setError(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.err = err
}

func (h *testHandler) getHandled() []shared.DomainEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]shared.DomainEvent(nil), h.handled...)
}

func TestInMemoryEventBus_Publish(t *testing.T) {
	logger := zap.NewNop()
	bus := NewInMemoryEventBus(logger)

	handler := newTestHandler("OrderPlaced")
	bus.Subscribe(handler, "OrderPlaced")

	event := newTestEvent("OrderPlaced")
	err := bus.Publish(context.Background(), event)

	require.NoError(t, err)
	assert.Len(t, handler.getHandled(), 1)
	assert.Equal(t, event, handler.getHandled()[0])
}

func TestInMemoryEventBus_PublishToMatchingHandlersOnly(t *testing.T) {
	logger := zap.NewNop()
	bus := NewInMemoryEventBus(logger)

	placedHandler := newTestHandler("OrderPlaced")
	shippedHandler := newTestHandler("OrderShipped")
	bus.Subscribe(placedHandler)
	bus.Subscribe(shippedHandler)

	err := bus.Publish(context.Background(), newTestEvent("OrderPlaced"))

	require.NoError(t, err)
	assert.Len(t, placedHandler.getHandled(), 1)
	assert.Empty(t, shippedHandler.getHandled())
}

func TestInMemoryEventBus_WildcardHandler(t *testing.T) {
	logger := zap.NewNop()
	bus := NewInMemoryEventBus(logger)

	wildcard := newTestHandler()
	bus.Subscribe(wildcard)

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("OrderPlaced")))
	require.NoError(t, bus.Publish(context.Background(), newTestEvent("ClaimSubmitted")))

	assert.Len(t, wildcard.getHandled(), 2)
}

func TestInMemoryEventBus_HandlerErrorDoesNotStopOthers(t *testing.T) {
	logger := zap.NewNop()
	bus := NewInMemoryEventBus(logger)

	failing := newTestHandler("OrderPlaced")
	failing.setError(errors.New("handler failed"))
	healthy := newTestHandler("OrderPlaced")

	bus.Subscribe(failing)
	bus.Subscribe(healthy)

	err := bus.Publish(context.Background(), newTestEvent("OrderPlaced"))

	// Every handler still receives the event, but the failure surfaces
	// to the caller so the outbox entry is not marked sent
	require.Error(t, err)
	assert.Len(t, failing.getHandled(), 1)
	assert.Len(t, healthy.getHandled(), 1)
}

func TestInMemoryEventBus_PublishPropagatesHandlerError(t *testing.T) {
	logger := zap.NewNop()
	bus := NewInMemoryEventBus(logger)

	failing := newTestHandler("OrderPlaced")
	failing.setError(errors.New("smtp connection refused"))
	bus.Subscribe(failing)

	err := bus.Publish(context.Background(), newTestEvent("OrderPlaced"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "smtp connection refused")
}

func TestInMemoryEventBus_Unsubscribe(t *testing.T) {
	logger := zap.NewNop()
	bus := NewInMemoryEventBus(logger)

	handler := newTestHandler("OrderPlaced")
	bus.Subscribe(handler)
	bus.Unsubscribe(handler)

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("OrderPlaced")))
	assert.Empty(t, handler.getHandled())
}

func TestInMemoryEventBus_StartStop(t *testing.T) {
	logger := zap.NewNop()
	bus := NewInMemoryEventBus(logger)

	ctx := context.Background()
	require.NoError(t, bus.Start(ctx))
	require.NoError(t, bus.Stop(ctx))
}

func TestHandlerRegistry_GetHandlers(t *testing.T) {
	registry := NewHandlerRegistry()

	specific := newTestHandler("OrderShipped")
	wildcard := newTestHandler()

	registry.Register(specific, "OrderShipped")
	registry.Register(wildcard)

	handlers := registry.GetHandlers("OrderShipped")
	assert.Len(t, handlers, 2)

	handlers = registry.GetHandlers("OrderPlaced")
	assert.Len(t, handlers, 1)
}

func TestHandlerRegistry_Unregister(t *testing.T) {
	registry := NewHandlerRegistry()

	handler := newTestHandler("OrderShipped")
	registry.Register(handler, "OrderShipped")
	registry.Unregister(handler)

	assert.Empty(t, registry.GetHandlers("OrderShipped"))
}

func TestHandlerRegistry_GetAllHandlers(t *testing.T) {
	registry := NewHandlerRegistry()

	h1 := newTestHandler("OrderPlaced")
	h2 := newTestHandler("OrderPlaced", "OrderShipped")
	registry.Register(h1, "OrderPlaced")
	registry.Register(h2, "OrderPlaced", "OrderShipped")

	// Each handler counted once even when registered for several types
	assert.Len(t, registry.GetAllHandlers(), 2)
}
