package ordering

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	// FindByID finds an order by its internal ID, items included
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindByOrderNumber finds an order by its human-readable number
	FindByOrderNumber(ctx context.Context, orderNumber string) (*Order, error)

	// FindByCustomer finds orders belonging to a customer
	FindByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) ([]Order, error)

	// FindByStatus finds orders in a given status
	FindByStatus(ctx context.Context, status OrderStatus, filter shared.Filter) ([]Order, error)

	// FindAll finds all orders with filtering
	FindAll(ctx context.Context, filter shared.Filter) ([]Order, error)

	// SaveWithEvents persists a new order, its items and the given domain
	// events as one atomic transaction. If any write fails the whole unit
	// rolls back - the order row must never remain visible without its items.
	// Events land in the outbox table in the same transaction.
	SaveWithEvents(ctx context.Context, order *Order, events []shared.DomainEvent) error

	// SaveWithLockAndEvents updates an order with optimistic locking
	// (version check) and persists domain events to the outbox atomically.
	// Returns ErrConcurrencyConflict when the stored version has moved.
	SaveWithLockAndEvents(ctx context.Context, order *Order, events []shared.DomainEvent) error

	// Count counts orders matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// CountByStatus counts orders in a given status
	CountByStatus(ctx context.Context, status OrderStatus) (int64, error)

	// ExistsByOrderNumber checks if an order number is already taken
	ExistsByOrderNumber(ctx context.Context, orderNumber string) (bool, error)

	// NextOrderNumber atomically allocates the next order number in the
	// ORD-NNN sequence. Safe under concurrent checkouts: two simultaneous
	// calls never return the same value.
	NextOrderNumber(ctx context.Context) (string, error)
}
