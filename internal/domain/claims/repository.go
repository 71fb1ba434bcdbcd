package claims

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// ClaimRepository defines the interface for claim persistence
type ClaimRepository interface {
	// FindByID finds a claim by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Claim, error)

	// FindByOrderID finds the claim bound to an order, if any
	FindByOrderID(ctx context.Context, orderID uuid.UUID) (*Claim, error)

	// FindByStatus finds claims in a given status
	FindByStatus(ctx context.Context, status ClaimStatus, filter shared.Filter) ([]Claim, error)

	// FindAll finds all claims with filtering
	FindAll(ctx context.Context, filter shared.Filter) ([]Claim, error)

	// SaveWithEvents persists a new claim and its domain events in one
	// transaction. The unique index on order_id is the arbiter of the
	// one-claim-per-order invariant: a duplicate insert returns
	// ErrAlreadyExists regardless of any prior existence check.
	SaveWithEvents(ctx context.Context, claim *Claim, events []shared.DomainEvent) error

	// SaveWithLockAndEvents updates a claim with optimistic locking and
	// persists domain events to the outbox atomically
	SaveWithLockAndEvents(ctx context.Context, claim *Claim, events []shared.DomainEvent) error

	// ExistsByOrderID checks if a claim already exists for an order
	ExistsByOrderID(ctx context.Context, orderID uuid.UUID) (bool, error)

	// CountByStatus counts claims in a given status
	CountByStatus(ctx context.Context, status ClaimStatus) (int64, error)
}
