package claims

import (
	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeClaim = "Claim"

// Event type constants
const (
	EventTypeClaimSubmitted = "ClaimSubmitted"
	EventTypeClaimStarted   = "ClaimStarted"
	EventTypeClaimClosed    = "ClaimClosed"
)

// ClaimSubmittedEvent is raised when a customer files a claim
type ClaimSubmittedEvent struct {
	shared.BaseDomainEvent
	ClaimID    uuid.UUID `json:"claim_id"`
	OrderID    uuid.UUID `json:"order_id"`
	ClaimType  ClaimType `json:"claim_type"`
	Requester  string    `json:"requester"`
	Email      string    `json:"email"`
	ImageCount int       `json:"image_count"`
}

// NewClaimSubmittedEvent creates a new ClaimSubmittedEvent
func NewClaimSubmittedEvent(claim *Claim) *ClaimSubmittedEvent {
	return &ClaimSubmittedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeClaimSubmitted, AggregateTypeClaim, claim.ID),
		ClaimID:         claim.ID,
		OrderID:         claim.OrderID,
		ClaimType:       claim.Type,
		Requester:       claim.Contact.Name,
		Email:           claim.Contact.Email,
		ImageCount:      len(claim.ImageKeys),
	}
}

// EventType returns the event type name
func (e *ClaimSubmittedEvent) EventType() string {
	return EventTypeClaimSubmitted
}

// ClaimStartedEvent is raised when an operator picks up a claim
type ClaimStartedEvent struct {
	shared.BaseDomainEvent
	ClaimID uuid.UUID `json:"claim_id"`
	OrderID uuid.UUID `json:"order_id"`
}

// NewClaimStartedEvent creates a new ClaimStartedEvent
func NewClaimStartedEvent(claim *Claim) *ClaimStartedEvent {
	return &ClaimStartedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeClaimStarted, AggregateTypeClaim, claim.ID),
		ClaimID:         claim.ID,
		OrderID:         claim.OrderID,
	}
}

// EventType returns the event type name
func (e *ClaimStartedEvent) EventType() string {
	return EventTypeClaimStarted
}

// ClaimClosedEvent is raised when a claim reaches a terminal status
type ClaimClosedEvent struct {
	shared.BaseDomainEvent
	ClaimID         uuid.UUID   `json:"claim_id"`
	OrderID         uuid.UUID   `json:"order_id"`
	Status          ClaimStatus `json:"status"`
	ResolutionNotes *string     `json:"resolution_notes,omitempty"`
}

// NewClaimClosedEvent creates a new ClaimClosedEvent
func NewClaimClosedEvent(claim *Claim) *ClaimClosedEvent {
	return &ClaimClosedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeClaimClosed, AggregateTypeClaim, claim.ID),
		ClaimID:         claim.ID,
		OrderID:         claim.OrderID,
		Status:          claim.Status,
		ResolutionNotes: claim.ResolutionNotes,
	}
}

// EventType returns the event type name
func (e *ClaimClosedEvent) EventType() string {
	return EventTypeClaimClosed
}
