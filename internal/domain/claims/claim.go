package claims

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// MaxImages caps the number of image attachments per claim
const MaxImages = 5

// ClaimType classifies a post-delivery support request
type ClaimType string

const (
	ClaimTypeReturnRequest ClaimType = "return_request"
	ClaimTypeRefund        ClaimType = "refund"
	ClaimTypeWarranty      ClaimType = "warranty"
	ClaimTypeComplaint     ClaimType = "complaint"
)

// IsValid checks if the claim type is one of the four supported kinds
func (t ClaimType) IsValid() bool {
	switch t {
	case ClaimTypeReturnRequest, ClaimTypeRefund, ClaimTypeWarranty, ClaimTypeComplaint:
		return true
	}
	return false
}

// String returns the string representation of ClaimType
func (t ClaimType) String() string {
	return string(t)
}

// Label returns the customer-facing label for the claim type
func (t ClaimType) Label() string {
	switch t {
	case ClaimTypeReturnRequest:
		return "Return Request"
	case ClaimTypeRefund:
		return "Refund Claim"
	case ClaimTypeWarranty:
		return "Warranty Claim"
	case ClaimTypeComplaint:
		return "Complaint"
	}
	return string(t)
}

// ParseClaimType maps a customer-facing label or raw value to a ClaimType
func ParseClaimType(value string) (ClaimType, error) {
	switch value {
	case "Return Request", string(ClaimTypeReturnRequest):
		return ClaimTypeReturnRequest, nil
	case "Refund Claim", string(ClaimTypeRefund):
		return ClaimTypeRefund, nil
	case "Warranty Claim", string(ClaimTypeWarranty):
		return ClaimTypeWarranty, nil
	case "Complaint", string(ClaimTypeComplaint):
		return ClaimTypeComplaint, nil
	}
	return "", shared.NewDomainError("INVALID_CLAIM_TYPE", fmt.Sprintf("Unknown claim type: %s", value))
}

// ClaimStatus represents the handling status of a claim
type ClaimStatus string

const (
	ClaimStatusPending    ClaimStatus = "pending"
	ClaimStatusInProgress ClaimStatus = "in_progress"
	ClaimStatusResolved   ClaimStatus = "resolved"
	ClaimStatusRejected   ClaimStatus = "rejected"
)

// IsValid checks if the status is a valid ClaimStatus
func (s ClaimStatus) IsValid() bool {
	switch s {
	case ClaimStatusPending, ClaimStatusInProgress, ClaimStatusResolved, ClaimStatusRejected:
		return true
	}
	return false
}

// String returns the string representation of ClaimStatus
func (s ClaimStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s ClaimStatus) CanTransitionTo(target ClaimStatus) bool {
	switch s {
	case ClaimStatusPending:
		return target == ClaimStatusInProgress
	case ClaimStatusInProgress:
		return target == ClaimStatusResolved || target == ClaimStatusRejected
	case ClaimStatusResolved, ClaimStatusRejected:
		return false // Terminal states
	}
	return false
}

// RequesterContact holds the contact details submitted with a claim
type RequesterContact struct {
	Name           string
	Email          string
	WhatsAppNumber string
	City           string
}

// Validate checks that the required contact fields are present
func (c RequesterContact) Validate() error {
	if c.Name == "" {
		return shared.NewDomainError("INVALID_CONTACT", "Requester name cannot be empty")
	}
	if c.Email == "" {
		return shared.NewDomainError("INVALID_CONTACT", "Requester email cannot be empty")
	}
	if c.WhatsAppNumber == "" {
		return shared.NewDomainError("INVALID_CONTACT", "WhatsApp number cannot be empty")
	}
	if c.City == "" {
		return shared.NewDomainError("INVALID_CONTACT", "City cannot be empty")
	}
	return nil
}

// Claim is a post-delivery support request, bound 1:1 to a delivered order.
// At most one claim exists per order; the uniqueness is backed by a unique
// index on the order reference at the storage layer.
//
// ResolutionNotes stays nil until an operator responds. A nil value on a
// pending claim means "no response yet"; a nil value on a rejected claim
// means "rejected without explanation" - the two must not be conflated.
type Claim struct {
	shared.BaseAggregateRoot
	OrderID         uuid.UUID
	Contact         RequesterContact
	Type            ClaimType
	Message         string
	ImageKeys       []string // object storage keys, 0-5
	Status          ClaimStatus
	ResolutionNotes *string
	StartedAt       *time.Time
	ClosedAt        *time.Time
}

// NewClaim creates a new claim in pending status.
// More than MaxImages attachments is rejected outright, never truncated.
func NewClaim(orderID uuid.UUID, contact RequesterContact, claimType ClaimType, message string, imageKeys []string) (*Claim, error) {
	if orderID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORDER", "Order ID cannot be empty")
	}
	if err := contact.Validate(); err != nil {
		return nil, err
	}
	if !claimType.IsValid() {
		return nil, shared.NewDomainError("INVALID_CLAIM_TYPE", fmt.Sprintf("Unknown claim type: %s", claimType))
	}
	if message == "" {
		return nil, shared.NewDomainError("INVALID_MESSAGE", "Claim message cannot be empty")
	}
	if len(imageKeys) > MaxImages {
		return nil, shared.NewDomainError("TOO_MANY_IMAGES", fmt.Sprintf("At most %d images are allowed, got %d", MaxImages, len(imageKeys)))
	}

	claim := &Claim{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderID:           orderID,
		Contact:           contact,
		Type:              claimType,
		Message:           message,
		ImageKeys:         imageKeys,
		Status:            ClaimStatusPending,
	}

	claim.AddDomainEvent(NewClaimSubmittedEvent(claim))

	return claim, nil
}

// Start moves the claim from pending to in_progress
func (c *Claim) Start() error {
	if !c.Status.CanTransitionTo(ClaimStatusInProgress) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot start claim in %s status", c.Status))
	}

	now := time.Now()
	c.Status = ClaimStatusInProgress
	c.StartedAt = &now
	c.UpdatedAt = now

	c.AddDomainEvent(NewClaimStartedEvent(c))

	return nil
}

// Resolve closes the claim as resolved. Resolution notes are required so
// the customer sees what was done.
func (c *Claim) Resolve(notes string) error {
	if !c.Status.CanTransitionTo(ClaimStatusResolved) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot resolve claim in %s status", c.Status))
	}
	if notes == "" {
		return shared.NewDomainError("INVALID_NOTES", "Resolution notes are required when resolving a claim")
	}

	now := time.Now()
	c.Status = ClaimStatusResolved
	c.ResolutionNotes = &notes
	c.ClosedAt = &now
	c.UpdatedAt = now

	c.AddDomainEvent(NewClaimClosedEvent(c))

	return nil
}

// Reject closes the claim as rejected. Notes are optional; a rejection
// without explanation leaves ResolutionNotes nil.
func (c *Claim) Reject(notes string) error {
	if !c.Status.CanTransitionTo(ClaimStatusRejected) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot reject claim in %s status", c.Status))
	}

	now := time.Now()
	c.Status = ClaimStatusRejected
	if notes != "" {
		c.ResolutionNotes = &notes
	}
	c.ClosedAt = &now
	c.UpdatedAt = now

	c.AddDomainEvent(NewClaimClosedEvent(c))

	return nil
}

// IsPending returns true if the claim awaits operator attention
func (c *Claim) IsPending() bool {
	return c.Status == ClaimStatusPending
}

// IsTerminal returns true if the claim is resolved or rejected
func (c *Claim) IsTerminal() bool {
	return c.Status == ClaimStatusResolved || c.Status == ClaimStatusRejected
}
