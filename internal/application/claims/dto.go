package claims

import (
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/claims"
)

// AttachmentInput is one uploaded image in a claim submission
type AttachmentInput struct {
	FileName    string
	ContentType string
	Data        []byte
}

// CreateClaimRequest represents a claim submission.
// Either OrderID or OrderNumber identifies the order; RequesterID is nil for
// guest submissions, which are matched against the order email instead.
type CreateClaimRequest struct {
	OrderID        *uuid.UUID
	OrderNumber    string
	RequesterID    *uuid.UUID
	Name           string `binding:"required,min=1,max=200"`
	Email          string `binding:"required,email"`
	WhatsAppNumber string `binding:"required,min=1,max=50"`
	City           string `binding:"required,min=1,max=100"`
	ClaimType      string `binding:"required"`
	Message        string `binding:"required,min=1,max=2000"`
	Attachments    []AttachmentInput
}

// ResolveClaimRequest carries the operator resolution notes
type ResolveClaimRequest struct {
	Notes string `json:"notes" binding:"required,min=1,max=2000"`
}

// RejectClaimRequest carries optional operator rejection notes
type RejectClaimRequest struct {
	Notes string `json:"notes" binding:"max=2000"`
}

// ClaimListFilter represents filter options for claim listing
type ClaimListFilter struct {
	Status   string `form:"status"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ClaimImage is a stored attachment with a presigned download URL
type ClaimImage struct {
	StorageKey string `json:"storage_key"`
	URL        string `json:"url,omitempty"`
}

// ClaimResponse represents a claim in API responses.
// ResolutionNotes stays null until an operator responds; a rejected claim
// with no explanation also carries null, which callers must not conflate
// with "pending".
type ClaimResponse struct {
	ID              uuid.UUID    `json:"id"`
	OrderID         uuid.UUID    `json:"order_id"`
	Name            string       `json:"name"`
	Email           string       `json:"email"`
	WhatsAppNumber  string       `json:"whatsapp_number"`
	City            string       `json:"city"`
	Type            string       `json:"claim_type"`
	TypeLabel       string       `json:"claim_type_label"`
	Message         string       `json:"message"`
	Images          []ClaimImage `json:"images"`
	Status          string       `json:"status"`
	ResolutionNotes *string      `json:"resolution_notes"`
	CreatedAt       time.Time    `json:"created_at"`
	StartedAt       *time.Time   `json:"started_at,omitempty"`
	ClosedAt        *time.Time   `json:"closed_at,omitempty"`
}

// ToClaimResponse converts a domain claim to its API representation
func ToClaimResponse(claim *claims.Claim) ClaimResponse {
	images := make([]ClaimImage, len(claim.ImageKeys))
	for i, key := range claim.ImageKeys {
		images[i] = ClaimImage{StorageKey: key}
	}

	return ClaimResponse{
		ID:              claim.ID,
		OrderID:         claim.OrderID,
		Name:            claim.Contact.Name,
		Email:           claim.Contact.Email,
		WhatsAppNumber:  claim.Contact.WhatsAppNumber,
		City:            claim.Contact.City,
		Type:            string(claim.Type),
		TypeLabel:       claim.Type.Label(),
		Message:         claim.Message,
		Images:          images,
		Status:          string(claim.Status),
		ResolutionNotes: claim.ResolutionNotes,
		CreatedAt:       claim.CreatedAt,
		StartedAt:       claim.StartedAt,
		ClosedAt:        claim.ClosedAt,
	}
}
