package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/storefront/backend/internal/domain/claims"
	"github.com/storefront/backend/internal/domain/shared"
)

// ClaimModel is the persistence model for the Claim aggregate root.
// The unique index on OrderID enforces the one-claim-per-order invariant
// at the storage layer, closing the check-then-insert race.
type ClaimModel struct {
	AggregateModel
	OrderID         uuid.UUID          `gorm:"type:uuid;not null;uniqueIndex:idx_claims_order"`
	Name            string             `gorm:"type:varchar(200);not null"`
	Email           string             `gorm:"type:varchar(255);not null"`
	WhatsAppNumber  string             `gorm:"type:varchar(30);not null"`
	City            string             `gorm:"type:varchar(100);not null"`
	Type            claims.ClaimType   `gorm:"type:varchar(30);not null"`
	Message         string             `gorm:"type:text;not null"`
	ImageKeys       pq.StringArray     `gorm:"type:text[]"`
	Status          claims.ClaimStatus `gorm:"type:varchar(20);not null;default:'pending';index"`
	ResolutionNotes *string            `gorm:"type:text"`
	StartedAt       *time.Time
	ClosedAt        *time.Time
}

// TableName returns the table name for GORM
func (ClaimModel) TableName() string {
	return "claims"
}

// ToDomain converts the persistence model to a domain Claim aggregate.
func (m *ClaimModel) ToDomain() *claims.Claim {
	return &claims.Claim{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			BaseEntity: shared.BaseEntity{
				ID:        m.ID,
				CreatedAt: m.CreatedAt,
				UpdatedAt: m.UpdatedAt,
			},
			Version: m.Version,
		},
		OrderID: m.OrderID,
		Contact: claims.RequesterContact{
			Name:           m.Name,
			Email:          m.Email,
			WhatsAppNumber: m.WhatsAppNumber,
			City:           m.City,
		},
		Type:            m.Type,
		Message:         m.Message,
		ImageKeys:       m.ImageKeys,
		Status:          m.Status,
		ResolutionNotes: m.ResolutionNotes,
		StartedAt:       m.StartedAt,
		ClosedAt:        m.ClosedAt,
	}
}

// FromDomain populates the persistence model from a domain Claim aggregate.
func (m *ClaimModel) FromDomain(c *claims.Claim) {
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	m.OrderID = c.OrderID
	m.Name = c.Contact.Name
	m.Email = c.Contact.Email
	m.WhatsAppNumber = c.Contact.WhatsAppNumber
	m.City = c.Contact.City
	m.Type = c.Type
	m.Message = c.Message
	m.ImageKeys = c.ImageKeys
	m.Status = c.Status
	m.ResolutionNotes = c.ResolutionNotes
	m.StartedAt = c.StartedAt
	m.ClosedAt = c.ClosedAt
}

// ClaimModelFromDomain creates a new persistence model from a domain Claim aggregate.
func ClaimModelFromDomain(c *claims.Claim) *ClaimModel {
	m := &ClaimModel{}
	m.FromDomain(c)
	return m
}
