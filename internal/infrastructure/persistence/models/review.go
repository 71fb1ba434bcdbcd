package models

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/storefront/backend/internal/domain/review"
	"github.com/storefront/backend/internal/domain/shared"
)

// ReviewModel is the persistence model for the Review aggregate root.
// The composite unique index on (author_id, product_id, order_id) is the
// storage-layer arbiter of the one-review-per-triple invariant.
type ReviewModel struct {
	AggregateModel
	ProductID        uuid.UUID      `gorm:"type:uuid;not null;index;uniqueIndex:idx_reviews_triple,priority:2"`
	OrderID          uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_reviews_triple,priority:3"`
	AuthorID         uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_reviews_triple,priority:1"`
	Rating           int            `gorm:"not null"`
	Title            string         `gorm:"type:varchar(200)"`
	Comment          string         `gorm:"type:text;not null"`
	ImageKeys        pq.StringArray `gorm:"type:text[]"`
	VerifiedPurchase bool           `gorm:"not null;default:false"`
	HelpfulCount     int            `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (ReviewModel) TableName() string {
	return "reviews"
}

// ToDomain converts the persistence model to a domain Review aggregate.
func (m *ReviewModel) ToDomain() *review.Review {
	return &review.Review{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			BaseEntity: shared.BaseEntity{
				ID:        m.ID,
				CreatedAt: m.CreatedAt,
				UpdatedAt: m.UpdatedAt,
			},
			Version: m.Version,
		},
		ProductID:        m.ProductID,
		OrderID:          m.OrderID,
		AuthorID:         m.AuthorID,
		Rating:           m.Rating,
		Title:            m.Title,
		Comment:          m.Comment,
		ImageKeys:        m.ImageKeys,
		VerifiedPurchase: m.VerifiedPurchase,
		HelpfulCount:     m.HelpfulCount,
	}
}

// FromDomain populates the persistence model from a domain Review aggregate.
func (m *ReviewModel) FromDomain(r *review.Review) {
	m.FromDomainAggregateRoot(r.BaseAggregateRoot)
	m.ProductID = r.ProductID
	m.OrderID = r.OrderID
	m.AuthorID = r.AuthorID
	m.Rating = r.Rating
	m.Title = r.Title
	m.Comment = r.Comment
	m.ImageKeys = r.ImageKeys
	m.VerifiedPurchase = r.VerifiedPurchase
	m.HelpfulCount = r.HelpfulCount
}

// ReviewModelFromDomain creates a new persistence model from a domain Review aggregate.
func ReviewModelFromDomain(r *review.Review) *ReviewModel {
	m := &ReviewModel{}
	m.FromDomain(r)
	return m
}
