package review

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// Rating bounds
const (
	MinRating = 1
	MaxRating = 5
)

// Review is a rating/comment bound to one (author, product, order) triple.
// At most one review exists per triple; the composite unique index at the
// storage layer is the arbiter under concurrent submissions.
type Review struct {
	shared.BaseAggregateRoot
	ProductID        uuid.UUID
	OrderID          uuid.UUID
	AuthorID         uuid.UUID
	Rating           int
	Title            string
	Comment          string
	ImageKeys        []string
	VerifiedPurchase bool
	HelpfulCount     int
}

// NewReview creates a new review.
// verifiedPurchase is true iff the bound order contains the product and is
// delivered; the caller establishes that before construction.
func NewReview(productID, orderID, authorID uuid.UUID, rating int, title, comment string, imageKeys []string, verifiedPurchase bool) (*Review, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if orderID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORDER", "Order ID cannot be empty")
	}
	if authorID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_AUTHOR", "Author ID cannot be empty")
	}
	if rating < MinRating || rating > MaxRating {
		return nil, shared.NewDomainError("INVALID_RATING", fmt.Sprintf("Rating must be between %d and %d", MinRating, MaxRating))
	}
	if comment == "" {
		return nil, shared.NewDomainError("INVALID_COMMENT", "Review comment cannot be empty")
	}

	return &Review{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ProductID:         productID,
		OrderID:           orderID,
		AuthorID:          authorID,
		Rating:            rating,
		Title:             title,
		Comment:           comment,
		ImageKeys:         imageKeys,
		VerifiedPurchase:  verifiedPurchase,
	}, nil
}

// MarkHelpful increments the helpfulness counter
func (r *Review) MarkHelpful() {
	r.HelpfulCount++
	r.UpdatedAt = time.Now()
}

// ItemEligibility is the review-gate verdict for one line item of a
// delivered order. Each line item is evaluated independently.
type ItemEligibility struct {
	ProductID   *uuid.UUID `json:"product_id"`
	ProductName string     `json:"product_name"`
	Eligible    bool       `json:"eligible"`
	Reason      string     `json:"reason,omitempty"`
}
