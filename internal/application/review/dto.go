package review

import (
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/review"
	"github.com/storefront/backend/internal/domain/shared"
)

// SubmitReviewRequest represents a review submission for one purchased product
type SubmitReviewRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	OrderID   uuid.UUID `json:"order_id" binding:"required"`
	Rating    int       `json:"rating" binding:"required,min=1,max=5"`
	Title     string    `json:"title" binding:"max=200"`
	Comment   string    `json:"comment" binding:"required,max=2000"`
	ImageKeys []string  `json:"image_keys" binding:"max=5"`
}

// ReviewListFilter carries pagination for product review listings
type ReviewListFilter struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir"`
}

func (f ReviewListFilter) toDomainFilter() shared.Filter {
	filter := shared.DefaultFilter()
	if f.Page > 0 {
		filter.Page = f.Page
	}
	if f.PageSize > 0 {
		filter.PageSize = f.PageSize
	}
	if f.OrderBy != "" {
		filter.OrderBy = f.OrderBy
	}
	if f.OrderDir != "" {
		filter.OrderDir = f.OrderDir
	}
	return filter
}

// ReviewResponse represents a review in API responses
type ReviewResponse struct {
	ID               uuid.UUID `json:"id"`
	ProductID        uuid.UUID `json:"product_id"`
	OrderID          uuid.UUID `json:"order_id"`
	AuthorID         uuid.UUID `json:"author_id"`
	Rating           int       `json:"rating"`
	Title            string    `json:"title,omitempty"`
	Comment          string    `json:"comment"`
	ImageKeys        []string  `json:"image_keys,omitempty"`
	VerifiedPurchase bool      `json:"verified_purchase"`
	HelpfulCount     int       `json:"helpful_count"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// ReviewListResponse pairs a page of reviews with the product total
type ReviewListResponse struct {
	Reviews []ReviewResponse `json:"reviews"`
	Total   int64            `json:"total"`
}

// EligibilityResponse is the per-item review-gate verdict for an order
type EligibilityResponse struct {
	OrderID     uuid.UUID                `json:"order_id"`
	OrderNumber string                   `json:"order_number"`
	Items       []review.ItemEligibility `json:"items"`
}

// ToReviewResponse converts a domain review to a response DTO
func ToReviewResponse(rv *review.Review) ReviewResponse {
	return ReviewResponse{
		ID:               rv.ID,
		ProductID:        rv.ProductID,
		OrderID:          rv.OrderID,
		AuthorID:         rv.AuthorID,
		Rating:           rv.Rating,
		Title:            rv.Title,
		Comment:          rv.Comment,
		ImageKeys:        rv.ImageKeys,
		VerifiedPurchase: rv.VerifiedPurchase,
		HelpfulCount:     rv.HelpfulCount,
		CreatedAt:        rv.CreatedAt,
		UpdatedAt:        rv.UpdatedAt,
	}
}
