package review

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// ReviewRepository defines the interface for review persistence
type ReviewRepository interface {
	// FindByID finds a review by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Review, error)

	// FindByProduct finds reviews for a product
	FindByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) ([]Review, error)

	// FindByAuthorAndOrder finds the reviews an author wrote against an order
	FindByAuthorAndOrder(ctx context.Context, authorID, orderID uuid.UUID) ([]Review, error)

	// Save persists a new review. The composite unique index on
	// (author_id, product_id, order_id) rejects a duplicate triple with
	// ErrAlreadyExists even when two submissions race.
	Save(ctx context.Context, review *Review) error

	// Update persists changes to an existing review
	Update(ctx context.Context, review *Review) error

	// ExistsByTriple checks if a review already exists for the
	// (author, product, order) triple
	ExistsByTriple(ctx context.Context, authorID, productID, orderID uuid.UUID) (bool, error)

	// CountByProduct counts reviews for a product
	CountByProduct(ctx context.Context, productID uuid.UUID) (int64, error)
}
