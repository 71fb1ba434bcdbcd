package review

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/ordering"
	"github.com/storefront/backend/internal/domain/review"
	"github.com/storefront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ReviewService gates review submission on verified purchases
type ReviewService struct {
	reviewRepo review.ReviewRepository
	orderRepo  ordering.OrderRepository
	logger     *zap.Logger
}

// NewReviewService creates a new ReviewService
func NewReviewService(
	reviewRepo review.ReviewRepository,
	orderRepo ordering.OrderRepository,
	logger *zap.Logger,
) *ReviewService {
	return &ReviewService{
		reviewRepo: reviewRepo,
		orderRepo:  orderRepo,
		logger:     logger,
	}
}

// Eligibility reports, per line item of the order, whether the author may
// still review the purchased product. Items whose product was deleted carry
// no product reference and are never eligible.
func (s *ReviewService) Eligibility(ctx context.Context, authorID, orderID uuid.UUID) (*EligibilityResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !order.BelongsTo(authorID) {
		return nil, shared.ErrForbidden
	}

	resp := &EligibilityResponse{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		Items:       make([]review.ItemEligibility, 0, len(order.Items)),
	}

	delivered := order.IsDelivered()
	for _, item := range order.Items {
		verdict := review.ItemEligibility{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
		}
		switch {
		case !delivered:
			verdict.Reason = "order not delivered"
		case item.ProductID == nil:
			verdict.Reason = "product no longer available"
		default:
			exists, err := s.reviewRepo.ExistsByTriple(ctx, authorID, *item.ProductID, order.ID)
			if err != nil {
				return nil, err
			}
			if exists {
				verdict.Reason = "already reviewed"
			} else {
				verdict.Eligible = true
			}
		}
		resp.Items = append(resp.Items, verdict)
	}

	return resp, nil
}

// Submit creates a review after re-establishing eligibility server-side.
// The composite unique index is the final arbiter when two submissions for
// the same triple race past the precheck.
func (s *ReviewService) Submit(ctx context.Context, authorID uuid.UUID, req SubmitReviewRequest) (*ReviewResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}

	if !order.BelongsTo(authorID) {
		return nil, shared.ErrForbidden
	}
	if !order.IsDelivered() {
		return nil, shared.NewDomainError("ORDER_NOT_DELIVERED", "Reviews can only be written for delivered orders")
	}
	if !orderContainsProduct(order, req.ProductID) {
		return nil, shared.NewDomainError("PRODUCT_NOT_IN_ORDER", "The order does not contain this product")
	}

	exists, err := s.reviewRepo.ExistsByTriple(ctx, authorID, req.ProductID, order.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("REVIEW_EXISTS", "You have already reviewed this product for this order")
	}

	rv, err := review.NewReview(req.ProductID, order.ID, authorID, req.Rating, req.Title, req.Comment, req.ImageKeys, true)
	if err != nil {
		return nil, err
	}

	if err := s.reviewRepo.Save(ctx, rv); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			return nil, shared.NewDomainError("REVIEW_EXISTS", "You have already reviewed this product for this order")
		}
		return nil, fmt.Errorf("failed to persist review: %w", err)
	}

	s.logger.Info("review submitted",
		zap.String("review_id", rv.ID.String()),
		zap.String("order_number", order.OrderNumber),
		zap.String("product_id", req.ProductID.String()),
		zap.Int("rating", rv.Rating),
	)

	resp := ToReviewResponse(rv)
	return &resp, nil
}

// ListByProduct returns a page of reviews for a product with the total count
func (s *ReviewService) ListByProduct(ctx context.Context, productID uuid.UUID, filter ReviewListFilter) (*ReviewListResponse, error) {
	reviews, err := s.reviewRepo.FindByProduct(ctx, productID, filter.toDomainFilter())
	if err != nil {
		return nil, err
	}

	total, err := s.reviewRepo.CountByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	resp := &ReviewListResponse{
		Reviews: make([]ReviewResponse, 0, len(reviews)),
		Total:   total,
	}
	for i := range reviews {
		resp.Reviews = append(resp.Reviews, ToReviewResponse(&reviews[i]))
	}
	return resp, nil
}

// GetByID retrieves a single review
func (s *ReviewService) GetByID(ctx context.Context, reviewID uuid.UUID) (*ReviewResponse, error) {
	rv, err := s.reviewRepo.FindByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	resp := ToReviewResponse(rv)
	return &resp, nil
}

// MarkHelpful increments the helpfulness counter of a review
func (s *ReviewService) MarkHelpful(ctx context.Context, reviewID uuid.UUID) (*ReviewResponse, error) {
	rv, err := s.reviewRepo.FindByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}

	rv.MarkHelpful()

	if err := s.reviewRepo.Update(ctx, rv); err != nil {
		return nil, err
	}

	resp := ToReviewResponse(rv)
	return &resp, nil
}

func orderContainsProduct(order *ordering.Order, productID uuid.UUID) bool {
	for _, item := range order.Items {
		if item.ProductID != nil && *item.ProductID == productID {
			return true
		}
	}
	return false
}
