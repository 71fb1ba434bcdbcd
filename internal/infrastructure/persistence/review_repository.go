package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/review"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormReviewRepository implements review.ReviewRepository using GORM
type GormReviewRepository struct {
	db *gorm.DB
}

// NewGormReviewRepository creates a new GormReviewRepository
func NewGormReviewRepository(db *gorm.DB) *GormReviewRepository {
	return &GormReviewRepository{db: db}
}

// FindByID finds a review by ID
func (r *GormReviewRepository) FindByID(ctx context.Context, id uuid.UUID) (*review.Review, error) {
	var model models.ReviewModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByProduct finds reviews for a product
func (r *GormReviewRepository) FindByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) ([]review.Review, error) {
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.ReviewModel{}).Where("product_id = ?", productID),
		filter,
	)
	var rows []models.ReviewModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	result := make([]review.Review, len(rows))
	for i := range rows {
		result[i] = *rows[i].ToDomain()
	}
	return result, nil
}

// FindByAuthorAndOrder finds the reviews an author wrote against an order
func (r *GormReviewRepository) FindByAuthorAndOrder(ctx context.Context, authorID, orderID uuid.UUID) ([]review.Review, error) {
	var rows []models.ReviewModel
	if err := r.db.WithContext(ctx).
		Where("author_id = ? AND order_id = ?", authorID, orderID).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	result := make([]review.Review, len(rows))
	for i := range rows {
		result[i] = *rows[i].ToDomain()
	}
	return result, nil
}

// Save persists a new review. A duplicate (author, product, order) triple
// surfaces as ErrAlreadyExists via the composite unique index.
func (r *GormReviewRepository) Save(ctx context.Context, rv *review.Review) error {
	model := models.ReviewModelFromDomain(rv)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return translateError(err)
	}
	return nil
}

// Update persists changes to an existing review
func (r *GormReviewRepository) Update(ctx context.Context, rv *review.Review) error {
	result := r.db.WithContext(ctx).
		Model(&models.ReviewModel{}).
		Where("id = ?", rv.ID).
		Updates(map[string]interface{}{
			"helpful_count": rv.HelpfulCount,
			"updated_at":    rv.UpdatedAt,
		})
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// ExistsByTriple checks if a review already exists for the triple
func (r *GormReviewRepository) ExistsByTriple(ctx context.Context, authorID, productID, orderID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.ReviewModel{}).
		Where("author_id = ? AND product_id = ? AND order_id = ?", authorID, productID, orderID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CountByProduct counts reviews for a product
func (r *GormReviewRepository) CountByProduct(ctx context.Context, productID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.ReviewModel{}).
		Where("product_id = ?", productID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormReviewRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		orderDir := "ASC"
		if strings.ToLower(filter.OrderDir) == "desc" {
			orderDir = "DESC"
		}
		query = query.Order(filter.OrderBy + " " + orderDir)
	} else {
		query = query.Order("created_at DESC")
	}

	return query
}

// Ensure GormReviewRepository implements review.ReviewRepository
var _ review.ReviewRepository = (*GormReviewRepository)(nil)
