package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/claims"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormClaimRepository implements claims.ClaimRepository using GORM
type GormClaimRepository struct {
	db         *gorm.DB
	eventSaver shared.OutboxEventSaver
}

// NewGormClaimRepository creates a new GormClaimRepository
func NewGormClaimRepository(db *gorm.DB, eventSaver shared.OutboxEventSaver) *GormClaimRepository {
	return &GormClaimRepository{db: db, eventSaver: eventSaver}
}

// FindByID finds a claim by ID
func (r *GormClaimRepository) FindByID(ctx context.Context, id uuid.UUID) (*claims.Claim, error) {
	var model models.ClaimModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByOrderID finds the claim bound to an order, if any
func (r *GormClaimRepository) FindByOrderID(ctx context.Context, orderID uuid.UUID) (*claims.Claim, error) {
	var model models.ClaimModel
	if err := r.db.WithContext(ctx).Where("order_id = ?", orderID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByStatus finds claims in a given status
func (r *GormClaimRepository) FindByStatus(ctx context.Context, status claims.ClaimStatus, filter shared.Filter) ([]claims.Claim, error) {
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.ClaimModel{}).Where("status = ?", status),
		filter,
	)
	return r.findClaims(query)
}

// FindAll finds all claims with filtering
func (r *GormClaimRepository) FindAll(ctx context.Context, filter shared.Filter) ([]claims.Claim, error) {
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.ClaimModel{}), filter)
	return r.findClaims(query)
}

func (r *GormClaimRepository) findClaims(query *gorm.DB) ([]claims.Claim, error) {
	var rows []models.ClaimModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	result := make([]claims.Claim, len(rows))
	for i := range rows {
		result[i] = *rows[i].ToDomain()
	}
	return result, nil
}

// SaveWithEvents persists a new claim and its domain events in one
// transaction. The unique index on order_id turns a concurrent duplicate
// submission into ErrAlreadyExists.
func (r *GormClaimRepository) SaveWithEvents(ctx context.Context, claim *claims.Claim, events []shared.DomainEvent) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		model := models.ClaimModelFromDomain(claim)

		if err := tx.Create(model).Error; err != nil {
			return translateError(err)
		}

		if len(events) > 0 && r.eventSaver != nil {
			if err := r.eventSaver.SaveEvents(ctx, tx, events...); err != nil {
				return err
			}
		}

		return nil
	})
}

// SaveWithLockAndEvents updates a claim with optimistic locking and persists
// domain events to the outbox atomically
func (r *GormClaimRepository) SaveWithLockAndEvents(ctx context.Context, claim *claims.Claim, events []shared.DomainEvent) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		currentVersion := claim.Version
		claim.Version++
		claim.UpdatedAt = time.Now()

		result := tx.Model(&models.ClaimModel{}).
			Where("id = ? AND version = ?", claim.ID, currentVersion).
			Updates(map[string]interface{}{
				"status":           claim.Status,
				"resolution_notes": claim.ResolutionNotes,
				"started_at":       claim.StartedAt,
				"closed_at":        claim.ClosedAt,
				"version":          claim.Version,
				"updated_at":       claim.UpdatedAt,
			})

		if result.Error != nil {
			return translateError(result.Error)
		}
		if result.RowsAffected == 0 {
			claim.Version = currentVersion
			return shared.ErrConcurrencyConflict
		}

		if len(events) > 0 && r.eventSaver != nil {
			if err := r.eventSaver.SaveEvents(ctx, tx, events...); err != nil {
				return err
			}
		}

		return nil
	})
}

// ExistsByOrderID checks if a claim already exists for an order
func (r *GormClaimRepository) ExistsByOrderID(ctx context.Context, orderID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.ClaimModel{}).
		Where("order_id = ?", orderID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CountByStatus counts claims in a given status
func (r *GormClaimRepository) CountByStatus(ctx context.Context, status claims.ClaimStatus) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.ClaimModel{}).
		Where("status = ?", status).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormClaimRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR email ILIKE ?", searchPattern, searchPattern)
	}

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

// Ensure GormClaimRepository implements claims.ClaimRepository
var _ claims.ClaimRepository = (*GormClaimRepository)(nil)
