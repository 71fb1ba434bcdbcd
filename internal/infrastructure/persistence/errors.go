package persistence

import (
	"errors"

	"github.com/lib/pq"
	"github.com/storefront/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// pq error code for unique constraint violations
const pqUniqueViolation = "23505"

// translateError maps driver-level errors onto the domain error vocabulary.
// Unique constraint violations become ErrAlreadyExists so callers can treat
// "duplicate order number", "second claim for an order" and "duplicate review
// triple" uniformly; everything else passes through untouched.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return shared.ErrAlreadyExists
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == pqUniqueViolation {
		return shared.ErrAlreadyExists
	}
	return err
}
