// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer pure and free
// from ORM concerns.
//
// Key principles:
// 1. Domain entities are free of GORM tags and infrastructure concerns
// 2. Persistence models carry all GORM annotations and table mappings
// 3. Mappers convert between domain entities and persistence models
// 4. Repositories only ever touch persistence models
//
// Structure:
// - base.go: base persistence models (BaseModel, AggregateModel)
// - ordering.go: Order, OrderItem and the order number counter
// - claims.go: Claim
// - review.go: Review
// - outbox.go: outbox pattern model for event delivery
package models

// AllModels lists every model registered for migration.
func AllModels() []interface{} {
	return []interface{}{
		&OrderModel{},
		&OrderItemModel{},
		&OrderCounterModel{},
		&ClaimModel{},
		&ReviewModel{},
		&OutboxEntryModel{},
	}
}
