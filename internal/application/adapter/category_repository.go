// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/rendiconti/backend/internal/domain/entity"
)

// CategoryRepository defines the interface for category persistence operations.
type CategoryRepository interface {
	// Create creates a new category in the database.
	Create(ctx context.Context, category *entity.Category) error

	// FindByID retrieves a category by its ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Category, error)

	// FindAll retrieves the whole chart as a flat list with parent pointers.
	FindAll(ctx context.Context) ([]*entity.Category, error)

	// Update updates the mutable fields (name) of an existing category.
	Update(ctx context.Context, category *entity.Category) error

	// CountMovements counts the movements tagged with any of the given categories.
	CountMovements(ctx context.Context, categoryIDs []uuid.UUID) (int64, error)

	// DeleteCascade removes the given categories and every movement tagged with them
	// in a single transaction.
	DeleteCascade(ctx context.Context, categoryIDs []uuid.UUID) (*CascadeResult, error)
}

// CascadeResult reports what a cascade delete removed.
type CascadeResult struct {
	CategoriesDeleted int64
	MovementsDeleted  int64
}
