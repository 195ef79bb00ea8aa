// Package category contains category-related use cases.
package category

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/rendiconti/backend/internal/application/adapter"
	"github.com/rendiconti/backend/internal/domain/entity"
	domainerror "github.com/rendiconti/backend/internal/domain/error"
)

// MaxCategoryNameLength is the maximum allowed length for category names.
const MaxCategoryNameLength = 100

// loadTree reads the whole chart and builds its arena.
func loadTree(ctx context.Context, repo adapter.CategoryRepository) (*entity.CategoryTree, error) {
	categories, err := repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}
	return entity.NewCategoryTree(categories), nil
}

func categoryNotFound(id uuid.UUID) error {
	return domainerror.NewCategoryError(
		domainerror.ErrCodeCategoryNotFound,
		fmt.Sprintf("category %s not found", id),
		domainerror.ErrCategoryNotFound,
	)
}
