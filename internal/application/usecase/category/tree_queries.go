package category

import (
	"context"

	"github.com/google/uuid"

	"github.com/rendiconti/backend/internal/application/adapter"
	"github.com/rendiconti/backend/internal/domain/entity"
	domainerror "github.com/rendiconti/backend/internal/domain/error"
)

// TreeQueryUseCase answers hierarchy questions on the current chart.
type TreeQueryUseCase struct {
	categoryRepo adapter.CategoryRepository
}

// NewTreeQueryUseCase creates a new TreeQueryUseCase instance.
func NewTreeQueryUseCase(categoryRepo adapter.CategoryRepository) *TreeQueryUseCase {
	return &TreeQueryUseCase{
		categoryRepo: categoryRepo,
	}
}

// ChildrenOf returns the direct children of a category, in code order.
func (uc *TreeQueryUseCase) ChildrenOf(ctx context.Context, id uuid.UUID) ([]*entity.Category, error) {
	tree, err := loadTree(ctx, uc.categoryRepo)
	if err != nil {
		return nil, err
	}
	children, ok := tree.ChildrenOf(id)
	if !ok {
		return nil, categoryNotFound(id)
	}
	return children, nil
}

// AncestorsOf returns the chain from the root down to the parent of a category.
func (uc *TreeQueryUseCase) AncestorsOf(ctx context.Context, id uuid.UUID) ([]*entity.Category, error) {
	tree, err := loadTree(ctx, uc.categoryRepo)
	if err != nil {
		return nil, err
	}
	ancestors, ok := tree.AncestorsOf(id)
	if !ok {
		return nil, categoryNotFound(id)
	}
	return ancestors, nil
}

// RootsOf returns the level-1 categories, optionally of one movement type.
func (uc *TreeQueryUseCase) RootsOf(ctx context.Context, movementType *entity.MovementType) ([]*entity.Category, error) {
	tree, err := loadTree(ctx, uc.categoryRepo)
	if err != nil {
		return nil, err
	}
	return tree.RootsOf(movementType), nil
}

// ExpandSelectionOutput holds the expanded ids plus any that were not found.
type ExpandSelectionOutput struct {
	CategoryIDs []uuid.UUID
	Unknown     []uuid.UUID
}

// ExpandSelection returns every selected id together with all its descendants.
// Unknown ids are reported; with strict set they fail with NotFound instead.
func (uc *TreeQueryUseCase) ExpandSelection(ctx context.Context, ids []uuid.UUID, strict bool) (*ExpandSelectionOutput, error) {
	tree, err := loadTree(ctx, uc.categoryRepo)
	if err != nil {
		return nil, err
	}
	expanded, unknown := tree.ExpandSelection(ids)
	if strict && len(unknown) > 0 {
		return nil, domainerror.NewCategoryError(
			domainerror.ErrCodeCategoryNotFound,
			"selection references unknown categories",
			domainerror.ErrCategoryNotFound,
		)
	}
	return &ExpandSelectionOutput{
		CategoryIDs: expanded,
		Unknown:     unknown,
	}, nil
}
