package category

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/rendiconti/backend/internal/application/adapter"
	domainerror "github.com/rendiconti/backend/internal/domain/error"
)

// DeleteCategoryInput represents the input for category deletion.
// Confirmed must be true: the cascade removes the subtree and its movements.
type DeleteCategoryInput struct {
	CategoryID uuid.UUID
	Confirmed  bool
}

// DeleteCategoryOutput represents the output of category deletion.
type DeleteCategoryOutput struct {
	CategoriesDeleted int64
	MovementsDeleted  int64
}

// DeleteCategoryUseCase handles cascade deletion of a category subtree.
type DeleteCategoryUseCase struct {
	categoryRepo adapter.CategoryRepository
}

// NewDeleteCategoryUseCase creates a new DeleteCategoryUseCase instance.
func NewDeleteCategoryUseCase(categoryRepo adapter.CategoryRepository) *DeleteCategoryUseCase {
	return &DeleteCategoryUseCase{
		categoryRepo: categoryRepo,
	}
}

// Execute performs the category deletion.
func (uc *DeleteCategoryUseCase) Execute(ctx context.Context, input DeleteCategoryInput) (*DeleteCategoryOutput, error) {
	tree, err := loadTree(ctx, uc.categoryRepo)
	if err != nil {
		return nil, err
	}

	subtree, ok := tree.Subtree(input.CategoryID)
	if !ok {
		return nil, categoryNotFound(input.CategoryID)
	}

	if !input.Confirmed {
		return nil, domainerror.NewCategoryError(
			domainerror.ErrCodeDeletionNotConfirmed,
			fmt.Sprintf("deleting this category removes %d categories and their movements; confirm to proceed", len(subtree)),
			domainerror.ErrDeletionNotConfirmed,
		)
	}

	result, err := uc.categoryRepo.DeleteCascade(ctx, subtree)
	if err != nil {
		return nil, fmt.Errorf("failed to delete category: %w", err)
	}

	return &DeleteCategoryOutput{
		CategoriesDeleted: result.CategoriesDeleted,
		MovementsDeleted:  result.MovementsDeleted,
	}, nil
}

// DeletionImpactInput represents the input for the deletion preview.
type DeletionImpactInput struct {
	CategoryID uuid.UUID
}

// DeletionImpactOutput describes what a confirmed deletion would remove.
type DeletionImpactOutput struct {
	CategoryIDs   []uuid.UUID
	CategoryCount int
	MovementCount int64
	Paths         []string
}

// GetDeletionImpactUseCase previews a cascade delete without mutating anything.
type GetDeletionImpactUseCase struct {
	categoryRepo adapter.CategoryRepository
}

// NewGetDeletionImpactUseCase creates a new GetDeletionImpactUseCase instance.
func NewGetDeletionImpactUseCase(categoryRepo adapter.CategoryRepository) *GetDeletionImpactUseCase {
	return &GetDeletionImpactUseCase{
		categoryRepo: categoryRepo,
	}
}

// Execute computes the preview.
func (uc *GetDeletionImpactUseCase) Execute(ctx context.Context, input DeletionImpactInput) (*DeletionImpactOutput, error) {
	tree, err := loadTree(ctx, uc.categoryRepo)
	if err != nil {
		return nil, err
	}

	subtree, ok := tree.Subtree(input.CategoryID)
	if !ok {
		return nil, categoryNotFound(input.CategoryID)
	}

	count, err := uc.categoryRepo.CountMovements(ctx, subtree)
	if err != nil {
		return nil, fmt.Errorf("failed to count movements: %w", err)
	}

	paths := make([]string, len(subtree))
	for i, id := range subtree {
		paths[i] = tree.Path(id)
	}

	return &DeletionImpactOutput{
		CategoryIDs:   subtree,
		CategoryCount: len(subtree),
		MovementCount: count,
		Paths:         paths,
	}, nil
}
