package category

import (
	"context"

	"github.com/rendiconti/backend/internal/application/adapter"
	"github.com/rendiconti/backend/internal/domain/entity"
)

// ListCategoriesInput represents the input for listing categories.
type ListCategoriesInput struct {
	Type *entity.MovementType // Optional filter on the root type
}

// ListCategoriesOutput represents the chart as nested nodes.
type ListCategoriesOutput struct {
	Roots []*entity.CategoryNode
	Total int
}

// ListCategoriesUseCase handles listing categories logic.
type ListCategoriesUseCase struct {
	categoryRepo adapter.CategoryRepository
}

// NewListCategoriesUseCase creates a new ListCategoriesUseCase instance.
func NewListCategoriesUseCase(categoryRepo adapter.CategoryRepository) *ListCategoriesUseCase {
	return &ListCategoriesUseCase{
		categoryRepo: categoryRepo,
	}
}

// Execute performs the category listing.
func (uc *ListCategoriesUseCase) Execute(ctx context.Context, input ListCategoriesInput) (*ListCategoriesOutput, error) {
	tree, err := loadTree(ctx, uc.categoryRepo)
	if err != nil {
		return nil, err
	}

	roots := tree.Forest(input.Type)
	total := 0
	for _, root := range roots {
		total += countNodes(root)
	}

	return &ListCategoriesOutput{
		Roots: roots,
		Total: total,
	}, nil
}

func countNodes(node *entity.CategoryNode) int {
	n := 1
	for _, child := range node.Children {
		n += countNodes(child)
	}
	return n
}
