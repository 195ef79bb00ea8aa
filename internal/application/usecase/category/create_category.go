package category

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/rendiconti/backend/internal/application/adapter"
	"github.com/rendiconti/backend/internal/domain/entity"
	domainerror "github.com/rendiconti/backend/internal/domain/error"
)

// CreateCategoryInput represents the input for category creation.
// Type is required for a root and must be omitted (or equal to the inherited one) below it.
type CreateCategoryInput struct {
	Name     string
	ParentID *uuid.UUID
	Type     *entity.MovementType
}

// CreateCategoryOutput represents the output of category creation.
type CreateCategoryOutput struct {
	Category *entity.Category
	Path     string
}

// CreateCategoryUseCase handles category creation logic.
type CreateCategoryUseCase struct {
	categoryRepo adapter.CategoryRepository
}

// NewCreateCategoryUseCase creates a new CreateCategoryUseCase instance.
func NewCreateCategoryUseCase(categoryRepo adapter.CategoryRepository) *CreateCategoryUseCase {
	return &CreateCategoryUseCase{
		categoryRepo: categoryRepo,
	}
}

// Execute performs the category creation.
func (uc *CreateCategoryUseCase) Execute(ctx context.Context, input CreateCategoryInput) (*CreateCategoryOutput, error) {
	name, err := validateName(input.Name)
	if err != nil {
		return nil, err
	}

	if input.Type != nil && !input.Type.IsValid() {
		return nil, domainerror.NewCategoryError(
			domainerror.ErrCodeInvalidCategoryType,
			"category type must be 'entrata' or 'uscita'",
			domainerror.ErrInvalidCategoryType,
		)
	}

	tree, err := loadTree(ctx, uc.categoryRepo)
	if err != nil {
		return nil, err
	}

	var category *entity.Category
	if input.ParentID == nil {
		if input.Type == nil {
			return nil, domainerror.NewCategoryError(
				domainerror.ErrCodeMissingType,
				"a level-1 category requires a movement type",
				domainerror.ErrMissingType,
			)
		}
		category = entity.NewRootCategory(name, tree.NextCode(nil, *input.Type), *input.Type)
	} else {
		parent, ok := tree.Get(*input.ParentID)
		if !ok {
			return nil, categoryNotFound(*input.ParentID)
		}
		if !parent.CanHaveChildren() {
			return nil, domainerror.NewCategoryError(
				domainerror.ErrCodeInvalidDepth,
				fmt.Sprintf("'%s' is a %s and cannot have children", parent.Name, parent.Level.Label()),
				domainerror.ErrInvalidDepth,
			)
		}
		if input.Type != nil && *input.Type != parent.Type {
			return nil, domainerror.NewCategoryError(
				domainerror.ErrCodeTypeNotAllowed,
				fmt.Sprintf("movement type is inherited from '%s' (%s)", parent.Name, parent.Type),
				domainerror.ErrTypeNotAllowed,
			)
		}
		category = entity.NewChildCategory(name, tree.NextCode(&parent.ID, parent.Type), parent)
	}

	if err := uc.categoryRepo.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	path := category.Name
	if category.ParentID != nil {
		path = tree.Path(*category.ParentID) + entity.PathSeparator + category.Name
	}

	return &CreateCategoryOutput{
		Category: category,
		Path:     path,
	}, nil
}

func validateName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", domainerror.NewCategoryError(
			domainerror.ErrCodeInvalidCategoryName,
			"category name is required",
			domainerror.ErrInvalidCategoryName,
		)
	}
	if utf8.RuneCountInString(name) > MaxCategoryNameLength {
		return "", domainerror.NewCategoryError(
			domainerror.ErrCodeInvalidCategoryName,
			fmt.Sprintf("category name must not exceed %d characters", MaxCategoryNameLength),
			domainerror.ErrInvalidCategoryName,
		)
	}
	return name, nil
}
