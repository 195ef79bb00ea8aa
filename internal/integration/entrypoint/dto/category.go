package dto

import (
	"time"

	"github.com/rendiconti/backend/internal/application/usecase/category"
	"github.com/rendiconti/backend/internal/domain/entity"
)

// CreateCategoryRequest represents the request body for category creation.
// Type is required for level-1 categories and must be absent below.
type CreateCategoryRequest struct {
	Name     string  `json:"name" binding:"required,min=1,max=100"`
	ParentID *string `json:"parent_id,omitempty"`
	Type     *string `json:"type,omitempty"`
}

// UpdateCategoryRequest represents the request body for category rename.
type UpdateCategoryRequest struct {
	Name string `json:"name" binding:"required,min=1,max=100"`
}

// ExpandSelectionRequest represents the request body for descendant expansion.
type ExpandSelectionRequest struct {
	CategoryIDs []string `json:"category_ids" binding:"required"`
	Strict      bool     `json:"strict"`
}

// CategoryResponse represents a single category in API responses.
type CategoryResponse struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Code       string    `json:"code"`
	ParentID   *string   `json:"parent_id"`
	Level      int       `json:"level"`
	LevelLabel string    `json:"level_label"`
	Type       string    `json:"type"`
	Path       string    `json:"path,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// CategoryNodeResponse is a category with its nested children.
type CategoryNodeResponse struct {
	CategoryResponse
	Children []CategoryNodeResponse `json:"children"`
}

// CategoryTreeResponse represents the response for listing the chart.
type CategoryTreeResponse struct {
	Categories []CategoryNodeResponse `json:"categories"`
	Total      int                    `json:"total"`
}

// CategoryListResponse is a flat list of categories.
type CategoryListResponse struct {
	Categories []CategoryResponse `json:"categories"`
}

// ExpandSelectionResponse lists the selection closed under descendants.
type ExpandSelectionResponse struct {
	CategoryIDs []string `json:"category_ids"`
	Unknown     []string `json:"unknown,omitempty"`
}

// DeletionImpactResponse previews what a cascade delete removes.
type DeletionImpactResponse struct {
	CategoryIDs   []string `json:"category_ids"`
	CategoryCount int      `json:"category_count"`
	MovementCount int64    `json:"movement_count"`
	Paths         []string `json:"paths"`
}

// DeleteCategoryResponse reports what a cascade delete removed.
type DeleteCategoryResponse struct {
	CategoriesDeleted int64 `json:"categories_deleted"`
	MovementsDeleted  int64 `json:"movements_deleted"`
}

// ToCategoryResponse converts a domain Category entity to a CategoryResponse DTO.
func ToCategoryResponse(cat *entity.Category, path string) CategoryResponse {
	return CategoryResponse{
		ID:         cat.ID.String(),
		Name:       cat.Name,
		Code:       cat.Code,
		ParentID:   optionalID(cat.ParentID),
		Level:      int(cat.Level),
		LevelLabel: cat.Level.Label(),
		Type:       string(cat.Type),
		Path:       path,
		CreatedAt:  cat.CreatedAt,
		UpdatedAt:  cat.UpdatedAt,
	}
}

// ToCategoryListResponse converts a flat list.
func ToCategoryListResponse(categories []*entity.Category) CategoryListResponse {
	out := CategoryListResponse{Categories: make([]CategoryResponse, 0, len(categories))}
	for _, c := range categories {
		out.Categories = append(out.Categories, ToCategoryResponse(c, ""))
	}
	return out
}

// ToCategoryTreeResponse converts the nested listing.
func ToCategoryTreeResponse(output *category.ListCategoriesOutput) CategoryTreeResponse {
	return CategoryTreeResponse{
		Categories: toNodeResponses(output.Roots),
		Total:      output.Total,
	}
}

func toNodeResponses(nodes []*entity.CategoryNode) []CategoryNodeResponse {
	out := make([]CategoryNodeResponse, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, CategoryNodeResponse{
			CategoryResponse: ToCategoryResponse(n.Category, n.Path),
			Children:         toNodeResponses(n.Children),
		})
	}
	return out
}

// ToExpandSelectionResponse converts the expansion output.
func ToExpandSelectionResponse(output *category.ExpandSelectionOutput) ExpandSelectionResponse {
	out := ExpandSelectionResponse{CategoryIDs: make([]string, 0, len(output.CategoryIDs))}
	for _, id := range output.CategoryIDs {
		out.CategoryIDs = append(out.CategoryIDs, id.String())
	}
	for _, id := range output.Unknown {
		out.Unknown = append(out.Unknown, id.String())
	}
	return out
}

// ToDeletionImpactResponse converts the deletion preview.
func ToDeletionImpactResponse(output *category.DeletionImpactOutput) DeletionImpactResponse {
	out := DeletionImpactResponse{
		CategoryIDs:   make([]string, 0, len(output.CategoryIDs)),
		CategoryCount: output.CategoryCount,
		MovementCount: output.MovementCount,
		Paths:         output.Paths,
	}
	for _, id := range output.CategoryIDs {
		out.CategoryIDs = append(out.CategoryIDs, id.String())
	}
	return out
}
