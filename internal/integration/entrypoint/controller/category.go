// Package controller implements HTTP handlers for the API endpoints.
package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rendiconti/backend/internal/application/usecase/category"
	"github.com/rendiconti/backend/internal/domain/entity"
	domainerror "github.com/rendiconti/backend/internal/domain/error"
	"github.com/rendiconti/backend/internal/integration/entrypoint/dto"
)

// CategoryController handles category endpoints.
type CategoryController struct {
	listUseCase   *category.ListCategoriesUseCase
	createUseCase *category.CreateCategoryUseCase
	updateUseCase *category.UpdateCategoryUseCase
	deleteUseCase *category.DeleteCategoryUseCase
	impactUseCase *category.GetDeletionImpactUseCase
	treeQueries   *category.TreeQueryUseCase
}

// NewCategoryController creates a new category controller instance.
func NewCategoryController(
	listUseCase *category.ListCategoriesUseCase,
	createUseCase *category.CreateCategoryUseCase,
	updateUseCase *category.UpdateCategoryUseCase,
	deleteUseCase *category.DeleteCategoryUseCase,
	impactUseCase *category.GetDeletionImpactUseCase,
	treeQueries *category.TreeQueryUseCase,
) *CategoryController {
	return &CategoryController{
		listUseCase:   listUseCase,
		createUseCase: createUseCase,
		updateUseCase: updateUseCase,
		deleteUseCase: deleteUseCase,
		impactUseCase: impactUseCase,
		treeQueries:   treeQueries,
	}
}

// List handles GET /categories requests.
// With roots=true only the level-1 categories are returned, flat.
func (c *CategoryController) List(ctx *gin.Context) {
	var movementType *entity.MovementType
	if raw := ctx.Query("type"); raw != "" {
		t := entity.MovementType(raw)
		if !t.IsValid() {
			badRequest(ctx, "type must be 'entrata' or 'uscita'", string(domainerror.ErrCodeInvalidCategoryType))
			return
		}
		movementType = &t
	}

	if ctx.Query("roots") == "true" {
		roots, err := c.treeQueries.RootsOf(ctx.Request.Context(), movementType)
		if err != nil {
			handleError(ctx, err)
			return
		}
		ctx.JSON(http.StatusOK, dto.ToCategoryListResponse(roots))
		return
	}

	output, err := c.listUseCase.Execute(ctx.Request.Context(), category.ListCategoriesInput{Type: movementType})
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToCategoryTreeResponse(output))
}

// Create handles POST /categories requests.
func (c *CategoryController) Create(ctx *gin.Context) {
	var req dto.CreateCategoryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Invalid request body", string(domainerror.ErrCodeMissingCategoryFields))
		return
	}

	parentID, err := dto.ParseOptionalUUID(req.ParentID)
	if err != nil {
		badRequest(ctx, err.Error(), string(domainerror.ErrCodeMissingCategoryFields))
		return
	}

	input := category.CreateCategoryInput{
		Name:     req.Name,
		ParentID: parentID,
	}
	if req.Type != nil {
		t := entity.MovementType(*req.Type)
		input.Type = &t
	}

	output, err := c.createUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToCategoryResponse(output.Category, output.Path))
}

// Update handles PATCH /categories/:id requests.
func (c *CategoryController) Update(ctx *gin.Context) {
	categoryID, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateCategoryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Invalid request body", string(domainerror.ErrCodeMissingCategoryFields))
		return
	}

	output, err := c.updateUseCase.Execute(ctx.Request.Context(), category.UpdateCategoryInput{
		CategoryID: categoryID,
		Name:       req.Name,
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToCategoryResponse(output.Category, ""))
}

// Children handles GET /categories/:id/children requests.
func (c *CategoryController) Children(ctx *gin.Context) {
	categoryID, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	children, err := c.treeQueries.ChildrenOf(ctx.Request.Context(), categoryID)
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToCategoryListResponse(children))
}

// Ancestors handles GET /categories/:id/ancestors requests. Root first.
func (c *CategoryController) Ancestors(ctx *gin.Context) {
	categoryID, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	ancestors, err := c.treeQueries.AncestorsOf(ctx.Request.Context(), categoryID)
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToCategoryListResponse(ancestors))
}

// Expand handles POST /categories/expand requests.
func (c *CategoryController) Expand(ctx *gin.Context) {
	var req dto.ExpandSelectionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Invalid request body", string(domainerror.ErrCodeMissingCategoryFields))
		return
	}

	ids, err := dto.ParseUUIDs(req.CategoryIDs)
	if err != nil {
		badRequest(ctx, err.Error(), string(domainerror.ErrCodeMissingCategoryFields))
		return
	}

	output, err := c.treeQueries.ExpandSelection(ctx.Request.Context(), ids, req.Strict)
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToExpandSelectionResponse(output))
}

// DeletionImpact handles GET /categories/:id/deletion-impact requests.
func (c *CategoryController) DeletionImpact(ctx *gin.Context) {
	categoryID, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	output, err := c.impactUseCase.Execute(ctx.Request.Context(), category.DeletionImpactInput{CategoryID: categoryID})
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToDeletionImpactResponse(output))
}

// Delete handles DELETE /categories/:id?confirm=true requests.
func (c *CategoryController) Delete(ctx *gin.Context) {
	categoryID, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	output, err := c.deleteUseCase.Execute(ctx.Request.Context(), category.DeleteCategoryInput{
		CategoryID: categoryID,
		Confirmed:  ctx.Query("confirm") == "true",
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.DeleteCategoryResponse{
		CategoriesDeleted: output.CategoriesDeleted,
		MovementsDeleted:  output.MovementsDeleted,
	})
}
