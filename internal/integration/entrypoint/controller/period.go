package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rendiconti/backend/internal/application/usecase/period"
	"github.com/rendiconti/backend/internal/integration/entrypoint/dto"
)

// PeriodController handles the period vocabulary endpoints.
type PeriodController struct {
	listUseCase    *period.ListPeriodsUseCase
	resolveUseCase *period.ResolvePeriodUseCase
}

// NewPeriodController creates a new period controller instance.
func NewPeriodController(listUseCase *period.ListPeriodsUseCase, resolveUseCase *period.ResolvePeriodUseCase) *PeriodController {
	return &PeriodController{
		listUseCase:    listUseCase,
		resolveUseCase: resolveUseCase,
	}
}

// List handles GET /periods requests.
func (c *PeriodController) List(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.ToPeriodListResponse(c.listUseCase.Execute(ctx.Request.Context())))
}

// Resolve handles GET /periods/resolve?period=&start_date=&end_date= requests.
func (c *PeriodController) Resolve(ctx *gin.Context) {
	var req dto.PeriodRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		badRequest(ctx, "Invalid query parameters", "")
		return
	}

	input, err := resolveInput(req)
	if err != nil {
		handleError(ctx, err)
		return
	}

	output, err := c.resolveUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToResolvedPeriodResponse(output))
}
