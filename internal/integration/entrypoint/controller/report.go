package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/rendiconti/backend/internal/application/usecase/period"
	"github.com/rendiconti/backend/internal/application/usecase/report"
	domainerror "github.com/rendiconti/backend/internal/domain/error"
	"github.com/rendiconti/backend/internal/integration/entrypoint/dto"
)

// ReportController handles report generation and export.
type ReportController struct {
	generateUseCase *report.GenerateReportUseCase
	exportUseCase   *report.ExportReportUseCase
	periods         periodParser
}

// NewReportController creates a new report controller instance.
func NewReportController(
	generateUseCase *report.GenerateReportUseCase,
	exportUseCase *report.ExportReportUseCase,
	resolveUseCase *period.ResolvePeriodUseCase,
) *ReportController {
	return &ReportController{
		generateUseCase: generateUseCase,
		exportUseCase:   exportUseCase,
		periods:         periodParser{resolve: resolveUseCase},
	}
}

// Generate handles POST /reports requests.
func (c *ReportController) Generate(ctx *gin.Context) {
	input, ok := c.bind(ctx, binding.JSON)
	if !ok {
		return
	}

	output, err := c.generateUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToReportResponse(output.Report))
}

// Export handles GET /reports/export?format= requests, with filters in the
// query string, and POST /reports/export?format= with filters in the body.
func (c *ReportController) Export(ctx *gin.Context) {
	var b binding.Binding = binding.Query
	if ctx.Request.Method == http.MethodPost {
		b = binding.JSON
	}
	input, ok := c.bind(ctx, b)
	if !ok {
		return
	}

	output, err := c.exportUseCase.Execute(ctx.Request.Context(), report.ExportReportInput{
		GenerateReportInput: input,
		Format:              report.Format(ctx.DefaultQuery("format", string(report.FormatCSV))),
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.Header("Content-Disposition", `attachment; filename="`+output.FileName+`"`)
	ctx.Data(http.StatusOK, output.ContentType, output.Body)
}

func (c *ReportController) bind(ctx *gin.Context, b binding.Binding) (report.GenerateReportInput, bool) {
	actor, ok := actorFrom(ctx)
	if !ok {
		return report.GenerateReportInput{}, false
	}

	var req dto.ReportRequest
	if err := ctx.ShouldBindWith(&req, b); err != nil {
		badRequest(ctx, "Invalid request", string(domainerror.ErrCodeInvalidReportPeriod))
		return report.GenerateReportInput{}, false
	}

	dates, err := c.periods.parse(ctx.Request.Context(), req.PeriodRequest)
	if err != nil {
		handleError(ctx, err)
		return report.GenerateReportInput{}, false
	}

	accountIDs, err := dto.ParseUUIDs(req.AccountIDs)
	if err != nil {
		badRequest(ctx, err.Error(), "")
		return report.GenerateReportInput{}, false
	}
	categoryIDs, err := dto.ParseUUIDs(req.CategoryIDs)
	if err != nil {
		badRequest(ctx, err.Error(), string(domainerror.ErrCodeUnknownReportCategory))
		return report.GenerateReportInput{}, false
	}

	return report.GenerateReportInput{
		Actor:       actor,
		Period:      dates,
		AccountIDs:  accountIDs,
		CategoryIDs: categoryIDs,
		Types:       dto.ParseMovementTypes(req.Types),
	}, true
}
