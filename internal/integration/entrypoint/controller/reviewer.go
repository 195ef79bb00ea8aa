package controller

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rendiconti/backend/internal/application/usecase/statement"
	domainerror "github.com/rendiconti/backend/internal/domain/error"
	"github.com/rendiconti/backend/internal/integration/entrypoint/dto"
)

// ReviewerUseCases groups the use cases behind the reviewer endpoints.
type ReviewerUseCases struct {
	Get         *statement.GetStatementUseCase
	List        *statement.ListStatementsUseCase
	Documents   *statement.DocumentsUseCase
	StartReview *statement.StartReviewUseCase
	Approve     *statement.ApproveStatementUseCase
	Reject      *statement.RejectStatementUseCase
	Exonerate   *statement.SetExonerationUseCase
	MaxUpload   int64
}

// ReviewerController handles the reviewer side of the statement workflow.
type ReviewerController struct {
	useCases ReviewerUseCases
	uploads  uploadReader
}

// NewReviewerController creates a new reviewer controller instance.
func NewReviewerController(useCases ReviewerUseCases) *ReviewerController {
	return &ReviewerController{
		useCases: useCases,
		uploads:  uploadReader{maxSize: useCases.MaxUpload},
	}
}

// List handles GET /reviewer/statements?state=&entity_id= requests.
func (c *ReviewerController) List(ctx *gin.Context) {
	actor, ok := actorFrom(ctx)
	if !ok {
		return
	}

	state, ok := stateQuery(ctx)
	if !ok {
		return
	}

	rawEntity := ctx.Query("entity_id")
	entityID, err := dto.ParseOptionalUUID(&rawEntity)
	if err != nil {
		badRequest(ctx, "Invalid entity_id format", "")
		return
	}

	output, err := c.useCases.List.Execute(ctx.Request.Context(), statement.ListStatementsInput{
		Actor:    actor,
		State:    state,
		EntityID: entityID,
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToStatementListResponse(output.Statements))
}

// Get handles GET /reviewer/statements/:id requests.
func (c *ReviewerController) Get(ctx *gin.Context) {
	getStatement(ctx, c.useCases.Get)
}

// RejectionAttachment handles GET /reviewer/statements/:id/rejection-attachment requests.
// Operators reach it too, restricted to their own entity.
func (c *ReviewerController) RejectionAttachment(ctx *gin.Context) {
	input, ok := statementInput(ctx)
	if !ok {
		return
	}

	opened, err := c.useCases.Documents.OpenRejectionAttachment(ctx.Request.Context(), input.Actor, input.StatementID)
	if err != nil {
		handleError(ctx, err)
		return
	}

	serveFile(ctx, opened)
}

// StartReview handles PUT /reviewer/statements/:id/review requests.
func (c *ReviewerController) StartReview(ctx *gin.Context) {
	c.review(ctx, c.useCases.StartReview.Execute, false)
}

// Approve handles PUT /reviewer/statements/:id/approve requests.
// The JSON body with the reviewer's observations is optional.
func (c *ReviewerController) Approve(ctx *gin.Context) {
	c.review(ctx, c.useCases.Approve.Execute, true)
}

// Reject handles multipart PUT /reviewer/statements/:id/reject requests
// with a "reason" field and an optional "file" part.
func (c *ReviewerController) Reject(ctx *gin.Context) {
	input, ok := statementInput(ctx)
	if !ok {
		return
	}

	c.uploads.limit(ctx)
	upload, file, err := c.uploads.file(ctx, "file", false)
	if err != nil {
		handleError(ctx, err)
		return
	}
	if file != nil {
		defer file.Close()
	}

	output, err := c.useCases.Reject.Execute(ctx.Request.Context(), statement.RejectStatementInput{
		Actor:        input.Actor,
		StatementID:  input.StatementID,
		Reason:       ctx.PostForm("reason"),
		Observations: ctx.PostForm("observations"),
		Attachment:   upload,
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToStatementResponse(output.Statement))
}

// SetExoneration handles PUT /reviewer/statements/:id/exoneration requests.
func (c *ReviewerController) SetExoneration(ctx *gin.Context) {
	input, ok := statementInput(ctx)
	if !ok {
		return
	}

	var req dto.ExonerationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "exonerated is required", string(domainerror.ErrCodeMissingStatementFields))
		return
	}

	output, err := c.useCases.Exonerate.Execute(ctx.Request.Context(), statement.SetExonerationInput{
		Actor:       input.Actor,
		StatementID: input.StatementID,
		Exonerated:  *req.Exonerated,
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToStatementResponse(output.Statement))
}

func (c *ReviewerController) review(ctx *gin.Context, execute func(ctx context.Context, input statement.ReviewInput) (*statement.ReviewOutput, error), withBody bool) {
	input, ok := statementInput(ctx)
	if !ok {
		return
	}

	var req dto.ReviewRequest
	if withBody {
		if err := ctx.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			badRequest(ctx, "Invalid request body", string(domainerror.ErrCodeMissingStatementFields))
			return
		}
	}

	output, err := execute(ctx.Request.Context(), statement.ReviewInput{
		Actor:        input.Actor,
		StatementID:  input.StatementID,
		Observations: req.Observations,
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToStatementResponse(output.Statement))
}
