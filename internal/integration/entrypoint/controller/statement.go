package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rendiconti/backend/internal/application/usecase/period"
	"github.com/rendiconti/backend/internal/application/usecase/statement"
	"github.com/rendiconti/backend/internal/domain/entity"
	domainerror "github.com/rendiconti/backend/internal/domain/error"
	"github.com/rendiconti/backend/internal/integration/entrypoint/dto"
)

// StatementUseCases groups the use cases behind the operator statement endpoints.
type StatementUseCases struct {
	Create    *statement.CreateStatementUseCase
	Get       *statement.GetStatementUseCase
	List      *statement.ListStatementsUseCase
	Delete    *statement.DeleteStatementUseCase
	History   *statement.GetHistoryUseCase
	Attach    *statement.AttachDocumentUseCase
	Documents *statement.DocumentsUseCase
	Submit    *statement.SubmitStatementUseCase
	Resolve   *period.ResolvePeriodUseCase
	MaxUpload int64
}

// StatementController handles the operator side of the statement workflow.
type StatementController struct {
	useCases StatementUseCases
	periods  periodParser
	uploads  uploadReader
}

// NewStatementController creates a new statement controller instance.
func NewStatementController(useCases StatementUseCases) *StatementController {
	return &StatementController{
		useCases: useCases,
		periods:  periodParser{resolve: useCases.Resolve},
		uploads:  uploadReader{maxSize: useCases.MaxUpload},
	}
}

// Create handles POST /statements requests.
func (c *StatementController) Create(ctx *gin.Context) {
	actor, ok := actorFrom(ctx)
	if !ok {
		return
	}

	var req dto.CreateStatementRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Invalid request body", string(domainerror.ErrCodeMissingStatementFields))
		return
	}

	dates, err := c.periods.parse(ctx.Request.Context(), req.PeriodRequest)
	if err != nil {
		handleError(ctx, err)
		return
	}

	output, err := c.useCases.Create.Execute(ctx.Request.Context(), statement.CreateStatementInput{
		Actor:  actor,
		Period: dates,
		Note:   req.Note,
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToStatementResponse(output.Statement))
}

// List handles GET /statements?state= requests for the actor's entity.
func (c *StatementController) List(ctx *gin.Context) {
	actor, ok := actorFrom(ctx)
	if !ok {
		return
	}

	state, ok := stateQuery(ctx)
	if !ok {
		return
	}

	output, err := c.useCases.List.Execute(ctx.Request.Context(), statement.ListStatementsInput{
		Actor: actor,
		State: state,
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToStatementListResponse(output.Statements))
}

// Get handles GET /statements/:id requests.
func (c *StatementController) Get(ctx *gin.Context) {
	getStatement(ctx, c.useCases.Get)
}

// Delete handles DELETE /statements/:id requests.
func (c *StatementController) Delete(ctx *gin.Context) {
	input, ok := statementInput(ctx)
	if !ok {
		return
	}

	if err := c.useCases.Delete.Execute(ctx.Request.Context(), input); err != nil {
		handleError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// History handles GET /statements/:id/history requests.
func (c *StatementController) History(ctx *gin.Context) {
	input, ok := statementInput(ctx)
	if !ok {
		return
	}

	transitions, err := c.useCases.History.Execute(ctx.Request.Context(), input)
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToTransitionListResponse(transitions))
}

// DocumentTypes handles GET /statements/document-types requests.
func (c *StatementController) DocumentTypes(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.ToDocumentTypeListResponse(entity.DocumentCatalog()))
}

// AttachDocument handles multipart POST /statements/:id/documents requests
// with a "type" field and a "file" part.
func (c *StatementController) AttachDocument(ctx *gin.Context) {
	input, ok := statementInput(ctx)
	if !ok {
		return
	}

	c.uploads.limit(ctx)
	upload, file, err := c.uploads.file(ctx, "file", true)
	if err != nil {
		handleError(ctx, err)
		return
	}
	defer file.Close()

	output, err := c.useCases.Attach.Execute(ctx.Request.Context(), statement.AttachDocumentInput{
		Actor:       input.Actor,
		StatementID: input.StatementID,
		Type:        entity.DocumentType(ctx.PostForm("type")),
		File:        upload,
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToAttachDocumentResponse(output))
}

// ListDocuments handles GET /statements/:id/documents requests.
func (c *StatementController) ListDocuments(ctx *gin.Context) {
	input, ok := statementInput(ctx)
	if !ok {
		return
	}

	documents, err := c.useCases.Documents.List(ctx.Request.Context(), input.Actor, input.StatementID)
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToDocumentListResponse(documents))
}

// DownloadDocument handles GET /statements/:id/documents/:documentId/download requests.
func (c *StatementController) DownloadDocument(ctx *gin.Context) {
	input, ok := documentInput(ctx)
	if !ok {
		return
	}

	opened, err := c.useCases.Documents.Open(ctx.Request.Context(), input)
	if err != nil {
		handleError(ctx, err)
		return
	}

	serveFile(ctx, opened)
}

// DeleteDocument handles DELETE /statements/:id/documents/:documentId requests.
func (c *StatementController) DeleteDocument(ctx *gin.Context) {
	input, ok := documentInput(ctx)
	if !ok {
		return
	}

	if err := c.useCases.Documents.Delete(ctx.Request.Context(), input); err != nil {
		handleError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// Submit handles POST /statements/:id/submit requests.
func (c *StatementController) Submit(ctx *gin.Context) {
	input, ok := statementInput(ctx)
	if !ok {
		return
	}

	output, err := c.useCases.Submit.Execute(ctx.Request.Context(), statement.SubmitStatementInput{
		Actor:       input.Actor,
		StatementID: input.StatementID,
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToStatementResponse(output.Statement))
}

func statementInput(ctx *gin.Context) (statement.GetStatementInput, bool) {
	actor, ok := actorFrom(ctx)
	if !ok {
		return statement.GetStatementInput{}, false
	}
	statementID, ok := idParam(ctx, "id")
	if !ok {
		return statement.GetStatementInput{}, false
	}
	return statement.GetStatementInput{Actor: actor, StatementID: statementID}, true
}

func documentInput(ctx *gin.Context) (statement.DocumentInput, bool) {
	input, ok := statementInput(ctx)
	if !ok {
		return statement.DocumentInput{}, false
	}
	documentID, ok := idParam(ctx, "documentId")
	if !ok {
		return statement.DocumentInput{}, false
	}
	return statement.DocumentInput{
		Actor:       input.Actor,
		StatementID: input.StatementID,
		DocumentID:  documentID,
	}, true
}

func stateQuery(ctx *gin.Context) (*entity.StatementState, bool) {
	raw := ctx.Query("state")
	if raw == "" {
		return nil, true
	}
	state := entity.StatementState(raw)
	if !state.IsValid() {
		badRequest(ctx, "unknown statement state", string(domainerror.ErrCodeMissingStatementFields))
		return nil, false
	}
	return &state, true
}

func getStatement(ctx *gin.Context, uc *statement.GetStatementUseCase) {
	input, ok := statementInput(ctx)
	if !ok {
		return
	}

	output, err := uc.Execute(ctx.Request.Context(), input)
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToStatementDetailResponse(output))
}
