package controller

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rendiconti/backend/internal/application/usecase/account"
	"github.com/rendiconti/backend/internal/application/usecase/movement"
	"github.com/rendiconti/backend/internal/application/usecase/period"
	"github.com/rendiconti/backend/internal/domain/entity"
	domainerror "github.com/rendiconti/backend/internal/domain/error"
	"github.com/rendiconti/backend/internal/domain/valueobject"
	"github.com/rendiconti/backend/internal/integration/entrypoint/dto"
)

// AccountController handles account endpoints.
type AccountController struct {
	listUseCase   *account.ListAccountsUseCase
	createUseCase *account.CreateAccountUseCase
}

// NewAccountController creates a new account controller instance.
func NewAccountController(listUseCase *account.ListAccountsUseCase, createUseCase *account.CreateAccountUseCase) *AccountController {
	return &AccountController{
		listUseCase:   listUseCase,
		createUseCase: createUseCase,
	}
}

// List handles GET /accounts requests.
func (c *AccountController) List(ctx *gin.Context) {
	actor, ok := actorFrom(ctx)
	if !ok {
		return
	}

	output, err := c.listUseCase.Execute(ctx.Request.Context(), account.ListAccountsInput{Actor: actor})
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToAccountListResponse(output.Accounts))
}

// Create handles POST /accounts requests.
func (c *AccountController) Create(ctx *gin.Context) {
	actor, ok := actorFrom(ctx)
	if !ok {
		return
	}

	var req dto.CreateAccountRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Invalid request body", string(domainerror.ErrCodeInvalidAccountName))
		return
	}

	output, err := c.createUseCase.Execute(ctx.Request.Context(), account.CreateAccountInput{
		Actor: actor,
		Name:  req.Name,
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToAccountResponse(output.Account))
}

// MovementController handles ledger movement endpoints.
type MovementController struct {
	listUseCase   *movement.ListMovementsUseCase
	createUseCase *movement.CreateMovementUseCase
	deleteUseCase *movement.DeleteMovementUseCase
	periods       periodParser
}

// NewMovementController creates a new movement controller instance.
func NewMovementController(
	listUseCase *movement.ListMovementsUseCase,
	createUseCase *movement.CreateMovementUseCase,
	deleteUseCase *movement.DeleteMovementUseCase,
	resolveUseCase *period.ResolvePeriodUseCase,
) *MovementController {
	return &MovementController{
		listUseCase:   listUseCase,
		createUseCase: createUseCase,
		deleteUseCase: deleteUseCase,
		periods:       periodParser{resolve: resolveUseCase},
	}
}

// movementQuery is the query string of GET /movements.
type movementQuery struct {
	dto.PeriodRequest
	AccountIDs []string `form:"account_id"`
	Types      []string `form:"type"`
}

// List handles GET /movements?period=&account_id=&type= requests.
func (c *MovementController) List(ctx *gin.Context) {
	actor, ok := actorFrom(ctx)
	if !ok {
		return
	}

	var query movementQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		badRequest(ctx, "Invalid query parameters", "")
		return
	}

	dates, err := c.periods.parse(ctx.Request.Context(), query.PeriodRequest)
	if err != nil {
		handleError(ctx, err)
		return
	}

	accountIDs, err := dto.ParseUUIDs(query.AccountIDs)
	if err != nil {
		badRequest(ctx, err.Error(), string(domainerror.ErrCodeAccountNotFound))
		return
	}

	types := dto.ParseMovementTypes(query.Types)
	for _, t := range types {
		if !t.IsValid() {
			badRequest(ctx, "type must be 'entrata' or 'uscita'", string(domainerror.ErrCodeInvalidMovementType))
			return
		}
	}

	output, err := c.listUseCase.Execute(ctx.Request.Context(), movement.ListMovementsInput{
		Actor:      actor,
		Period:     dates,
		AccountIDs: accountIDs,
		Types:      types,
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToMovementListResponse(output.Movements))
}

// Create handles POST /movements requests.
func (c *MovementController) Create(ctx *gin.Context) {
	actor, ok := actorFrom(ctx)
	if !ok {
		return
	}

	var req dto.CreateMovementRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Invalid request body", string(domainerror.ErrCodeMissingMovementFields))
		return
	}

	accountID, err := uuid.Parse(req.AccountID)
	if err != nil {
		badRequest(ctx, "Invalid account_id format", string(domainerror.ErrCodeMissingMovementFields))
		return
	}
	categoryID, err := dto.ParseOptionalUUID(req.CategoryID)
	if err != nil {
		badRequest(ctx, "Invalid category_id format", string(domainerror.ErrCodeMissingMovementFields))
		return
	}
	date, err := time.Parse(valueobject.DateLayout, req.Date)
	if err != nil {
		badRequest(ctx, "date must be formatted YYYY-MM-DD", string(domainerror.ErrCodeMissingMovementFields))
		return
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		badRequest(ctx, "amount must be a decimal number", string(domainerror.ErrCodeInvalidAmount))
		return
	}

	output, err := c.createUseCase.Execute(ctx.Request.Context(), movement.CreateMovementInput{
		Actor:      actor,
		AccountID:  accountID,
		CategoryID: categoryID,
		Date:       date,
		Type:       entity.MovementType(req.Type),
		Amount:     amount,
		Note:       req.Note,
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToMovementResponse(output.Movement))
}

// Delete handles DELETE /movements/:id requests.
func (c *MovementController) Delete(ctx *gin.Context) {
	actor, ok := actorFrom(ctx)
	if !ok {
		return
	}

	movementID, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.deleteUseCase.Execute(ctx.Request.Context(), movement.DeleteMovementInput{
		Actor:      actor,
		MovementID: movementID,
	}); err != nil {
		handleError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}
