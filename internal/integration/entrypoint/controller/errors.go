package controller

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	domainerror "github.com/rendiconti/backend/internal/domain/error"
	"github.com/rendiconti/backend/internal/integration/entrypoint/dto"
)

// handleError maps coded domain errors to HTTP responses. Anything else is a 500.
func handleError(ctx *gin.Context, err error) {
	var (
		catErr  *domainerror.CategoryError
		perErr  *domainerror.PeriodError
		repErr  *domainerror.ReportError
		stmErr  *domainerror.StatementError
		movErr  *domainerror.MovementError
		authErr = errors.Is(err, domainerror.ErrForbidden)
	)

	switch {
	case errors.As(err, &stmErr):
		ctx.JSON(getStatusCodeForStatementError(stmErr.Code), dto.ErrorResponse{
			Error:   stmErr.Message,
			Code:    string(stmErr.Code),
			Details: stmErr.Details,
		})
	case errors.As(err, &catErr):
		ctx.JSON(getStatusCodeForCategoryError(catErr.Code), dto.ErrorResponse{
			Error: catErr.Message,
			Code:  string(catErr.Code),
		})
	case errors.As(err, &perErr):
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: perErr.Message,
			Code:  string(perErr.Code),
		})
	case errors.As(err, &repErr):
		ctx.JSON(getStatusCodeForReportError(repErr.Code), dto.ErrorResponse{
			Error: repErr.Message,
			Code:  string(repErr.Code),
		})
	case errors.As(err, &movErr):
		ctx.JSON(getStatusCodeForMovementError(movErr.Code), dto.ErrorResponse{
			Error: movErr.Message,
			Code:  string(movErr.Code),
		})
	case authErr:
		ctx.JSON(http.StatusForbidden, dto.ErrorResponse{
			Error: domainerror.ErrForbidden.Error(),
			Code:  string(domainerror.ErrCodeForbidden),
		})
	default:
		slog.ErrorContext(ctx.Request.Context(), "Unhandled request error",
			"method", ctx.Request.Method,
			"path", ctx.FullPath(),
			"error", err,
		)
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error: "An internal error occurred",
		})
	}
}

// getStatusCodeForStatementError maps statement error codes to HTTP status codes.
func getStatusCodeForStatementError(code domainerror.StatementErrorCode) int {
	switch code {
	case domainerror.ErrCodeStatementNotFound,
		domainerror.ErrCodeDocumentNotFound:
		return http.StatusNotFound
	case domainerror.ErrCodeInvalidTransition,
		domainerror.ErrCodeDraftAlreadyExists,
		domainerror.ErrCodeOverlappingPeriod,
		domainerror.ErrCodeStatementBusy:
		return http.StatusConflict
	case domainerror.ErrCodeDocumentsIncomplete:
		return http.StatusUnprocessableEntity
	case domainerror.ErrCodeNotReviewer:
		return http.StatusForbidden
	case domainerror.ErrCodeFileTooLarge:
		return http.StatusRequestEntityTooLarge
	case domainerror.ErrCodeInvalidPeriod,
		domainerror.ErrCodeEmptyRejectionReason,
		domainerror.ErrCodeInvalidDocumentType,
		domainerror.ErrCodeEmptyFile,
		domainerror.ErrCodeMissingStatementFields,
		domainerror.ErrCodeNoteTooLong:
		return http.StatusBadRequest
	case domainerror.ErrCodeStorageFailure:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// getStatusCodeForCategoryError maps category error codes to HTTP status codes.
func getStatusCodeForCategoryError(code domainerror.CategoryErrorCode) int {
	switch code {
	case domainerror.ErrCodeCategoryNotFound:
		return http.StatusNotFound
	case domainerror.ErrCodeInvalidCategoryName,
		domainerror.ErrCodeInvalidCategoryType,
		domainerror.ErrCodeMissingType,
		domainerror.ErrCodeTypeNotAllowed,
		domainerror.ErrCodeMissingCategoryFields,
		domainerror.ErrCodeInvalidDepth,
		domainerror.ErrCodeDeletionNotConfirmed:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// getStatusCodeForReportError maps report error codes to HTTP status codes.
func getStatusCodeForReportError(code domainerror.ReportErrorCode) int {
	switch code {
	case domainerror.ErrCodeLedgerUnavailable:
		return http.StatusServiceUnavailable
	case domainerror.ErrCodeUnknownReportCategory,
		domainerror.ErrCodeInvalidMovementTypes,
		domainerror.ErrCodeInvalidReportPeriod,
		domainerror.ErrCodeInvalidExportFormat:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// getStatusCodeForMovementError maps movement error codes to HTTP status codes.
func getStatusCodeForMovementError(code domainerror.MovementErrorCode) int {
	switch code {
	case domainerror.ErrCodeMovementNotFound,
		domainerror.ErrCodeAccountNotFound:
		return http.StatusNotFound
	case domainerror.ErrCodePeriodLocked:
		return http.StatusConflict
	case domainerror.ErrCodeInvalidAmount,
		domainerror.ErrCodeInvalidMovementType,
		domainerror.ErrCodeCategoryTypeMismatch,
		domainerror.ErrCodeInvalidAccountName,
		domainerror.ErrCodeMissingMovementFields,
		domainerror.ErrCodeMovementCategoryAbsent:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func badRequest(ctx *gin.Context, message string, code string) {
	ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
		Error: message,
		Code:  code,
	})
}
