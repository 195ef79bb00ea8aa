package controller

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/rendiconti/backend/internal/application/usecase/period"
	"github.com/rendiconti/backend/internal/application/usecase/statement"
	"github.com/rendiconti/backend/internal/domain/entity"
	domainerror "github.com/rendiconti/backend/internal/domain/error"
	"github.com/rendiconti/backend/internal/domain/valueobject"
	"github.com/rendiconti/backend/internal/integration/entrypoint/dto"
	"github.com/rendiconti/backend/internal/integration/entrypoint/middleware"
)

// multipartOverhead is the room left for form fields around an uploaded file.
const multipartOverhead = 1 << 20

// actorFrom returns the authenticated actor or answers 401.
func actorFrom(ctx *gin.Context) (entity.Actor, bool) {
	actor, ok := middleware.GetActorFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error: "User not authenticated",
			Code:  string(domainerror.ErrCodeMissingToken),
		})
		return entity.Actor{}, false
	}
	return actor, true
}

// idParam parses a path parameter or answers 400.
func idParam(ctx *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param(name))
	if err != nil {
		badRequest(ctx, "Invalid "+name+" format", "")
		return uuid.Nil, false
	}
	return id, true
}

// periodParser turns a PeriodRequest into a date range through the resolver.
type periodParser struct {
	resolve *period.ResolvePeriodUseCase
}

func (p periodParser) parse(ctx context.Context, req dto.PeriodRequest) (valueobject.DateRange, error) {
	input, err := resolveInput(req)
	if err != nil {
		return valueobject.DateRange{}, err
	}

	output, err := p.resolve.Execute(ctx, input)
	if err != nil {
		return valueobject.DateRange{}, err
	}
	return output.Period, nil
}

// resolveInput maps a PeriodRequest onto the resolver input.
// Explicit dates without a token select the custom period.
func resolveInput(req dto.PeriodRequest) (period.ResolvePeriodInput, error) {
	token := valueobject.PeriodToken(req.Token)
	var custom *valueobject.DateRange

	if req.StartDate != "" || req.EndDate != "" {
		if token == "" {
			token = valueobject.PeriodCustom
		}
		r, err := valueobject.ParseDateRange(req.StartDate, req.EndDate)
		if err != nil {
			return period.ResolvePeriodInput{}, domainerror.NewPeriodError(
				domainerror.ErrCodeInvalidRange,
				"start_date and end_date must be dates formatted YYYY-MM-DD",
				errors.Join(domainerror.ErrInvalidRange, err),
			)
		}
		custom = &r
	}
	if token == "" {
		return period.ResolvePeriodInput{}, domainerror.NewPeriodError(
			domainerror.ErrCodeInvalidRange,
			"a period token or start_date and end_date are required",
			domainerror.ErrInvalidRange,
		)
	}

	return period.ResolvePeriodInput{Token: token, Custom: custom}, nil
}

// uploadReader extracts multipart files bounded by the configured size.
type uploadReader struct {
	maxSize int64
}

// limit caps the request body before the multipart form is parsed.
func (u uploadReader) limit(ctx *gin.Context) {
	if u.maxSize > 0 {
		ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, u.maxSize+multipartOverhead)
	}
}

// file returns the named file, nil when absent and optional.
// The caller closes the returned multipart.File.
func (u uploadReader) file(ctx *gin.Context, field string, required bool) (*statement.Upload, multipart.File, error) {
	header, err := ctx.FormFile(field)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, nil, domainerror.NewStatementError(
				domainerror.ErrCodeFileTooLarge,
				"the uploaded file exceeds the allowed size",
				domainerror.ErrFileTooLarge,
			)
		}
		if errors.Is(err, http.ErrMissingFile) && !required {
			return nil, nil, nil
		}
		return nil, nil, domainerror.NewStatementError(
			domainerror.ErrCodeEmptyFile,
			"a file is required in the "+field+" field",
			domainerror.ErrEmptyFile,
		)
	}

	f, err := header.Open()
	if err != nil {
		return nil, nil, domainerror.NewStatementError(
			domainerror.ErrCodeEmptyFile,
			"the uploaded file cannot be read",
			err,
		)
	}

	return &statement.Upload{
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Content:     f,
	}, f, nil
}

// serveFile streams an opened document as an attachment.
func serveFile(ctx *gin.Context, opened *statement.OpenedFile) {
	defer opened.Content.Close()

	contentType := opened.File.ContentType
	if contentType == "" {
		contentType = statement.DefaultContentType
	}
	ctx.DataFromReader(http.StatusOK, opened.File.Size, contentType, opened.Content, map[string]string{
		"Content-Disposition": `attachment; filename="` + sanitizeFileName(opened.File.FileName) + `"`,
	})
}

func sanitizeFileName(name string) string {
	out := make([]rune, 0, len(name))
	for _, r := range name {
		if r == '"' || r == '\\' || r < 0x20 {
			continue
		}
		out = append(out, r)
	}
	if len(out) == 0 {
		return "document"
	}
	return string(out)
}
