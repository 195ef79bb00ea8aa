package report

import (
	"context"

	"github.com/google/uuid"

	"github.com/rendiconti/backend/internal/domain/entity"
	"github.com/rendiconti/backend/internal/domain/valueobject"
)

// GenerateReportInput represents the input for report generation.
type GenerateReportInput struct {
	Actor       entity.Actor
	Period      valueobject.DateRange
	AccountIDs  []uuid.UUID
	CategoryIDs []uuid.UUID
	Types       []entity.MovementType
}

// GenerateReportOutput represents the output of report generation.
type GenerateReportOutput struct {
	Report *Report
}

// GenerateReportUseCase builds a report over the actor's entity ledger.
type GenerateReportUseCase struct {
	aggregator *Aggregator
}

// NewGenerateReportUseCase creates a new GenerateReportUseCase instance.
func NewGenerateReportUseCase(aggregator *Aggregator) *GenerateReportUseCase {
	return &GenerateReportUseCase{
		aggregator: aggregator,
	}
}

// Execute performs the report generation.
func (uc *GenerateReportUseCase) Execute(ctx context.Context, input GenerateReportInput) (*GenerateReportOutput, error) {
	report, err := uc.aggregator.Generate(ctx, Request{
		EntityID:    input.Actor.EntityID,
		Period:      input.Period,
		AccountIDs:  input.AccountIDs,
		CategoryIDs: input.CategoryIDs,
		Types:       input.Types,
	})
	if err != nil {
		return nil, err
	}
	return &GenerateReportOutput{
		Report: report,
	}, nil
}
