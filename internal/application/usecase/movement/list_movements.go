package movement

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/rendiconti/backend/internal/application/adapter"
	"github.com/rendiconti/backend/internal/domain/entity"
	domainerror "github.com/rendiconti/backend/internal/domain/error"
	"github.com/rendiconti/backend/internal/domain/valueobject"
)

// ListMovementsInput represents the input for listing movements.
type ListMovementsInput struct {
	Actor      entity.Actor
	Period     valueobject.DateRange
	AccountIDs []uuid.UUID
	Types      []entity.MovementType
}

// ListMovementsOutput represents the output of listing movements.
type ListMovementsOutput struct {
	Movements []*entity.Movement
}

// ListMovementsUseCase lists the raw ledger of the actor's entity.
type ListMovementsUseCase struct {
	ledger adapter.MovementLedger
}

// NewListMovementsUseCase creates a new ListMovementsUseCase instance.
func NewListMovementsUseCase(ledger adapter.MovementLedger) *ListMovementsUseCase {
	return &ListMovementsUseCase{
		ledger: ledger,
	}
}

// Execute performs the listing.
func (uc *ListMovementsUseCase) Execute(ctx context.Context, input ListMovementsInput) (*ListMovementsOutput, error) {
	if !input.Period.IsValid() {
		return nil, domainerror.NewPeriodError(
			domainerror.ErrCodeInvalidRange,
			"start must not be after end",
			domainerror.ErrInvalidRange,
		)
	}

	types := input.Types
	if len(types) == 0 {
		types = []entity.MovementType{entity.MovementTypeIncome, entity.MovementTypeExpense}
	}

	movements, err := uc.ledger.Query(ctx, adapter.LedgerQuery{
		EntityID:   input.Actor.EntityID,
		Period:     input.Period,
		AccountIDs: input.AccountIDs,
		Types:      types,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list movements: %w", err)
	}

	return &ListMovementsOutput{
		Movements: movements,
	}, nil
}
