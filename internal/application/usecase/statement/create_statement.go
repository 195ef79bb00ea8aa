package statement

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rendiconti/backend/internal/application/adapter"
	"github.com/rendiconti/backend/internal/domain/entity"
	domainerror "github.com/rendiconti/backend/internal/domain/error"
	"github.com/rendiconti/backend/internal/domain/valueobject"
)

// CreateStatementInput represents the input for statement creation.
type CreateStatementInput struct {
	Actor  entity.Actor
	Period valueobject.DateRange
	Note   string
}

// CreateStatementOutput represents the output of statement creation.
type CreateStatementOutput struct {
	Statement *entity.Statement
}

// CreateStatementUseCase opens a new draft for the actor's entity.
type CreateStatementUseCase struct {
	statementRepo adapter.StatementRepository
	totals        TotalsCalculator
	locker        adapter.Locker
	clock         adapter.Clock
}

// NewCreateStatementUseCase creates a new CreateStatementUseCase instance.
func NewCreateStatementUseCase(
	statementRepo adapter.StatementRepository,
	totals TotalsCalculator,
	locker adapter.Locker,
	clock adapter.Clock,
) *CreateStatementUseCase {
	return &CreateStatementUseCase{
		statementRepo: statementRepo,
		totals:        totals,
		locker:        locker,
		clock:         clock,
	}
}

// Execute performs the statement creation.
func (uc *CreateStatementUseCase) Execute(ctx context.Context, input CreateStatementInput) (*CreateStatementOutput, error) {
	if !input.Period.IsValid() {
		return nil, domainerror.NewStatementError(
			domainerror.ErrCodeInvalidPeriod,
			"statement period start must not be after end",
			domainerror.ErrInvalidPeriod,
		)
	}

	note := strings.TrimSpace(input.Note)
	if len(note) > MaxNoteLength {
		return nil, noteTooLong("note")
	}

	entityID := input.Actor.EntityID

	release, err := uc.locker.Acquire(ctx, adapter.StatementCreateLockKey(entityID))
	if err != nil {
		return nil, domainerror.NewStatementError(
			domainerror.ErrCodeStatementBusy,
			"another statement is being created, retry later",
			fmt.Errorf("%w: %w", domainerror.ErrStatementBusy, err),
		)
	}
	defer release()

	existing, err := uc.statementRepo.FindDraft(ctx, entityID)
	if err != nil && !errors.Is(err, domainerror.ErrStatementNotFound) {
		return nil, fmt.Errorf("failed to look up draft: %w", err)
	}
	if existing != nil {
		return nil, draftExists().WithDetails(existing.ID.String())
	}

	income, expense, err := uc.totals.Totals(ctx, entityID, input.Period)
	if err != nil {
		return nil, err
	}

	now := uc.clock.Now().UTC()
	statement := entity.NewStatement(entityID, input.Actor, input.Period, note)
	statement.CreatedAt = now
	statement.SetTotals(income, expense)
	statement.UpdatedAt = now

	entry := entity.NewStatementTransition(statement.ID, "", entity.StatementStateDraft, input.Actor.UserID, "", now)

	if err := uc.statementRepo.CreateDraft(ctx, statement, entry); err != nil {
		switch {
		case errors.Is(err, domainerror.ErrDraftAlreadyExists):
			return nil, draftExists()
		case errors.Is(err, domainerror.ErrOverlappingPeriod):
			return nil, domainerror.NewStatementError(
				domainerror.ErrCodeOverlappingPeriod,
				fmt.Sprintf("period %s overlaps a statement already submitted or approved", input.Period),
				domainerror.ErrOverlappingPeriod,
			)
		}
		return nil, fmt.Errorf("failed to create statement: %w", err)
	}

	return &CreateStatementOutput{
		Statement: statement,
	}, nil
}

func draftExists() *domainerror.StatementError {
	return domainerror.NewStatementError(
		domainerror.ErrCodeDraftAlreadyExists,
		"a draft statement already exists; submit or delete it first",
		domainerror.ErrDraftAlreadyExists,
	)
}
