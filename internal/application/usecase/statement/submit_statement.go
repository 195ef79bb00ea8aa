package statement

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/rendiconti/backend/internal/application/adapter"
	"github.com/rendiconti/backend/internal/domain/entity"
	domainerror "github.com/rendiconti/backend/internal/domain/error"
)

// SubmitStatementInput represents the input for submitting a draft.
type SubmitStatementInput struct {
	Actor       entity.Actor
	StatementID uuid.UUID
}

// SubmitStatementOutput represents the output of a submission.
type SubmitStatementOutput struct {
	Statement *entity.Statement
}

// SubmitStatementUseCase freezes the totals of a draft and hands it to the reviewers.
type SubmitStatementUseCase struct {
	statementRepo adapter.StatementRepository
	documentRepo  adapter.StatementDocumentRepository
	totals        TotalsCalculator
	locker        adapter.Locker
	clock         adapter.Clock
}

// NewSubmitStatementUseCase creates a new SubmitStatementUseCase instance.
func NewSubmitStatementUseCase(
	statementRepo adapter.StatementRepository,
	documentRepo adapter.StatementDocumentRepository,
	totals TotalsCalculator,
	locker adapter.Locker,
	clock adapter.Clock,
) *SubmitStatementUseCase {
	return &SubmitStatementUseCase{
		statementRepo: statementRepo,
		documentRepo:  documentRepo,
		totals:        totals,
		locker:        locker,
		clock:         clock,
	}
}

// Execute performs the submission.
// The ledger lock is held while totals are frozen so no movement of the period
// can be written between the computation and the state change.
func (uc *SubmitStatementUseCase) Execute(ctx context.Context, input SubmitStatementInput) (*SubmitStatementOutput, error) {
	if _, err := findOwnStatement(ctx, uc.statementRepo, input.Actor, input.StatementID); err != nil {
		return nil, err
	}

	statement, release, err := lockStatement(ctx, uc.locker, uc.statementRepo, input.StatementID)
	if err != nil {
		return nil, err
	}
	defer release()

	if !statement.CanTransitionTo(entity.StatementStateSubmitted) {
		return nil, invalidTransition(statement, "submit")
	}

	if !statement.Exonerated {
		documents, err := uc.documentRepo.FindByStatement(ctx, statement.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to list documents: %w", err)
		}
		if missing := entity.MissingMandatoryDocuments(documentTypes(documents)); len(missing) > 0 {
			names := make([]string, len(missing))
			for i, t := range missing {
				names[i] = string(t)
			}
			return nil, domainerror.NewStatementError(
				domainerror.ErrCodeDocumentsIncomplete,
				"missing mandatory documents: "+strings.Join(names, ", "),
				domainerror.ErrDocumentsIncomplete,
			).WithDetails(names...)
		}
	}

	releaseLedger, err := uc.locker.Acquire(ctx, adapter.LedgerLockKey(statement.EntityID))
	if err != nil {
		return nil, domainerror.NewStatementError(
			domainerror.ErrCodeStatementBusy,
			"movements are being modified, retry later",
			fmt.Errorf("%w: %w", domainerror.ErrStatementBusy, err),
		)
	}
	defer releaseLedger()

	income, expense, err := uc.totals.Totals(ctx, statement.EntityID, statement.Period)
	if err != nil {
		return nil, err
	}

	from := statement.State
	now := uc.clock.Now().UTC()
	statement.MarkSubmitted(income, expense, now)

	err = applyTransition(ctx, uc.statementRepo, adapter.StatementTransitionCommand{
		Statement: statement,
		From:      entity.SourceStates(entity.StatementStateSubmitted),
		Entry:     entity.NewStatementTransition(statement.ID, from, statement.State, input.Actor.UserID, "", now),
	}, "submit")
	if err != nil {
		return nil, err
	}

	return &SubmitStatementOutput{
		Statement: statement,
	}, nil
}
