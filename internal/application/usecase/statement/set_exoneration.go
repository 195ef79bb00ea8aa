package statement

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/rendiconti/backend/internal/application/adapter"
	"github.com/rendiconti/backend/internal/domain/entity"
	domainerror "github.com/rendiconti/backend/internal/domain/error"
)

// SetExonerationInput represents the input for toggling the exoneration flag.
// An exonerated draft can be submitted without the mandatory documents.
type SetExonerationInput struct {
	Actor       entity.Actor
	StatementID uuid.UUID
	Exonerated  bool
}

// SetExonerationUseCase toggles the exoneration flag of a draft.
type SetExonerationUseCase struct {
	statementRepo adapter.StatementRepository
	locker        adapter.Locker
	clock         adapter.Clock
}

// NewSetExonerationUseCase creates a new SetExonerationUseCase instance.
func NewSetExonerationUseCase(statementRepo adapter.StatementRepository, locker adapter.Locker, clock adapter.Clock) *SetExonerationUseCase {
	return &SetExonerationUseCase{
		statementRepo: statementRepo,
		locker:        locker,
		clock:         clock,
	}
}

// Execute performs the update.
func (uc *SetExonerationUseCase) Execute(ctx context.Context, input SetExonerationInput) (*ReviewOutput, error) {
	if !input.Actor.IsReviewer() {
		return nil, notReviewer()
	}

	statement, release, err := lockStatement(ctx, uc.locker, uc.statementRepo, input.StatementID)
	if err != nil {
		return nil, err
	}
	defer release()

	if !statement.IsEditable() {
		return nil, invalidTransition(statement, "change exoneration of")
	}

	statement.Exonerated = input.Exonerated
	statement.UpdatedAt = uc.clock.Now().UTC()

	if err := uc.statementRepo.UpdateDraft(ctx, statement); err != nil {
		if errors.Is(err, domainerror.ErrInvalidTransition) {
			return nil, invalidTransition(statement, "change exoneration of")
		}
		return nil, fmt.Errorf("failed to update statement: %w", err)
	}

	return &ReviewOutput{Statement: statement}, nil
}
