package statement

import (
	"context"

	"github.com/google/uuid"

	"github.com/rendiconti/backend/internal/application/adapter"
	"github.com/rendiconti/backend/internal/domain/entity"
)

// ReviewInput addresses a statement a reviewer acts on.
// Observations is recorded on approval and ignored when opening a review.
type ReviewInput struct {
	Actor        entity.Actor
	StatementID  uuid.UUID
	Observations string
}

// ReviewOutput carries the statement after a reviewer operation.
type ReviewOutput struct {
	Statement *entity.Statement
}

// StartReviewUseCase marks a submitted statement as in review.
type StartReviewUseCase struct {
	statementRepo adapter.StatementRepository
	locker        adapter.Locker
	clock         adapter.Clock
}

// NewStartReviewUseCase creates a new StartReviewUseCase instance.
func NewStartReviewUseCase(statementRepo adapter.StatementRepository, locker adapter.Locker, clock adapter.Clock) *StartReviewUseCase {
	return &StartReviewUseCase{
		statementRepo: statementRepo,
		locker:        locker,
		clock:         clock,
	}
}

// Execute performs the state change.
func (uc *StartReviewUseCase) Execute(ctx context.Context, input ReviewInput) (*ReviewOutput, error) {
	if !input.Actor.IsReviewer() {
		return nil, notReviewer()
	}

	statement, release, err := lockStatement(ctx, uc.locker, uc.statementRepo, input.StatementID)
	if err != nil {
		return nil, err
	}
	defer release()

	if !statement.CanTransitionTo(entity.StatementStateInReview) {
		return nil, invalidTransition(statement, "review")
	}

	from := statement.State
	now := uc.clock.Now().UTC()
	statement.MarkInReview(input.Actor.UserID, now)

	err = applyTransition(ctx, uc.statementRepo, adapter.StatementTransitionCommand{
		Statement: statement,
		From:      entity.SourceStates(entity.StatementStateInReview),
		Entry:     entity.NewStatementTransition(statement.ID, from, statement.State, input.Actor.UserID, "", now),
	}, "review")
	if err != nil {
		return nil, err
	}

	return &ReviewOutput{Statement: statement}, nil
}
