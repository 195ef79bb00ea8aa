package statement

import (
	"context"
	"log/slog"
	"strings"

	"github.com/rendiconti/backend/internal/application/adapter"
	"github.com/rendiconti/backend/internal/domain/entity"
)

// ApproveStatementUseCase records a positive disposition.
type ApproveStatementUseCase struct {
	statementRepo adapter.StatementRepository
	locker        adapter.Locker
	notifier      adapter.DispositionNotifier
	clock         adapter.Clock
}

// NewApproveStatementUseCase creates a new ApproveStatementUseCase instance.
// notifier may be nil.
func NewApproveStatementUseCase(
	statementRepo adapter.StatementRepository,
	locker adapter.Locker,
	notifier adapter.DispositionNotifier,
	clock adapter.Clock,
) *ApproveStatementUseCase {
	return &ApproveStatementUseCase{
		statementRepo: statementRepo,
		locker:        locker,
		notifier:      notifier,
		clock:         clock,
	}
}

// Execute performs the approval.
func (uc *ApproveStatementUseCase) Execute(ctx context.Context, input ReviewInput) (*ReviewOutput, error) {
	if !input.Actor.IsReviewer() {
		return nil, notReviewer()
	}

	observations := strings.TrimSpace(input.Observations)
	if len(observations) > MaxNoteLength {
		return nil, noteTooLong("observations")
	}

	statement, release, err := lockStatement(ctx, uc.locker, uc.statementRepo, input.StatementID)
	if err != nil {
		return nil, err
	}
	defer release()

	if !statement.CanTransitionTo(entity.StatementStateApproved) {
		return nil, invalidTransition(statement, "approve")
	}

	from := statement.State
	now := uc.clock.Now().UTC()
	statement.MarkApproved(input.Actor.UserID, now)
	statement.RecordObservations(observations)

	err = applyTransition(ctx, uc.statementRepo, adapter.StatementTransitionCommand{
		Statement: statement,
		From:      entity.SourceStates(entity.StatementStateApproved),
		Entry:     entity.NewStatementTransition(statement.ID, from, statement.State, input.Actor.UserID, "", now),
	}, "approve")
	if err != nil {
		return nil, err
	}

	notify(ctx, uc.notifier, statement)

	return &ReviewOutput{Statement: statement}, nil
}

// notify emits the disposition event of a committed transition.
// Failures are logged; the disposition stands regardless.
func notify(ctx context.Context, notifier adapter.DispositionNotifier, statement *entity.Statement) {
	if notifier == nil {
		return
	}
	event := entity.NewDispositionEvent(statement)
	if err := notifier.NotifyDisposition(ctx, event); err != nil {
		slog.WarnContext(ctx, "failed to notify disposition",
			"statement_id", statement.ID,
			"state", statement.State,
			"error", err,
		)
	}
}
