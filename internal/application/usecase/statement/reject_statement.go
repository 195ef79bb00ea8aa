package statement

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/rendiconti/backend/internal/application/adapter"
	"github.com/rendiconti/backend/internal/domain/entity"
	domainerror "github.com/rendiconti/backend/internal/domain/error"
)

// MaxRejectionReasonLength bounds the reviewer's note.
const MaxRejectionReasonLength = 2000

// RejectStatementInput represents the input for a negative disposition.
// Observations and Attachment are optional.
type RejectStatementInput struct {
	Actor        entity.Actor
	StatementID  uuid.UUID
	Reason       string
	Observations string
	Attachment   *Upload
}

// RejectStatementUseCase records a negative disposition with its reason.
type RejectStatementUseCase struct {
	statementRepo adapter.StatementRepository
	storage       adapter.DocumentStorage
	locker        adapter.Locker
	notifier      adapter.DispositionNotifier
	clock         adapter.Clock
	maxSize       int64
}

// NewRejectStatementUseCase creates a new RejectStatementUseCase instance.
// notifier may be nil.
func NewRejectStatementUseCase(
	statementRepo adapter.StatementRepository,
	storage adapter.DocumentStorage,
	locker adapter.Locker,
	notifier adapter.DispositionNotifier,
	clock adapter.Clock,
	maxSize int64,
) *RejectStatementUseCase {
	return &RejectStatementUseCase{
		statementRepo: statementRepo,
		storage:       storage,
		locker:        locker,
		notifier:      notifier,
		clock:         clock,
		maxSize:       maxSize,
	}
}

// Execute performs the rejection.
func (uc *RejectStatementUseCase) Execute(ctx context.Context, input RejectStatementInput) (*ReviewOutput, error) {
	if !input.Actor.IsReviewer() {
		return nil, notReviewer()
	}

	reason := strings.TrimSpace(input.Reason)
	if reason == "" {
		return nil, domainerror.NewStatementError(
			domainerror.ErrCodeEmptyRejectionReason,
			"a rejection reason is required",
			domainerror.ErrEmptyRejectionReason,
		)
	}
	if len(reason) > MaxRejectionReasonLength {
		return nil, domainerror.NewStatementError(
			domainerror.ErrCodeEmptyRejectionReason,
			"rejection reason is too long",
			domainerror.ErrEmptyRejectionReason,
		)
	}
	observations := strings.TrimSpace(input.Observations)
	if len(observations) > MaxNoteLength {
		return nil, noteTooLong("observations")
	}
	if input.Attachment != nil {
		if err := validateUpload(input.Attachment, uc.maxSize); err != nil {
			return nil, err
		}
	}

	statement, release, err := lockStatement(ctx, uc.locker, uc.statementRepo, input.StatementID)
	if err != nil {
		return nil, err
	}
	defer release()

	if !statement.CanTransitionTo(entity.StatementStateRejected) {
		return nil, invalidTransition(statement, "reject")
	}

	var attachment *entity.StatementAttachment
	if input.Attachment != nil {
		key := storageKey(statement.ID, "rejection", input.Attachment.FileName)
		stored, err := store(ctx, uc.storage, key, input.Attachment, uc.maxSize)
		if err != nil {
			return nil, err
		}
		attachment = entity.NewRejectionAttachment(statement.ID, stored, input.Actor.UserID)
	}

	from := statement.State
	now := uc.clock.Now().UTC()
	var attachmentID *uuid.UUID
	if attachment != nil {
		attachment.UploadedAt = now
		attachmentID = &attachment.ID
	}
	statement.MarkRejected(input.Actor.UserID, reason, attachmentID, now)
	statement.RecordObservations(observations)

	err = applyTransition(ctx, uc.statementRepo, adapter.StatementTransitionCommand{
		Statement:  statement,
		From:       entity.SourceStates(entity.StatementStateRejected),
		Entry:      entity.NewStatementTransition(statement.ID, from, statement.State, input.Actor.UserID, reason, now),
		Attachment: attachment,
	}, "reject")
	if err != nil {
		if attachment != nil {
			discard(ctx, uc.storage, attachment.StorageKey)
		}
		return nil, err
	}

	notify(ctx, uc.notifier, statement)

	return &ReviewOutput{Statement: statement}, nil
}
