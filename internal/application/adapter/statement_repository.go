package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/rendiconti/backend/internal/domain/entity"
)

// StatementFilter defines filter options for listing statements.
type StatementFilter struct {
	EntityID *uuid.UUID
	State    *entity.StatementState
}

// StatementTransitionCommand applies a guarded state change.
// The statement row is updated only if its stored state is one of From.
type StatementTransitionCommand struct {
	Statement  *entity.Statement
	From       []entity.StatementState
	Entry      *entity.StatementTransition
	Attachment *entity.StatementAttachment
}

// StatementRepository defines the interface for statement persistence operations.
type StatementRepository interface {
	// CreateDraft stores a new draft and its creation history entry.
	// It fails with ErrDraftAlreadyExists or ErrOverlappingPeriod when the entity
	// already has a draft or a locking statement over an overlapping period.
	CreateDraft(ctx context.Context, statement *entity.Statement, entry *entity.StatementTransition) error

	// FindByID retrieves a statement by its ID, with its document count.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Statement, error)

	// List retrieves statements matching the filter, newest period first.
	List(ctx context.Context, filter StatementFilter) ([]*entity.Statement, error)

	// FindDraft retrieves the draft of an entity, if any.
	FindDraft(ctx context.Context, entityID uuid.UUID) (*entity.Statement, error)

	// HasLockingStatement reports whether date falls inside a submitted, in_review
	// or approved statement of the entity.
	HasLockingStatement(ctx context.Context, entityID uuid.UUID, date time.Time) (bool, error)

	// ApplyTransition persists the command atomically.
	// It returns ErrInvalidTransition when the stored state is not in From.
	ApplyTransition(ctx context.Context, cmd StatementTransitionCommand) error

	// UpdateDraft saves totals and flags of a statement still in draft.
	// It returns ErrInvalidTransition when the stored state is no longer draft.
	UpdateDraft(ctx context.Context, statement *entity.Statement) error

	// Delete removes the statement with its documents, attachments and history
	// if its stored state is one of states, returning the storage keys it referenced.
	Delete(ctx context.Context, id uuid.UUID, states []entity.StatementState) ([]string, error)

	// History retrieves the transitions of a statement in chronological order.
	History(ctx context.Context, statementID uuid.UUID) ([]*entity.StatementTransition, error)
}

// StatementDocumentRepository defines the interface for supporting document persistence.
type StatementDocumentRepository interface {
	// Replace stores doc as the current document of its type while the statement is a draft.
	// It returns the superseded document, if any.
	Replace(ctx context.Context, doc *entity.StatementDocument) (*entity.StatementDocument, error)

	// FindByStatement retrieves the current documents of a statement.
	FindByStatement(ctx context.Context, statementID uuid.UUID) ([]*entity.StatementDocument, error)

	// FindByID retrieves one document of a statement.
	FindByID(ctx context.Context, statementID, documentID uuid.UUID) (*entity.StatementDocument, error)

	// Delete removes a document while the statement is a draft.
	Delete(ctx context.Context, statementID, documentID uuid.UUID) error

	// FindAttachment retrieves a reviewer attachment of a statement.
	FindAttachment(ctx context.Context, statementID, attachmentID uuid.UUID) (*entity.StatementAttachment, error)
}
