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

// AttachDocumentInput represents the input for attaching a supporting document.
type AttachDocumentInput struct {
	Actor       entity.Actor
	StatementID uuid.UUID
	Type        entity.DocumentType
	File        *Upload
}

// AttachDocumentOutput represents the output of a document upload.
// Replaced is true when an earlier document of the same type was superseded.
type AttachDocumentOutput struct {
	Document         *entity.StatementDocument
	Replaced         bool
	MissingDocuments []entity.DocumentType
}

// AttachDocumentUseCase stores a supporting document on a draft statement.
type AttachDocumentUseCase struct {
	statementRepo adapter.StatementRepository
	documentRepo  adapter.StatementDocumentRepository
	storage       adapter.DocumentStorage
	locker        adapter.Locker
	clock         adapter.Clock
	maxSize       int64
}

// NewAttachDocumentUseCase creates a new AttachDocumentUseCase instance.
func NewAttachDocumentUseCase(
	statementRepo adapter.StatementRepository,
	documentRepo adapter.StatementDocumentRepository,
	storage adapter.DocumentStorage,
	locker adapter.Locker,
	clock adapter.Clock,
	maxSize int64,
) *AttachDocumentUseCase {
	return &AttachDocumentUseCase{
		statementRepo: statementRepo,
		documentRepo:  documentRepo,
		storage:       storage,
		locker:        locker,
		clock:         clock,
		maxSize:       maxSize,
	}
}

// Execute performs the upload.
func (uc *AttachDocumentUseCase) Execute(ctx context.Context, input AttachDocumentInput) (*AttachDocumentOutput, error) {
	if !input.Type.IsValid() {
		return nil, domainerror.NewStatementError(
			domainerror.ErrCodeInvalidDocumentType,
			fmt.Sprintf("unknown document type '%s'", input.Type),
			domainerror.ErrInvalidDocumentType,
		)
	}
	if err := validateUpload(input.File, uc.maxSize); err != nil {
		return nil, err
	}

	if _, err := findOwnStatement(ctx, uc.statementRepo, input.Actor, input.StatementID); err != nil {
		return nil, err
	}

	statement, release, err := lockStatement(ctx, uc.locker, uc.statementRepo, input.StatementID)
	if err != nil {
		return nil, err
	}
	defer release()

	if !statement.IsEditable() {
		return nil, invalidTransition(statement, "attach documents to")
	}

	key := storageKey(statement.ID, "documents/"+string(input.Type), input.File.FileName)
	stored, err := store(ctx, uc.storage, key, input.File, uc.maxSize)
	if err != nil {
		return nil, err
	}

	document := entity.NewStatementDocument(statement.ID, input.Type, stored, input.Actor.UserID)
	document.UploadedAt = uc.clock.Now().UTC()

	previous, err := uc.documentRepo.Replace(ctx, document)
	if err != nil {
		discard(ctx, uc.storage, key)
		if errors.Is(err, domainerror.ErrInvalidTransition) {
			return nil, invalidTransition(statement, "attach documents to")
		}
		return nil, fmt.Errorf("failed to save document: %w", err)
	}
	if previous != nil {
		discard(ctx, uc.storage, previous.StorageKey)
	}

	documents, err := uc.documentRepo.FindByStatement(ctx, statement.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}

	return &AttachDocumentOutput{
		Document:         document,
		Replaced:         previous != nil,
		MissingDocuments: entity.MissingMandatoryDocuments(documentTypes(documents)),
	}, nil
}
