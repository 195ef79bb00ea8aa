package statement

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/rendiconti/backend/internal/application/adapter"
	"github.com/rendiconti/backend/internal/domain/entity"
	domainerror "github.com/rendiconti/backend/internal/domain/error"
)

// DocumentInput addresses one document of a statement.
type DocumentInput struct {
	Actor       entity.Actor
	StatementID uuid.UUID
	DocumentID  uuid.UUID
}

// OpenedFile is a stored file ready to be streamed. Callers must close Content.
type OpenedFile struct {
	File    entity.StoredFile
	Content io.ReadCloser
}

// DocumentsUseCase lists, downloads and removes supporting documents.
type DocumentsUseCase struct {
	statementRepo adapter.StatementRepository
	documentRepo  adapter.StatementDocumentRepository
	storage       adapter.DocumentStorage
	locker        adapter.Locker
}

// NewDocumentsUseCase creates a new DocumentsUseCase instance.
func NewDocumentsUseCase(
	statementRepo adapter.StatementRepository,
	documentRepo adapter.StatementDocumentRepository,
	storage adapter.DocumentStorage,
	locker adapter.Locker,
) *DocumentsUseCase {
	return &DocumentsUseCase{
		statementRepo: statementRepo,
		documentRepo:  documentRepo,
		storage:       storage,
		locker:        locker,
	}
}

// List returns the current documents of a statement.
func (uc *DocumentsUseCase) List(ctx context.Context, actor entity.Actor, statementID uuid.UUID) ([]*entity.StatementDocument, error) {
	statement, err := findStatement(ctx, uc.statementRepo, actor, statementID)
	if err != nil {
		return nil, err
	}
	documents, err := uc.documentRepo.FindByStatement(ctx, statement.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	return documents, nil
}

// Open returns a document with a reader over its content.
func (uc *DocumentsUseCase) Open(ctx context.Context, input DocumentInput) (*OpenedFile, error) {
	statement, err := findStatement(ctx, uc.statementRepo, input.Actor, input.StatementID)
	if err != nil {
		return nil, err
	}
	document, err := uc.findDocument(ctx, statement.ID, input.DocumentID)
	if err != nil {
		return nil, err
	}
	content, err := uc.storage.Open(ctx, document.StorageKey)
	if err != nil {
		return nil, storageFailure(err)
	}
	return &OpenedFile{File: document.StoredFile, Content: content}, nil
}

// Delete removes a document from a draft statement.
func (uc *DocumentsUseCase) Delete(ctx context.Context, input DocumentInput) error {
	if _, err := findOwnStatement(ctx, uc.statementRepo, input.Actor, input.StatementID); err != nil {
		return err
	}

	statement, release, err := lockStatement(ctx, uc.locker, uc.statementRepo, input.StatementID)
	if err != nil {
		return err
	}
	defer release()

	if !statement.IsEditable() {
		return invalidTransition(statement, "remove documents from")
	}

	document, err := uc.findDocument(ctx, statement.ID, input.DocumentID)
	if err != nil {
		return err
	}

	if err := uc.documentRepo.Delete(ctx, statement.ID, document.ID); err != nil {
		if errors.Is(err, domainerror.ErrInvalidTransition) {
			return invalidTransition(statement, "remove documents from")
		}
		return fmt.Errorf("failed to delete document: %w", err)
	}
	discard(ctx, uc.storage, document.StorageKey)
	return nil
}

// OpenRejectionAttachment returns the file a reviewer attached to a rejection.
func (uc *DocumentsUseCase) OpenRejectionAttachment(ctx context.Context, actor entity.Actor, statementID uuid.UUID) (*OpenedFile, error) {
	statement, err := findStatement(ctx, uc.statementRepo, actor, statementID)
	if err != nil {
		return nil, err
	}
	if statement.RejectionAttachmentID == nil {
		return nil, documentNotFound()
	}

	attachment, err := uc.documentRepo.FindAttachment(ctx, statement.ID, *statement.RejectionAttachmentID)
	if err != nil {
		if errors.Is(err, domainerror.ErrDocumentNotFound) {
			return nil, documentNotFound()
		}
		return nil, fmt.Errorf("failed to find attachment: %w", err)
	}

	content, err := uc.storage.Open(ctx, attachment.StorageKey)
	if err != nil {
		return nil, storageFailure(err)
	}
	return &OpenedFile{File: attachment.StoredFile, Content: content}, nil
}

func (uc *DocumentsUseCase) findDocument(ctx context.Context, statementID, documentID uuid.UUID) (*entity.StatementDocument, error) {
	document, err := uc.documentRepo.FindByID(ctx, statementID, documentID)
	if err != nil {
		if errors.Is(err, domainerror.ErrDocumentNotFound) {
			return nil, documentNotFound()
		}
		return nil, fmt.Errorf("failed to find document: %w", err)
	}
	return document, nil
}

func documentNotFound() error {
	return domainerror.NewStatementError(
		domainerror.ErrCodeDocumentNotFound,
		"document not found",
		domainerror.ErrDocumentNotFound,
	)
}
