package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rendiconti/backend/internal/application/adapter"
	"github.com/rendiconti/backend/internal/domain/entity"
	domainerror "github.com/rendiconti/backend/internal/domain/error"
	"github.com/rendiconti/backend/internal/integration/persistence/model"
)

// statementDocumentRepository implements the adapter.StatementDocumentRepository interface.
type statementDocumentRepository struct {
	db *gorm.DB
}

// NewStatementDocumentRepository creates a new statement document repository instance.
func NewStatementDocumentRepository(db *gorm.DB) adapter.StatementDocumentRepository {
	return &statementDocumentRepository{
		db: db,
	}
}

// Replace stores doc as the current document of its type, returning the one it superseded.
func (r *statementDocumentRepository) Replace(ctx context.Context, doc *entity.StatementDocument) (*entity.StatementDocument, error) {
	var previous *entity.StatementDocument
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireDraft(tx, doc.StatementID); err != nil {
			return err
		}

		var existing model.StatementDocumentModel
		err := tx.Where("statement_id = ? AND type = ?", doc.StatementID, string(doc.Type)).First(&existing).Error
		switch {
		case err == nil:
			previous = existing.ToEntity()
			if err := tx.Delete(&model.StatementDocumentModel{}, "id = ?", existing.ID).Error; err != nil {
				return err
			}
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}

		return tx.Create(model.StatementDocumentFromEntity(doc)).Error
	})
	if err != nil {
		return nil, err
	}
	return previous, nil
}

// FindByStatement retrieves the current documents of a statement.
func (r *statementDocumentRepository) FindByStatement(ctx context.Context, statementID uuid.UUID) ([]*entity.StatementDocument, error) {
	var documentModels []model.StatementDocumentModel
	result := r.db.WithContext(ctx).
		Where("statement_id = ?", statementID).
		Order("uploaded_at ASC, type ASC").
		Find(&documentModels)
	if result.Error != nil {
		return nil, result.Error
	}

	documents := make([]*entity.StatementDocument, len(documentModels))
	for i := range documentModels {
		documents[i] = documentModels[i].ToEntity()
	}
	return documents, nil
}

// FindByID retrieves one document of a statement.
func (r *statementDocumentRepository) FindByID(ctx context.Context, statementID, documentID uuid.UUID) (*entity.StatementDocument, error) {
	var documentModel model.StatementDocumentModel
	result := r.db.WithContext(ctx).
		Where("id = ? AND statement_id = ?", documentID, statementID).
		First(&documentModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrDocumentNotFound
		}
		return nil, result.Error
	}
	return documentModel.ToEntity(), nil
}

// Delete removes a document while the statement is a draft.
func (r *statementDocumentRepository) Delete(ctx context.Context, statementID, documentID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireDraft(tx, statementID); err != nil {
			return err
		}
		result := tx.Delete(&model.StatementDocumentModel{}, "id = ? AND statement_id = ?", documentID, statementID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainerror.ErrDocumentNotFound
		}
		return nil
	})
}

// FindAttachment retrieves a reviewer attachment of a statement.
func (r *statementDocumentRepository) FindAttachment(ctx context.Context, statementID, attachmentID uuid.UUID) (*entity.StatementAttachment, error) {
	var attachmentModel model.StatementAttachmentModel
	result := r.db.WithContext(ctx).
		Where("id = ? AND statement_id = ?", attachmentID, statementID).
		First(&attachmentModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrDocumentNotFound
		}
		return nil, result.Error
	}
	return attachmentModel.ToEntity(), nil
}

func requireDraft(tx *gorm.DB, statementID uuid.UUID) error {
	var count int64
	if err := tx.Model(&model.StatementModel{}).
		Where("id = ? AND state = ?", statementID, entity.StatementStateDraft).
		Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return domainerror.ErrInvalidTransition
	}
	return nil
}
