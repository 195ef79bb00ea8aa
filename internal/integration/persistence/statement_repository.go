package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rendiconti/backend/internal/application/adapter"
	"github.com/rendiconti/backend/internal/domain/entity"
	domainerror "github.com/rendiconti/backend/internal/domain/error"
	"github.com/rendiconti/backend/internal/domain/valueobject"
	"github.com/rendiconti/backend/internal/integration/persistence/model"
)

var lockingStates = []string{
	string(entity.StatementStateSubmitted),
	string(entity.StatementStateInReview),
	string(entity.StatementStateApproved),
}

// statementRepository implements the adapter.StatementRepository interface.
type statementRepository struct {
	db *gorm.DB
}

// NewStatementRepository creates a new statement repository instance.
func NewStatementRepository(db *gorm.DB) adapter.StatementRepository {
	return &statementRepository{
		db: db,
	}
}

// CreateDraft stores a new draft with its creation entry.
func (r *statementRepository) CreateDraft(ctx context.Context, statement *entity.Statement, entry *entity.StatementTransition) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var drafts int64
		if err := tx.Model(&model.StatementModel{}).
			Where("entity_id = ? AND state = ?", statement.EntityID, entity.StatementStateDraft).
			Count(&drafts).Error; err != nil {
			return err
		}
		if drafts > 0 {
			return domainerror.ErrDraftAlreadyExists
		}

		var overlapping int64
		if err := tx.Model(&model.StatementModel{}).
			Where("entity_id = ? AND state IN ?", statement.EntityID, lockingStates).
			Where("period_start <= ? AND period_end >= ?", statement.Period.End, statement.Period.Start).
			Count(&overlapping).Error; err != nil {
			return err
		}
		if overlapping > 0 {
			return domainerror.ErrOverlappingPeriod
		}

		if err := tx.Create(model.StatementFromEntity(statement)).Error; err != nil {
			return err
		}
		return appendTransition(tx, entry)
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domainerror.ErrDraftAlreadyExists
	}
	return err
}

// FindByID retrieves a statement by its ID, with its document count.
func (r *statementRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Statement, error) {
	var statementModel model.StatementModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&statementModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrStatementNotFound
		}
		return nil, result.Error
	}

	statement := statementModel.ToEntity()
	counts, err := r.documentCounts(ctx, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	statement.DocumentCount = counts[id]
	return statement, nil
}

// List retrieves statements matching the filter, newest period first.
func (r *statementRepository) List(ctx context.Context, filter adapter.StatementFilter) ([]*entity.Statement, error) {
	query := r.db.WithContext(ctx)
	if filter.EntityID != nil {
		query = query.Where("entity_id = ?", *filter.EntityID)
	}
	if filter.State != nil {
		query = query.Where("state = ?", string(*filter.State))
	}

	var statementModels []model.StatementModel
	if err := query.Order("period_start DESC, created_at DESC").Find(&statementModels).Error; err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, len(statementModels))
	for i := range statementModels {
		ids[i] = statementModels[i].ID
	}
	counts, err := r.documentCounts(ctx, ids)
	if err != nil {
		return nil, err
	}

	statements := make([]*entity.Statement, len(statementModels))
	for i := range statementModels {
		statements[i] = statementModels[i].ToEntity()
		statements[i].DocumentCount = counts[statements[i].ID]
	}
	return statements, nil
}

// FindDraft retrieves the draft of an entity.
func (r *statementRepository) FindDraft(ctx context.Context, entityID uuid.UUID) (*entity.Statement, error) {
	var statementModel model.StatementModel
	result := r.db.WithContext(ctx).
		Where("entity_id = ? AND state = ?", entityID, entity.StatementStateDraft).
		First(&statementModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrStatementNotFound
		}
		return nil, result.Error
	}
	return statementModel.ToEntity(), nil
}

// HasLockingStatement reports whether date falls inside a locking statement of the entity.
func (r *statementRepository) HasLockingStatement(ctx context.Context, entityID uuid.UUID, date time.Time) (bool, error) {
	day := valueobject.DateOf(date)
	var count int64
	result := r.db.WithContext(ctx).
		Model(&model.StatementModel{}).
		Where("entity_id = ? AND state IN ?", entityID, lockingStates).
		Where("period_start <= ? AND period_end >= ?", day, day).
		Count(&count)
	if result.Error != nil {
		return false, result.Error
	}
	return count > 0, nil
}

// ApplyTransition updates the row only while its stored state is one of cmd.From.
func (r *statementRepository) ApplyTransition(ctx context.Context, cmd adapter.StatementTransitionCommand) error {
	from := make([]string, len(cmd.From))
	for i, s := range cmd.From {
		from[i] = string(s)
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.StatementModel{}).
			Where("id = ? AND state IN ?", cmd.Statement.ID, from).
			Updates(statementColumns(cmd.Statement))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainerror.ErrInvalidTransition
		}

		if cmd.Attachment != nil {
			if err := tx.Create(model.StatementAttachmentFromEntity(cmd.Attachment)).Error; err != nil {
				return err
			}
		}
		if cmd.Entry != nil {
			return appendTransition(tx, cmd.Entry)
		}
		return nil
	})
}

// UpdateDraft saves totals and flags of a statement still in draft.
func (r *statementRepository) UpdateDraft(ctx context.Context, statement *entity.Statement) error {
	result := r.db.WithContext(ctx).
		Model(&model.StatementModel{}).
		Where("id = ? AND state = ?", statement.ID, entity.StatementStateDraft).
		Updates(map[string]interface{}{
			"total_income":  statement.TotalIncome,
			"total_expense": statement.TotalExpense,
			"exonerated":    statement.Exonerated,
			"updated_at":    statement.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerror.ErrInvalidTransition
	}
	return nil
}

// Delete removes the statement and everything attached to it.
func (r *statementRepository) Delete(ctx context.Context, id uuid.UUID, states []entity.StatementState) ([]string, error) {
	allowed := make([]string, len(states))
	for i, s := range states {
		allowed[i] = string(s)
	}

	var keys []string
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var statementModel model.StatementModel
		if err := tx.Where("id = ?", id).First(&statementModel).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainerror.ErrStatementNotFound
			}
			return err
		}

		result := tx.Where("id = ? AND state IN ?", id, allowed).Delete(&model.StatementModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainerror.ErrInvalidTransition
		}

		var documentKeys, attachmentKeys []string
		if err := tx.Model(&model.StatementDocumentModel{}).
			Where("statement_id = ?", id).
			Pluck("storage_key", &documentKeys).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.StatementAttachmentModel{}).
			Where("statement_id = ?", id).
			Pluck("storage_key", &attachmentKeys).Error; err != nil {
			return err
		}
		keys = append(documentKeys, attachmentKeys...)

		for _, m := range []interface{}{
			&model.StatementDocumentModel{},
			&model.StatementAttachmentModel{},
			&model.StatementTransitionModel{},
		} {
			if err := tx.Where("statement_id = ?", id).Delete(m).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return keys, nil
}

// History retrieves the transitions of a statement in chronological order.
func (r *statementRepository) History(ctx context.Context, statementID uuid.UUID) ([]*entity.StatementTransition, error) {
	var transitionModels []model.StatementTransitionModel
	result := r.db.WithContext(ctx).
		Where("statement_id = ?", statementID).
		Order("position ASC").
		Find(&transitionModels)
	if result.Error != nil {
		return nil, result.Error
	}

	history := make([]*entity.StatementTransition, len(transitionModels))
	for i := range transitionModels {
		history[i] = transitionModels[i].ToEntity()
	}
	return history, nil
}

func (r *statementRepository) documentCounts(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]int, error) {
	counts := make(map[uuid.UUID]int, len(ids))
	if len(ids) == 0 {
		return counts, nil
	}

	var rows []struct {
		StatementID uuid.UUID
		Total       int
	}
	result := r.db.WithContext(ctx).
		Model(&model.StatementDocumentModel{}).
		Select("statement_id, COUNT(*) AS total").
		Where("statement_id IN ?", ids).
		Group("statement_id").
		Scan(&rows)
	if result.Error != nil {
		return nil, result.Error
	}
	for _, row := range rows {
		counts[row.StatementID] = row.Total
	}
	return counts, nil
}

func appendTransition(tx *gorm.DB, entry *entity.StatementTransition) error {
	var position int64
	if err := tx.Model(&model.StatementTransitionModel{}).
		Where("statement_id = ?", entry.StatementID).
		Count(&position).Error; err != nil {
		return err
	}
	return tx.Create(model.StatementTransitionFromEntity(entry, int(position)+1)).Error
}

// statementColumns lists every column a transition may change.
func statementColumns(s *entity.Statement) map[string]interface{} {
	m := model.StatementFromEntity(s)
	return map[string]interface{}{
		"state":                   m.State,
		"total_income":            m.TotalIncome,
		"total_expense":           m.TotalExpense,
		"exonerated":              m.Exonerated,
		"submitted_at":            m.SubmittedAt,
		"review_started_at":       m.ReviewStartedAt,
		"approved_at":             m.ApprovedAt,
		"rejected_at":             m.RejectedAt,
		"rejection_reason":        m.RejectionReason,
		"observations":            m.Observations,
		"rejection_attachment_id": m.RejectionAttachmentID,
		"reviewed_by":             m.ReviewedBy,
		"updated_at":              m.UpdatedAt,
	}
}
