// Package persistence implements repository interfaces for database operations.
package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rendiconti/backend/internal/application/adapter"
	"github.com/rendiconti/backend/internal/domain/entity"
	"github.com/rendiconti/backend/internal/integration/persistence/model"
)

type emailQueueRepository struct {
	db *gorm.DB
}

// NewEmailQueueRepository creates the gorm-backed disposition email queue.
func NewEmailQueueRepository(db *gorm.DB) adapter.EmailQueueRepository {
	return &emailQueueRepository{db: db}
}

func (r *emailQueueRepository) Enqueue(ctx context.Context, job *entity.EmailJob) error {
	if err := r.db.WithContext(ctx).Create(model.EmailQueueModelFromEntity(job)).Error; err != nil {
		return fmt.Errorf("failed to insert email %s: %w", job.ID, err)
	}
	return nil
}

// ClaimDue selects due jobs and flips them to processing in one transaction. The
// conditional update skips rows another worker claimed in between.
func (r *emailQueueRepository) ClaimDue(ctx context.Context, now time.Time, limit int) ([]*entity.EmailJob, error) {
	var claimed []*entity.EmailJob

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var candidates []model.EmailQueueModel
		err := tx.
			Where("status = ? AND scheduled_at <= ?", entity.EmailStatusPending, now).
			Order("scheduled_at ASC, created_at ASC").
			Limit(limit).
			Find(&candidates).Error
		if err != nil {
			return fmt.Errorf("failed to load due emails: %w", err)
		}

		for i := range candidates {
			result := tx.Model(&model.EmailQueueModel{}).
				Where("id = ? AND status = ?", candidates[i].ID, entity.EmailStatusPending).
				Update("status", entity.EmailStatusProcessing)
			if result.Error != nil {
				return fmt.Errorf("failed to claim email %s: %w", candidates[i].ID, result.Error)
			}
			if result.RowsAffected == 0 {
				continue
			}
			job := candidates[i].ToEntity()
			job.Status = entity.EmailStatusProcessing
			claimed = append(claimed, job)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return claimed, nil
}

func (r *emailQueueRepository) Save(ctx context.Context, job *entity.EmailJob) error {
	if err := r.db.WithContext(ctx).Save(model.EmailQueueModelFromEntity(job)).Error; err != nil {
		return fmt.Errorf("failed to save email %s: %w", job.ID, err)
	}
	return nil
}

func (r *emailQueueRepository) ListForStatement(ctx context.Context, statementID uuid.UUID) ([]*entity.EmailJob, error) {
	var rows []model.EmailQueueModel
	err := r.db.WithContext(ctx).
		Where("statement_id = ?", statementID).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list emails for statement %s: %w", statementID, err)
	}

	jobs := make([]*entity.EmailJob, len(rows))
	for i := range rows {
		jobs[i] = rows[i].ToEntity()
	}
	return jobs, nil
}

func (r *emailQueueRepository) PurgeDelivered(ctx context.Context, before time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("status = ? AND processed_at < ?", entity.EmailStatusSent, before).
		Delete(&model.EmailQueueModel{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to purge sent emails: %w", result.Error)
	}
	return result.RowsAffected, nil
}
