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

// movementRepository implements the adapter.MovementRepository interface.
// It is also the Ledger read by reports.
type movementRepository struct {
	db *gorm.DB
}

// NewMovementRepository creates a new movement repository instance.
func NewMovementRepository(db *gorm.DB) adapter.MovementRepository {
	return &movementRepository{
		db: db,
	}
}

// Create creates a new movement in the database.
func (r *movementRepository) Create(ctx context.Context, movement *entity.Movement) error {
	result := r.db.WithContext(ctx).Create(model.MovementFromEntity(movement))
	if result.Error != nil {
		return result.Error
	}
	return nil
}

// FindByID retrieves a movement by its ID.
func (r *movementRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Movement, error) {
	var movementModel model.MovementModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&movementModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrMovementNotFound
		}
		return nil, result.Error
	}
	return movementModel.ToEntity(), nil
}

// Delete removes a movement from the database.
func (r *movementRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&model.MovementModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerror.ErrMovementNotFound
	}
	return nil
}

// Query returns the movements matching q ordered by date, then insertion.
func (r *movementRepository) Query(ctx context.Context, q adapter.LedgerQuery) ([]*entity.Movement, error) {
	query := r.db.WithContext(ctx).
		Where("entity_id = ?", q.EntityID).
		Where("date >= ? AND date <= ?", q.Period.Start, q.Period.End)

	if len(q.AccountIDs) > 0 {
		query = query.Where("account_id IN ?", q.AccountIDs)
	}
	if len(q.CategoryIDs) > 0 {
		query = query.Where("category_id IN ?", q.CategoryIDs)
	}
	if len(q.Types) > 0 {
		types := make([]string, len(q.Types))
		for i, t := range q.Types {
			types[i] = string(t)
		}
		query = query.Where("type IN ?", types)
	}

	var movementModels []model.MovementModel
	result := query.
		Order("date ASC, created_at ASC, id ASC").
		Find(&movementModels)
	if result.Error != nil {
		return nil, result.Error
	}

	movements := make([]*entity.Movement, len(movementModels))
	for i := range movementModels {
		movements[i] = movementModels[i].ToEntity()
	}
	return movements, nil
}
