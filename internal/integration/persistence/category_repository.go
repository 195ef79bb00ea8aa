// Package persistence implements repository interfaces for database operations.
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

// categoryRepository implements the adapter.CategoryRepository interface.
type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a new category repository instance.
func NewCategoryRepository(db *gorm.DB) adapter.CategoryRepository {
	return &categoryRepository{
		db: db,
	}
}

// Create creates a new category in the database.
func (r *categoryRepository) Create(ctx context.Context, category *entity.Category) error {
	categoryModel := model.CategoryFromEntity(category)
	result := r.db.WithContext(ctx).Create(categoryModel)
	if result.Error != nil {
		return result.Error
	}
	return nil
}

// FindByID retrieves a category by its ID.
func (r *categoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Category, error) {
	var categoryModel model.CategoryModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&categoryModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrCategoryNotFound
		}
		return nil, result.Error
	}
	return categoryModel.ToEntity(), nil
}

// FindAll retrieves the whole chart ordered by level and code.
func (r *categoryRepository) FindAll(ctx context.Context) ([]*entity.Category, error) {
	var categoryModels []model.CategoryModel
	result := r.db.WithContext(ctx).
		Order("level ASC, code ASC, created_at ASC").
		Find(&categoryModels)
	if result.Error != nil {
		return nil, result.Error
	}

	categories := make([]*entity.Category, len(categoryModels))
	for i := range categoryModels {
		categories[i] = categoryModels[i].ToEntity()
	}
	return categories, nil
}

// Update saves the name of an existing category. Parent, level and type never change.
func (r *categoryRepository) Update(ctx context.Context, category *entity.Category) error {
	result := r.db.WithContext(ctx).
		Model(&model.CategoryModel{}).
		Where("id = ?", category.ID).
		Updates(map[string]interface{}{
			"name":       category.Name,
			"updated_at": category.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerror.ErrCategoryNotFound
	}
	return nil
}

// CountMovements counts the movements tagged with any of the given categories.
func (r *categoryRepository) CountMovements(ctx context.Context, categoryIDs []uuid.UUID) (int64, error) {
	if len(categoryIDs) == 0 {
		return 0, nil
	}
	var count int64
	result := r.db.WithContext(ctx).
		Model(&model.MovementModel{}).
		Where("category_id IN ?", categoryIDs).
		Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}
	return count, nil
}

// DeleteCascade removes the categories and their movements in one transaction.
func (r *categoryRepository) DeleteCascade(ctx context.Context, categoryIDs []uuid.UUID) (*adapter.CascadeResult, error) {
	cascade := &adapter.CascadeResult{}
	if len(categoryIDs) == 0 {
		return cascade, nil
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		movements := tx.Where("category_id IN ?", categoryIDs).Delete(&model.MovementModel{})
		if movements.Error != nil {
			return movements.Error
		}
		cascade.MovementsDeleted = movements.RowsAffected

		categories := tx.Where("id IN ?", categoryIDs).Delete(&model.CategoryModel{})
		if categories.Error != nil {
			return categories.Error
		}
		if categories.RowsAffected == 0 {
			return domainerror.ErrCategoryNotFound
		}
		cascade.CategoriesDeleted = categories.RowsAffected
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cascade, nil
}
