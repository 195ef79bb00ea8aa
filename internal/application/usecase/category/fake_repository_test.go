package category

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/rendiconti/backend/internal/application/adapter"
	"github.com/rendiconti/backend/internal/domain/entity"
	domainerror "github.com/rendiconti/backend/internal/domain/error"
)

type fakeCategoryRepository struct {
	mu         sync.Mutex
	categories map[uuid.UUID]*entity.Category
	movements  map[uuid.UUID]uuid.UUID // movement id -> category id
	deleted    [][]uuid.UUID
}

func newFakeCategoryRepository() *fakeCategoryRepository {
	return &fakeCategoryRepository{
		categories: make(map[uuid.UUID]*entity.Category),
		movements:  make(map[uuid.UUID]uuid.UUID),
	}
}

func (r *fakeCategoryRepository) Create(_ context.Context, category *entity.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.categories[category.ID] = category
	return nil
}

func (r *fakeCategoryRepository) FindByID(_ context.Context, id uuid.UUID) (*entity.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.categories[id]
	if !ok {
		return nil, domainerror.ErrCategoryNotFound
	}
	return c, nil
}

func (r *fakeCategoryRepository) FindAll(_ context.Context) ([]*entity.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.Category, 0, len(r.categories))
	for _, c := range r.categories {
		out = append(out, c)
	}
	return out, nil
}

func (r *fakeCategoryRepository) Update(_ context.Context, category *entity.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.categories[category.ID] = category
	return nil
}

func (r *fakeCategoryRepository) CountMovements(_ context.Context, ids []uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	set := toSet(ids)
	var n int64
	for _, categoryID := range r.movements {
		if _, ok := set[categoryID]; ok {
			n++
		}
	}
	return n, nil
}

func (r *fakeCategoryRepository) DeleteCascade(_ context.Context, ids []uuid.UUID) (*adapter.CascadeResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	set := toSet(ids)
	result := &adapter.CascadeResult{}
	for movementID, categoryID := range r.movements {
		if _, ok := set[categoryID]; ok {
			delete(r.movements, movementID)
			result.MovementsDeleted++
		}
	}
	for id := range set {
		if _, ok := r.categories[id]; ok {
			delete(r.categories, id)
			result.CategoriesDeleted++
		}
	}
	r.deleted = append(r.deleted, ids)
	return result, nil
}

func (r *fakeCategoryRepository) addMovement(categoryID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.movements[uuid.New()] = categoryID
}

func toSet(ids []uuid.UUID) map[uuid.UUID]struct{} {
	set := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
