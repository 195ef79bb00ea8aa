// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// MovementType tags a movement or a category as income or expense.
type MovementType string

const (
	MovementTypeIncome  MovementType = "entrata"
	MovementTypeExpense MovementType = "uscita"
)

// IsValid reports whether t is entrata or uscita.
func (t MovementType) IsValid() bool {
	return t == MovementTypeIncome || t == MovementTypeExpense
}

// CategoryLevel is the depth of a node in the category chart.
type CategoryLevel int

const (
	LevelCategory      CategoryLevel = 1
	LevelSubcategory   CategoryLevel = 2
	LevelMicrocategory CategoryLevel = 3

	// MaxCategoryLevel is the deepest level a node may have.
	MaxCategoryLevel = LevelMicrocategory
)

// Label returns the Italian name of the level.
func (l CategoryLevel) Label() string {
	switch l {
	case LevelCategory:
		return "Categoria"
	case LevelSubcategory:
		return "Sottocategoria"
	case LevelMicrocategory:
		return "Microcategoria"
	default:
		return ""
	}
}

// Category is a node of the three-level chart used to tag movements.
// ParentID and Level are fixed at creation; Type is inherited from the root.
type Category struct {
	ID        uuid.UUID
	Name      string
	Code      string
	ParentID  *uuid.UUID
	Level     CategoryLevel
	Type      MovementType
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewRootCategory creates a level-1 category.
func NewRootCategory(name, code string, movementType MovementType) *Category {
	now := time.Now().UTC()

	return &Category{
		ID:        uuid.New(),
		Name:      name,
		Code:      code,
		Level:     LevelCategory,
		Type:      movementType,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NewChildCategory creates a node one level below parent, inheriting its type.
// Callers must check parent.CanHaveChildren first.
func NewChildCategory(name, code string, parent *Category) *Category {
	now := time.Now().UTC()
	parentID := parent.ID

	return &Category{
		ID:        uuid.New(),
		Name:      name,
		Code:      code,
		ParentID:  &parentID,
		Level:     parent.Level + 1,
		Type:      parent.Type,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsRoot reports whether the category is level 1.
func (c *Category) IsRoot() bool {
	return c.ParentID == nil
}

// CanHaveChildren reports whether a child may be attached below c.
func (c *Category) CanHaveChildren() bool {
	return c.Level < MaxCategoryLevel
}

// Rename changes the display name.
func (c *Category) Rename(name string) {
	c.Name = name
	c.UpdatedAt = time.Now().UTC()
}
