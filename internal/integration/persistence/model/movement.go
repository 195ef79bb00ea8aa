package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rendiconti/backend/internal/domain/entity"
)

// AccountModel represents the accounts table in the database.
type AccountModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	EntityID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Name      string    `gorm:"type:varchar(100);not null"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for the AccountModel.
func (AccountModel) TableName() string {
	return "accounts"
}

// ToEntity converts an AccountModel to a domain Account entity.
func (m *AccountModel) ToEntity() *entity.Account {
	return &entity.Account{
		ID:        m.ID,
		EntityID:  m.EntityID,
		Name:      m.Name,
		CreatedAt: m.CreatedAt,
	}
}

// AccountFromEntity creates an AccountModel from a domain Account entity.
func AccountFromEntity(account *entity.Account) *AccountModel {
	return &AccountModel{
		ID:        account.ID,
		EntityID:  account.EntityID,
		Name:      account.Name,
		CreatedAt: account.CreatedAt,
	}
}

// MovementModel represents the movements table in the database.
type MovementModel struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey"`
	EntityID   uuid.UUID       `gorm:"type:uuid;not null;index:idx_movements_entity_date,priority:1"`
	AccountID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	CategoryID *uuid.UUID      `gorm:"type:uuid;index"`
	Date       time.Time       `gorm:"type:date;not null;index:idx_movements_entity_date,priority:2"`
	Type       string          `gorm:"type:varchar(10);not null"`
	Amount     decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	Note       string          `gorm:"type:varchar(500)"`
	CreatedAt  time.Time       `gorm:"not null"`
}

// TableName returns the table name for the MovementModel.
func (MovementModel) TableName() string {
	return "movements"
}

// ToEntity converts a MovementModel to a domain Movement entity.
func (m *MovementModel) ToEntity() *entity.Movement {
	return &entity.Movement{
		ID:         m.ID,
		EntityID:   m.EntityID,
		AccountID:  m.AccountID,
		CategoryID: m.CategoryID,
		Date:       m.Date.UTC(),
		Type:       entity.MovementType(m.Type),
		Amount:     m.Amount,
		Note:       m.Note,
		CreatedAt:  m.CreatedAt,
	}
}

// MovementFromEntity creates a MovementModel from a domain Movement entity.
func MovementFromEntity(movement *entity.Movement) *MovementModel {
	return &MovementModel{
		ID:         movement.ID,
		EntityID:   movement.EntityID,
		AccountID:  movement.AccountID,
		CategoryID: movement.CategoryID,
		Date:       movement.Date,
		Type:       string(movement.Type),
		Amount:     movement.Amount,
		Note:       movement.Note,
		CreatedAt:  movement.CreatedAt,
	}
}
