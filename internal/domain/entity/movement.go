package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Account is a cash or bank register owned by an entity (parish).
type Account struct {
	ID        uuid.UUID
	EntityID  uuid.UUID
	Name      string
	CreatedAt time.Time
}

// NewAccount creates a new Account.
func NewAccount(entityID uuid.UUID, name string) *Account {
	return &Account{
		ID:        uuid.New(),
		EntityID:  entityID,
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
}

// Movement is a single ledger entry. Amount is never negative; the sign is carried by Type.
type Movement struct {
	ID         uuid.UUID
	EntityID   uuid.UUID
	AccountID  uuid.UUID
	CategoryID *uuid.UUID
	Date       time.Time
	Type       MovementType
	Amount     decimal.Decimal
	Note       string
	CreatedAt  time.Time
}

// NewMovement creates a new Movement. Its UUIDv7 id sorts in creation order,
// which breaks ties between movements sharing a date and timestamp.
func NewMovement(
	entityID, accountID uuid.UUID,
	categoryID *uuid.UUID,
	date time.Time,
	movementType MovementType,
	amount decimal.Decimal,
	note string,
) *Movement {
	return &Movement{
		ID:         uuid.Must(uuid.NewV7()),
		EntityID:   entityID,
		AccountID:  accountID,
		CategoryID: categoryID,
		Date:       date,
		Type:       movementType,
		Amount:     amount,
		Note:       note,
		CreatedAt:  time.Now().UTC(),
	}
}

// SignedAmount returns the amount with income positive and expense negative.
func (m *Movement) SignedAmount() decimal.Decimal {
	if m.Type == MovementTypeExpense {
		return m.Amount.Neg()
	}
	return m.Amount
}
