package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/rendiconti/backend/internal/domain/entity"
	"github.com/rendiconti/backend/internal/domain/valueobject"
)

// LedgerQuery selects movements of one entity.
// Empty AccountIDs or CategoryIDs mean no restriction; Types must not be empty.
type LedgerQuery struct {
	EntityID    uuid.UUID
	Period      valueobject.DateRange
	AccountIDs  []uuid.UUID
	CategoryIDs []uuid.UUID
	Types       []entity.MovementType
}

// MovementLedger is the read-only view of movements consumed by reports.
type MovementLedger interface {
	// Query returns the matching movements ordered by date, then insertion.
	Query(ctx context.Context, query LedgerQuery) ([]*entity.Movement, error)
}

// MovementRepository defines the interface for movement persistence operations.
type MovementRepository interface {
	MovementLedger

	// Create creates a new movement in the database.
	Create(ctx context.Context, movement *entity.Movement) error

	// FindByID retrieves a movement by its ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Movement, error)

	// Delete removes a movement from the database.
	Delete(ctx context.Context, id uuid.UUID) error
}

// AccountRepository defines the interface for account persistence operations.
type AccountRepository interface {
	// Create creates a new account in the database.
	Create(ctx context.Context, account *entity.Account) error

	// FindByID retrieves an account by its ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Account, error)

	// FindByEntity retrieves all accounts of an entity ordered by name.
	FindByEntity(ctx context.Context, entityID uuid.UUID) ([]*entity.Account, error)
}
