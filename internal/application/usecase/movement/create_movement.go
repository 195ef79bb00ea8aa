// Package movement contains ledger movement use cases.
package movement

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rendiconti/backend/internal/application/adapter"
	"github.com/rendiconti/backend/internal/domain/entity"
	domainerror "github.com/rendiconti/backend/internal/domain/error"
	"github.com/rendiconti/backend/internal/domain/valueobject"
)

// MaxNoteLength is the maximum allowed length for movement notes.
const MaxNoteLength = 500

// CreateMovementInput represents the input for movement creation.
type CreateMovementInput struct {
	Actor      entity.Actor
	AccountID  uuid.UUID
	CategoryID *uuid.UUID
	Date       time.Time
	Type       entity.MovementType
	Amount     decimal.Decimal
	Note       string
}

// CreateMovementOutput represents the output of movement creation.
type CreateMovementOutput struct {
	Movement *entity.Movement
}

// CreateMovementUseCase records a movement in the ledger of the actor's entity.
type CreateMovementUseCase struct {
	movementRepo  adapter.MovementRepository
	accountRepo   adapter.AccountRepository
	categoryRepo  adapter.CategoryRepository
	statementRepo adapter.StatementRepository
	locker        adapter.Locker
}

// NewCreateMovementUseCase creates a new CreateMovementUseCase instance.
func NewCreateMovementUseCase(
	movementRepo adapter.MovementRepository,
	accountRepo adapter.AccountRepository,
	categoryRepo adapter.CategoryRepository,
	statementRepo adapter.StatementRepository,
	locker adapter.Locker,
) *CreateMovementUseCase {
	return &CreateMovementUseCase{
		movementRepo:  movementRepo,
		accountRepo:   accountRepo,
		categoryRepo:  categoryRepo,
		statementRepo: statementRepo,
		locker:        locker,
	}
}

// Execute performs the movement creation.
func (uc *CreateMovementUseCase) Execute(ctx context.Context, input CreateMovementInput) (*CreateMovementOutput, error) {
	if !input.Type.IsValid() {
		return nil, domainerror.NewMovementError(
			domainerror.ErrCodeInvalidMovementType,
			"movement type must be 'entrata' or 'uscita'",
			domainerror.ErrInvalidMovementType,
		)
	}
	if input.Amount.IsNegative() {
		return nil, domainerror.NewMovementError(
			domainerror.ErrCodeInvalidAmount,
			"amount must not be negative",
			domainerror.ErrInvalidAmount,
		)
	}
	if input.Date.IsZero() {
		return nil, domainerror.NewMovementError(
			domainerror.ErrCodeMissingMovementFields,
			"movement date is required",
			domainerror.ErrInvalidMovementFields,
		)
	}
	if utf8.RuneCountInString(input.Note) > MaxNoteLength {
		return nil, domainerror.NewMovementError(
			domainerror.ErrCodeMissingMovementFields,
			fmt.Sprintf("note must not exceed %d characters", MaxNoteLength),
			domainerror.ErrInvalidMovementFields,
		)
	}

	entityID := input.Actor.EntityID

	account, err := uc.accountRepo.FindByID(ctx, input.AccountID)
	if err != nil && !errors.Is(err, domainerror.ErrAccountNotFound) {
		return nil, fmt.Errorf("failed to find account: %w", err)
	}
	if account == nil || account.EntityID != entityID {
		return nil, domainerror.NewMovementError(
			domainerror.ErrCodeAccountNotFound,
			"account not found",
			domainerror.ErrAccountNotFound,
		)
	}

	if input.CategoryID != nil {
		category, err := uc.categoryRepo.FindByID(ctx, *input.CategoryID)
		if err != nil {
			if errors.Is(err, domainerror.ErrCategoryNotFound) {
				return nil, domainerror.NewMovementError(
					domainerror.ErrCodeMovementCategoryAbsent,
					"category not found",
					domainerror.ErrCategoryNotFound,
				)
			}
			return nil, fmt.Errorf("failed to find category: %w", err)
		}
		if category.Type != input.Type {
			return nil, domainerror.NewMovementError(
				domainerror.ErrCodeCategoryTypeMismatch,
				fmt.Sprintf("category '%s' only accepts '%s' movements", category.Name, category.Type),
				domainerror.ErrCategoryTypeMismatch,
			)
		}
	}

	release, err := uc.locker.Acquire(ctx, adapter.LedgerLockKey(entityID))
	if err != nil {
		return nil, fmt.Errorf("failed to lock ledger: %w", err)
	}
	defer release()

	date := valueobject.DateOf(input.Date)
	if err := ensureUnlocked(ctx, uc.statementRepo, entityID, date); err != nil {
		return nil, err
	}

	movement := entity.NewMovement(entityID, account.ID, input.CategoryID, date, input.Type, input.Amount, input.Note)
	if err := uc.movementRepo.Create(ctx, movement); err != nil {
		return nil, fmt.Errorf("failed to create movement: %w", err)
	}

	return &CreateMovementOutput{
		Movement: movement,
	}, nil
}

// ensureUnlocked fails with PeriodLocked when date is frozen by a statement.
func ensureUnlocked(ctx context.Context, repo adapter.StatementRepository, entityID uuid.UUID, date time.Time) error {
	locked, err := repo.HasLockingStatement(ctx, entityID, date)
	if err != nil {
		return fmt.Errorf("failed to check statement lock: %w", err)
	}
	if locked {
		return domainerror.NewMovementError(
			domainerror.ErrCodePeriodLocked,
			fmt.Sprintf("%s falls inside a submitted or approved statement", date.Format(valueobject.ItalianDateLayout)),
			domainerror.ErrPeriodLocked,
		)
	}
	return nil
}
