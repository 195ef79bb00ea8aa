package movement

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/rendiconti/backend/internal/application/adapter"
	"github.com/rendiconti/backend/internal/domain/entity"
	domainerror "github.com/rendiconti/backend/internal/domain/error"
)

// DeleteMovementInput represents the input for movement deletion.
type DeleteMovementInput struct {
	Actor      entity.Actor
	MovementID uuid.UUID
}

// DeleteMovementUseCase handles movement deletion logic.
type DeleteMovementUseCase struct {
	movementRepo  adapter.MovementRepository
	statementRepo adapter.StatementRepository
	locker        adapter.Locker
}

// NewDeleteMovementUseCase creates a new DeleteMovementUseCase instance.
func NewDeleteMovementUseCase(
	movementRepo adapter.MovementRepository,
	statementRepo adapter.StatementRepository,
	locker adapter.Locker,
) *DeleteMovementUseCase {
	return &DeleteMovementUseCase{
		movementRepo:  movementRepo,
		statementRepo: statementRepo,
		locker:        locker,
	}
}

// Execute performs the movement deletion.
func (uc *DeleteMovementUseCase) Execute(ctx context.Context, input DeleteMovementInput) error {
	movement, err := uc.movementRepo.FindByID(ctx, input.MovementID)
	if err != nil && !errors.Is(err, domainerror.ErrMovementNotFound) {
		return fmt.Errorf("failed to find movement: %w", err)
	}
	if movement == nil || movement.EntityID != input.Actor.EntityID {
		return domainerror.NewMovementError(
			domainerror.ErrCodeMovementNotFound,
			"movement not found",
			domainerror.ErrMovementNotFound,
		)
	}

	release, err := uc.locker.Acquire(ctx, adapter.LedgerLockKey(movement.EntityID))
	if err != nil {
		return fmt.Errorf("failed to lock ledger: %w", err)
	}
	defer release()

	if err := ensureUnlocked(ctx, uc.statementRepo, movement.EntityID, movement.Date); err != nil {
		return err
	}

	if err := uc.movementRepo.Delete(ctx, movement.ID); err != nil {
		return fmt.Errorf("failed to delete movement: %w", err)
	}
	return nil
}
