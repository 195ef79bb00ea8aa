package statement

import (
	"context"
	"errors"
	"fmt"

	"github.com/rendiconti/backend/internal/application/adapter"
	"github.com/rendiconti/backend/internal/domain/entity"
	domainerror "github.com/rendiconti/backend/internal/domain/error"
)

// DeleteStatementUseCase removes a draft or rejected statement with its files.
type DeleteStatementUseCase struct {
	statementRepo adapter.StatementRepository
	storage       adapter.DocumentStorage
	locker        adapter.Locker
}

// NewDeleteStatementUseCase creates a new DeleteStatementUseCase instance.
func NewDeleteStatementUseCase(
	statementRepo adapter.StatementRepository,
	storage adapter.DocumentStorage,
	locker adapter.Locker,
) *DeleteStatementUseCase {
	return &DeleteStatementUseCase{
		statementRepo: statementRepo,
		storage:       storage,
		locker:        locker,
	}
}

// Execute performs the deletion.
func (uc *DeleteStatementUseCase) Execute(ctx context.Context, input GetStatementInput) error {
	if _, err := findOwnStatement(ctx, uc.statementRepo, input.Actor, input.StatementID); err != nil {
		return err
	}

	statement, release, err := lockStatement(ctx, uc.locker, uc.statementRepo, input.StatementID)
	if err != nil {
		return err
	}
	defer release()

	if !statement.CanBeDeleted() {
		return invalidTransition(statement, "delete")
	}

	keys, err := uc.statementRepo.Delete(ctx, statement.ID, entity.DeletableStates)
	if err != nil {
		switch {
		case errors.Is(err, domainerror.ErrInvalidTransition):
			return invalidTransition(statement, "delete")
		case errors.Is(err, domainerror.ErrStatementNotFound):
			return statementNotFound(statement.ID)
		}
		return fmt.Errorf("failed to delete statement: %w", err)
	}

	discard(ctx, uc.storage, keys...)
	return nil
}
