// Package statement contains the Rendiconto workflow use cases.
package statement

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rendiconti/backend/internal/application/adapter"
	"github.com/rendiconti/backend/internal/domain/entity"
	domainerror "github.com/rendiconti/backend/internal/domain/error"
	"github.com/rendiconti/backend/internal/domain/valueobject"
)

// TotalsCalculator computes the income and expense of an entity over a period.
type TotalsCalculator interface {
	Totals(ctx context.Context, entityID uuid.UUID, period valueobject.DateRange) (income, expense decimal.Decimal, err error)
}

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

func statementNotFound(id uuid.UUID) error {
	return domainerror.NewStatementError(
		domainerror.ErrCodeStatementNotFound,
		fmt.Sprintf("statement %s not found", id),
		domainerror.ErrStatementNotFound,
	)
}

func invalidTransition(s *entity.Statement, operation string) error {
	return domainerror.NewStatementError(
		domainerror.ErrCodeInvalidTransition,
		fmt.Sprintf("cannot %s a statement in state '%s'", operation, s.State),
		domainerror.ErrInvalidTransition,
	).WithDetails(string(s.State))
}

func notReviewer() error {
	return domainerror.NewStatementError(
		domainerror.ErrCodeNotReviewer,
		"only reviewers can record dispositions",
		domainerror.ErrNotReviewer,
	)
}

func storageFailure(err error) error {
	return domainerror.NewStatementError(
		domainerror.ErrCodeStorageFailure,
		"document storage is unavailable",
		fmt.Errorf("%w: %w", domainerror.ErrStorageFailure, err),
	)
}

// findStatement loads a statement visible to the actor: reviewers see every
// statement, operators only those of their own entity.
func findStatement(ctx context.Context, repo adapter.StatementRepository, actor entity.Actor, id uuid.UUID) (*entity.Statement, error) {
	s, err := repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domainerror.ErrStatementNotFound) {
			return nil, statementNotFound(id)
		}
		return nil, fmt.Errorf("failed to find statement: %w", err)
	}
	if !actor.CanAccessEntity(s.EntityID) {
		return nil, statementNotFound(id)
	}
	return s, nil
}

// findOwnStatement loads a statement the actor's entity owns.
func findOwnStatement(ctx context.Context, repo adapter.StatementRepository, actor entity.Actor, id uuid.UUID) (*entity.Statement, error) {
	s, err := findStatement(ctx, repo, actor, id)
	if err != nil {
		return nil, err
	}
	if s.EntityID != actor.EntityID {
		return nil, statementNotFound(id)
	}
	return s, nil
}

// lockStatement acquires the per-statement lock and re-reads the row under it,
// so the caller observes the state left by any operation that held the lock before.
func lockStatement(
	ctx context.Context,
	locker adapter.Locker,
	repo adapter.StatementRepository,
	id uuid.UUID,
) (*entity.Statement, func(), error) {
	release, err := locker.Acquire(ctx, adapter.StatementLockKey(id))
	if err != nil {
		return nil, nil, domainerror.NewStatementError(
			domainerror.ErrCodeStatementBusy,
			"statement is being modified, retry later",
			fmt.Errorf("%w: %w", domainerror.ErrStatementBusy, err),
		)
	}
	s, err := repo.FindByID(ctx, id)
	if err != nil {
		release()
		if errors.Is(err, domainerror.ErrStatementNotFound) {
			return nil, nil, statementNotFound(id)
		}
		return nil, nil, fmt.Errorf("failed to reload statement: %w", err)
	}
	return s, release, nil
}

// applyTransition persists a guarded transition, turning a lost race into InvalidTransition.
func applyTransition(ctx context.Context, repo adapter.StatementRepository, cmd adapter.StatementTransitionCommand, operation string) error {
	err := repo.ApplyTransition(ctx, cmd)
	if err == nil {
		return nil
	}
	if errors.Is(err, domainerror.ErrInvalidTransition) {
		return domainerror.NewStatementError(
			domainerror.ErrCodeInvalidTransition,
			fmt.Sprintf("cannot %s: the statement changed state concurrently", operation),
			domainerror.ErrInvalidTransition,
		)
	}
	return fmt.Errorf("failed to %s statement: %w", operation, err)
}

// storageKey builds the object key of an uploaded file.
func storageKey(statementID uuid.UUID, folder, fileName string) string {
	name := unsafeFileChars.ReplaceAllString(path.Base(strings.ReplaceAll(fileName, "\\", "/")), "_")
	if name == "" || name == "." || name == "/" {
		name = "file"
	}
	return path.Join("statements", statementID.String(), folder, uuid.NewString()+"-"+name)
}

// discard removes stored objects whose rows no longer reference them.
func discard(ctx context.Context, storage adapter.DocumentStorage, keys ...string) {
	for _, key := range keys {
		if key == "" {
			continue
		}
		if err := storage.Delete(ctx, key); err != nil {
			slog.WarnContext(ctx, "failed to delete stored object", "key", key, "error", err)
		}
	}
}

// MaxNoteLength bounds the free text of notes and observations.
const MaxNoteLength = 2000

// noteTooLong reports free text over MaxNoteLength.
func noteTooLong(field string) *domainerror.StatementError {
	return domainerror.NewStatementError(
		domainerror.ErrCodeNoteTooLong,
		fmt.Sprintf("%s must be at most %d characters", field, MaxNoteLength),
		domainerror.ErrNoteTooLong,
	)
}
