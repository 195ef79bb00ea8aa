package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Locker serializes operations sharing a key across requests and processes.
type Locker interface {
	// Acquire blocks until the lock for key is held or ctx is done.
	// The returned function releases the lock.
	Acquire(ctx context.Context, key string) (release func(), err error)
}

// StatementLockKey guards every state change of one statement.
func StatementLockKey(statementID uuid.UUID) string {
	return "statement:" + statementID.String()
}

// StatementCreateLockKey guards draft creation for one entity.
func StatementCreateLockKey(entityID uuid.UUID) string {
	return "statement-create:" + entityID.String()
}

// LedgerLockKey guards movement writes of one entity against concurrent submissions.
func LedgerLockKey(entityID uuid.UUID) string {
	return "ledger:" + entityID.String()
}

// Clock provides the current time.
type Clock interface {
	Now() time.Time
}
