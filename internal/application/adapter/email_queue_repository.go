package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/rendiconti/backend/internal/domain/entity"
)

// EmailQueueRepository is the outbound queue of disposition emails.
type EmailQueueRepository interface {
	Enqueue(ctx context.Context, job *entity.EmailJob) error

	// ClaimDue moves up to limit pending jobs scheduled at or before now to processing
	// and returns them. A job is handed to a single caller even with several workers.
	ClaimDue(ctx context.Context, now time.Time, limit int) ([]*entity.EmailJob, error)

	// Save stores the outcome of a delivery attempt.
	Save(ctx context.Context, job *entity.EmailJob) error

	ListForStatement(ctx context.Context, statementID uuid.UUID) ([]*entity.EmailJob, error)

	// PurgeDelivered removes sent jobs processed before the cutoff.
	PurgeDelivered(ctx context.Context, before time.Time) (int64, error)
}
