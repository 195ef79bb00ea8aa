package adapter

import (
	"context"

	"github.com/rendiconti/backend/internal/domain/entity"
)

// DispositionNotifier relays approve/reject events to the statement owner.
type DispositionNotifier interface {
	NotifyDisposition(ctx context.Context, event entity.DispositionEvent) error
}
