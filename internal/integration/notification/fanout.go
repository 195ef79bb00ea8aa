package notification

import (
	"context"
	"errors"

	"github.com/rendiconti/backend/internal/application/adapter"
	"github.com/rendiconti/backend/internal/domain/entity"
)

// FanOut delivers each event to every notifier, even when earlier ones fail.
type FanOut struct {
	notifiers []adapter.DispositionNotifier
}

// NewFanOut skips nil notifiers.
func NewFanOut(notifiers ...adapter.DispositionNotifier) *FanOut {
	f := &FanOut{}
	for _, n := range notifiers {
		if n != nil {
			f.notifiers = append(f.notifiers, n)
		}
	}
	return f
}

// NotifyDisposition returns the joined errors of all notifiers.
func (f *FanOut) NotifyDisposition(ctx context.Context, event entity.DispositionEvent) error {
	var errs []error
	for _, n := range f.notifiers {
		if err := n.NotifyDisposition(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

var _ adapter.DispositionNotifier = (*FanOut)(nil)
