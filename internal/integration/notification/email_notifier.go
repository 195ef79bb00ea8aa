package notification

import (
	"context"
	"fmt"

	"github.com/rendiconti/backend/internal/application/adapter"
	"github.com/rendiconti/backend/internal/domain/entity"
)

// EmailNotifier queues the disposition email for the statement owner.
type EmailNotifier struct {
	emails adapter.EmailService
}

// NewEmailNotifier creates a notifier backed by the email queue.
func NewEmailNotifier(emails adapter.EmailService) *EmailNotifier {
	return &EmailNotifier{emails: emails}
}

// NotifyDisposition queues the approved or rejected template.
func (n *EmailNotifier) NotifyDisposition(ctx context.Context, event entity.DispositionEvent) error {
	input := adapter.QueueDispositionEmailInput{
		StatementID:    event.StatementID,
		RecipientEmail: event.OwnerEmail,
		PeriodStart:    event.Period.Start,
		PeriodEnd:      event.Period.End,
		DecidedAt:      event.OccurredAt,
		Reason:         event.Reason,
	}

	switch event.State {
	case entity.StatementStateApproved:
		return n.emails.QueueStatementApprovedEmail(ctx, input)
	case entity.StatementStateRejected:
		return n.emails.QueueStatementRejectedEmail(ctx, input)
	default:
		return fmt.Errorf("no disposition email for state %q", event.State)
	}
}

var _ adapter.DispositionNotifier = (*EmailNotifier)(nil)
