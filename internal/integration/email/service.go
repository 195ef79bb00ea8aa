// Package email queues and delivers statement disposition emails.
package email

import (
	"context"
	"fmt"
	"strings"

	"github.com/rendiconti/backend/internal/application/adapter"
	"github.com/rendiconti/backend/internal/domain/entity"
	domainerror "github.com/rendiconti/backend/internal/domain/error"
)

const dateLayout = "02/01/2006"

// Service handles email queueing operations.
type Service struct {
	queue      adapter.EmailQueueRepository
	clock      adapter.Clock
	appBaseURL string
}

// NewService creates a new email service. Jobs are scheduled at the clock's time.
func NewService(queue adapter.EmailQueueRepository, clock adapter.Clock, appBaseURL string) *Service {
	return &Service{
		queue:      queue,
		clock:      clock,
		appBaseURL: strings.TrimRight(appBaseURL, "/"),
	}
}

// QueueStatementApprovedEmail queues the approval notice for the statement owner.
func (s *Service) QueueStatementApprovedEmail(ctx context.Context, input adapter.QueueDispositionEmailInput) error {
	subject := fmt.Sprintf("Rendiconto %s approvato", periodLabel(input))
	return s.enqueue(ctx, entity.TemplateStatementApproved, subject, input)
}

// QueueStatementRejectedEmail queues the rejection notice, reason included.
func (s *Service) QueueStatementRejectedEmail(ctx context.Context, input adapter.QueueDispositionEmailInput) error {
	subject := fmt.Sprintf("Rendiconto %s respinto", periodLabel(input))
	return s.enqueue(ctx, entity.TemplateStatementRejected, subject, input)
}

func (s *Service) enqueue(ctx context.Context, template entity.EmailTemplateType, subject string, input adapter.QueueDispositionEmailInput) error {
	if strings.TrimSpace(input.RecipientEmail) == "" {
		return domainerror.NewEmailError(
			domainerror.ErrCodeMissingRecipient,
			"statement owner has no email address",
			domainerror.ErrMissingRecipient,
		)
	}

	statementURL := input.StatementURL
	if statementURL == "" && s.appBaseURL != "" {
		statementURL = fmt.Sprintf("%s/statements/%s", s.appBaseURL, input.StatementID)
	}

	templateData := map[string]interface{}{
		"period_start":  input.PeriodStart.Format(dateLayout),
		"period_end":    input.PeriodEnd.Format(dateLayout),
		"decided_at":    input.DecidedAt.Format(dateLayout),
		"reason":        input.Reason,
		"statement_url": statementURL,
	}

	statementID := input.StatementID
	job := entity.NewEmailJob(template, &statementID, input.RecipientEmail, subject, templateData, s.clock.Now())

	if err := s.queue.Enqueue(ctx, job); err != nil {
		return domainerror.NewEmailError(
			domainerror.ErrCodeEmailQueueFailed,
			fmt.Sprintf("failed to queue %s email", template),
			err,
		)
	}

	return nil
}

func periodLabel(input adapter.QueueDispositionEmailInput) string {
	return input.PeriodStart.Format(dateLayout) + " - " + input.PeriodEnd.Format(dateLayout)
}

// Ensure Service implements adapter.EmailService.
var _ adapter.EmailService = (*Service)(nil)
