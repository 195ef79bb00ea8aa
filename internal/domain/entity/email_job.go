package entity

import (
	"time"

	"github.com/google/uuid"
)

// EmailStatus is the delivery state of a queued disposition email.
type EmailStatus string

const (
	EmailStatusPending    EmailStatus = "pending"
	EmailStatusProcessing EmailStatus = "processing"
	EmailStatusSent       EmailStatus = "sent"
	EmailStatusFailed     EmailStatus = "failed"
)

// EmailTemplateType names the template used to render a queued email.
type EmailTemplateType string

const (
	TemplateStatementApproved EmailTemplateType = "statement_approved"
	TemplateStatementRejected EmailTemplateType = "statement_rejected"
)

// DefaultEmailMaxAttempts bounds the deliveries tried for one job.
const DefaultEmailMaxAttempts = 3

// backoff is indexed by the number of attempts already made.
var backoff = [...]time.Duration{0, time.Minute, 5 * time.Minute}

// EmailJob is a disposition email waiting in the outbound queue.
type EmailJob struct {
	ID             uuid.UUID
	TemplateType   EmailTemplateType
	StatementID    *uuid.UUID
	RecipientEmail string
	Subject        string
	TemplateData   map[string]interface{}
	Status         EmailStatus
	Attempts       int
	MaxAttempts    int
	LastError      string
	ProviderID     string
	CreatedAt      time.Time
	ScheduledAt    time.Time
	ProcessedAt    *time.Time
}

// NewEmailJob queues a template for a recipient, due immediately at now.
func NewEmailJob(templateType EmailTemplateType, statementID *uuid.UUID, recipientEmail, subject string, data map[string]interface{}, now time.Time) *EmailJob {
	return &EmailJob{
		ID:             uuid.New(),
		TemplateType:   templateType,
		StatementID:    statementID,
		RecipientEmail: recipientEmail,
		Subject:        subject,
		TemplateData:   data,
		Status:         EmailStatusPending,
		MaxAttempts:    DefaultEmailMaxAttempts,
		CreatedAt:      now,
		ScheduledAt:    now,
	}
}

// IsDue reports whether a pending job may be delivered at now.
func (e *EmailJob) IsDue(now time.Time) bool {
	return e.Status == EmailStatusPending && !e.ScheduledAt.After(now)
}

// MarkSent records the delivery and the provider message id.
func (e *EmailJob) MarkSent(providerID string, at time.Time) {
	e.Status = EmailStatusSent
	e.ProviderID = providerID
	e.ProcessedAt = &at
}

// MarkFailed counts a failed attempt made at the given time. Permanent failures and
// exhausted jobs end as failed; the others return to pending after a backoff.
func (e *EmailJob) MarkFailed(err error, permanent bool, at time.Time) {
	e.Attempts++
	e.LastError = err.Error()

	if permanent || e.Attempts >= e.MaxAttempts {
		e.Status = EmailStatusFailed
		e.ProcessedAt = &at
		return
	}

	delay := backoff[len(backoff)-1]
	if e.Attempts < len(backoff) {
		delay = backoff[e.Attempts]
	}
	e.Status = EmailStatusPending
	e.ScheduledAt = at.Add(delay)
}
