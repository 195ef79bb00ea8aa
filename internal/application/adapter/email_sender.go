package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// SendEmailInput represents the input for sending an email.
type SendEmailInput struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// SendEmailResult represents the result of sending an email.
type SendEmailResult struct {
	ProviderID string
}

// EmailSender defines the interface for sending emails via an external provider.
type EmailSender interface {
	Send(ctx context.Context, input SendEmailInput) (*SendEmailResult, error)
}

// EmailService defines the interface for queueing disposition emails.
type EmailService interface {
	// QueueStatementApprovedEmail queues the approval notice for the statement owner.
	QueueStatementApprovedEmail(ctx context.Context, input QueueDispositionEmailInput) error

	// QueueStatementRejectedEmail queues the rejection notice, reason included.
	QueueStatementRejectedEmail(ctx context.Context, input QueueDispositionEmailInput) error
}

// QueueDispositionEmailInput represents the data shown in a disposition email.
type QueueDispositionEmailInput struct {
	StatementID    uuid.UUID
	RecipientEmail string
	PeriodStart    time.Time
	PeriodEnd      time.Time
	DecidedAt      time.Time
	Reason         string
	StatementURL   string
}
