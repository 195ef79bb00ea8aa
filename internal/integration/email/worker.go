package email

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/rendiconti/backend/internal/application/adapter"
	"github.com/rendiconti/backend/internal/domain/entity"
	domainerror "github.com/rendiconti/backend/internal/domain/error"
	"github.com/rendiconti/backend/internal/integration/email/templates"
)

// Worker drains the email queue and hands rendered disposition emails to the sender.
type Worker struct {
	queue         adapter.EmailQueueRepository
	sender        adapter.EmailSender
	renderer      *templates.Renderer
	clock         adapter.Clock
	pollInterval  time.Duration
	batchSize     int
	retentionDays int
	logger        *slog.Logger
}

// WorkerConfig holds configuration for the email worker.
type WorkerConfig struct {
	PollInterval time.Duration
	BatchSize    int
	// RetentionDays removes sent jobs older than this on every sweep. Zero keeps them.
	RetentionDays int
}

// DefaultWorkerConfig returns the default worker configuration.
func DefaultWorkerConfig() WorkerConfig {
	return WorkerConfig{
		PollInterval:  5 * time.Second,
		BatchSize:     10,
		RetentionDays: 30,
	}
}

// NewWorker creates a new email worker.
func NewWorker(queue adapter.EmailQueueRepository, sender adapter.EmailSender, renderer *templates.Renderer, clock adapter.Clock, config WorkerConfig) *Worker {
	if config.PollInterval <= 0 {
		config.PollInterval = DefaultWorkerConfig().PollInterval
	}
	if config.BatchSize <= 0 {
		config.BatchSize = DefaultWorkerConfig().BatchSize
	}
	return &Worker{
		queue:         queue,
		sender:        sender,
		renderer:      renderer,
		clock:         clock,
		pollInterval:  config.PollInterval,
		batchSize:     config.BatchSize,
		retentionDays: config.RetentionDays,
		logger:        slog.With("component", "email_worker"),
	}
}

// Run polls the queue until ctx is cancelled. It returns nil on cancellation.
func (w *Worker) Run(ctx context.Context) error {
	w.logger.Info("Email worker started",
		"poll_interval", w.pollInterval,
		"batch_size", w.batchSize,
	)

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	sweep := time.NewTicker(time.Hour)
	defer sweep.Stop()

	w.processBatch(ctx)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Email worker shutting down")
			return nil
		case <-ticker.C:
			w.processBatch(ctx)
		case <-sweep.C:
			w.purgeSent(ctx)
		}
	}
}

// ProcessNow processes one batch synchronously.
func (w *Worker) ProcessNow(ctx context.Context) {
	w.processBatch(ctx)
}

func (w *Worker) processBatch(ctx context.Context) {
	jobs, err := w.queue.ClaimDue(ctx, w.clock.Now(), w.batchSize)
	if err != nil {
		w.logger.Error("Failed to claim due email jobs", "error", err)
		return
	}

	if len(jobs) == 0 {
		return
	}

	w.logger.Debug("Processing email batch", "count", len(jobs))

	for _, job := range jobs {
		if ctx.Err() != nil {
			return
		}
		w.processJob(ctx, job)
	}
}

func (w *Worker) processJob(ctx context.Context, job *entity.EmailJob) {
	logger := w.logger.With(
		"job_id", job.ID,
		"template", job.TemplateType,
		"statement_id", job.StatementID,
	)

	html, text, err := w.renderTemplate(job)
	if err != nil {
		logger.Error("Failed to render email template", "error", err)
		w.handleFailure(ctx, logger, job, err, true)
		return
	}

	result, err := w.sender.Send(ctx, adapter.SendEmailInput{
		To:      job.RecipientEmail,
		Subject: job.Subject,
		HTML:    html,
		Text:    text,
	})
	if err != nil {
		logger.Error("Failed to send email", "error", err)
		w.handleFailure(ctx, logger, job, err, isPermanent(err))
		return
	}

	job.MarkSent(result.ProviderID, w.clock.Now())
	if err := w.queue.Save(ctx, job); err != nil {
		logger.Error("Failed to mark job as sent", "error", err)
		return
	}

	logger.Info("Email sent", "provider_id", result.ProviderID)
}

func (w *Worker) renderTemplate(job *entity.EmailJob) (html string, text string, err error) {
	switch job.TemplateType {
	case entity.TemplateStatementApproved, entity.TemplateStatementRejected:
		data := templates.StatementDispositionData{
			PeriodStart:  getString(job.TemplateData, "period_start"),
			PeriodEnd:    getString(job.TemplateData, "period_end"),
			DecidedAt:    getString(job.TemplateData, "decided_at"),
			Reason:       getString(job.TemplateData, "reason"),
			StatementURL: getString(job.TemplateData, "statement_url"),
		}
		html, text, err = w.renderer.Render(string(job.TemplateType), data)
		if err != nil {
			return "", "", domainerror.NewEmailError(
				domainerror.ErrCodeTemplateRenderFailed,
				"failed to render disposition email",
				err,
			)
		}
		return html, text, nil
	default:
		return "", "", domainerror.NewEmailError(
			domainerror.ErrCodeInvalidTemplate,
			"unknown template type",
			domainerror.ErrInvalidTemplate,
		)
	}
}

func (w *Worker) handleFailure(ctx context.Context, logger *slog.Logger, job *entity.EmailJob, err error, permanent bool) {
	job.MarkFailed(err, permanent, w.clock.Now())

	if updateErr := w.queue.Save(ctx, job); updateErr != nil {
		logger.Error("Failed to update job after failure", "error", updateErr)
	}

	if job.Status == entity.EmailStatusFailed {
		logger.Warn("Email job permanently failed",
			"attempts", job.Attempts,
			"last_error", job.LastError,
		)
		return
	}
	logger.Info("Email job scheduled for retry",
		"attempts", job.Attempts,
		"scheduled_at", job.ScheduledAt,
	)
}

func (w *Worker) purgeSent(ctx context.Context) {
	if w.retentionDays <= 0 {
		return
	}
	cutoff := w.clock.Now().AddDate(0, 0, -w.retentionDays)
	removed, err := w.queue.PurgeDelivered(ctx, cutoff)
	if err != nil {
		w.logger.Error("Failed to purge sent email jobs", "error", err)
		return
	}
	if removed > 0 {
		w.logger.Info("Purged sent email jobs", "count", removed)
	}
}

func isPermanent(err error) bool {
	var emailErr *domainerror.EmailError
	return errors.As(err, &emailErr) && emailErr.Code == domainerror.ErrCodePermanentEmailFailure
}

func getString(data map[string]interface{}, key string) string {
	if v, ok := data[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
