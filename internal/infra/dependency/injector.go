// Package dependency provides dependency injection for the application.
package dependency

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/rendiconti/backend/config"
	"github.com/rendiconti/backend/internal/application/adapter"
	"github.com/rendiconti/backend/internal/application/usecase/account"
	"github.com/rendiconti/backend/internal/application/usecase/category"
	"github.com/rendiconti/backend/internal/application/usecase/movement"
	"github.com/rendiconti/backend/internal/application/usecase/period"
	"github.com/rendiconti/backend/internal/application/usecase/report"
	"github.com/rendiconti/backend/internal/application/usecase/statement"
	"github.com/rendiconti/backend/internal/infra/server/router"
	"github.com/rendiconti/backend/internal/integration/adapters"
	"github.com/rendiconti/backend/internal/integration/email"
	"github.com/rendiconti/backend/internal/integration/email/templates"
	"github.com/rendiconti/backend/internal/integration/entrypoint/controller"
	"github.com/rendiconti/backend/internal/integration/entrypoint/middleware"
	"github.com/rendiconti/backend/internal/integration/lock"
	"github.com/rendiconti/backend/internal/integration/notification"
	"github.com/rendiconti/backend/internal/integration/persistence"
	"github.com/rendiconti/backend/internal/integration/storage"
)

// Options carries the optional collaborators of the injector.
type Options struct {
	// Redis enables distributed locks; nil selects process-local locks.
	Redis *redis.Client
	// Clock overrides the wall clock.
	Clock adapter.Clock
	// EmailSender overrides the Resend client.
	EmailSender adapter.EmailSender
}

// Injector holds all application dependencies.
type Injector struct {
	Config       *config.Config
	DB           *gorm.DB
	Router       *router.Router
	TokenService adapter.TokenService
	// EmailWorker is nil when the worker is disabled or no sender is configured.
	EmailWorker *email.Worker

	clock   adapter.Clock
	closers []func() error
}

// NewInjector creates a new dependency injector with all dependencies wired.
func NewInjector(ctx context.Context, cfg *config.Config, db *gorm.DB, opts Options) (*Injector, error) {
	inj := &Injector{
		Config: cfg,
		DB:     db,
	}

	clock := opts.Clock
	if clock == nil {
		clock = adapters.NewSystemClock()
	}
	inj.clock = clock

	location, err := time.LoadLocation(cfg.Reporting.Location)
	if err != nil {
		slog.Warn("Unknown reporting location, using UTC", "location", cfg.Reporting.Location, "error", err)
		location = time.UTC
	}

	// Create repositories
	categoryRepo := persistence.NewCategoryRepository(db)
	accountRepo := persistence.NewAccountRepository(db)
	movementRepo := persistence.NewMovementRepository(db)
	statementRepo := persistence.NewStatementRepository(db)
	documentRepo := persistence.NewStatementDocumentRepository(db)
	emailQueueRepo := persistence.NewEmailQueueRepository(db)

	// Create adapters/services
	tokenService := adapters.NewTokenService(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.AccessTokenExpiry)
	inj.TokenService = tokenService

	var locker adapter.Locker
	if opts.Redis != nil {
		locker = lock.NewRedisLocker(opts.Redis, cfg.Redis.LockTTL, cfg.Redis.LockWait)
	} else {
		slog.Warn("Redis not configured, using process-local locks")
		locker = lock.NewLocalLocker(cfg.Redis.LockWait)
	}

	documentStorage, err := inj.newStorage(ctx, cfg.Storage)
	if err != nil {
		inj.Close()
		return nil, err
	}

	notifier, err := inj.newNotifier(cfg, emailQueueRepo)
	if err != nil {
		inj.Close()
		return nil, err
	}

	if err := inj.newEmailWorker(cfg.Email, emailQueueRepo, opts.EmailSender); err != nil {
		inj.Close()
		return nil, err
	}

	// Create category use cases
	listCategoriesUseCase := category.NewListCategoriesUseCase(categoryRepo)
	createCategoryUseCase := category.NewCreateCategoryUseCase(categoryRepo)
	updateCategoryUseCase := category.NewUpdateCategoryUseCase(categoryRepo)
	deleteCategoryUseCase := category.NewDeleteCategoryUseCase(categoryRepo)
	deletionImpactUseCase := category.NewGetDeletionImpactUseCase(categoryRepo)
	treeQueryUseCase := category.NewTreeQueryUseCase(categoryRepo)

	// Create period use cases
	resolvePeriodUseCase := period.NewResolvePeriodUseCase(period.NewResolver(cfg.Reporting.WeekStart), clock, location)
	listPeriodsUseCase := period.NewListPeriodsUseCase()

	// Create ledger use cases
	listAccountsUseCase := account.NewListAccountsUseCase(accountRepo)
	createAccountUseCase := account.NewCreateAccountUseCase(accountRepo)
	listMovementsUseCase := movement.NewListMovementsUseCase(movementRepo)
	createMovementUseCase := movement.NewCreateMovementUseCase(movementRepo, accountRepo, categoryRepo, statementRepo, locker)
	deleteMovementUseCase := movement.NewDeleteMovementUseCase(movementRepo, statementRepo, locker)

	// Create report use cases
	aggregator := report.NewAggregator(movementRepo, categoryRepo, accountRepo, clock, cfg.Reporting.LedgerTimeout)
	generateReportUseCase := report.NewGenerateReportUseCase(aggregator)
	exportReportUseCase := report.NewExportReportUseCase(aggregator)

	// Create statement use cases
	maxUpload := cfg.Storage.MaxUploadSize
	getStatementUseCase := statement.NewGetStatementUseCase(statementRepo, documentRepo)
	listStatementsUseCase := statement.NewListStatementsUseCase(statementRepo)
	historyUseCase := statement.NewGetHistoryUseCase(statementRepo)
	documentsUseCase := statement.NewDocumentsUseCase(statementRepo, documentRepo, documentStorage, locker)

	statementController := controller.NewStatementController(controller.StatementUseCases{
		Create:    statement.NewCreateStatementUseCase(statementRepo, aggregator, locker, clock),
		Get:       getStatementUseCase,
		List:      listStatementsUseCase,
		Delete:    statement.NewDeleteStatementUseCase(statementRepo, documentStorage, locker),
		History:   historyUseCase,
		Attach:    statement.NewAttachDocumentUseCase(statementRepo, documentRepo, documentStorage, locker, clock, maxUpload),
		Documents: documentsUseCase,
		Submit:    statement.NewSubmitStatementUseCase(statementRepo, documentRepo, aggregator, locker, clock),
		Resolve:   resolvePeriodUseCase,
		MaxUpload: maxUpload,
	})

	reviewerController := controller.NewReviewerController(controller.ReviewerUseCases{
		Get:         getStatementUseCase,
		List:        listStatementsUseCase,
		Documents:   documentsUseCase,
		StartReview: statement.NewStartReviewUseCase(statementRepo, locker, clock),
		Approve:     statement.NewApproveStatementUseCase(statementRepo, locker, notifier, clock),
		Reject:      statement.NewRejectStatementUseCase(statementRepo, documentStorage, locker, notifier, clock, maxUpload),
		Exonerate:   statement.NewSetExonerationUseCase(statementRepo, locker, clock),
		MaxUpload:   maxUpload,
	})

	// Create controllers
	var redisChecker controller.HealthChecker
	if opts.Redis != nil {
		redisChecker = func(ctx context.Context) bool {
			return opts.Redis.Ping(ctx).Err() == nil
		}
	}
	healthController := controller.NewHealthController(func(ctx context.Context) bool {
		sqlDB, err := db.DB()
		if err != nil {
			return false
		}
		return sqlDB.PingContext(ctx) == nil
	}, redisChecker)

	controllers := router.Controllers{
		Health: healthController,
		Category: controller.NewCategoryController(
			listCategoriesUseCase,
			createCategoryUseCase,
			updateCategoryUseCase,
			deleteCategoryUseCase,
			deletionImpactUseCase,
			treeQueryUseCase,
		),
		Period:    controller.NewPeriodController(listPeriodsUseCase, resolvePeriodUseCase),
		Account:   controller.NewAccountController(listAccountsUseCase, createAccountUseCase),
		Movement:  controller.NewMovementController(listMovementsUseCase, createMovementUseCase, deleteMovementUseCase, resolvePeriodUseCase),
		Report:    controller.NewReportController(generateReportUseCase, exportReportUseCase, resolvePeriodUseCase),
		Statement: statementController,
		Reviewer:  reviewerController,
	}

	// Create middleware
	uploadRateLimiter := middleware.NewRateLimiterWithConfig(cfg.Server.UploadRateLimit, time.Minute)
	authMiddleware := middleware.NewAuthMiddleware(tokenService)

	inj.Router = router.NewRouter(controllers, uploadRateLimiter, authMiddleware)

	return inj, nil
}

// Close releases the external clients opened by the injector.
func (i *Injector) Close() error {
	var errs []error
	for j := len(i.closers) - 1; j >= 0; j-- {
		if err := i.closers[j](); err != nil {
			errs = append(errs, err)
		}
	}
	i.closers = nil
	return errors.Join(errs...)
}

func (i *Injector) newStorage(ctx context.Context, cfg config.StorageConfig) (adapter.DocumentStorage, error) {
	switch cfg.Backend {
	case config.StorageBackendGCS:
		gcs, err := storage.NewGCSStorage(ctx, storage.GCSOptions{
			Bucket:          cfg.GCSBucket,
			Timeout:         cfg.GCSTimeout,
			CredentialsFile: cfg.GCSCredentialsFile,
			Endpoint:        cfg.GCSEndpoint,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create gcs storage: %w", err)
		}
		i.closers = append(i.closers, gcs.Close)
		slog.Info("Document storage initialized", "backend", cfg.Backend, "bucket", cfg.GCSBucket)
		return gcs, nil
	case config.StorageBackendLocal, "":
		local, err := storage.NewLocalStorage(cfg.LocalDir)
		if err != nil {
			return nil, fmt.Errorf("failed to create local storage: %w", err)
		}
		slog.Info("Document storage initialized", "backend", config.StorageBackendLocal, "dir", cfg.LocalDir)
		return local, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

// newNotifier queues disposition emails and, when AMQP is configured, publishes events.
func (i *Injector) newNotifier(cfg *config.Config, queue adapter.EmailQueueRepository) (adapter.DispositionNotifier, error) {
	notifiers := []adapter.DispositionNotifier{
		notification.NewEmailNotifier(email.NewService(queue, i.clock, cfg.Email.AppBaseURL)),
	}

	if cfg.Events.AMQPURL != "" {
		publisher, err := notification.NewAMQPPublisher(cfg.Events.AMQPURL, cfg.Events.Exchange)
		if err != nil {
			return nil, fmt.Errorf("failed to create amqp publisher: %w", err)
		}
		i.closers = append(i.closers, publisher.Close)
		notifiers = append(notifiers, publisher)
		slog.Info("Disposition events enabled", "exchange", cfg.Events.Exchange)
	}

	return notification.NewFanOut(notifiers...), nil
}

func (i *Injector) newEmailWorker(cfg config.EmailConfig, queue adapter.EmailQueueRepository, sender adapter.EmailSender) error {
	if !cfg.WorkerEnabled {
		slog.Info("Email worker disabled")
		return nil
	}
	if sender == nil {
		if cfg.ResendAPIKey == "" {
			slog.Warn("RESEND_API_KEY not set, disposition emails stay queued")
			return nil
		}
		sender = email.NewResendClient(cfg.ResendAPIKey, cfg.FromName, cfg.FromEmail)
	}

	renderer, err := templates.NewRenderer()
	if err != nil {
		return fmt.Errorf("failed to load email templates: %w", err)
	}

	i.EmailWorker = email.NewWorker(queue, sender, renderer, i.clock, email.WorkerConfig{
		PollInterval:  cfg.PollInterval,
		BatchSize:     cfg.BatchSize,
		RetentionDays: cfg.RetentionDays,
	})
	return nil
}
