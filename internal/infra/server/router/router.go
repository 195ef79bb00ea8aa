// Package router sets up the HTTP routing for the application.
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/rendiconti/backend/internal/domain/entity"
	"github.com/rendiconti/backend/internal/integration/entrypoint/controller"
	"github.com/rendiconti/backend/internal/integration/entrypoint/middleware"
)

// Controllers groups every HTTP controller the router mounts.
type Controllers struct {
	Health    *controller.HealthController
	Category  *controller.CategoryController
	Period    *controller.PeriodController
	Account   *controller.AccountController
	Movement  *controller.MovementController
	Report    *controller.ReportController
	Statement *controller.StatementController
	Reviewer  *controller.ReviewerController
}

// Router holds the Gin engine and controller dependencies.
type Router struct {
	engine            *gin.Engine
	controllers       Controllers
	uploadRateLimiter *middleware.RateLimiter
	authMiddleware    *middleware.AuthMiddleware
}

// NewRouter creates a new router instance with all dependencies.
func NewRouter(
	controllers Controllers,
	uploadRateLimiter *middleware.RateLimiter,
	authMiddleware *middleware.AuthMiddleware,
) *Router {
	return &Router{
		controllers:       controllers,
		uploadRateLimiter: uploadRateLimiter,
		authMiddleware:    authMiddleware,
	}
}

// Setup configures and returns the Gin engine with all routes.
func (r *Router) Setup(environment string) *gin.Engine {
	switch environment {
	case "production":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	}

	// Create router with default middleware (logger and recovery)
	r.engine = gin.Default()

	r.setupHealthRoutes()
	r.setupAPIRoutes()

	return r.engine
}

func (r *Router) setupHealthRoutes() {
	r.engine.GET("/health", r.controllers.Health.Check)
}

func (r *Router) setupAPIRoutes() {
	c := r.controllers

	v1 := r.engine.Group("/api/v1")
	v1.Use(r.authMiddleware.Authenticate())

	operator := middleware.RequireRole(entity.RoleOperator)
	reviewer := middleware.RequireRole(entity.RoleReviewer, entity.RoleAdmin)
	admin := middleware.RequireRole(entity.RoleAdmin)
	upload := r.uploadRateLimiter.Middleware()

	categories := v1.Group("/categories")
	{
		categories.GET("", c.Category.List)
		categories.POST("", admin, c.Category.Create)
		categories.POST("/expand", c.Category.Expand)
		categories.PATCH("/:id", admin, c.Category.Update)
		categories.GET("/:id/children", c.Category.Children)
		categories.GET("/:id/ancestors", c.Category.Ancestors)
		categories.GET("/:id/deletion-impact", admin, c.Category.DeletionImpact)
		categories.DELETE("/:id", admin, c.Category.Delete)
	}

	periods := v1.Group("/periods")
	{
		periods.GET("", c.Period.List)
		periods.GET("/resolve", c.Period.Resolve)
	}

	accounts := v1.Group("/accounts", operator)
	{
		accounts.GET("", c.Account.List)
		accounts.POST("", c.Account.Create)
	}

	movements := v1.Group("/movements", operator)
	{
		movements.GET("", c.Movement.List)
		movements.POST("", c.Movement.Create)
		movements.DELETE("/:id", c.Movement.Delete)
	}

	reports := v1.Group("/reports", operator)
	{
		reports.POST("", c.Report.Generate)
		reports.GET("/export", c.Report.Export)
		reports.POST("/export", c.Report.Export)
	}

	// Read routes are shared with reviewers; use cases scope operators to their entity.
	statements := v1.Group("/statements")
	{
		statements.GET("/document-types", c.Statement.DocumentTypes)
		statements.POST("", operator, c.Statement.Create)
		statements.GET("", operator, c.Statement.List)
		statements.GET("/:id", operator, c.Statement.Get)
		statements.DELETE("/:id", operator, c.Statement.Delete)
		statements.POST("/:id/documents", operator, upload, c.Statement.AttachDocument)
		statements.GET("/:id/documents", c.Statement.ListDocuments)
		statements.GET("/:id/documents/:documentId/download", c.Statement.DownloadDocument)
		statements.DELETE("/:id/documents/:documentId", operator, c.Statement.DeleteDocument)
		statements.POST("/:id/submit", operator, c.Statement.Submit)
		statements.GET("/:id/history", c.Statement.History)
	}

	review := v1.Group("/reviewer/statements")
	{
		review.GET("", reviewer, c.Reviewer.List)
		review.GET("/:id", reviewer, c.Reviewer.Get)
		review.PUT("/:id/review", reviewer, c.Reviewer.StartReview)
		review.PUT("/:id/approve", reviewer, c.Reviewer.Approve)
		review.PUT("/:id/reject", reviewer, upload, c.Reviewer.Reject)
		review.PUT("/:id/exoneration", reviewer, c.Reviewer.SetExoneration)
		review.GET("/:id/rejection-attachment", c.Reviewer.RejectionAttachment)
	}
}
