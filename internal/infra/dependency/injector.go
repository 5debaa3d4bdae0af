// Package dependency provides dependency injection for the application.
package dependency

import (
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/checks-dashboard/backend/config"
	"github.com/checks-dashboard/backend/internal/application/adapter"
	checkuc "github.com/checks-dashboard/backend/internal/application/usecase/check"
	reminderuc "github.com/checks-dashboard/backend/internal/application/usecase/reminder"
	"github.com/checks-dashboard/backend/internal/infra/redisclient"
	"github.com/checks-dashboard/backend/internal/infra/server/router"
	"github.com/checks-dashboard/backend/internal/integration/email"
	"github.com/checks-dashboard/backend/internal/integration/email/templates"
	"github.com/checks-dashboard/backend/internal/integration/entrypoint/controller"
	"github.com/checks-dashboard/backend/internal/integration/entrypoint/middleware"
	"github.com/checks-dashboard/backend/internal/integration/queue"
)

// Components are the externally constructed services the application is wired from.
// cmd/api builds them from configuration; the integration suite builds in-memory ones.
type Components struct {
	CheckRepository adapter.CheckRepository
	Redis           *redis.Client
	TokenService    adapter.TokenService
	Mailer          email.Mailer
	Clock           adapter.Clock
	StoreHealth     func() bool
}

// Injector holds all application dependencies.
type Injector struct {
	Config        *config.Config
	Router        *router.Router
	Worker        *email.Worker
	ReminderQueue *queue.ReminderQueue
	TokenService  adapter.TokenService
}

// NewInjector creates a new dependency injector with all dependencies wired.
func NewInjector(cfg *config.Config, c Components) (*Injector, error) {
	// Create queue adapters
	reminderQueue := queue.NewReminderQueue(c.Redis, cfg.Redis.KeyPrefix)

	// Create reminder delivery
	renderer, err := templates.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("failed to load email templates: %w", err)
	}
	sender := email.NewReminderSender(c.Mailer, renderer, cfg.Email.AppBaseURL)
	deliverUseCase := reminderuc.NewDeliverDueRemindersUseCase(reminderQueue, sender, c.Clock)
	worker := email.NewWorker(deliverUseCase, email.WorkerConfig{
		PollInterval: cfg.Reminder.PollInterval,
		BatchSize:    cfg.Reminder.BatchSize,
	})

	// Create check use cases
	listUseCase := checkuc.NewListChecksUseCase(c.CheckRepository, c.Clock)
	createUseCase := checkuc.NewCreateCheckUseCase(c.CheckRepository, reminderQueue, c.Clock)
	updateUseCase := checkuc.NewUpdateCheckUseCase(c.CheckRepository, reminderQueue, c.Clock)
	deleteUseCase := checkuc.NewDeleteCheckUseCase(c.CheckRepository, reminderQueue, c.Clock)
	restoreUseCase := checkuc.NewRestoreCheckUseCase(c.CheckRepository, reminderQueue, c.Clock)
	getDashboardUseCase := checkuc.NewGetDashboardUseCase(c.CheckRepository, c.Clock)
	watchDashboardUseCase := checkuc.NewWatchDashboardUseCase(c.CheckRepository, c.Clock)

	// Create controllers
	healthController := controller.NewHealthController(c.StoreHealth, redisclient.HealthCheck(c.Redis))
	checkController := controller.NewCheckController(
		listUseCase,
		createUseCase,
		updateUseCase,
		deleteUseCase,
		restoreUseCase,
	)
	dashboardController := controller.NewDashboardController(getDashboardUseCase, watchDashboardUseCase)

	// Create middleware
	// Use higher rate limits for E2E/test environments to prevent flaky tests
	var writeRateLimiter *middleware.RateLimiter
	if cfg.Server.Environment == "e2e" || cfg.Server.Environment == "test" {
		writeRateLimiter = middleware.NewRateLimiterWithConfig(1000, 1*time.Minute)
	} else {
		writeRateLimiter = middleware.NewRateLimiter()
	}
	authMiddleware := middleware.NewAuthMiddleware(c.TokenService)

	r := router.NewRouter(healthController, checkController, dashboardController, writeRateLimiter, authMiddleware)

	return &Injector{
		Config:        cfg,
		Router:        r,
		Worker:        worker,
		ReminderQueue: reminderQueue,
		TokenService:  c.TokenService,
	}, nil
}
