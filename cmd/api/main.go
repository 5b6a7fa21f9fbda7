package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/chamado-hub/helpdesk/internal/api/http"
	"github.com/chamado-hub/helpdesk/internal/api/http/handlers"
	"github.com/chamado-hub/helpdesk/internal/auth"
	"github.com/chamado-hub/helpdesk/internal/config"
	"github.com/chamado-hub/helpdesk/internal/events"
	"github.com/chamado-hub/helpdesk/internal/observability"
	"github.com/chamado-hub/helpdesk/internal/persistence"
	"github.com/chamado-hub/helpdesk/internal/repository"
	"github.com/chamado-hub/helpdesk/internal/scheduler"
	"github.com/chamado-hub/helpdesk/internal/service"
	"github.com/chamado-hub/helpdesk/internal/sla"
	"github.com/chamado-hub/helpdesk/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	companyRepo := repository.NewCompanyRepository(pool)
	userRepo := repository.NewUserRepository(pool)
	typeRepo := repository.NewTicketTypeRepository(pool)
	ticketRepo := repository.NewTicketRepository(pool)
	updateRepo := repository.NewTicketUpdateRepository(pool)
	historyRepo := repository.NewTicketHistoryRepository(pool)
	resetRepo := repository.NewPasswordResetRepository(pool)

	policy := sla.Policy{
		ResponseWarningWindow: cfg.SLA.ResponseWarning(),
		SolutionWarningWindow: cfg.SLA.SolutionWarning(),
		DisplayWarningWindow:  cfg.SLA.DisplayWarning(),
		HighUrgencyWindow:     cfg.SLA.HighUrgency(),
		SummaryNearWindow:     cfg.SLA.SummaryNear(),
		BatchSize:             cfg.SLA.BatchSize,
	}
	calculator := sla.NewCalculator(typeRepo)
	reconciler := sla.NewReconciler(ticketRepo, policy, logger)
	selector := sla.NewSelector(ticketRepo, policy)

	dispatcher := events.NewInMemoryDispatcher()
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo:          userRepo,
		PasswordResetRepo: resetRepo,
	})
	accountService := service.NewAccountService(userRepo, companyRepo, cfg.Auth.BcryptCost)
	companyService := service.NewCompanyService(companyRepo, typeRepo)
	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo:  ticketRepo,
		UpdateRepo:  updateRepo,
		HistoryRepo: historyRepo,
		UserRepo:    userRepo,
		TypeRepo:    typeRepo,
		Calculator:  calculator,
		Policy:      policy,
		Dispatcher:  dispatcher,
	})
	dashboardService := service.NewDashboardService(ticketRepo, redis.Client, cfg.Dashboard.CacheTTL(), logger)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo)

	metrics := observability.NewMetrics()
	app := fiber.New(fiber.Config{DisableStartupMessage: cfg.App.Env == "production"})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService, cfg.App.Env),
		Accounts:       handlers.NewAccountsHandler(accountService),
		Companies:      handlers.NewCompaniesHandler(companyService, accountService),
		Tickets:        handlers.NewTicketsHandler(ticketService, policy),
		SLA:            handlers.NewSLAHandler(reconciler, selector, dashboardService, cfg.SLA.CronToken),
		Dashboard:      handlers.NewDashboardHandler(dashboardService),
		AuthMiddleware: authMiddleware,
	})

	var slaScheduler *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		slaScheduler = scheduler.New(reconciler, cfg.Scheduler.CronSpec, logger)
		if err := slaScheduler.Start(); err != nil {
			logger.Fatal("failed to start sla scheduler", zap.Error(err))
		}
	}

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if slaScheduler != nil {
		<-slaScheduler.Stop().Done()
	}
	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
