package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/infinitetechnologys/crm/internal/api/http"
	"github.com/infinitetechnologys/crm/internal/api/http/handlers"
	"github.com/infinitetechnologys/crm/internal/auth"
	"github.com/infinitetechnologys/crm/internal/config"
	"github.com/infinitetechnologys/crm/internal/events"
	"github.com/infinitetechnologys/crm/internal/observability"
	"github.com/infinitetechnologys/crm/internal/persistence"
	"github.com/infinitetechnologys/crm/internal/repository"
	"github.com/infinitetechnologys/crm/internal/service"
	"github.com/infinitetechnologys/crm/internal/worker"
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
	txManager := persistence.NewTxManager(pool)

	staffRepo := repository.NewStaffRepository(pool)
	clientRepo := repository.NewClientRepository(pool)
	interactionRepo := repository.NewInteractionRepository(pool)
	propertyRepo := repository.NewPropertyRepository(pool)
	showingRepo := repository.NewShowingRepository(pool)
	dealRepo := repository.NewDealRepository(pool)
	taskRepo := repository.NewTaskRepository(pool)
	activityRepo := repository.NewActivityRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()

	activityService := service.NewActivityService(activityRepo)
	authService := service.NewAuthService(*cfg, staffRepo, activityService)
	clientService := service.NewClientService(clientRepo, interactionRepo, dealRepo, activityService, txManager, dispatcher)
	propertyService := service.NewPropertyService(propertyRepo, showingRepo, dealRepo, activityService, txManager, dispatcher)
	dealService := service.NewDealService(dealRepo, clientRepo, propertyRepo, activityService, txManager, dispatcher)
	taskService := service.NewTaskService(taskRepo, activityService, txManager, dispatcher)
	staffService := service.NewStaffService(staffRepo, clientRepo, propertyRepo, dealRepo, activityService, txManager, dispatcher, cfg.Auth.BcryptCost)
	reportService := service.NewReportService(dealRepo, clientRepo, propertyRepo)
	dashboardService := service.NewDashboardService(clientRepo, propertyRepo, dealRepo, taskRepo, showingRepo, redis, cfg.Dashboard.CacheTTLSeconds, logger)

	if cfg.Auth.BootstrapAdmin {
		if _, err := authService.EnsureAdminAccount(ctx); err != nil {
			logger.Fatal("failed to bootstrap admin account", zap.Error(err))
		}
	}

	worker.StartCacheWorker(dispatcher, dashboardService, logger)

	authMiddleware := auth.NewMiddleware(authService.TokenManager(), staffRepo)
	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Auth:       authMiddleware,
		Health:     handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		AuthN:      handlers.NewAuthHandler(authService, staffService),
		Clients:    handlers.NewClientsHandler(clientService),
		Properties: handlers.NewPropertiesHandler(propertyService),
		Deals:      handlers.NewDealsHandler(dealService),
		Tasks:      handlers.NewTasksHandler(taskService),
		Staff:      handlers.NewStaffHandler(staffService),
		Activity:   handlers.NewActivityHandler(activityService),
		Reports:    handlers.NewReportsHandler(reportService),
		Dashboard:  handlers.NewDashboardHandler(dashboardService),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
