package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/wiitel/telecom-ticketing/internal/api/dto"
	httptransport "github.com/wiitel/telecom-ticketing/internal/api/http"
	"github.com/wiitel/telecom-ticketing/internal/api/http/handlers"
	"github.com/wiitel/telecom-ticketing/internal/audit"
	"github.com/wiitel/telecom-ticketing/internal/auth"
	"github.com/wiitel/telecom-ticketing/internal/config"
	"github.com/wiitel/telecom-ticketing/internal/domain"
	"github.com/wiitel/telecom-ticketing/internal/events"
	"github.com/wiitel/telecom-ticketing/internal/observability"
	"github.com/wiitel/telecom-ticketing/internal/persistence"
	"github.com/wiitel/telecom-ticketing/internal/presence"
	"github.com/wiitel/telecom-ticketing/internal/realtime"
	"github.com/wiitel/telecom-ticketing/internal/repository"
	"github.com/wiitel/telecom-ticketing/internal/service"
	"github.com/wiitel/telecom-ticketing/internal/worker"
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
	userRepo := repository.NewUserRepository(pool)
	departmentRepo := repository.NewDepartmentRepository(pool)
	enterpriseRepo := repository.NewEnterpriseRepository(pool)
	ticketRepo := repository.NewTicketRepository(pool)
	notificationRepo := repository.NewNotificationRepository(pool)

	if err := persistence.SeedDefaultDepartments(ctx, departmentRepo, logger); err != nil {
		logger.Fatal("failed to seed departments", zap.Error(err))
	}

	metrics := observability.NewMetrics()
	tracker := presence.NewTracker(redis.Client, cfg.Presence.OnlineWindow(), logger)
	registry := realtime.NewRegistry(logger)
	dispatcher := events.NewInMemoryDispatcher(logger)
	recorder := audit.NewBestEffort(audit.NewPostgresRecorder(pool), logger)

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLDays)
	authMiddleware := auth.NewAuthMiddleware(tokens, userRepo, departmentRepo, tracker)

	authService := service.NewAuthService(service.AuthDependencies{
		UserRepo:   userRepo,
		Tokens:     tokens,
		BcryptCost: cfg.Auth.BcryptCost,
		Audit:      recorder,
	})
	userService := service.NewUserService(service.UserDependencies{
		UserRepo:   userRepo,
		BcryptCost: cfg.Auth.BcryptCost,
		Audit:      recorder,
	})
	departmentService := service.NewDepartmentService(departmentRepo, recorder)
	enterpriseService := service.NewEnterpriseService(enterpriseRepo, recorder)
	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo:     ticketRepo,
		EnterpriseRepo: enterpriseRepo,
		Dispatcher:     dispatcher,
		Audit:          recorder,
	})
	notificationService := service.NewNotificationService(notificationRepo)
	dashboardService := service.NewDashboardService(service.DashboardDependencies{
		TicketRepo:     ticketRepo,
		EnterpriseRepo: enterpriseRepo,
		UserRepo:       userRepo,
		Presence:       tracker,
	})

	notifier := service.NewNotifier(service.NotifierDependencies{
		NotificationRepo: notificationRepo,
		UserRepo:         userRepo,
		DepartmentRepo:   departmentRepo,
		EnterpriseRepo:   enterpriseRepo,
		Pusher:           registry,
		Frame: func(n *domain.Notification) any {
			return realtime.NotificationFrame(dto.NewNotificationView(n))
		},
		Metrics: metrics,
		Logger:  logger,
	})
	worker.StartNotificationWorker(notifier, dispatcher)

	var reminder *worker.ReminderWorker
	if cfg.Realtime.ReminderEnabled {
		interval := time.Duration(cfg.Realtime.ReminderSweepMinutes) * time.Minute
		reminder = worker.NewReminderWorker(ticketRepo, registry, interval, logger)
		reminder.Start()
		defer reminder.Stop()
	}

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Users:          handlers.NewUsersHandler(userService),
		Departments:    handlers.NewDepartmentsHandler(departmentService),
		Enterprises:    handlers.NewEnterprisesHandler(enterpriseService),
		Tickets:        handlers.NewTicketsHandler(ticketService),
		Notifications:  handlers.NewNotificationsHandler(notificationService),
		Dashboard:      handlers.NewDashboardHandler(dashboardService),
		Websocket:      realtime.NewHandler(registry, tracker, cfg.Realtime.SendBufferSize, logger),
		AuthMiddleware: authMiddleware,
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
