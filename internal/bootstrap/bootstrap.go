// Package bootstrap assembles the service graph from configuration.
package bootstrap

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/support-desk/internal/api/http"
	"github.com/spec-kit/support-desk/internal/api/http/handlers"
	"github.com/spec-kit/support-desk/internal/auth"
	"github.com/spec-kit/support-desk/internal/config"
	"github.com/spec-kit/support-desk/internal/events"
	"github.com/spec-kit/support-desk/internal/observability"
	"github.com/spec-kit/support-desk/internal/persistence"
	"github.com/spec-kit/support-desk/internal/repository"
	"github.com/spec-kit/support-desk/internal/service"
	"github.com/spec-kit/support-desk/internal/worker"
)

// Application is the wired service.
type Application struct {
	Server  *fiber.App
	Auth    *service.AuthService
	Metrics *observability.Metrics

	storage *Storage
	redis   *persistence.Redis
}

// New opens storage (running migrations when configured), connects Redis when enabled and
// builds the HTTP server.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Application, error) {
	storage, err := OpenStorage(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	if cfg.Storage.RunMigrations {
		if err := storage.Migrate(ctx, persistence.MigrateUp); err != nil {
			storage.Close()
			return nil, err
		}
	}

	var rdb *persistence.Redis
	if cfg.Redis.Enabled {
		rdb = persistence.NewRedis(ctx, cfg.Redis, logger)
	}
	return assemble(cfg, logger, storage, rdb), nil
}

func assemble(cfg *config.Config, logger *zap.Logger, storage *Storage, rdb *persistence.Redis) *Application {
	metrics := observability.NewMetrics()
	repos := storage.Repos

	users := repos.Users
	var forwarder *events.RedisForwarder
	checks := map[string]handlers.PingFunc{"database": repos.Ping}
	if rdb != nil {
		users = repository.NewCachedUserRepository(repos.Users, rdb.Client, cfg.Redis.UserCacheTTLDuration(), logger)
		forwarder = events.NewRedisForwarder(rdb.Client, cfg.Redis.EventsChannel)
		checks["redis"] = rdb.Ping
	}

	dispatcher := events.NewInMemoryDispatcher()
	notifications := service.NewNotificationService(dispatcher, logger, metrics, cfg.Notification)
	worker.StartNotificationWorker(dispatcher, notifications, forwarder)

	authService := service.NewAuthService(cfg.Auth, service.AuthDependencies{UserRepo: repos.Users})
	ticketService := service.NewTicketService(service.TicketDependencies{
		UserRepo:    users,
		TicketRepo:  repos.Tickets,
		CommentRepo: repos.Comments,
		Dispatcher:  dispatcher,
		Logger:      logger,
	})
	assignmentService := service.NewAssignmentService(service.AssignmentDependencies{
		UserRepo:       users,
		TicketRepo:     repos.Tickets,
		AssignmentRepo: repos.Assignments,
		Dispatcher:     dispatcher,
		Logger:         logger,
	})
	userService := service.NewUserService(users)

	server := httptransport.NewServer(httptransport.ServerConfig{
		AppName:        cfg.App.Name,
		Logger:         logger,
		Metrics:        metrics,
		RequestTimeout: cfg.App.RequestTimeout(),
		Routes: httptransport.RouteConfig{
			Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, checks, metrics),
			Auth:           handlers.NewAuthHandler(authService),
			Tickets:        handlers.NewTicketsHandler(ticketService, assignmentService),
			Users:          handlers.NewUsersHandler(userService),
			AuthMiddleware: auth.NewAuthMiddleware(authService.TokenManager(), users),
		},
	})

	return &Application{
		Server:  server,
		Auth:    authService,
		Metrics: metrics,
		storage: storage,
		redis:   rdb,
	}
}

// Close shuts the server down and releases connections.
func (a *Application) Close() error {
	err := a.Server.Shutdown()
	a.redis.Close()
	a.storage.Close()
	return err
}
