package bootstrap

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/brightsteps/brightsteps-web/config"
	"github.com/brightsteps/brightsteps-web/internal/data"
	"github.com/brightsteps/brightsteps-web/internal/service"
)

const shutdownWaitTimeout = 10 * time.Second

// ServiceContainer holds all application services.
type ServiceContainer struct {
	Blog         *service.BlogService
	Gallery      *service.GalleryService
	Coaches      *service.CoachService
	Coachees     *service.CoacheeService
	Applications *service.ApplicationService
	Events       *service.EventService
	Admins       *service.AdminService
	Dashboard    *service.DashboardService
	Auth         *service.AuthService
}

// ServiceDeps carries the shared infrastructure services are built from.
type ServiceDeps struct {
	Config      *config.AppConfig
	Logger      *slog.Logger
	DB          *sql.DB
	RedisClient redis.UniversalClient
}

// serviceRepositories bundles the data adapters backing service ports.
type serviceRepositories struct {
	DB              *sql.DB
	Redis           redis.UniversalClient
	BlogRepo        *data.BlogRepo
	GalleryRepo     *data.GalleryRepo
	CoachRepo       *data.CoachRepo
	CoacheeRepo     *data.CoacheeRepo
	ApplicationRepo *data.ApplicationRepo
	EventsRepo      *data.EventsRepo
	AdminRepo       *data.AdminRepo
	CacheRepo       *data.RedisCacheRepo
}

// buildRepositories builds repositories backing service ports; no business rules here.
func buildRepositories(db *sql.DB, redisClient redis.UniversalClient) *serviceRepositories {
	repos := &serviceRepositories{
		DB:              db,
		Redis:           redisClient,
		BlogRepo:        data.NewBlogRepo(db),
		GalleryRepo:     data.NewGalleryRepo(db),
		CoachRepo:       data.NewCoachRepo(db),
		CoacheeRepo:     data.NewCoacheeRepo(db),
		ApplicationRepo: data.NewApplicationRepo(db),
		EventsRepo:      data.NewEventsRepo(db),
		AdminRepo:       data.NewAdminRepo(db),
	}
	if redisClient != nil {
		repos.CacheRepo = data.NewRedisCacheRepo(redisClient)
	}
	return repos
}

// BuildServices wires repositories into the service layer.
func BuildServices(deps ServiceDeps) ServiceContainer {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	appCfg := deps.Config
	if appCfg == nil {
		appCfg = &config.AppConfig{}
	}

	repos := buildRepositories(deps.DB, deps.RedisClient)

	blogOpts := service.BlogServiceOptions{
		Repo:   repos.BlogRepo,
		Logger: logger,
	}
	// CacheRepo is a concrete pointer; assign through the interface field
	// only when present so BlogService sees a true nil otherwise.
	if repos.CacheRepo != nil {
		blogOpts.Cache = repos.CacheRepo
	}
	blog := service.NewBlogService(blogOpts)

	gallery := service.NewGalleryService(service.GalleryServiceOptions{Repo: repos.GalleryRepo})
	coaches := service.NewCoachService(service.CoachServiceOptions{Repo: repos.CoachRepo})
	coachees := service.NewCoacheeService(service.CoacheeServiceOptions{Repo: repos.CoacheeRepo})
	applications := service.NewApplicationService(service.ApplicationServiceOptions{
		Repo:   repos.ApplicationRepo,
		Logger: logger,
	})
	events := service.NewEventService(service.EventServiceOptions{Repo: repos.EventsRepo})
	admins := service.NewAdminService(service.AdminServiceOptions{Repo: repos.AdminRepo})

	dashboard := service.NewDashboardService(service.DashboardServiceOptions{
		Blog:         blog,
		Gallery:      gallery,
		Coaches:      coaches,
		Coachees:     coachees,
		Applications: applications,
		Events:       events,
	})

	auth := BuildAuthService(AuthConfig{
		Auth:        appCfg.Auth,
		Accounts:    repos.AdminRepo,
		RedisClient: deps.RedisClient,
		Logger:      logger,
	})

	return ServiceContainer{
		Blog:         blog,
		Gallery:      gallery,
		Coaches:      coaches,
		Coachees:     coachees,
		Applications: applications,
		Events:       events,
		Admins:       admins,
		Dashboard:    dashboard,
		Auth:         auth,
	}
}

// ServiceOrchestrationConfig groups dependencies for running the application.
type ServiceOrchestrationConfig struct {
	Config   *config.AppConfig
	Services ServiceContainer
	Logger   *slog.Logger
}

// RunServicesWithShutdown starts the HTTP server and blocks until a shutdown
// signal arrives, then stops the server gracefully.
func RunServicesWithShutdown(cfg *ServiceOrchestrationConfig) error {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	server := StartHTTPServer(&HTTPServerConfig{
		Config:   cfg.Config,
		Services: cfg.Services,
		Logger:   logger,
	})

	return waitForShutdown(shutdownConfig{
		ctx:        ctx,
		cancel:     cancel,
		httpServer: server,
		logger:     logger,
	})
}

// shutdownConfig contains dependencies for graceful shutdown.
type shutdownConfig struct {
	ctx        context.Context
	cancel     context.CancelFunc
	httpServer *http.Server
	logger     *slog.Logger
}

// waitForShutdown waits for a shutdown signal and then stops the HTTP server.
func waitForShutdown(cfg shutdownConfig) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	<-quit
	cfg.logger.Info("shutting down services...")
	cfg.cancel()

	if cfg.httpServer == nil {
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownWaitTimeout)
	defer cancel()

	return ShutdownHTTPServer(shutdownCtx, cfg.httpServer, cfg.logger)
}
