// Package bootstrap assembles the application: configuration, logging,
// database, dependency graph, and the configured router.
package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appAuth "github.com/artemk/inkwell/internal/app/auth"
	appControllers "github.com/artemk/inkwell/internal/app/controllers"
	appMigrations "github.com/artemk/inkwell/internal/app/migrations"
	appRepos "github.com/artemk/inkwell/internal/app/repositories"
	appRoutes "github.com/artemk/inkwell/internal/app/routes"
	appServices "github.com/artemk/inkwell/internal/app/services"
	"github.com/artemk/inkwell/internal/config"
	"github.com/artemk/inkwell/internal/db"
	"github.com/artemk/inkwell/internal/metrics"
	appMiddleware "github.com/artemk/inkwell/internal/middleware"
	pkgAuth "github.com/artemk/inkwell/internal/pkg/auth"
	"github.com/artemk/inkwell/internal/pkg/cache"
	"github.com/artemk/inkwell/internal/pkg/filestorage"
	"github.com/artemk/inkwell/internal/pkg/logger"
	"github.com/artemk/inkwell/internal/pkg/render"
	"github.com/artemk/inkwell/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos             *appRepos.Repositories
	FileStorage       *filestorage.LocalStorage
	FeedCache         cache.Store
	SessionService    *pkgAuth.SessionService
	Gate              *appAuth.Gate
	Renderer          render.Renderer
	Metrics           *metrics.Metrics
	FeedService       appServices.FeedService
	PostService       appServices.PostService
	CommentService    appServices.CommentService
	FollowService     appServices.FollowService
	FeedController    *appControllers.FeedController
	PostController    *appControllers.PostController
	CommentController *appControllers.CommentController
	ProfileController *appControllers.ProfileController
	AuthMiddleware    *appMiddleware.AuthMiddleware
	RateLimiter       *appMiddleware.RateLimiter
	Logger            zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logger.Configure(logger.Config{
		Level:  logger.LogLevel(strings.ToLower(cfg.Logging.Level)),
		Pretty: strings.ToLower(cfg.Logging.Format) == "text",
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", cfg.Logging.Level).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the connection pool, applies migrations, and
// seeds default data.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool

	migrationsDir := cfg.Database.MigrationsDir
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		dbPool.Close()
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	lgr.Info().Str("dir", migrationsDir).Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(dbPool)
	if err := migrator.ApplyDirectory(context.Background(), migrationsDir); err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}

	if err := seed.CreateDefaultData(context.Background(), dbPool, lgr); err != nil {
		// Seeding failures are logged but do not block startup.
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway")
	}

	return dbPool, nil
}

// BuildDependencies initializes repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(dbPool)

	baseURL := "http://localhost:" + cfg.Server.Port + "/media"
	var err error
	deps.FileStorage, err = filestorage.NewLocalStorage(cfg.Server.StoragePath, baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	deps.FeedCache = cache.NewMemory()
	deps.Gate = appAuth.NewGate()
	deps.Renderer = render.NewJSONRenderer()
	deps.Metrics = metrics.New()

	deps.SessionService = pkgAuth.NewSessionService(pkgAuth.SessionConfig{
		SecretKey:  cfg.Session.Secret,
		SessionExp: cfg.SessionTokenExpiration(),
		Issuer:     cfg.Session.Issuer,
	})

	deps.FeedService = appServices.NewFeedService(
		deps.Repos.PostRepository,
		deps.Repos.GroupRepository,
		deps.Repos.UserRepository,
		deps.Repos.FollowRepository,
		deps.FeedCache,
		cfg.FeedCacheTTL(),
		deps.Metrics,
		lgr,
	)
	deps.PostService = appServices.NewPostService(
		deps.Repos.PostRepository,
		deps.Repos.GroupRepository,
		deps.Repos.CommentRepository,
		deps.FileStorage,
		lgr,
	)
	deps.CommentService = appServices.NewCommentService(
		deps.Repos.CommentRepository,
		deps.Repos.PostRepository,
		lgr,
	)
	deps.FollowService = appServices.NewFollowService(
		deps.Repos.FollowRepository,
		deps.Repos.UserRepository,
		deps.Gate,
		lgr,
	)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.SessionService)
	deps.RateLimiter = appMiddleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)

	deps.FeedController = appControllers.NewFeedController(deps.FeedService, deps.Gate, deps.Renderer)
	deps.PostController = appControllers.NewPostController(deps.PostService, deps.Gate, deps.Renderer)
	deps.CommentController = appControllers.NewCommentController(deps.CommentService, deps.Gate, deps.Renderer)
	deps.ProfileController = appControllers.NewProfileController(deps.FeedService, deps.FollowService, deps.Gate, deps.Renderer)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()
	router.Use(
		appMiddleware.Recovery(deps.Renderer),
		deps.Metrics.RequestMiddleware(),
		deps.RateLimiter.Handler(),
		deps.AuthMiddleware.ResolveActor(),
		appMiddleware.CSRF(deps.Renderer),
	)

	appRoutes.SetupRouter(router,
		deps.FeedController,
		deps.PostController,
		deps.CommentController,
		deps.ProfileController,
		deps.Renderer,
	)

	router.GET("/metrics", deps.Metrics.Handler())

	lgr.Info().Msg("Router configured")
	return router
}
