package bootstrap

import (
	"context"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	appControllers "github.com/yigit/studentapi/internal/app/controllers"
	appRepos "github.com/yigit/studentapi/internal/app/repositories"
	appRoutes "github.com/yigit/studentapi/internal/app/routes"
	appServices "github.com/yigit/studentapi/internal/app/services"
	"github.com/yigit/studentapi/internal/config"
	"github.com/yigit/studentapi/internal/db"
	appMiddleware "github.com/yigit/studentapi/internal/middleware"
	"github.com/yigit/studentapi/internal/pkg/logger"
	"github.com/yigit/studentapi/internal/pkg/metrics"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos             *appRepos.Repositories
	Services          *appServices.Services
	StudentController *appControllers.StudentController
	HealthController  *appControllers.HealthController
	Metrics           *metrics.Manager
	Logger            zerolog.Logger
}

// SetupLogger applies the logging section of cfg to the global logger.
func SetupLogger(cfg *config.Config) {
	logger.Configure(logger.Config{
		Level:  logger.ParseLevel(cfg.Logging.Level),
		Pretty: strings.ToLower(cfg.Logging.Format) == "text",
	})
}

// SetupDatabase creates the pool and asks the server for its time once. A
// failed check is logged; it aborts startup only when the database is required.
func SetupDatabase(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(ctx, cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to create database pool")
		return nil, err
	}

	now, err := db.ServerTime(ctx, database.Pool, cfg.Database.ConnectTimeout)
	if err != nil {
		if cfg.Database.RequireOnStartup {
			lgr.Error().Err(err).Msg("Database connection error")
			database.Close()
			return nil, err
		}
		lgr.Error().Err(err).Msg("Database connection error, serving anyway")
		return database, nil
	}

	lgr.Info().Time("serverTime", now).Msg("Connected to PostgreSQL")
	return database, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(q db.Querier, metricsManager *metrics.Manager, lgr zerolog.Logger) *Dependencies {
	deps := &Dependencies{Logger: lgr, Metrics: metricsManager}

	var recorder appRepos.ErrorRecorder
	if metricsManager != nil {
		recorder = metricsManager
	}
	deps.Repos = appRepos.NewRepositories(q, recorder)
	deps.Services = appServices.NewServices(deps.Repos)

	deps.StudentController = appControllers.NewStudentController(deps.Services.StudentService)
	deps.HealthController = appControllers.NewHealthController(deps.Services.HealthService)

	return deps
}

// NewMetrics creates the metrics manager and, when database is non-nil,
// registers its pool statistics.
func NewMetrics(cfg *config.Config, database *db.PostgresDB) (*metrics.Manager, error) {
	m := metrics.NewManager(
		metrics.WithRuntimeMetrics(),
		metrics.WithHistogramBuckets(cfg.Metrics.LatencyBuckets),
	)
	if database != nil {
		if err := m.RegisterPoolStats(database.Stats); err != nil {
			return nil, fmt.Errorf("failed to register pool metrics: %w", err)
		}
	}
	return m, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(
		gin.Recovery(),
		appMiddleware.RequestID(),
		appMiddleware.RequestLogger(),
	)
	if cfg.Metrics.Enabled && deps.Metrics != nil {
		router.Use(appMiddleware.Metrics(deps.Metrics))
		appRoutes.SetupMetrics(router, cfg.Metrics.Path, deps.Metrics.Handler())
	}

	appRoutes.SetupSwagger(router)
	appRoutes.SetupRouter(router, deps.StudentController, deps.HealthController)

	if appRoutes.SetupStatic(router, cfg.Server.StaticDir) {
		lgr.Info().Str("path", cfg.Server.StaticDir).Msg("Static file serving configured")
	}

	return router
}
