package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/yigit/qpidash/internal/app/controllers"
	appMigrations "github.com/yigit/qpidash/internal/app/migrations"
	appRepos "github.com/yigit/qpidash/internal/app/repositories"
	appRoutes "github.com/yigit/qpidash/internal/app/routes"
	appServices "github.com/yigit/qpidash/internal/app/services"
	"github.com/yigit/qpidash/internal/config"
	"github.com/yigit/qpidash/internal/db"
	appMiddleware "github.com/yigit/qpidash/internal/middleware"
	pkgAuth "github.com/yigit/qpidash/internal/pkg/auth"
	"github.com/yigit/qpidash/internal/pkg/helpers"
	"github.com/yigit/qpidash/internal/pkg/logger"
	"github.com/yigit/qpidash/internal/pkg/qpi"
	"github.com/yigit/qpidash/internal/pkg/websocket"
	"github.com/yigit/qpidash/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	CurriculumService    appServices.CurriculumService // Interface type
	SessionService       appServices.SessionService    // Interface type
	CurriculumController *appControllers.CurriculumController
	SessionController    *appControllers.SessionController
	ComponentController  *appControllers.ComponentController
	LiveHandler          *websocket.Handler
	Hub                  *websocket.Hub
	AuthMiddleware       *appMiddleware.AuthMiddleware
	Repos                *appRepos.Repositories
	JWTService           *pkgAuth.JWTService
	Logger               zerolog.Logger
}

// LoadConfigAndSetupLogger loads .env, the YAML configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Warn().Err(err).Msg("Failed to read .env file")
	}

	configPath := config.GetEnv("CONFIG_PATH", filepath.Join("configs", "config.yaml"))
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase connects to PostgreSQL, runs migrations and seeds the curriculum.
// It returns nil when the curriculum is read from CSV.
func SetupDatabase(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	if !cfg.UsesPostgres() {
		lgr.Info().Str("source", cfg.Curriculum.Source).Msg("Curriculum source does not need a database")
		return nil, nil
	}

	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(ctx, cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	migrationsDir := cfg.Database.MigrationsDir
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		database.Close()
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(database, lgr)
	if err := migrator.MigrateFromDirectory(ctx, migrationsDir); err != nil {
		database.Close()
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	loader := appRepos.NewPostgresCurriculumLoader(database)
	if err := seed.SeedCurriculum(ctx, loader, cfg.Curriculum.CSVPath, lgr); err != nil {
		database.Close()
		lgr.Error().Err(err).Msg("Failed to seed curriculum")
		return nil, err
	}

	return database, nil
}

// curriculumLoader picks the curriculum source from configuration
func curriculumLoader(cfg *config.Config, database *db.PostgresDB) (appRepos.CurriculumLoader, error) {
	if cfg.UsesPostgres() {
		if database == nil {
			return nil, errors.New("postgres curriculum source configured without a database")
		}
		return appRepos.NewPostgresCurriculumLoader(database), nil
	}
	return appRepos.NewCSVCurriculumLoader(cfg.Curriculum.CSVPath), nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(ctx context.Context, cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	mode, err := qpi.ParseYearQPIMode(cfg.Grading.YearQPIMode)
	if err != nil {
		return nil, fmt.Errorf("invalid grading configuration: %w", err)
	}

	loader, err := curriculumLoader(cfg, database)
	if err != nil {
		return nil, err
	}
	curriculumRepo, err := appRepos.NewCurriculumRepository(ctx, loader)
	if err != nil {
		lgr.Error().Err(err).Str("source", cfg.Curriculum.Source).Msg("Failed to load curriculum")
		return nil, fmt.Errorf("failed to load curriculum: %w", err)
	}
	lgr.Info().Int("subjects", len(curriculumRepo.All())).Str("source", cfg.Curriculum.Source).Msg("Curriculum loaded")

	sessionTTL := helpers.ParseDuration(cfg.Session.TTL, 12*time.Hour)
	deps.Repos = appRepos.NewRepositories(curriculumRepo, appRepos.NewSessionRepository(sessionTTL))

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:   cfg.Session.TokenSecret,
		TokenExp:    sessionTTL,
		TokenIssuer: cfg.Session.Issuer,
	})

	deps.Hub = websocket.NewHub(logger.Component("live"))

	deps.CurriculumService = appServices.NewCurriculumService(curriculumRepo, mode)
	deps.SessionService = appServices.NewSessionService(
		deps.Repos,
		deps.JWTService,
		deps.Hub,
		appServices.SessionServiceConfig{
			DefaultTarget: cfg.Grading.DefaultTarget,
			YearQPIMode:   mode,
		},
		logger.Component("sessions"),
	)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	deps.CurriculumController = appControllers.NewCurriculumController(deps.CurriculumService)
	deps.SessionController = appControllers.NewSessionController(deps.SessionService)
	deps.ComponentController = appControllers.NewComponentController(deps.SessionService)
	deps.LiveHandler = websocket.NewHandler(deps.Hub, func(ctx context.Context, id uuid.UUID) (interface{}, error) {
		return deps.SessionService.Dashboard(ctx, id)
	}, logger.Component("live"))

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) (*gin.Engine, error) {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	if err := appMiddleware.RegisterValidators(); err != nil {
		return nil, fmt.Errorf("failed to register validators: %w", err)
	}

	router := gin.New()
	router.Use(gin.Recovery(), appMiddleware.RequestLogger(logger.Component("http")))

	appRoutes.SetupRouter(router,
		deps.CurriculumController,
		deps.SessionController,
		deps.ComponentController,
		deps.LiveHandler,
		deps.AuthMiddleware,
	)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router, nil
}
