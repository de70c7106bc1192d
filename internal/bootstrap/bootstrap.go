package bootstrap

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/yigit/uniportal/internal/app/controllers"
	appRoutes "github.com/yigit/uniportal/internal/app/routes"
	appServices "github.com/yigit/uniportal/internal/app/services"
	"github.com/yigit/uniportal/internal/app/views"
	"github.com/yigit/uniportal/internal/config"
	appMiddleware "github.com/yigit/uniportal/internal/middleware"
	"github.com/yigit/uniportal/internal/pkg/authapi"
	"github.com/yigit/uniportal/internal/pkg/helpers"
	"github.com/yigit/uniportal/internal/pkg/logger"
	"github.com/yigit/uniportal/internal/pkg/metrics"
	"github.com/yigit/uniportal/internal/pkg/validation"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	AuthService    appServices.AuthService // Interface type
	AuthController *appControllers.AuthController
	AuthClient     *authapi.Client
	Metrics        *metrics.Metrics
	Logger         zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	if err := config.LoadDotEnv(); err != nil {
		logger.Error().Err(err).Msg("Failed to load .env file")
		return nil, zerolog.Logger{}, err
	}

	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err // Return zero logger and the error
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger // Get the configured global logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// BuildDependencies initializes the auth backend client, services, and controllers.
func BuildDependencies(cfg *config.Config, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	if err := validation.RegisterGinRules(); err != nil {
		return nil, fmt.Errorf("failed to register validation rules: %w", err)
	}

	deps.Metrics = metrics.New()

	var err error
	deps.AuthClient, err = authapi.NewClient(authapi.Config{
		BaseURL:   cfg.AuthAPI.BaseURL,
		LoginPath: cfg.AuthAPI.LoginPath,
		UserPath:  cfg.AuthAPI.UserPath,
		Timeout:   helpers.ParseDuration(cfg.AuthAPI.Timeout, 5*time.Second),
	}, deps.Metrics, logger.WithComponent(lgr, "authapi"))
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize auth backend client")
		return nil, fmt.Errorf("failed to initialize auth backend client: %w", err)
	}

	deps.AuthService = appServices.NewAuthService(
		deps.AuthClient,
		deps.Metrics,
		logger.WithComponent(lgr, "auth_service"),
	)

	deps.AuthController = appControllers.NewAuthController(
		deps.AuthService,
		cfg.Server.PostLoginRedirect,
		logger.WithComponent(lgr, "auth_controller"),
	)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) (*gin.Engine, error) {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(gin.Recovery(), appMiddleware.RequestID(), appMiddleware.RequestLogger(lgr))

	tmpl, err := views.Templates()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	router.SetHTMLTemplate(tmpl)

	appRoutes.SetupRouter(router, deps.AuthController)

	if cfg.Metrics.Enabled {
		router.GET(cfg.Metrics.Path, gin.WrapH(deps.Metrics.Handler()))
		lgr.Info().Str("path", cfg.Metrics.Path).Msg("Metrics endpoint enabled")
	}

	// Test endpoint
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router, nil
}
