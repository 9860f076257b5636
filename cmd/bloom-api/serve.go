package main

import (
	"database/sql"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/bloomhq/bloom/backend/internal/config"
	"github.com/bloomhq/bloom/backend/internal/handlers"
	"github.com/bloomhq/bloom/backend/internal/logger"
	"github.com/bloomhq/bloom/backend/internal/middleware"
	"github.com/bloomhq/bloom/backend/internal/repository"
	"github.com/bloomhq/bloom/backend/internal/repository/sqlitedb"
	"github.com/bloomhq/bloom/backend/internal/service"
	"github.com/bloomhq/bloom/backend/pkg/supabase"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	Long:  `Start the HTTP API server and listen for requests.`,
	RunE:  runServe,
}

var (
	port string
)

func init() {
	serveCmd.Flags().StringVarP(&port, "port", "p", "", "Port to listen on (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	// Load .env if present, before viper reads the environment
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Override port from flag if provided
	if port != "" {
		cfg.Server.Port = port
	}

	log := logger.NewSlogLogger(logger.Config{
		Level:  logger.ParseLevel(cfg.Log.Level),
		Format: cfg.Log.Format,
	})
	logger.SetDefault(log)

	log.Info("starting bloom API server",
		logger.String("env", cfg.Server.Env),
		logger.String("storage_driver", cfg.Storage.Driver),
	)

	store, db, err := buildStore(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize record store: %w", err)
	}
	if db != nil {
		defer db.Close()
	}

	// Initialize services
	analyticsService := service.NewAnalyticsService(store)
	intelligenceService := service.NewIntelligenceService(store)

	// Initialize handlers
	insightsHandler := handlers.NewInsightsHandler(intelligenceService)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService)
	reportsHandler := handlers.NewReportsHandler(intelligenceService)
	settingsHandler := handlers.NewSettingsHandler(store.Settings)

	// Set Gin mode based on environment
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())

	// Middleware
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.CORS())
	router.Use(middleware.RequestLogger())

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
			"env":    cfg.Server.Env,
		})
	})

	// API v1 routes
	v1 := router.Group("/api/v1")
	v1.Use(middleware.RateLimit())
	{
		v1.GET("/insights", insightsHandler.GetInsights)
		v1.GET("/recommendations", insightsHandler.GetRecommendations)
		v1.GET("/reports", middleware.RateLimitReports(), reportsHandler.GetReport)

		v1.GET("/analytics/programs/:id/stats", analyticsHandler.GetProgramStats)
		v1.GET("/analytics/programs/:id/progress", analyticsHandler.GetProgramProgress)
		v1.GET("/analytics/behaviors/:id/stats", analyticsHandler.GetBehaviorStats)
		v1.GET("/analytics/timing", analyticsHandler.GetTiming)
		v1.GET("/analytics/timing/programs", analyticsHandler.GetTimingByProgram)

		v1.PUT("/settings/time-goals/:programId", settingsHandler.UpdateTimeGoal)
	}

	log.Info("server listening", logger.String("port", cfg.Server.Port))
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// buildStore assembles the repository bundle for the configured driver.
// The returned *sql.DB is non-nil only for the sqlite driver.
func buildStore(cfg *config.Config) (*repository.Store, *sql.DB, error) {
	switch cfg.Storage.Driver {
	case "sqlite":
		return openSQLite(cfg)
	default:
		client := supabase.NewClient(cfg.Supabase.URL, cfg.Supabase.ServiceKey)
		store := &repository.Store{
			Programs:  repository.NewProgramRepository(client),
			Trials:    repository.NewTrialRepository(client),
			Sessions:  repository.NewSessionRepository(client),
			Behaviors: repository.NewBehaviorRepository(client),
			Checkins:  repository.NewCheckinRepository(client, cfg.Storage.PatientID),
			Settings:  repository.NewSettingsRepository(client, cfg.Storage.PatientID),
		}
		return store, nil, nil
	}
}

func openSQLite(cfg *config.Config) (*repository.Store, *sql.DB, error) {
	store, db, err := sqlitedb.Open(cfg.SQLite.Path, cfg.Storage.PatientID)
	if err != nil {
		return nil, nil, err
	}
	return store, db, nil
}
