package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/yukikurage/field-attendance-api/internal/config"
	"github.com/yukikurage/field-attendance-api/internal/constants"
	"github.com/yukikurage/field-attendance-api/internal/database"
	"github.com/yukikurage/field-attendance-api/internal/handlers"
	"github.com/yukikurage/field-attendance-api/internal/locks"
	"github.com/yukikurage/field-attendance-api/internal/logging"
	"github.com/yukikurage/field-attendance-api/internal/metrics"
	"github.com/yukikurage/field-attendance-api/internal/repository"
	"github.com/yukikurage/field-attendance-api/internal/services"
	"github.com/yukikurage/field-attendance-api/internal/timewindow"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	location, err := cfg.Location()
	if err != nil {
		fatal("invalid attendance timezone", err)
	}

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		fatal("failed to connect to database", err)
	}

	// Run migrations
	logger.Info("running database migrations")
	if err := database.MigrateDatabase(database.GetDB()); err != nil {
		fatal("failed to migrate database", err)
	}

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	// Initialize Gin router
	r := gin.Default()

	// Setup session middleware with Redis
	redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
	store, err := redisStore.NewStore(
		10,                        // Redis pool size
		"tcp",                     // network type
		redisAddr,                 // Redis address from config
		"",                        // username (empty for default user)
		"",                        // password (empty = no password)
		[]byte(cfg.SessionSecret), // authentication key
	)
	if err != nil {
		fatal("failed to create Redis store", err)
	}
	// Configure session options based on environment
	isProduction := cfg.GinMode == gin.ReleaseMode
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	// Initialize services
	db := database.GetDB()
	repoStore := repository.NewStore(db)
	workerLocks := locks.NewWorkerLocks()
	clock := timewindow.New(location)

	authService := services.NewAuthService(repository.NewUserRepository(db), repository.NewProfileRepository(db))
	assignmentService := services.NewAssignmentService(repoStore, workerLocks, clock, m, cfg.UpcomingLimit)
	attendanceService := services.NewAttendanceService(repoStore, workerLocks, clock, m, cfg.GeofenceRadiusMeters)

	// Initialize handlers
	routes := handlers.Routes{
		Auth:        handlers.NewAuthHandler(authService, logger),
		Assignments: handlers.NewAssignmentHandler(assignmentService, attendanceService, authService, logger),
		Workers:     handlers.NewWorkerHandler(assignmentService, attendanceService, logger),
		AuthService: authService,
		JWTSecret:   cfg.JWTSecret,
	}

	r.GET("/health", handlers.Health(db, logger))
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})))

	// API routes
	routes.Register(r)

	logger.Info("server starting",
		"port", cfg.Port,
		"timezone", location.String(),
		"geofence_radius_meters", cfg.GeofenceRadiusMeters,
		"bearer_auth", cfg.JWTSecret != "",
	)
	if err := r.Run(":" + cfg.Port); err != nil {
		fatal("failed to start server", err)
	}
}

func fatal(msg string, err error) {
	slog.Error(msg, "error", err)
	os.Exit(1)
}
