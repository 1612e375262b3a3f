package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"clinic-scheduler/config"
	deliveryHttp "clinic-scheduler/internal/delivery/http"
	"clinic-scheduler/internal/delivery/http/handler"
	"clinic-scheduler/internal/delivery/http/middleware"
	"clinic-scheduler/internal/infrastructure/cache"
	"clinic-scheduler/internal/infrastructure/database"
	"clinic-scheduler/internal/repository"
	"clinic-scheduler/internal/service"
	"clinic-scheduler/internal/usecase"
	"clinic-scheduler/pkg/jwt"
	"clinic-scheduler/pkg/metrics"
	"clinic-scheduler/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const metricsNamespace = "clinic_scheduler"

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	Log         *logrus.Logger
	DB          *gorm.DB
	RedisClient *redis.Client
	Locker      service.BookingLocker
	Server      *http.Server
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	app := &App{}

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg

	// Setup logger
	app.Log = NewLogger(cfg.App.LogLevel)
	app.Log.Info("Configuration loaded successfully")

	if cfg.DB.AutoMigrate {
		if err := runMigrations(cfg.DB, app.Log); err != nil {
			return nil, err
		}
	}

	// Initialize database
	db, err := database.NewPostgresConnection(cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db
	app.Log.Info("Database connected successfully")

	// Initialize Redis
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient
	app.Log.Info("Redis connected successfully")

	// Initialize all layers
	m := metrics.New(metricsNamespace)
	app.Locker = newBookingLocker(cfg.Scheduling, redisClient, app.Log, m)
	app.Server = initializeServer(cfg, app.Log, db, redisClient, app.Locker, m)

	return app, nil
}

// NewLogger configures a JSON logrus logger writing to stdout.
func NewLogger(level string) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)
	return log
}

func runMigrations(cfg config.DBConfig, log *logrus.Logger) error {
	migrator, err := database.NewMigrator(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}
	defer migrator.Close()

	if err := migrator.Up(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

func newBookingLocker(cfg config.SchedulingConfig, redisClient *redis.Client, log *logrus.Logger, m *metrics.Metrics) service.BookingLocker {
	if cfg.LockBackend == config.LockBackendLocal {
		log.Info("Using in-process booking locker")
		return service.NewLocalBookingLocker(log, cfg.LockWait)
	}
	log.Info("Using Redis booking locker")
	return service.NewRedisBookingLocker(redisClient, log, m, cfg.LockTTL, cfg.LockWait)
}

// initializeServer creates and configures the HTTP server
func initializeServer(
	cfg *config.Config,
	log *logrus.Logger,
	db *gorm.DB,
	redisClient *redis.Client,
	locker service.BookingLocker,
	m *metrics.Metrics,
) *http.Server {
	// Initialize JWT service
	jwtService := jwt.NewJWTService(cfg.JWT)

	// Initialize validator
	customValidator := validator.NewValidator()

	// Initialize repositories
	userRepo := repository.NewUserRepository()
	roleRepo := repository.NewRoleRepository()
	doctorRepo := repository.NewDoctorRepository()
	patientRepo := repository.NewPatientRepository()
	roomRepo := repository.NewRoomRepository()
	treatmentRepo := repository.NewTreatmentRepository()
	specializationRepo := repository.NewSpecializationRepository()
	appointmentRepo := repository.NewAppointmentRepository()
	auditLogRepo := repository.NewAuditLogRepository()

	// Initialize services
	auditService := service.NewAuditService(log, auditLogRepo)
	conflictDetector := service.NewConflictDetector(log, appointmentRepo)

	// Initialize usecases
	authUsecase := usecase.NewAuthUsecase(db, log, userRepo, roleRepo, doctorRepo, jwtService, redisClient, auditService)
	doctorUsecase := usecase.NewDoctorUsecase(db, log, doctorRepo, specializationRepo, auditService)
	availabilityUsecase := usecase.NewAvailabilityUsecase(db, log, doctorRepo, treatmentRepo, roomRepo, appointmentRepo, cfg.Scheduling.SlotStep)
	patientUsecase := usecase.NewPatientUsecase(db, log, patientRepo)
	roomUsecase := usecase.NewRoomUsecase(db, log, roomRepo, specializationRepo)
	treatmentUsecase := usecase.NewTreatmentUsecase(db, log, treatmentRepo, specializationRepo)
	specializationUsecase := usecase.NewSpecializationUsecase(db, log, specializationRepo)
	appointmentUsecase := usecase.NewAppointmentUsecase(
		db, log, appointmentRepo, doctorRepo, patientRepo, treatmentRepo, roomRepo,
		conflictDetector, locker, auditService, m,
	)
	auditLogUsecase := usecase.NewAuditLogUsecase(db, log, auditLogRepo)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authUsecase, customValidator)
	doctorHandler := handler.NewDoctorHandler(doctorUsecase, availabilityUsecase, customValidator)
	patientHandler := handler.NewPatientHandler(patientUsecase, customValidator)
	roomHandler := handler.NewRoomHandler(roomUsecase, customValidator)
	treatmentHandler := handler.NewTreatmentHandler(treatmentUsecase, customValidator)
	specializationHandler := handler.NewSpecializationHandler(specializationUsecase, customValidator)
	appointmentHandler := handler.NewAppointmentHandler(appointmentUsecase, customValidator)
	auditLogHandler := handler.NewAuditLogHandler(auditLogUsecase, customValidator)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService, redisClient)
	corsMiddleware := middleware.NewCORSMiddleware()
	loggingMiddleware := middleware.NewLoggingMiddleware(log)
	metricsMiddleware := middleware.NewMetricsMiddleware(m)

	// Initialize router
	router := deliveryHttp.NewRouter(
		authHandler, doctorHandler, patientHandler, roomHandler, treatmentHandler,
		specializationHandler, appointmentHandler, auditLogHandler,
		authMiddleware, corsMiddleware, loggingMiddleware, metricsMiddleware,
	)
	if cfg.Metrics.Enabled {
		router.WithMetricsEndpoint(cfg.Metrics.Path, m.Handler())
	}
	httpRouter := router.Setup()

	// Create server
	serverAddr := fmt.Sprintf(":%s", cfg.App.Port)
	return &http.Server{
		Addr:              serverAddr,
		Handler:           httpRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() {
	// Start server in goroutine
	go func() {
		app.Log.Infof("Server starting on port %s", app.Config.App.Port)
		app.Log.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			app.Log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	app.waitForShutdown()
}

// waitForShutdown blocks until an interrupt signal is received
func (app *App) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	app.Log.Info("Shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown HTTP server gracefully
	if err := app.Server.Shutdown(ctx); err != nil {
		app.Log.Errorf("Server forced to shutdown: %v", err)
	}

	// Close connections
	app.Close()

	app.Log.Info("Server shutdown complete")
}

// Close stops the booking locker and closes the database and redis connections
func (app *App) Close() {
	if app.Locker != nil {
		app.Locker.Stop()
	}

	// Close database connection
	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	// Close Redis connection
	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
