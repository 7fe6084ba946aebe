package bootstrap

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/preethikasudhagar/Course-Enrollment-Analytics/docs" // generated swagger docs

	appauth "github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/app/auth"
	"github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/app/controllers"
	"github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/app/migrations"
	"github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/app/repositories"
	"github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/app/routes"
	"github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/app/services"
	"github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/config"
	"github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/db"
	"github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/middleware"
	"github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/pkg/auth"
	"github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/pkg/helpers"
	"github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/pkg/logger"
	"github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/pkg/metrics"
	"github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/seed"
)

// Dependencies holds the wired application graph.
type Dependencies struct {
	Repositories *repositories.Repositories
	JWTService   *auth.JWTService

	AuthService         *services.AuthService
	UserService         *services.UserService
	DepartmentService   *services.DepartmentService
	CourseService       *services.CourseService
	EnrollmentService   *services.EnrollmentService
	AnnouncementService *services.AnnouncementService
	AnalyticsService    *services.AnalyticsService
	AuditService        *services.AuditService

	AuthMiddleware *middleware.AuthMiddleware
}

// LoadConfigAndSetupLogger loads the application configuration and
// configures the global logger from it.
func LoadConfigAndSetupLogger() (*config.Config, error) {
	cfg, err := config.LoadConfig(filepath.Join("configs", "config.yaml"))
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger.Configure(logger.Config{
		Level:      logger.LogLevel(cfg.Logging.Level),
		Pretty:     cfg.Logging.Format == "pretty",
		File:       cfg.Logging.File,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
	})

	return cfg, nil
}

// SetupDatabase connects to PostgreSQL, runs pending migrations and seeds
// default data. Seeding failures are logged but do not abort startup.
func SetupDatabase(ctx context.Context, cfg *config.Config) (*db.PostgresDB, error) {
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	migrator := migrations.NewMigrator(database.Pool)
	if err := migrator.MigrateFromDirectory(ctx, "migrations"); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := seed.CreateDefaultData(ctx, database.Pool, logger.WithField("component", "seed")); err != nil {
		logger.Warn().Err(err).Msg("Seeding default data failed")
	}

	return database, nil
}

// BuildDependencies constructs repositories, services, controllers and
// middleware on top of the connection pool.
func BuildDependencies(cfg *config.Config, database *db.PostgresDB) *Dependencies {
	repos := repositories.NewRepositories(database.Pool)

	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:       cfg.JWT.Secret,
		AccessTokenExp:  helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, auth.DefaultAccessTokenExp),
		RefreshTokenExp: helpers.ParseDuration(cfg.JWT.RefreshTokenExpiration, auth.DefaultRefreshTokenExp),
		TokenIssuer:     cfg.JWT.Issuer,
	})

	scopeResolver := appauth.NewScopeResolver(
		repos.StudentRepository,
		repos.FacultyRepository,
		repos.AssignmentRepository,
	)

	auditService := services.NewAuditService(repos.AuditRepository, logger.WithField("component", "audit"))

	authService := services.NewAuthService(
		repos.UserRepository,
		repos.StudentRepository,
		repos.FacultyRepository,
		repos.TokenRepository,
		jwtService,
		auditService,
		logger.WithField("component", "auth"),
	)
	userService := services.NewUserService(
		repos.UserRepository,
		repos.DepartmentRepository,
		logger.WithField("component", "users"),
	)
	departmentService := services.NewDepartmentService(
		repos.DepartmentRepository,
		logger.WithField("component", "departments"),
	)
	courseService := services.NewCourseService(
		repos.CourseRepository,
		repos.DepartmentRepository,
		repos.AssignmentRepository,
		repos.FacultyRepository,
		logger.WithField("component", "courses"),
	)
	enrollmentService := services.NewEnrollmentService(
		repos.EnrollmentRepository,
		repos.CourseRepository,
		auditService,
		logger.WithField("component", "enrollments"),
	)
	announcementService := services.NewAnnouncementService(
		repos.AnnouncementRepository,
		repos.EnrollmentRepository,
		auditService,
		logger.WithField("component", "announcements"),
	)
	analyticsService := services.NewAnalyticsService(
		repos.AnalyticsRepository,
		logger.WithField("component", "analytics"),
	)

	authMiddleware := middleware.NewAuthMiddleware(
		jwtService,
		scopeResolver,
		auditService,
		logger.WithField("component", "middleware"),
	)

	return &Dependencies{
		Repositories:        repos,
		JWTService:          jwtService,
		AuthService:         authService,
		UserService:         userService,
		DepartmentService:   departmentService,
		CourseService:       courseService,
		EnrollmentService:   enrollmentService,
		AnnouncementService: announcementService,
		AnalyticsService:    analyticsService,
		AuditService:        auditService,
		AuthMiddleware:      authMiddleware,
	}
}

// SetupRouter builds the Gin engine with all routes and shared middleware.
func SetupRouter(cfg *config.Config, deps *Dependencies) *gin.Engine {
	if cfg.Server.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	router := gin.Default()
	router.Use(middleware.RequestMetrics())

	authController := controllers.NewAuthController(deps.AuthService)
	userController := controllers.NewUserController(deps.UserService)
	departmentController := controllers.NewDepartmentController(deps.DepartmentService)
	courseController := controllers.NewCourseController(deps.CourseService, deps.EnrollmentService)
	enrollmentController := controllers.NewEnrollmentController(deps.EnrollmentService)
	announcementController := controllers.NewAnnouncementController(deps.AnnouncementService)
	analyticsController := controllers.NewAnalyticsController(deps.AnalyticsService)
	auditController := controllers.NewAuditController(deps.AuditService)

	routes.SetupRouter(
		router,
		authController,
		userController,
		departmentController,
		courseController,
		enrollmentController,
		announcementController,
		analyticsController,
		auditController,
		deps.AuthMiddleware,
	)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(
		swaggerFiles.Handler,
		ginSwagger.URL("/swagger/doc.json"),
		ginSwagger.DefaultModelsExpandDepth(1),
	))

	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	return router
}
