package api

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"

	_ "github.com/ipsfulano/clinical-records-api/docs"
	"github.com/ipsfulano/clinical-records-api/internal/api/handler"
	"github.com/ipsfulano/clinical-records-api/internal/api/middleware"
	"github.com/ipsfulano/clinical-records-api/internal/core/domain"
	"github.com/ipsfulano/clinical-records-api/internal/core/ports"
	"github.com/ipsfulano/clinical-records-api/internal/core/service"
	"github.com/ipsfulano/clinical-records-api/internal/infrastructure/db/postgres"
	redisdb "github.com/ipsfulano/clinical-records-api/internal/infrastructure/db/redis"
	"github.com/ipsfulano/clinical-records-api/internal/pkg/config"
)

// NewRouter builds and returns the Echo instance with all routes
// registered. rdb may be nil; the login throttle is then disabled.
func NewRouter(cfg *config.Config, pool *pgxpool.Pool, rdb *goredis.Client, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.CORS,
	}))
	e.Use(echoprometheus.NewMiddleware("clinical"))

	// --- Dependencies ---
	userRepo := postgres.NewUserRepository(pool)
	patientRepo := postgres.NewPatientRepository(pool)
	historyRepo := postgres.NewClinicalHistoryRepository(pool)

	var throttle ports.LoginThrottle
	if rdb != nil {
		throttle = redisdb.NewLoginLimiter(rdb, cfg.Redis.LoginMaxAttempts, cfg.Redis.LoginWindow)
	}

	tokenService := service.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	authService := service.NewAuthService(userRepo, tokenService, throttle, log)
	userService := service.NewUserService(userRepo, cfg.SignupRoles, cfg.ManagedRoles, log)
	patientService := service.NewPatientService(patientRepo, log)
	historyService := service.NewClinicalHistoryService(historyRepo, patientRepo, log)

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	patientHandler := handler.NewPatientHandler(patientService)
	historyHandler := handler.NewClinicalHistoryHandler(historyService)

	authed := middleware.Auth(tokenService)
	adminOnly := middleware.RBAC(userRepo, domain.RoleAdmin)
	clinicalStaff := middleware.RBAC(userRepo, domain.RoleAdmin, domain.RoleDoctor, domain.RoleReceptionist)

	apiGroup := e.Group("/api")

	// --- Auth routes ---
	apiGroup.POST("/auth/login", authHandler.Login)
	apiGroup.GET("/auth/verify", authHandler.Verify, authed)

	// --- User routes ---
	if cfg.PublicSignup {
		apiGroup.POST("/users/create-initial", userHandler.CreateInitial)
	}
	users := apiGroup.Group("/users", authed, adminOnly)
	users.POST("", userHandler.Create)
	users.GET("", userHandler.List)
	users.GET("/:id", userHandler.GetByID)
	users.PUT("/:id", userHandler.Update)
	users.DELETE("/:id", userHandler.Delete)

	// --- Patient routes ---
	patients := apiGroup.Group("/patients", authed, clinicalStaff)
	patients.POST("", patientHandler.Create)
	patients.GET("", patientHandler.List)
	patients.GET("/:id", patientHandler.GetByID)
	patients.PUT("/:id", patientHandler.Update)
	patients.DELETE("/:id", patientHandler.Delete, adminOnly)

	// --- Clinical history routes ---
	histories := apiGroup.Group("/clinical-history", authed)
	histories.POST("", historyHandler.Create)
	histories.GET("", historyHandler.List)
	histories.GET("/search/:term", historyHandler.Search)
	histories.GET("/search/document/:document", historyHandler.SearchByDocument)
	histories.GET("/search/name/:name", historyHandler.SearchByName)
	histories.GET("/patient/:patientId", historyHandler.ListByPatient)
	histories.GET("/:id", historyHandler.GetByID)
	histories.PUT("/:id", historyHandler.Update)
	histories.DELETE("/:id", historyHandler.Delete, adminOnly)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(pool, rdb)

	apiGroup.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	apiGroup.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Operational endpoints ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
