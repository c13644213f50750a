package routes

import (
	"HealthcareAPI/cache"
	"HealthcareAPI/config"
	"HealthcareAPI/controllers"
	"HealthcareAPI/handlers"
	"HealthcareAPI/middlewares"
	"HealthcareAPI/repositories"
	"HealthcareAPI/services"
	"HealthcareAPI/utils"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Dependencies are the long-lived resources the router is built from.
// Cache may wrap a nil redis client and Mailer may be nil.
type Dependencies struct {
	DB     *gorm.DB
	Cache  *cache.Cache
	Tokens *utils.TokenManager
	Mailer utils.Mailer
}

// SetupRoutes initializes the routes and middleware for the server
func SetupRoutes(cfg *config.AppConfig, deps Dependencies) http.Handler {
	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middlewares.LoggingMiddleware())
	router.Use(middlewares.ErrorDetailMiddleware(!cfg.IsProduction()))
	router.Use(middlewares.CorsMiddleware(middlewares.DefaultCorsConfig(cfg.CORSOrigins)))
	router.Use(middlewares.SecurityHeaders())
	router.Use(middlewares.NewRateLimiterMiddleware(middlewares.RateLimiterConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		Burst:             cfg.RateLimitBurst,
	}))

	// Initialize repositories, services, and handlers
	userRepo := repositories.NewUserRepository(deps.DB)
	patientRepo := repositories.NewPatientRepository(deps.DB)
	doctorRepo := repositories.NewDoctorRepository(deps.DB)
	ledger := repositories.NewAssignmentRepository(deps.DB)

	resetCodes := utils.NewResetCodeStore(deps.Cache, cfg.ResetCodeTTL)
	authService := services.NewAuthService(userRepo, deps.Tokens, resetCodes, deps.Mailer, deps.Cache)
	patientService := services.NewPatientService(userRepo, patientRepo)
	doctorService := services.NewDoctorService(userRepo, doctorRepo, ledger, deps.Cache)
	assignmentService := services.NewAssignmentService(ledger, patientRepo, doctorRepo)

	auth := middlewares.TokenAuthMiddleware(deps.Tokens, authService)

	// Register routes
	api := router.Group("/api")
	controllers.NewAuthController(handlers.NewAuthHandler(authService)).RegisterRoutes(api, auth)
	controllers.NewDoctorController(handlers.NewDoctorHandler(doctorService)).RegisterRoutes(api, auth)
	controllers.NewPatientController(handlers.NewPatientHandler(patientService)).RegisterRoutes(api, auth)
	controllers.NewMappingController(handlers.NewAssignmentHandler(assignmentService)).RegisterRoutes(api, auth)

	controllers.SetupRootRoute(router)
	router.NoRoute(middlewares.NotFoundHandler)

	return router
}
