package controllers

import (
	"HealthcareAPI/handlers"
	"HealthcareAPI/middlewares"
	"HealthcareAPI/models"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	Handler *handlers.AuthHandler
}

// NewAuthController creates a new AuthController with the given AuthHandler
func NewAuthController(authHandler *handlers.AuthHandler) *AuthController {
	return &AuthController{
		Handler: authHandler,
	}
}

// RegisterRoutes mounts the /auth routes. auth verifies the bearer token.
func (ac *AuthController) RegisterRoutes(api *gin.RouterGroup, auth gin.HandlerFunc) {
	group := api.Group("/auth")

	// Public routes
	group.POST("/register", ac.Handler.Register)
	group.POST("/login", ac.Handler.Login)
	group.POST("/send-reset-code", ac.Handler.SendResetCode)
	group.POST("/reset-password", ac.Handler.ResetPassword)

	// Authenticated routes
	protected := group.Group("", auth)
	{
		protected.GET("/me", ac.Handler.Me)
		protected.PUT("/change-password", ac.Handler.ChangePassword)
		protected.POST("/refresh-token", ac.Handler.RefreshToken)
	}

	// Admin routes
	admin := group.Group("", auth, middlewares.RoleAuthMiddleware(models.RoleAdmin))
	{
		admin.POST("/register/patient", ac.Handler.RegisterPatient)
		admin.POST("/register/doctor", ac.Handler.RegisterDoctor)
		admin.GET("/users", ac.Handler.ListUsers)
		admin.DELETE("/users/:id", ac.Handler.DeleteUser)
	}
}
