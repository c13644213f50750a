package controllers

import (
	"HealthcareAPI/handlers"
	"HealthcareAPI/middlewares"
	"HealthcareAPI/models"

	"github.com/gin-gonic/gin"
)

type DoctorController struct {
	Handler *handlers.DoctorHandler
}

func NewDoctorController(doctorHandler *handlers.DoctorHandler) *DoctorController {
	return &DoctorController{Handler: doctorHandler}
}

// RegisterRoutes mounts /doctors. The /me and /specializations paths are
// registered ahead of /:id.
func (dc *DoctorController) RegisterRoutes(api *gin.RouterGroup, auth gin.HandlerFunc) {
	group := api.Group("/doctors")

	self := group.Group("/me", auth, middlewares.RoleAuthMiddleware(models.RoleDoctor))
	{
		self.GET("", dc.Handler.GetMyProfile)
		self.PUT("", dc.Handler.UpdateMyProfile)
		self.GET("/patients", dc.Handler.GetMyPatients)
	}

	group.GET("/specializations", dc.Handler.GetSpecializations)
	group.GET("", dc.Handler.GetAllDoctors)
	group.GET("/:id", dc.Handler.GetDoctorByID)

	admin := group.Group("", auth, middlewares.RoleAuthMiddleware(models.RoleAdmin))
	{
		admin.POST("", dc.Handler.CreateDoctor)
		admin.PUT("/:id", dc.Handler.UpdateDoctor)
		admin.DELETE("/:id", dc.Handler.DeleteDoctor)
	}
}
