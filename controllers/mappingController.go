package controllers

import (
	"HealthcareAPI/handlers"
	"HealthcareAPI/middlewares"
	"HealthcareAPI/models"

	"github.com/gin-gonic/gin"
)

type MappingController struct {
	Handler *handlers.AssignmentHandler
}

func NewMappingController(assignmentHandler *handlers.AssignmentHandler) *MappingController {
	return &MappingController{Handler: assignmentHandler}
}

func (mc *MappingController) RegisterRoutes(api *gin.RouterGroup, auth gin.HandlerFunc) {
	// Patients may read their own doctors.
	api.GET("/mappings/patient/:patientId", auth, mc.Handler.GetPatientDoctors)

	admin := api.Group("/mappings", auth, middlewares.RoleAuthMiddleware(models.RoleAdmin))
	{
		admin.POST("", mc.Handler.AssignDoctor)
		admin.GET("", mc.Handler.GetAllMappings)
		admin.GET("/doctor/:doctorId", mc.Handler.GetDoctorPatients)
		admin.DELETE("/:id", mc.Handler.RemoveMapping)
	}
}
