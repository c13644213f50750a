package controllers

import (
	"HealthcareAPI/handlers"
	"HealthcareAPI/middlewares"
	"HealthcareAPI/models"

	"github.com/gin-gonic/gin"
)

type PatientController struct {
	Handler *handlers.PatientHandler
}

func NewPatientController(patientHandler *handlers.PatientHandler) *PatientController {
	return &PatientController{Handler: patientHandler}
}

// RegisterRoutes mounts /patients. Reads and updates are open to any
// authenticated caller; the service narrows them to the owner or an admin.
func (pc *PatientController) RegisterRoutes(api *gin.RouterGroup, auth gin.HandlerFunc) {
	group := api.Group("/patients", auth)
	{
		group.GET("", pc.Handler.GetAllPatients)
		group.GET("/:id", pc.Handler.GetPatientByID)
		group.PUT("/:id", pc.Handler.UpdatePatient)
	}

	admin := api.Group("/patients", auth, middlewares.RoleAuthMiddleware(models.RoleAdmin))
	{
		admin.POST("", pc.Handler.CreatePatient)
		admin.DELETE("/:id", pc.Handler.DeletePatient)
	}
}
