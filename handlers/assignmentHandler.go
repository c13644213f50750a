package handlers

import (
	"HealthcareAPI/middlewares"
	"HealthcareAPI/models"
	"HealthcareAPI/services"
	"net/http"

	"github.com/gin-gonic/gin"
)

type AssignmentHandler struct {
	service *services.AssignmentService
}

func NewAssignmentHandler(service *services.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{service: service}
}

func (h *AssignmentHandler) AssignDoctor(c *gin.Context) {
	var req models.AssignRequest
	if !bindJSON(c, &req) {
		return
	}
	assignment, err := h.service.Assign(c.Request.Context(), middlewares.CurrentIdentity(c), req)
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, http.StatusCreated, gin.H{"data": assignment})
}

func (h *AssignmentHandler) GetAllMappings(c *gin.Context) {
	page, ok := bindPage(c)
	if !ok {
		return
	}
	rows, pagination, err := h.service.ListAll(c.Request.Context(), middlewares.CurrentIdentity(c), page)
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, http.StatusOK, gin.H{"data": rows, "pagination": pagination})
}

func (h *AssignmentHandler) GetPatientDoctors(c *gin.Context) {
	patientID, ok := parseID(c, "patientId")
	if !ok {
		return
	}
	rows, err := h.service.DoctorsForPatient(c.Request.Context(), middlewares.CurrentIdentity(c), patientID)
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, http.StatusOK, gin.H{"data": rows, "count": len(rows)})
}

func (h *AssignmentHandler) GetDoctorPatients(c *gin.Context) {
	doctorID, ok := parseID(c, "doctorId")
	if !ok {
		return
	}
	rows, err := h.service.PatientsForDoctor(c.Request.Context(), middlewares.CurrentIdentity(c), doctorID, c.Query("status"))
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, http.StatusOK, gin.H{"data": rows, "count": len(rows)})
}

func (h *AssignmentHandler) RemoveMapping(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.service.Remove(c.Request.Context(), middlewares.CurrentIdentity(c), id); err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, http.StatusOK, gin.H{"message": "Doctor removed from patient successfully"})
}
