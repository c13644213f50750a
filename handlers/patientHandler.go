package handlers

import (
	"HealthcareAPI/middlewares"
	"HealthcareAPI/models"
	"HealthcareAPI/services"
	"net/http"

	"github.com/gin-gonic/gin"
)

type PatientHandler struct {
	service *services.PatientService
}

func NewPatientHandler(service *services.PatientService) *PatientHandler {
	return &PatientHandler{service: service}
}

func (h *PatientHandler) CreatePatient(c *gin.Context) {
	var req models.RegisterPatientRequest
	if !bindJSON(c, &req) {
		return
	}
	patient, err := h.service.Create(c.Request.Context(), middlewares.CurrentIdentity(c), req)
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, http.StatusCreated, gin.H{"data": patient})
}

func (h *PatientHandler) GetAllPatients(c *gin.Context) {
	page, ok := bindPage(c)
	if !ok {
		return
	}
	var filter models.PatientFilter
	if !bindQuery(c, &filter) {
		return
	}
	patients, pagination, err := h.service.List(c.Request.Context(), middlewares.CurrentIdentity(c), filter, page)
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, http.StatusOK, gin.H{"data": patients, "pagination": pagination})
}

func (h *PatientHandler) GetPatientByID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	patient, err := h.service.Get(c.Request.Context(), middlewares.CurrentIdentity(c), id)
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, http.StatusOK, gin.H{"data": patient})
}

func (h *PatientHandler) UpdatePatient(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var upd models.PatientUpdate
	if !bindJSON(c, &upd) {
		return
	}
	patient, err := h.service.Update(c.Request.Context(), middlewares.CurrentIdentity(c), id, upd)
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, http.StatusOK, gin.H{"data": patient})
}

func (h *PatientHandler) DeletePatient(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), middlewares.CurrentIdentity(c), id); err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, http.StatusOK, gin.H{"message": "Patient deleted successfully"})
}
