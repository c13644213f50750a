package handlers

import (
	"HealthcareAPI/middlewares"
	"HealthcareAPI/models"
	"HealthcareAPI/services"
	"net/http"

	"github.com/gin-gonic/gin"
)

type DoctorHandler struct {
	service *services.DoctorService
}

func NewDoctorHandler(service *services.DoctorService) *DoctorHandler {
	return &DoctorHandler{service: service}
}

func (h *DoctorHandler) CreateDoctor(c *gin.Context) {
	var req models.RegisterDoctorRequest
	if !bindJSON(c, &req) {
		return
	}
	doctor, err := h.service.Create(c.Request.Context(), middlewares.CurrentIdentity(c), req)
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, http.StatusCreated, gin.H{"data": doctor})
}

func (h *DoctorHandler) GetAllDoctors(c *gin.Context) {
	page, ok := bindPage(c)
	if !ok {
		return
	}
	var filter models.DoctorFilter
	if !bindQuery(c, &filter) {
		return
	}
	list, err := h.service.List(c.Request.Context(), filter, page)
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, http.StatusOK, gin.H{
		"data":       list.Doctors,
		"pagination": list.Pagination,
		"filters":    gin.H{"specializations": list.Specializations},
	})
}

func (h *DoctorHandler) GetSpecializations(c *gin.Context) {
	specs, err := h.service.Specializations(c.Request.Context())
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, http.StatusOK, gin.H{"data": specs})
}

func (h *DoctorHandler) GetDoctorByID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	doctor, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, http.StatusOK, gin.H{"data": doctor})
}

func (h *DoctorHandler) UpdateDoctor(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var upd models.DoctorUpdate
	if !bindJSON(c, &upd) {
		return
	}
	doctor, err := h.service.Update(c.Request.Context(), middlewares.CurrentIdentity(c), id, upd)
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, http.StatusOK, gin.H{"data": doctor})
}

func (h *DoctorHandler) DeleteDoctor(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), middlewares.CurrentIdentity(c), id); err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, http.StatusOK, gin.H{"message": "Doctor deleted successfully"})
}

func (h *DoctorHandler) GetMyProfile(c *gin.Context) {
	doctor, err := h.service.Me(c.Request.Context(), middlewares.CurrentIdentity(c))
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, http.StatusOK, gin.H{"data": doctor})
}

func (h *DoctorHandler) UpdateMyProfile(c *gin.Context) {
	var upd models.DoctorUpdate
	if !bindJSON(c, &upd) {
		return
	}
	doctor, err := h.service.UpdateMe(c.Request.Context(), middlewares.CurrentIdentity(c), upd)
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, http.StatusOK, gin.H{"data": doctor})
}

func (h *DoctorHandler) GetMyPatients(c *gin.Context) {
	rows, err := h.service.MyPatients(c.Request.Context(), middlewares.CurrentIdentity(c), c.Query("status"))
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, http.StatusOK, gin.H{"data": rows, "count": len(rows)})
}
