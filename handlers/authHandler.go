package handlers

import (
	"HealthcareAPI/middlewares"
	"HealthcareAPI/models"
	"HealthcareAPI/services"
	"net/http"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	service services.AuthService
}

func NewAuthHandler(service services.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

func authResponse(res *services.AuthResult) gin.H {
	return gin.H{
		"token":     res.Token,
		"expiresAt": res.ExpiresAt,
		"expiresIn": int64(res.ExpiresIn.Seconds()),
		"user":      res.User,
	}
}

// Register creates an admin account and signs it in.
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, http.StatusCreated, authResponse(res))
}

func (h *AuthHandler) RegisterPatient(c *gin.Context) {
	var req models.RegisterPatientRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := h.service.RegisterPatient(c.Request.Context(), middlewares.CurrentIdentity(c), req)
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, http.StatusCreated, gin.H{"user": user})
}

func (h *AuthHandler) RegisterDoctor(c *gin.Context) {
	var req models.RegisterDoctorRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := h.service.RegisterDoctor(c.Request.Context(), middlewares.CurrentIdentity(c), req)
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, http.StatusCreated, gin.H{"user": user})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, http.StatusOK, authResponse(res))
}

func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.service.Me(c.Request.Context(), middlewares.CurrentIdentity(c))
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, http.StatusOK, gin.H{"user": user})
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req models.ChangePasswordRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.service.ChangePassword(c.Request.Context(), middlewares.CurrentIdentity(c), req); err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, http.StatusOK, gin.H{"message": "Password updated successfully"})
}

func (h *AuthHandler) RefreshToken(c *gin.Context) {
	res, err := h.service.RefreshToken(c.Request.Context(), middlewares.CurrentIdentity(c))
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, http.StatusOK, authResponse(res))
}

func (h *AuthHandler) SendResetCode(c *gin.Context) {
	var req models.SendResetCodeRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.service.SendResetCode(c.Request.Context(), req); err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, http.StatusOK, gin.H{"message": "If the email is registered, a reset code has been sent"})
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req models.ResetPasswordRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.service.ResetPassword(c.Request.Context(), req); err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, http.StatusOK, gin.H{"message": "Password reset successfully"})
}

func (h *AuthHandler) ListUsers(c *gin.Context) {
	page, ok := bindPage(c)
	if !ok {
		return
	}
	users, pagination, err := h.service.ListUsers(c.Request.Context(), middlewares.CurrentIdentity(c), c.Query("role"), page)
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, http.StatusOK, gin.H{"data": users, "pagination": pagination})
}

func (h *AuthHandler) DeleteUser(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.service.DeleteUser(c.Request.Context(), middlewares.CurrentIdentity(c), id); err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, http.StatusOK, gin.H{"message": "User deleted successfully"})
}
