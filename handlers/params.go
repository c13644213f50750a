package handlers

import (
	"HealthcareAPI/apperrors"
	"HealthcareAPI/middlewares"
	"HealthcareAPI/models"
	"strconv"

	"github.com/gin-gonic/gin"
)

// parseID reads a positive integer path parameter.
func parseID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		middlewares.RespondError(c, apperrors.New(apperrors.CodeInvalidRequest, "invalid "+name))
		return 0, false
	}
	return id, true
}

func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		middlewares.RespondError(c, apperrors.Wrap(apperrors.CodeInvalidRequest, "Invalid request body", err))
		return false
	}
	return true
}

func bindQuery(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindQuery(dst); err != nil {
		middlewares.RespondError(c, apperrors.Wrap(apperrors.CodeInvalidRequest, "Invalid query parameters", err))
		return false
	}
	return true
}

func bindPage(c *gin.Context) (models.Page, bool) {
	var page models.Page
	if !bindQuery(c, &page) {
		return page, false
	}
	return page.Normalize(), true
}
