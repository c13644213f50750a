package middlewares

import (
	"HealthcareAPI/apperrors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const exposeErrorDetailKey = "exposeErrorDetail"

// ErrorDetailMiddleware controls whether error responses carry the
// underlying error text. It is disabled in production.
func ErrorDetailMiddleware(expose bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(exposeErrorDetailKey, expose)
		c.Next()
	}
}

// RespondJSON writes a success envelope merged with body.
func RespondJSON(c *gin.Context, status int, body gin.H) {
	out := gin.H{"success": true}
	for k, v := range body {
		out[k] = v
	}
	c.JSON(status, out)
}

// RespondError maps err onto its status and writes the error envelope.
func RespondError(c *gin.Context, err error) {
	appErr := apperrors.From(err)
	status := appErr.Status()

	event := log.Warn()
	if status >= http.StatusInternalServerError {
		event = log.Error()
	}
	event.Err(err).
		Str("requestId", RequestID(c)).
		Str("code", string(appErr.Code)).
		Int("status", status).
		Msg("request failed")

	message := appErr.Message
	if appErr.Code == apperrors.CodeInternal {
		message = "Server error"
	}
	HttpError(c, status, appErr.Code, message, err)
}

// HttpError writes the error envelope and aborts the chain.
func HttpError(c *gin.Context, status int, code apperrors.Code, message string, err error) {
	body := gin.H{
		"success": false,
		"message": message,
		"code":    code,
	}
	if err != nil && c.GetBool(exposeErrorDetailKey) {
		body["error"] = err.Error()
	}
	c.AbortWithStatusJSON(status, body)
}

// NotFoundHandler answers unmatched routes.
func NotFoundHandler(c *gin.Context) {
	HttpError(c, http.StatusNotFound, apperrors.CodeNotFound, "Route not found", nil)
}
