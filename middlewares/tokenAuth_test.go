package middlewares

import (
	"HealthcareAPI/models"
	"HealthcareAPI/utils"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubLookup map[int64]*utils.Identity

func (s stubLookup) LookupIdentity(_ context.Context, userID int64) (*utils.Identity, error) {
	return s[userID], nil
}

func setupRouter(t *testing.T, tokens *utils.TokenManager, lookup IdentityLookup) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(ErrorDetailMiddleware(false))

	protected := router.Group("/", TokenAuthMiddleware(tokens, lookup))
	protected.GET("/me", func(c *gin.Context) {
		RespondJSON(c, http.StatusOK, gin.H{"userId": CurrentIdentity(c).UserID})
	})
	protected.GET("/admin", RoleAuthMiddleware(models.RoleAdmin), func(c *gin.Context) {
		RespondJSON(c, http.StatusOK, nil)
	})
	return router
}

func newTokens(t *testing.T) *utils.TokenManager {
	t.Helper()
	tokens, err := utils.NewTokenManager([]byte(strings.Repeat("m", 32)), time.Hour)
	require.NoError(t, err)
	return tokens
}

func doRequest(router *gin.Engine, path, authHeader string) (*httptest.ResponseRecorder, map[string]interface{}) {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var body map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return w, body
}

func TestTokenAuthMiddleware(t *testing.T) {
	tokens := newTokens(t)
	lookup := stubLookup{
		1: {UserID: 1, Role: models.RoleAdmin},
		2: {UserID: 2, Role: models.RolePatient},
	}
	router := setupRouter(t, tokens, lookup)

	adminToken, _, err := tokens.Issue(1, models.RoleAdmin)
	require.NoError(t, err)
	patientToken, _, err := tokens.Issue(2, models.RolePatient)
	require.NoError(t, err)
	ghostToken, _, err := tokens.Issue(3, models.RolePatient)
	require.NoError(t, err)

	expired := newTokens(t).WithClock(func() time.Time { return time.Now().Add(-2 * time.Hour) })
	expiredToken, _, err := expired.Issue(1, models.RoleAdmin)
	require.NoError(t, err)

	tests := []struct {
		name       string
		path       string
		header     string
		wantStatus int
		wantCode   string
	}{
		{"missing header", "/me", "", http.StatusUnauthorized, "InvalidToken"},
		{"wrong scheme", "/me", "Basic abc", http.StatusUnauthorized, "InvalidToken"},
		{"garbage token", "/me", "Bearer not-a-token", http.StatusUnauthorized, "InvalidToken"},
		{"expired token", "/me", "Bearer " + expiredToken, http.StatusUnauthorized, "ExpiredToken"},
		{"deleted user", "/me", "Bearer " + ghostToken, http.StatusUnauthorized, "InvalidToken"},
		{"valid token", "/me", "Bearer " + patientToken, http.StatusOK, ""},
		{"role gate rejects patient", "/admin", "Bearer " + patientToken, http.StatusForbidden, "Forbidden"},
		{"role gate admits admin", "/admin", "Bearer " + adminToken, http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, body := doRequest(router, tt.path, tt.header)
			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantCode != "" {
				assert.Equal(t, false, body["success"])
				assert.Equal(t, tt.wantCode, body["code"])
				assert.NotContains(t, body, "error")
			} else {
				assert.Equal(t, true, body["success"])
			}
		})
	}
}

func TestExtractBearerToken(t *testing.T) {
	token, err := ExtractBearerToken("Bearer abc.def")
	require.NoError(t, err)
	assert.Equal(t, "abc.def", token)

	_, err = ExtractBearerToken("Bearer ")
	assert.Error(t, err)
}

func TestRateLimiterRejectsBurstOverflow(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(NewRateLimiterMiddleware(RateLimiterConfig{RequestsPerSecond: 0.001, Burst: 1}))
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w, _ := doRequest(router, "/", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = doRequest(router, "/", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}
