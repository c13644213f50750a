package routes

import (
	"HealthcareAPI/cache"
	"HealthcareAPI/config"
	"HealthcareAPI/database"
	"HealthcareAPI/utils"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testKey = []byte(strings.Repeat("k", 32))

type apiClient struct {
	t       *testing.T
	handler http.Handler
}

func setupAPI(t *testing.T) *apiClient {
	t.Helper()
	db, err := database.InitDB(context.Background(), database.Config{Driver: database.DriverSQLite, DSN: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	tokens, err := utils.NewTokenManager(testKey, time.Hour)
	require.NoError(t, err)

	cfg := &config.AppConfig{
		Env:         config.EnvTest,
		CORSOrigins: []string{"*"},
	}
	handler := SetupRoutes(cfg, Dependencies{DB: db, Cache: cache.New(nil), Tokens: tokens})
	return &apiClient{t: t, handler: handler}
}

func (a *apiClient) do(method, path, token string, body interface{}) (int, map[string]interface{}) {
	a.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.handler.ServeHTTP(w, req)

	var out map[string]interface{}
	require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return w.Code, out
}

func (a *apiClient) login(email, password string) string {
	a.t.Helper()
	status, body := a.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": email, "password": password})
	require.Equal(a.t, http.StatusOK, status, body)
	return body["token"].(string)
}

func dataID(t *testing.T, body map[string]interface{}) int64 {
	t.Helper()
	data, ok := body["data"].(map[string]interface{})
	require.True(t, ok, body)
	return int64(data["id"].(float64))
}

func patientBody(name, phone string) map[string]interface{} {
	return map[string]interface{}{
		"name":        name,
		"email":       name + "@x.com",
		"password":    "secret1",
		"dateOfBirth": "1990-01-01",
		"phone":       phone,
	}
}

func TestDirectoryScenario(t *testing.T) {
	api := setupAPI(t)

	status, body := api.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": "Admin", "email": "admin@x.com", "password": "secret1", "role": "admin",
	})
	require.Equal(t, http.StatusCreated, status, body)
	assert.Equal(t, true, body["success"])
	assert.NotEmpty(t, body["token"])

	status, body = api.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "admin@x.com", "password": "secret1"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "admin", body["user"].(map[string]interface{})["role"])
	assert.Equal(t, float64(time.Hour/time.Second), body["expiresIn"])
	adminToken := body["token"].(string)

	t.Run("missing phone is rejected", func(t *testing.T) {
		status, body := api.do(http.MethodPost, "/api/auth/register/patient", adminToken, patientBody("nophone", ""))
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "MissingRequiredField", body["code"])
		assert.Equal(t, false, body["success"])
	})

	status, body = api.do(http.MethodPost, "/api/patients", adminToken, patientBody("alice", "555-0101"))
	require.Equal(t, http.StatusCreated, status, body)
	aliceID := dataID(t, body)

	status, body = api.do(http.MethodPost, "/api/patients", adminToken, patientBody("bob", "555-0102"))
	require.Equal(t, http.StatusCreated, status, body)

	status, body = api.do(http.MethodPost, "/api/doctors", adminToken, map[string]interface{}{
		"name": "house", "email": "house@x.com", "password": "secret1",
		"specialization": "Diagnostics", "licenseNumber": "LIC-1", "phone": "555-0201",
	})
	require.Equal(t, http.StatusCreated, status, body)
	doctorID := dataID(t, body)

	assign := map[string]interface{}{"patientId": aliceID, "doctorId": doctorID}
	status, body = api.do(http.MethodPost, "/api/mappings", adminToken, assign)
	require.Equal(t, http.StatusCreated, status, body)

	status, body = api.do(http.MethodPost, "/api/mappings", adminToken, assign)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "AlreadyAssigned", body["code"])

	path := fmt.Sprintf("/api/mappings/patient/%d", aliceID)
	status, body = api.do(http.MethodGet, path, adminToken, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["data"], 1)

	status, _ = api.do(http.MethodDelete, fmt.Sprintf("/api/doctors/%d", doctorID), adminToken, nil)
	require.Equal(t, http.StatusOK, status)

	status, body = api.do(http.MethodGet, path, adminToken, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["data"], 0)

	t.Run("patients cannot read each other", func(t *testing.T) {
		bobToken := api.login("bob@x.com", "secret1")
		status, body := api.do(http.MethodGet, fmt.Sprintf("/api/patients/%d", aliceID), bobToken, nil)
		assert.Equal(t, http.StatusForbidden, status)
		assert.Equal(t, "Forbidden", body["code"])

		aliceToken := api.login("alice@x.com", "secret1")
		status, _ = api.do(http.MethodGet, fmt.Sprintf("/api/patients/%d", aliceID), aliceToken, nil)
		assert.Equal(t, http.StatusOK, status)
	})

	t.Run("patients see only their own record", func(t *testing.T) {
		aliceToken := api.login("alice@x.com", "secret1")
		status, body := api.do(http.MethodGet, "/api/patients", aliceToken, nil)
		require.Equal(t, http.StatusOK, status)
		assert.Len(t, body["data"], 1)
	})

	t.Run("non-admin cannot create doctors", func(t *testing.T) {
		aliceToken := api.login("alice@x.com", "secret1")
		status, body := api.do(http.MethodPost, "/api/doctors", aliceToken, map[string]interface{}{
			"name": "x", "email": "x@x.com", "password": "secret1",
			"specialization": "X", "licenseNumber": "LIC-X", "phone": "1",
		})
		assert.Equal(t, http.StatusForbidden, status)
		assert.Equal(t, "Forbidden", body["code"])
	})
}

func TestRegisterRejectsNonAdminRole(t *testing.T) {
	api := setupAPI(t)
	status, body := api.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": "Eve", "email": "eve@x.com", "password": "secret1", "role": "doctor",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "InvalidRequest", body["code"])
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	api := setupAPI(t)
	api.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": "Admin", "email": "admin@x.com", "password": "secret1",
	})

	_, wrongPassword := api.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "admin@x.com", "password": "nope123"})
	status, unknownEmail := api.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "ghost@x.com", "password": "secret1"})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, wrongPassword, unknownEmail)
}

func TestExpiredTokenIsRejected(t *testing.T) {
	api := setupAPI(t)
	status, body := api.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": "Admin", "email": "admin@x.com", "password": "secret1",
	})
	require.Equal(t, http.StatusCreated, status)
	userID := int64(body["user"].(map[string]interface{})["id"].(float64))

	past, err := utils.NewTokenManager(testKey, time.Hour)
	require.NoError(t, err)
	past.WithClock(func() time.Time { return time.Now().Add(-2 * time.Hour) })
	expired, _, err := past.Issue(userID, "admin")
	require.NoError(t, err)

	status, body = api.do(http.MethodGet, "/api/auth/me", expired, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "ExpiredToken", body["code"])
}

func TestDoctorDirectoryIsPublic(t *testing.T) {
	api := setupAPI(t)
	status, body := api.do(http.MethodGet, "/api/doctors", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "pagination")
	assert.Contains(t, body["filters"], "specializations")

	status, _ = api.do(http.MethodGet, "/api/doctors/specializations", "", nil)
	assert.Equal(t, http.StatusOK, status)

	status, body = api.do(http.MethodGet, "/api/doctors/999", "", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NotFound", body["code"])
}

func TestResetFlowUnavailableWithoutRedis(t *testing.T) {
	api := setupAPI(t)
	status, body := api.do(http.MethodPost, "/api/auth/send-reset-code", "", map[string]string{"email": "a@x.com"})
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, "Unavailable", body["code"])
}

func TestUnknownRoute(t *testing.T) {
	api := setupAPI(t)
	status, body := api.do(http.MethodGet, "/api/nowhere", "", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Route not found", body["message"])
}
