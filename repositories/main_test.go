package repositories

import (
	"HealthcareAPI/database"
	"HealthcareAPI/models"
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.InitDB(context.Background(), database.Config{
		Driver: database.DriverSQLite,
		DSN:    ":memory:",
	})
	require.NoError(t, err, "failed to open test database")
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }

func boolPtr(b bool) *bool { return &b }

func createPatientUser(t *testing.T, repo UserRepository, name string) *models.User {
	t.Helper()
	user, err := repo.Create(context.Background(), models.NewUser{
		Name:     name,
		Email:    fmt.Sprintf("%s@example.com", name),
		Password: "secret123",
		Role:     models.RolePatient,
		Patient: &models.PatientFields{
			DateOfBirth: "1990-01-01",
			Phone:       "555-0100",
		},
	})
	require.NoError(t, err)
	return user
}

func createDoctorUser(t *testing.T, repo UserRepository, name, license, specialization string) *models.User {
	t.Helper()
	user, err := repo.Create(context.Background(), models.NewUser{
		Name:     name,
		Email:    fmt.Sprintf("%s@example.com", name),
		Password: "secret123",
		Role:     models.RoleDoctor,
		Doctor: &models.DoctorFields{
			Specialization:  specialization,
			LicenseNumber:   license,
			Phone:           "555-0200",
			ExperienceYears: intPtr(5),
		},
	})
	require.NoError(t, err)
	return user
}

func countRows(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}
