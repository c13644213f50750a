package services

import (
	"HealthcareAPI/cache"
	"HealthcareAPI/database"
	"HealthcareAPI/models"
	"HealthcareAPI/repositories"
	"HealthcareAPI/utils"
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type testEnv struct {
	auth        AuthService
	patients    *PatientService
	doctors     *DoctorService
	assignments *AssignmentService
	tokens      *utils.TokenManager
	admin       *utils.Identity
}

func setupServices(t *testing.T) *testEnv {
	t.Helper()
	db, err := database.InitDB(context.Background(), database.Config{Driver: database.DriverSQLite, DSN: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	tokens, err := utils.NewTokenManager([]byte(strings.Repeat("s", 32)), time.Hour)
	require.NoError(t, err)

	c := cache.New(nil)
	userRepo := repositories.NewUserRepository(db)
	patientRepo := repositories.NewPatientRepository(db)
	doctorRepo := repositories.NewDoctorRepository(db)
	ledger := repositories.NewAssignmentRepository(db)

	env := &testEnv{
		auth:        NewAuthService(userRepo, tokens, nil, nil, c),
		patients:    NewPatientService(userRepo, patientRepo),
		doctors:     NewDoctorService(userRepo, doctorRepo, ledger, c),
		assignments: NewAssignmentService(ledger, patientRepo, doctorRepo),
		tokens:      tokens,
	}

	res, err := env.auth.Register(context.Background(), models.RegisterRequest{
		Credentials: models.Credentials{Name: "Admin", Email: "admin@x.com", Password: "secret1"},
		Role:        models.RoleAdmin,
	})
	require.NoError(t, err)
	env.admin = identityOf(res.User)
	return env
}

func identityOf(u *models.User) *utils.Identity {
	return &utils.Identity{UserID: u.ID, Role: u.Role, Email: u.Email, Name: u.Name}
}

func (e *testEnv) createPatient(t *testing.T, name string) *models.Patient {
	t.Helper()
	p, err := e.patients.Create(context.Background(), e.admin, models.RegisterPatientRequest{
		Credentials:   models.Credentials{Name: name, Email: fmt.Sprintf("%s@x.com", name), Password: "secret1"},
		PatientFields: models.PatientFields{DateOfBirth: "1985-05-05", Phone: "555-0101"},
	})
	require.NoError(t, err)
	return p
}

func (e *testEnv) createDoctor(t *testing.T, name, license string) *models.Doctor {
	t.Helper()
	d, err := e.doctors.Create(context.Background(), e.admin, models.RegisterDoctorRequest{
		Credentials:  models.Credentials{Name: name, Email: fmt.Sprintf("%s@x.com", name), Password: "secret1"},
		DoctorFields: models.DoctorFields{Specialization: "Cardiology", LicenseNumber: license, Phone: "555-0202"},
	})
	require.NoError(t, err)
	return d
}
