package services

import (
	"HealthcareAPI/apperrors"
	"HealthcareAPI/cache"
	"HealthcareAPI/models"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAcceptsOnlyAdmin(t *testing.T) {
	env := setupServices(t)

	_, err := env.auth.Register(context.Background(), models.RegisterRequest{
		Credentials: models.Credentials{Name: "Pat", Email: "pat@x.com", Password: "secret1"},
		Role:        models.RolePatient,
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidRequest)
}

func TestLoginReturnsTokenForRole(t *testing.T) {
	env := setupServices(t)

	res, err := env.auth.Login(context.Background(), models.LoginRequest{Email: "admin@x.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, res.User.Role)

	claims, err := env.tokens.Verify(res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, claims.UserID)
	assert.Equal(t, models.RoleAdmin, claims.Role)
}

func TestLoginUsesOneErrorForUnknownEmailAndWrongPassword(t *testing.T) {
	env := setupServices(t)

	_, errUnknown := env.auth.Login(context.Background(), models.LoginRequest{Email: "nobody@x.com", Password: "secret1"})
	_, errWrong := env.auth.Login(context.Background(), models.LoginRequest{Email: "admin@x.com", Password: "wrong-pass"})

	assert.ErrorIs(t, errUnknown, apperrors.ErrInvalidCredentials)
	assert.ErrorIs(t, errWrong, apperrors.ErrInvalidCredentials)
	assert.Equal(t, errUnknown.Error(), errWrong.Error())
}

func TestRegisterPatientRequiresAdminAndPhone(t *testing.T) {
	env := setupServices(t)
	patient := env.createPatient(t, "paula")

	req := models.RegisterPatientRequest{
		Credentials:   models.Credentials{Name: "Nophone", Email: "nophone@x.com", Password: "secret1"},
		PatientFields: models.PatientFields{DateOfBirth: "1990-01-01"},
	}

	_, err := env.auth.RegisterPatient(context.Background(), identityOf(patient.User), req)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	_, err = env.auth.RegisterPatient(context.Background(), env.admin, req)
	assert.ErrorIs(t, err, apperrors.ErrMissingField)
}

func TestChangePassword(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()

	err := env.auth.ChangePassword(ctx, env.admin, models.ChangePasswordRequest{CurrentPassword: "nope123", NewPassword: "secret2"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	require.NoError(t, env.auth.ChangePassword(ctx, env.admin, models.ChangePasswordRequest{CurrentPassword: "secret1", NewPassword: "secret2"}))

	_, err = env.auth.Login(ctx, models.LoginRequest{Email: "admin@x.com", Password: "secret2"})
	assert.NoError(t, err)
}

func TestResetFlowUnavailableWithoutRedisAndSMTP(t *testing.T) {
	env := setupServices(t)

	err := env.auth.SendResetCode(context.Background(), models.SendResetCodeRequest{Email: "admin@x.com"})
	assert.ErrorIs(t, err, apperrors.ErrUnavailable)
}

func TestDeleteUserCascadesDoctor(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()
	patient := env.createPatient(t, "pia")
	doctor := env.createDoctor(t, "dre", "LIC-S1")

	_, err := env.assignments.Assign(ctx, env.admin, models.AssignRequest{PatientID: patient.ID, DoctorID: doctor.ID})
	require.NoError(t, err)

	require.NoError(t, env.auth.DeleteUser(ctx, env.admin, doctor.UserID))

	rows, err := env.assignments.DoctorsForPatient(ctx, env.admin, patient.ID)
	require.NoError(t, err)
	assert.Empty(t, rows)

	assert.ErrorIs(t, env.auth.DeleteUser(ctx, env.admin, env.admin.UserID), apperrors.ErrInvalidRequest)
}

func TestLookupIdentityForDeletedUser(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()
	patient := env.createPatient(t, "gone")

	require.NoError(t, env.patients.Delete(ctx, env.admin, patient.ID))

	identity, err := env.auth.LookupIdentity(ctx, patient.UserID)
	require.NoError(t, err)
	assert.Nil(t, identity)
}

func TestFlushDoctorDirectoryWithoutRedis(t *testing.T) {
	assert.NoError(t, FlushDoctorDirectory(context.Background(), cache.New(nil)))
}
