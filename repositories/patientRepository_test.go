package repositories

import (
	"HealthcareAPI/apperrors"
	"HealthcareAPI/models"
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPatientFindAllPaginatesNewestFirst(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserRepository(db)
	repo := NewPatientRepository(db)

	for i := 1; i <= 5; i++ {
		createPatientUser(t, users, fmt.Sprintf("patient%d", i))
	}

	page := models.Page{Page: 2, Limit: 2}.Normalize()
	rows, total, err := repo.FindAll(context.Background(), models.PatientFilter{}, page)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	require.Len(t, rows, 2)
	assert.Equal(t, "patient3", rows[0].User.Name)
	assert.Equal(t, "patient2", rows[1].User.Name)

	p := models.NewPagination(page, len(rows), total)
	assert.Equal(t, 2, p.Offset)
	assert.True(t, p.HasMore)
}

func TestPatientFindAllSearchIsCaseInsensitive(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserRepository(db)
	repo := NewPatientRepository(db)

	createPatientUser(t, users, "Margaret")
	createPatientUser(t, users, "oliver")

	rows, total, err := repo.FindAll(context.Background(), models.PatientFilter{Search: "MARG"}, models.Page{}.Normalize())
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, rows, 1)
	assert.Equal(t, "Margaret", rows[0].User.Name)
}

func TestPatientUpdateChangesOnlyPresentFields(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserRepository(db)
	repo := NewPatientRepository(db)
	user := createPatientUser(t, users, "quinn")

	updated, err := repo.Update(context.Background(), user.ID, models.PatientUpdate{
		Phone:     strPtr("555-9999"),
		Allergies: strPtr("penicillin"),
		Name:      strPtr("Quinn Fabray"),
	})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, "555-9999", updated.Phone)
	assert.Equal(t, "1990-01-01", updated.DateOfBirth)
	require.NotNil(t, updated.Allergies)
	assert.Equal(t, "penicillin", *updated.Allergies)
	assert.Nil(t, updated.Address)
	assert.Equal(t, "Quinn Fabray", updated.User.Name)

	none, err := repo.Update(context.Background(), user.ID, models.PatientUpdate{})
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestPatientUpdateRejectsTakenEmail(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserRepository(db)
	repo := NewPatientRepository(db)
	createPatientUser(t, users, "rachel")
	user := createPatientUser(t, users, "santana")

	_, err := repo.Update(context.Background(), user.ID, models.PatientUpdate{Email: strPtr("rachel@example.com")})
	assert.ErrorIs(t, err, apperrors.ErrDuplicateEmail)

	_, err = repo.Update(context.Background(), user.ID, models.PatientUpdate{Email: strPtr("santana@example.com")})
	assert.NoError(t, err)
}

func TestPatientDeleteRemovesUserAndAssignments(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserRepository(db)
	repo := NewPatientRepository(db)
	ledger := NewAssignmentRepository(db)

	patient := createPatientUser(t, users, "tina")
	doctor := createDoctorUser(t, users, "burke", "LIC-10", "Cardiology")
	_, err := ledger.Assign(context.Background(), patient.PatientDetails.ID, doctor.DoctorDetails.ID, nil)
	require.NoError(t, err)

	deleted, err := repo.Delete(context.Background(), patient.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	assert.Equal(t, int64(0), countRows(t, db, &models.Patient{}))
	assert.Equal(t, int64(0), countRows(t, db, &models.Assignment{}))
	assert.Equal(t, int64(1), countRows(t, db, &models.User{}))

	deleted, err = repo.Delete(context.Background(), patient.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}
