package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestEmailValidationIsFormatOnly(t *testing.T) {
	tests := []struct {
		email string
		valid bool
	}{
		{"admin@x.com", true},
		{"a@clinic.invalid", true},
		{"nurse@hospital.local", true},
		{"not-an-email", false},
		{"missing@", false},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			err := Credentials{Name: "n", Email: tt.email, Password: "secret1"}.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}

	assert.NoError(t, SendResetCodeRequest{Email: "a@clinic.invalid"}.Validate())
	assert.NoError(t, PatientUpdate{Email: strPtr("a@clinic.invalid")}.Validate())
	assert.NoError(t, DoctorUpdate{Email: strPtr("a@clinic.invalid")}.Validate())
}

func TestBloodTypeRejectsEmptyString(t *testing.T) {
	assert.Error(t, PatientUpdate{BloodType: strPtr("")}.Validate())
	assert.Error(t, PatientFields{DateOfBirth: "1990-01-01", BloodType: strPtr("")}.Validate())
	assert.Error(t, PatientUpdate{BloodType: strPtr("C+")}.Validate())

	assert.NoError(t, PatientUpdate{BloodType: strPtr("O-")}.Validate())
	assert.NoError(t, PatientUpdate{}.Validate())
}

func TestPageNormalize(t *testing.T) {
	p := Page{Page: 0, Limit: 1000}.Normalize()
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, MaxPageLimit, p.Limit)

	p = Page{Page: 3}.Normalize()
	assert.Equal(t, DefaultPageLimit, p.Limit)
	assert.Equal(t, 20, p.Offset())

	pg := NewPagination(Page{Page: 1, Limit: 2}, 2, 5)
	assert.True(t, pg.HasMore)
	assert.False(t, NewPagination(Page{Page: 3, Limit: 2}, 1, 5).HasMore)
}
