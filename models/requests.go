package models

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

const (
	DateLayout        = "2006-01-02"
	MinPasswordLength = 6
	DefaultPageLimit  = 10
	MaxPageLimit      = 100
)

var bloodTypes = []interface{}{"A+", "A-", "B+", "B-", "AB+", "AB-", "O+", "O-"}

// Credentials are the identity fields shared by every registration request.
type Credentials struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c Credentials) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Name, validation.Required.Error("name is required"), validation.Length(1, 100)),
		validation.Field(&c.Email, validation.Required.Error("email is required"), is.EmailFormat),
		validation.Field(&c.Password, validation.Required.Error("password is required"), validation.Length(MinPasswordLength, 72)),
	)
}

// RegisterRequest is the public registration body. Only the admin role is
// accepted; an empty role means admin.
type RegisterRequest struct {
	Credentials
	Role string `json:"role"`
}

// PatientFields are the profile attributes supplied when creating a patient.
// Required-ness of DateOfBirth and Phone is enforced by the credential store.
type PatientFields struct {
	DateOfBirth    string  `json:"dateOfBirth"`
	Phone          string  `json:"phone"`
	Address        *string `json:"address"`
	BloodType      *string `json:"bloodType"`
	MedicalHistory *string `json:"medicalHistory"`
	Allergies      *string `json:"allergies"`
}

func (f PatientFields) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.DateOfBirth, validation.Date(DateLayout).Error("dateOfBirth must be YYYY-MM-DD")),
		validation.Field(&f.Phone, validation.Length(0, 30)),
		validation.Field(&f.BloodType, validation.NilOrNotEmpty, validation.In(bloodTypes...)),
	)
}

type RegisterPatientRequest struct {
	Credentials
	PatientFields
}

func (r RegisterPatientRequest) Validate() error {
	if err := r.Credentials.Validate(); err != nil {
		return err
	}
	return r.PatientFields.Validate()
}

// DoctorFields are the profile attributes supplied when creating a doctor.
type DoctorFields struct {
	Specialization  string  `json:"specialization"`
	LicenseNumber   string  `json:"licenseNumber"`
	Phone           string  `json:"phone"`
	IsAvailable     *bool   `json:"isAvailable"`
	ExperienceYears *int    `json:"experienceYears"`
	Bio             *string `json:"bio"`
}

func (f DoctorFields) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Specialization, validation.Length(0, 100)),
		validation.Field(&f.LicenseNumber, validation.Length(0, 50)),
		validation.Field(&f.Phone, validation.Length(0, 30)),
		validation.Field(&f.ExperienceYears, validation.Min(0), validation.Max(80)),
	)
}

type RegisterDoctorRequest struct {
	Credentials
	DoctorFields
}

func (r RegisterDoctorRequest) Validate() error {
	if err := r.Credentials.Validate(); err != nil {
		return err
	}
	return r.DoctorFields.Validate()
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (r ChangePasswordRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.CurrentPassword, validation.Required),
		validation.Field(&r.NewPassword, validation.Required, validation.Length(MinPasswordLength, 72)),
	)
}

type SendResetCodeRequest struct {
	Email string `json:"email"`
}

func (r SendResetCodeRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.EmailFormat),
	)
}

type ResetPasswordRequest struct {
	Email       string `json:"email"`
	Code        string `json:"code"`
	NewPassword string `json:"newPassword"`
}

func (r ResetPasswordRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.EmailFormat),
		validation.Field(&r.Code, validation.Required.Error("invalid reset code"), is.Digit, validation.Length(6, 6)),
		validation.Field(&r.NewPassword, validation.Required, validation.Length(MinPasswordLength, 72)),
	)
}

// PatientUpdate is a partial update of a patient and its owning user. Nil
// fields are left untouched.
type PatientUpdate struct {
	Name           *string `json:"name"`
	Email          *string `json:"email"`
	DateOfBirth    *string `json:"dateOfBirth"`
	Phone          *string `json:"phone"`
	Address        *string `json:"address"`
	BloodType      *string `json:"bloodType"`
	MedicalHistory *string `json:"medicalHistory"`
	Allergies      *string `json:"allergies"`
}

func (u PatientUpdate) Validate() error {
	return validation.ValidateStruct(&u,
		validation.Field(&u.Name, validation.NilOrNotEmpty, validation.Length(1, 100)),
		validation.Field(&u.Email, validation.NilOrNotEmpty, is.EmailFormat),
		validation.Field(&u.DateOfBirth, validation.NilOrNotEmpty, validation.Date(DateLayout)),
		validation.Field(&u.Phone, validation.NilOrNotEmpty, validation.Length(1, 30)),
		validation.Field(&u.BloodType, validation.NilOrNotEmpty, validation.In(bloodTypes...)),
	)
}

// DoctorUpdate is a partial update of a doctor and its owning user. Nil
// fields are left untouched.
type DoctorUpdate struct {
	Name            *string `json:"name"`
	Email           *string `json:"email"`
	Specialization  *string `json:"specialization"`
	LicenseNumber   *string `json:"licenseNumber"`
	Phone           *string `json:"phone"`
	IsAvailable     *bool   `json:"isAvailable"`
	ExperienceYears *int    `json:"experienceYears"`
	Bio             *string `json:"bio"`
}

func (u DoctorUpdate) Validate() error {
	return validation.ValidateStruct(&u,
		validation.Field(&u.Name, validation.NilOrNotEmpty, validation.Length(1, 100)),
		validation.Field(&u.Email, validation.NilOrNotEmpty, is.EmailFormat),
		validation.Field(&u.Specialization, validation.NilOrNotEmpty, validation.Length(1, 100)),
		validation.Field(&u.LicenseNumber, validation.NilOrNotEmpty, validation.Length(1, 50)),
		validation.Field(&u.Phone, validation.NilOrNotEmpty, validation.Length(1, 30)),
		validation.Field(&u.ExperienceYears, validation.Min(0), validation.Max(80)),
	)
}

type AssignRequest struct {
	PatientID int64   `json:"patientId"`
	DoctorID  int64   `json:"doctorId"`
	Notes     *string `json:"notes"`
}

func (r AssignRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.PatientID, validation.Required.Error("patientId is required"), validation.Min(int64(1))),
		validation.Field(&r.DoctorID, validation.Required.Error("doctorId is required"), validation.Min(int64(1))),
	)
}

type PatientFilter struct {
	Search string `form:"search"`
}

type DoctorFilter struct {
	Search         string `form:"search"`
	Specialization string `form:"specialization"`
	IsAvailable    *bool  `form:"isAvailable"`
	MinExperience  *int   `form:"minExperience"`
	MaxExperience  *int   `form:"maxExperience"`
}

// Page is a 1-based page request.
type Page struct {
	Page  int `form:"page"`
	Limit int `form:"limit"`
}

// Normalize applies defaults and clamps the limit.
func (p Page) Normalize() Page {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = DefaultPageLimit
	}
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}
	return p
}

func (p Page) Offset() int {
	return (p.Page - 1) * p.Limit
}

type Pagination struct {
	Total   int64 `json:"total"`
	Limit   int   `json:"limit"`
	Offset  int   `json:"offset"`
	HasMore bool  `json:"hasMore"`
}

// NewPagination describes a page of returned rows out of total.
func NewPagination(p Page, returned int, total int64) Pagination {
	return Pagination{
		Total:   total,
		Limit:   p.Limit,
		Offset:  p.Offset(),
		HasMore: int64(p.Offset()+returned) < total,
	}
}
