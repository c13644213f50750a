package models

import (
	"time"
)

const (
	RoleAdmin   = "admin"
	RoleDoctor  = "doctor"
	RolePatient = "patient"
)

// Roles lists every role a user can hold.
var Roles = []string{RoleAdmin, RoleDoctor, RolePatient}

// IsValidRole reports whether role is one of Roles.
func IsValidRole(role string) bool {
	for _, r := range Roles {
		if r == role {
			return true
		}
	}
	return false
}

// User represents an identity in the system
type User struct {
	ID        int64     `gorm:"primaryKey;column:id" json:"id"`
	Name      string    `gorm:"size:100;not null;column:name" json:"name"`
	Email     string    `gorm:"size:255;not null;uniqueIndex;column:email" json:"email"`
	Password  string    `gorm:"size:255;not null;column:password" json:"-"`
	Role      string    `gorm:"size:20;not null;index;column:role" json:"role"`
	CreatedAt time.Time `gorm:"autoCreateTime;column:created_at" json:"createdAt"`

	// Populated on demand by the credential store, never persisted through User.
	PatientDetails *Patient `gorm:"-" json:"patientDetails,omitempty"`
	DoctorDetails  *Doctor  `gorm:"-" json:"doctorDetails,omitempty"`
}

func (User) TableName() string {
	return "users"
}

// NewUser carries everything needed to create an identity and, for patients
// and doctors, the matching profile row.
type NewUser struct {
	Name     string
	Email    string
	Password string
	Role     string
	Patient  *PatientFields
	Doctor   *DoctorFields
}
