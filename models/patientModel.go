package models

import (
	"time"
)

// Patient is the profile extension of a user with role patient.
type Patient struct {
	ID             int64     `gorm:"primaryKey;column:id" json:"id"`
	UserID         int64     `gorm:"not null;uniqueIndex;column:user_id" json:"userId"`
	DateOfBirth    string    `gorm:"size:10;not null;column:date_of_birth" json:"dateOfBirth"`
	Phone          string    `gorm:"size:30;not null;column:phone" json:"phone"`
	Address        *string   `gorm:"type:text;column:address" json:"address"`
	BloodType      *string   `gorm:"size:5;column:blood_type" json:"bloodType"`
	MedicalHistory *string   `gorm:"type:text;column:medical_history" json:"medicalHistory"`
	Allergies      *string   `gorm:"type:text;column:allergies" json:"allergies"`
	CreatedAt      time.Time `gorm:"autoCreateTime;column:created_at" json:"createdAt"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime;column:updated_at" json:"updatedAt"`
	User           *User     `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"user,omitempty"`
}

func (Patient) TableName() string {
	return "patients"
}

// Doctor is the profile extension of a user with role doctor.
type Doctor struct {
	ID              int64     `gorm:"primaryKey;column:id" json:"id"`
	UserID          int64     `gorm:"not null;uniqueIndex;column:user_id" json:"userId"`
	Specialization  string    `gorm:"size:100;not null;index;column:specialization" json:"specialization"`
	LicenseNumber   string    `gorm:"size:50;not null;uniqueIndex;column:license_number" json:"licenseNumber"`
	Phone           string    `gorm:"size:30;not null;column:phone" json:"phone"`
	IsAvailable     bool      `gorm:"not null;column:is_available" json:"isAvailable"`
	ExperienceYears *int      `gorm:"column:experience_years" json:"experienceYears"`
	Bio             *string   `gorm:"type:text;column:bio" json:"bio"`
	CreatedAt       time.Time `gorm:"autoCreateTime;column:created_at" json:"createdAt"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime;column:updated_at" json:"updatedAt"`
	User            *User     `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"user,omitempty"`
}

func (Doctor) TableName() string {
	return "doctors"
}

// Assignment links one patient and one doctor. At most one row exists per pair.
type Assignment struct {
	ID         int64     `gorm:"primaryKey;column:id" json:"id"`
	PatientID  int64     `gorm:"not null;uniqueIndex:idx_patient_doctor,priority:1;column:patient_id" json:"patientId"`
	DoctorID   int64     `gorm:"not null;uniqueIndex:idx_patient_doctor,priority:2;index;column:doctor_id" json:"doctorId"`
	IsActive   bool      `gorm:"not null;column:is_active" json:"isActive"`
	Notes      *string   `gorm:"type:text;column:notes" json:"notes"`
	AssignedAt time.Time `gorm:"autoCreateTime;column:assigned_at" json:"assignedAt"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime;column:updated_at" json:"updatedAt"`
	Patient    *Patient  `gorm:"foreignKey:PatientID;constraint:OnDelete:CASCADE" json:"patient,omitempty"`
	Doctor     *Doctor   `gorm:"foreignKey:DoctorID;constraint:OnDelete:CASCADE" json:"doctor,omitempty"`
}

func (Assignment) TableName() string {
	return "patient_doctor_mappings"
}

const (
	AssignmentStatusActive   = "active"
	AssignmentStatusInactive = "inactive"
	AssignmentStatusAll      = "all"
)
