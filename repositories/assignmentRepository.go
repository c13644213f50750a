package repositories

import (
	"HealthcareAPI/apperrors"
	"HealthcareAPI/models"
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// AssignmentRepository is the ledger of patient and doctor pairs.
type AssignmentRepository struct {
	db *gorm.DB
}

func NewAssignmentRepository(db *gorm.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

// Assign activates the pair, updating the existing row in place or inserting
// a new one. A uniqueness violation from a concurrent insert surfaces as
// AlreadyAssigned.
func (r *AssignmentRepository) Assign(ctx context.Context, patientID, doctorID int64, notes *string) (*models.Assignment, error) {
	var assignment models.Assignment
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("patient_id = ? AND doctor_id = ?", patientID, doctorID).Take(&assignment).Error
		switch {
		case err == nil:
			return tx.Model(&assignment).Updates(map[string]interface{}{
				"is_active": true,
				"notes":     notes,
			}).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			assignment = models.Assignment{
				PatientID: patientID,
				DoctorID:  doctorID,
				IsActive:  true,
				Notes:     notes,
			}
			return tx.Create(&assignment).Error
		default:
			return err
		}
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrAlreadyAssigned
		}
		return nil, errors.Wrap(err, "failed to assign doctor")
	}
	return r.FindByID(ctx, assignment.ID)
}

// IsAssigned reports whether an active row exists for the pair.
func (r *AssignmentRepository) IsAssigned(ctx context.Context, patientID, doctorID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Assignment{}).
		Where("patient_id = ? AND doctor_id = ? AND is_active = ?", patientID, doctorID, true).
		Count(&count).Error
	if err != nil {
		return false, errors.Wrap(err, "failed to check assignment")
	}
	return count > 0, nil
}

// FindByID returns nil when the row does not exist.
func (r *AssignmentRepository) FindByID(ctx context.Context, id int64) (*models.Assignment, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var assignment models.Assignment
	err := r.db.WithContext(ctx).
		Preload("Patient.User").
		Preload("Doctor.User").
		Where("id = ?", id).
		Take(&assignment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "failed to get assignment")
	}
	return &assignment, nil
}

// ListForPatient returns the patient's doctors, newest assignment first.
func (r *AssignmentRepository) ListForPatient(ctx context.Context, patientID int64) ([]models.Assignment, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	assignments := []models.Assignment{}
	err := r.db.WithContext(ctx).
		Preload("Doctor.User").
		Where("patient_id = ?", patientID).
		Order("assigned_at DESC, id DESC").
		Find(&assignments).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list assignments for patient")
	}
	return assignments, nil
}

// ListForDoctor returns the doctor's patients filtered by status.
func (r *AssignmentRepository) ListForDoctor(ctx context.Context, doctorID int64, status string) ([]models.Assignment, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	q := r.db.WithContext(ctx).
		Preload("Patient.User").
		Where("doctor_id = ?", doctorID)
	switch status {
	case models.AssignmentStatusActive:
		q = q.Where("is_active = ?", true)
	case models.AssignmentStatusInactive:
		q = q.Where("is_active = ?", false)
	}

	assignments := []models.Assignment{}
	if err := q.Order("assigned_at DESC, id DESC").Find(&assignments).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list assignments for doctor")
	}
	return assignments, nil
}

// Remove hard-deletes the row.
func (r *AssignmentRepository) Remove(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Assignment{})
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to remove assignment")
	}
	if result.RowsAffected == 0 {
		return apperrors.NotFound("mapping")
	}
	return nil
}

// ListAll pages through every assignment with patient and doctor attached.
func (r *AssignmentRepository) ListAll(ctx context.Context, page models.Page) ([]models.Assignment, int64, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Assignment{}).Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "failed to count assignments")
	}

	assignments := []models.Assignment{}
	err := r.db.WithContext(ctx).
		Preload("Patient.User").
		Preload("Doctor.User").
		Order("assigned_at DESC, id DESC").
		Limit(page.Limit).
		Offset(page.Offset()).
		Find(&assignments).Error
	if err != nil {
		return nil, 0, errors.Wrap(err, "failed to list assignments")
	}
	return assignments, total, nil
}
