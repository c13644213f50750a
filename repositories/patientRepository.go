package repositories

import (
	"HealthcareAPI/apperrors"
	"HealthcareAPI/models"
	"context"
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type PatientRepository struct {
	db *gorm.DB
}

func NewPatientRepository(db *gorm.DB) *PatientRepository {
	return &PatientRepository{db: db}
}

func (r *PatientRepository) filtered(ctx context.Context, filter models.PatientFilter) *gorm.DB {
	q := r.db.WithContext(ctx).
		Model(&models.Patient{}).
		Joins("JOIN users ON users.id = patients.user_id")
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		q = q.Where("LOWER(users.name) LIKE ? OR LOWER(users.email) LIKE ? OR LOWER(patients.phone) LIKE ?", like, like, like)
	}
	return q
}

// FindAll returns one page of patients and the size of the filtered set.
func (r *PatientRepository) FindAll(ctx context.Context, filter models.PatientFilter, page models.Page) ([]models.Patient, int64, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var total int64
	if err := r.filtered(ctx, filter).Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "failed to count patients")
	}

	patients := []models.Patient{}
	err := r.filtered(ctx, filter).
		Preload("User").
		Order("patients.created_at DESC, patients.id DESC").
		Limit(page.Limit).
		Offset(page.Offset()).
		Find(&patients).Error
	if err != nil {
		return nil, 0, errors.Wrap(err, "failed to list patients")
	}
	return patients, total, nil
}

// FindByID returns nil when the patient does not exist.
func (r *PatientRepository) FindByID(ctx context.Context, id int64) (*models.Patient, error) {
	return r.findOne(ctx, "patients.id = ?", id)
}

// FindByUserID returns nil when the user has no patient profile.
func (r *PatientRepository) FindByUserID(ctx context.Context, userID int64) (*models.Patient, error) {
	return r.findOne(ctx, "patients.user_id = ?", userID)
}

func (r *PatientRepository) findOne(ctx context.Context, where string, arg interface{}) (*models.Patient, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var patient models.Patient
	err := r.db.WithContext(ctx).Preload("User").Where(where, arg).Take(&patient).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "failed to get patient")
	}
	return &patient, nil
}

func patientChanges(u models.PatientUpdate) map[string]interface{} {
	changes := map[string]interface{}{}
	if u.DateOfBirth != nil {
		changes["date_of_birth"] = *u.DateOfBirth
	}
	if u.Phone != nil {
		changes["phone"] = *u.Phone
	}
	if u.Address != nil {
		changes["address"] = *u.Address
	}
	if u.BloodType != nil {
		changes["blood_type"] = *u.BloodType
	}
	if u.MedicalHistory != nil {
		changes["medical_history"] = *u.MedicalHistory
	}
	if u.Allergies != nil {
		changes["allergies"] = *u.Allergies
	}
	return changes
}

// Update applies the non-nil fields of u to the patient owned by ownerUserID.
// It returns nil, nil when u carries no field at all.
func (r *PatientRepository) Update(ctx context.Context, ownerUserID int64, u models.PatientUpdate) (*models.Patient, error) {
	changes := patientChanges(u)
	if len(changes) == 0 && u.Name == nil && u.Email == nil {
		return nil, nil
	}

	var patient models.Patient
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", ownerUserID).Take(&patient).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("patient")
			}
			return errors.Wrap(err, "failed to get patient")
		}
		if err := applyOwnerChanges(tx, ownerUserID, u.Name, u.Email); err != nil {
			return err
		}
		if len(changes) > 0 {
			if err := tx.Model(&patient).Updates(changes).Error; err != nil {
				return errors.Wrap(err, "failed to update patient")
			}
		}
		return tx.Preload("User").Where("id = ?", patient.ID).Take(&patient).Error
	})
	if err != nil {
		return nil, err
	}
	return &patient, nil
}

// Delete removes the patient owned by ownerUserID along with the user and
// its assignments. It reports false when no such patient exists.
func (r *PatientRepository) Delete(ctx context.Context, ownerUserID int64) (bool, error) {
	deleted := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		err := tx.Where("id = ? AND role = ?", ownerUserID, models.RolePatient).Take(&user).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return errors.Wrap(err, "failed to get patient owner")
		}
		if err := deleteUserCascade(tx, &user); err != nil {
			return err
		}
		deleted = true
		return nil
	})
	return deleted, err
}
