package repositories

import (
	"HealthcareAPI/apperrors"
	"HealthcareAPI/models"
	"context"
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type DoctorRepository struct {
	db *gorm.DB
}

func NewDoctorRepository(db *gorm.DB) *DoctorRepository {
	return &DoctorRepository{db: db}
}

// licenseTaken reports whether another doctor than excludeID holds license.
func licenseTaken(db *gorm.DB, license string, excludeID int64) (bool, error) {
	var count int64
	q := db.Model(&models.Doctor{}).Where("license_number = ?", license)
	if excludeID > 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, errors.Wrap(err, "failed to check license number")
	}
	return count > 0, nil
}

func (r *DoctorRepository) filtered(ctx context.Context, filter models.DoctorFilter) *gorm.DB {
	q := r.db.WithContext(ctx).
		Model(&models.Doctor{}).
		Joins("JOIN users ON users.id = doctors.user_id")
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		q = q.Where("LOWER(users.name) LIKE ? OR LOWER(users.email) LIKE ? OR LOWER(doctors.phone) LIKE ? OR LOWER(doctors.license_number) LIKE ?",
			like, like, like, like)
	}
	if spec := strings.TrimSpace(filter.Specialization); spec != "" {
		q = q.Where("LOWER(doctors.specialization) = ?", strings.ToLower(spec))
	}
	if filter.IsAvailable != nil {
		q = q.Where("doctors.is_available = ?", *filter.IsAvailable)
	}
	if filter.MinExperience != nil {
		q = q.Where("doctors.experience_years >= ?", *filter.MinExperience)
	}
	if filter.MaxExperience != nil {
		q = q.Where("doctors.experience_years <= ?", *filter.MaxExperience)
	}
	return q
}

// FindAll returns one page of doctors and the size of the filtered set.
func (r *DoctorRepository) FindAll(ctx context.Context, filter models.DoctorFilter, page models.Page) ([]models.Doctor, int64, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var total int64
	if err := r.filtered(ctx, filter).Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "failed to count doctors")
	}

	doctors := []models.Doctor{}
	err := r.filtered(ctx, filter).
		Preload("User").
		Order("doctors.created_at DESC, doctors.id DESC").
		Limit(page.Limit).
		Offset(page.Offset()).
		Find(&doctors).Error
	if err != nil {
		return nil, 0, errors.Wrap(err, "failed to list doctors")
	}
	return doctors, total, nil
}

// FindByID returns nil when the doctor does not exist.
func (r *DoctorRepository) FindByID(ctx context.Context, id int64) (*models.Doctor, error) {
	return r.findOne(ctx, "doctors.id = ?", id)
}

// FindByUserID returns nil when the user has no doctor profile.
func (r *DoctorRepository) FindByUserID(ctx context.Context, userID int64) (*models.Doctor, error) {
	return r.findOne(ctx, "doctors.user_id = ?", userID)
}

func (r *DoctorRepository) findOne(ctx context.Context, where string, arg interface{}) (*models.Doctor, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var doctor models.Doctor
	err := r.db.WithContext(ctx).Preload("User").Where(where, arg).Take(&doctor).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "failed to get doctor")
	}
	return &doctor, nil
}

// Specializations lists the distinct specializations in alphabetical order.
func (r *DoctorRepository) Specializations(ctx context.Context) ([]string, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	specializations := []string{}
	err := r.db.WithContext(ctx).
		Model(&models.Doctor{}).
		Distinct("specialization").
		Order("specialization ASC").
		Pluck("specialization", &specializations).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list specializations")
	}
	return specializations, nil
}

func doctorChanges(u models.DoctorUpdate) map[string]interface{} {
	changes := map[string]interface{}{}
	if u.Specialization != nil {
		changes["specialization"] = *u.Specialization
	}
	if u.LicenseNumber != nil {
		changes["license_number"] = *u.LicenseNumber
	}
	if u.Phone != nil {
		changes["phone"] = *u.Phone
	}
	if u.IsAvailable != nil {
		changes["is_available"] = *u.IsAvailable
	}
	if u.ExperienceYears != nil {
		changes["experience_years"] = *u.ExperienceYears
	}
	if u.Bio != nil {
		changes["bio"] = *u.Bio
	}
	return changes
}

// Update applies the non-nil fields of u to the doctor owned by ownerUserID.
// It returns nil, nil when u carries no field at all.
func (r *DoctorRepository) Update(ctx context.Context, ownerUserID int64, u models.DoctorUpdate) (*models.Doctor, error) {
	changes := doctorChanges(u)
	if len(changes) == 0 && u.Name == nil && u.Email == nil {
		return nil, nil
	}

	var doctor models.Doctor
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", ownerUserID).Take(&doctor).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("doctor")
			}
			return errors.Wrap(err, "failed to get doctor")
		}

		if u.LicenseNumber != nil {
			taken, err := licenseTaken(tx, *u.LicenseNumber, doctor.ID)
			if err != nil {
				return err
			}
			if taken {
				return apperrors.ErrDuplicateLicense
			}
		}
		if err := applyOwnerChanges(tx, ownerUserID, u.Name, u.Email); err != nil {
			return err
		}
		if len(changes) > 0 {
			if err := tx.Model(&doctor).Updates(changes).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return apperrors.ErrDuplicateLicense
				}
				return errors.Wrap(err, "failed to update doctor")
			}
		}
		return tx.Preload("User").Where("id = ?", doctor.ID).Take(&doctor).Error
	})
	if err != nil {
		return nil, err
	}
	return &doctor, nil
}

// Delete removes the doctor owned by ownerUserID, its assignments and the
// user. It reports false when no such doctor exists.
func (r *DoctorRepository) Delete(ctx context.Context, ownerUserID int64) (bool, error) {
	deleted := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		err := tx.Where("id = ? AND role = ?", ownerUserID, models.RoleDoctor).Take(&user).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return errors.Wrap(err, "failed to get doctor owner")
		}
		if err := deleteUserCascade(tx, &user); err != nil {
			return err
		}
		deleted = true
		return nil
	})
	return deleted, err
}
