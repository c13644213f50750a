package repositories

import (
	"HealthcareAPI/apperrors"
	"HealthcareAPI/models"
	"HealthcareAPI/utils"
	"context"
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(ctx context.Context, in models.NewUser) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id int64, includeProfile bool) (*models.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	UpdatePassword(ctx context.Context, id int64, hashedPassword string) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, role string, page models.Page) ([]models.User, int64, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create stores a user and, for patients and doctors, the profile row in one
// transaction. The plaintext password is hashed before it reaches storage.
func (r *userRepository) Create(ctx context.Context, in models.NewUser) (*models.User, error) {
	if !models.IsValidRole(in.Role) {
		return nil, apperrors.New(apperrors.CodeValidation, "role must be one of "+strings.Join(models.Roles, ", "))
	}
	if err := checkRoleFields(in); err != nil {
		return nil, err
	}

	exists, err := r.EmailExists(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.ErrDuplicateEmail
	}
	if in.Role == models.RoleDoctor {
		taken, err := licenseTaken(r.db.WithContext(ctx), in.Doctor.LicenseNumber, 0)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, apperrors.ErrDuplicateLicense
		}
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:     in.Name,
		Email:    in.Email,
		Password: hash,
		Role:     in.Role,
	}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}

		switch in.Role {
		case models.RolePatient:
			patient := newPatient(user.ID, in.Patient)
			if err := tx.Create(patient).Error; err != nil {
				return err
			}
			user.PatientDetails = patient
		case models.RoleDoctor:
			doctor := newDoctor(user.ID, in.Doctor)
			if err := tx.Create(doctor).Error; err != nil {
				return err
			}
			user.DoctorDetails = doctor
		}
		return nil
	})
	if err != nil {
		return nil, r.translateCreateError(ctx, in, err)
	}
	return user, nil
}

// translateCreateError maps a uniqueness violation lost to a concurrent
// writer onto the matching duplicate error.
func (r *userRepository) translateCreateError(ctx context.Context, in models.NewUser, err error) error {
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		return errors.Wrap(err, "failed to create user")
	}
	if in.Role == models.RoleDoctor {
		if taken, lookupErr := licenseTaken(r.db.WithContext(ctx), in.Doctor.LicenseNumber, 0); lookupErr == nil && taken {
			return apperrors.ErrDuplicateLicense
		}
	}
	return apperrors.ErrDuplicateEmail
}

func checkRoleFields(in models.NewUser) error {
	switch in.Role {
	case models.RolePatient:
		if in.Patient == nil || strings.TrimSpace(in.Patient.DateOfBirth) == "" || strings.TrimSpace(in.Patient.Phone) == "" {
			return apperrors.MissingField("dateOfBirth and phone are required for patients")
		}
	case models.RoleDoctor:
		if in.Doctor == nil || strings.TrimSpace(in.Doctor.Specialization) == "" ||
			strings.TrimSpace(in.Doctor.LicenseNumber) == "" || strings.TrimSpace(in.Doctor.Phone) == "" {
			return apperrors.MissingField("specialization, licenseNumber and phone are required for doctors")
		}
	}
	return nil
}

func newPatient(userID int64, f *models.PatientFields) *models.Patient {
	return &models.Patient{
		UserID:         userID,
		DateOfBirth:    f.DateOfBirth,
		Phone:          f.Phone,
		Address:        f.Address,
		BloodType:      f.BloodType,
		MedicalHistory: f.MedicalHistory,
		Allergies:      f.Allergies,
	}
}

func newDoctor(userID int64, f *models.DoctorFields) *models.Doctor {
	available := true
	if f.IsAvailable != nil {
		available = *f.IsAvailable
	}
	return &models.Doctor{
		UserID:          userID,
		Specialization:  f.Specialization,
		LicenseNumber:   f.LicenseNumber,
		Phone:           f.Phone,
		IsAvailable:     available,
		ExperienceYears: f.ExperienceYears,
		Bio:             f.Bio,
	}
}

func (r *userRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count).Error
	if err != nil {
		return false, errors.Wrap(err, "failed to check email existence")
	}
	return count > 0, nil
}

// FindByEmail returns nil when no user has the email.
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var user models.User
	err := r.db.WithContext(ctx).Where("email = ?", email).Take(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "failed to get user by email")
	}
	return &user, nil
}

// FindByID returns nil when the user does not exist. With includeProfile the
// patient or doctor row is attached.
func (r *userRepository) FindByID(ctx context.Context, id int64, includeProfile bool) (*models.User, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	db := r.db.WithContext(ctx)
	var user models.User
	if err := db.Where("id = ?", id).Take(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "failed to get user by id")
	}
	if !includeProfile {
		return &user, nil
	}

	switch user.Role {
	case models.RolePatient:
		var patient models.Patient
		err := db.Where("user_id = ?", user.ID).Take(&patient).Error
		if err == nil {
			user.PatientDetails = &patient
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.Wrap(err, "failed to get patient profile")
		}
	case models.RoleDoctor:
		var doctor models.Doctor
		err := db.Where("user_id = ?", user.ID).Take(&doctor).Error
		if err == nil {
			user.DoctorDetails = &doctor
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.Wrap(err, "failed to get doctor profile")
		}
	}
	return &user, nil
}

func (r *userRepository) UpdatePassword(ctx context.Context, id int64, hashedPassword string) error {
	result := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("password", hashedPassword)
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to update password")
	}
	if result.RowsAffected == 0 {
		return apperrors.NotFound("user")
	}
	return nil
}

// Delete removes the user, its profile and any assignments in one transaction.
func (r *userRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Where("id = ?", id).Take(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("user")
			}
			return errors.Wrap(err, "failed to get user")
		}
		return deleteUserCascade(tx, &user)
	})
}

// List pages through users, optionally restricted to one role.
func (r *userRepository) List(ctx context.Context, role string, page models.Page) ([]models.User, int64, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	query := func() *gorm.DB {
		q := r.db.WithContext(ctx).Model(&models.User{})
		if role != "" {
			q = q.Where("role = ?", role)
		}
		return q
	}

	var total int64
	if err := query().Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "failed to count users")
	}

	users := []models.User{}
	err := query().
		Order("created_at DESC, id DESC").
		Limit(page.Limit).
		Offset(page.Offset()).
		Find(&users).Error
	if err != nil {
		return nil, 0, errors.Wrap(err, "failed to list users")
	}
	return users, total, nil
}
