package repositories

import (
	"HealthcareAPI/apperrors"
	"HealthcareAPI/models"
	"context"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// queryTimeout bounds single-statement reads.
const queryTimeout = 5 * time.Second

func withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, queryTimeout)
}

// cascadeStep is one DELETE of a cascading removal.
type cascadeStep struct {
	name  string
	model interface{}
	where string
	args  []interface{}
}

// userCascade lists, in execution order, the statements that remove a user
// together with its role profile and every assignment referencing it.
func userCascade(tx *gorm.DB, user *models.User) []cascadeStep {
	var steps []cascadeStep
	switch user.Role {
	case models.RoleDoctor:
		profileIDs := tx.Model(&models.Doctor{}).Select("id").Where("user_id = ?", user.ID)
		steps = append(steps,
			cascadeStep{"assignments", &models.Assignment{}, "doctor_id IN (?)", []interface{}{profileIDs}},
			cascadeStep{"doctor profile", &models.Doctor{}, "user_id = ?", []interface{}{user.ID}},
		)
	case models.RolePatient:
		profileIDs := tx.Model(&models.Patient{}).Select("id").Where("user_id = ?", user.ID)
		steps = append(steps,
			cascadeStep{"assignments", &models.Assignment{}, "patient_id IN (?)", []interface{}{profileIDs}},
			cascadeStep{"patient profile", &models.Patient{}, "user_id = ?", []interface{}{user.ID}},
		)
	}
	return append(steps, cascadeStep{"user", &models.User{}, "id = ?", []interface{}{user.ID}})
}

// deleteUserCascade runs userCascade. The caller owns the transaction.
func deleteUserCascade(tx *gorm.DB, user *models.User) error {
	for _, step := range userCascade(tx, user) {
		if err := tx.Where(step.where, step.args...).Delete(step.model).Error; err != nil {
			return errors.Wrapf(err, "failed to delete %s", step.name)
		}
	}
	return nil
}

// applyOwnerChanges updates the name and email of the user owning a profile.
// Email uniqueness is re-checked excluding the user itself.
func applyOwnerChanges(tx *gorm.DB, userID int64, name, email *string) error {
	changes := map[string]interface{}{}
	if name != nil {
		changes["name"] = *name
	}
	if email != nil {
		var count int64
		if err := tx.Model(&models.User{}).Where("email = ? AND id <> ?", *email, userID).Count(&count).Error; err != nil {
			return errors.Wrap(err, "failed to check email existence")
		}
		if count > 0 {
			return apperrors.ErrDuplicateEmail
		}
		changes["email"] = *email
	}
	if len(changes) == 0 {
		return nil
	}
	if err := tx.Model(&models.User{}).Where("id = ?", userID).Updates(changes).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperrors.ErrDuplicateEmail
		}
		return errors.Wrap(err, "failed to update user")
	}
	return nil
}
