package utils

import (
	"HealthcareAPI/apperrors"
	"HealthcareAPI/models"
)

// Identity is the authenticated caller attached to a request.
type Identity struct {
	UserID int64
	Role   string
	Email  string
	Name   string
}

func (i Identity) HasRole(roles ...string) bool {
	for _, r := range roles {
		if i.Role == r {
			return true
		}
	}
	return false
}

// RequireRole allows the identity when its role is one of roles.
func RequireRole(identity *Identity, roles ...string) error {
	if identity == nil || !identity.HasRole(roles...) {
		return apperrors.ErrForbidden
	}
	return nil
}

// RequireOwnerOrAdmin allows admins and the user owning the resource.
func RequireOwnerOrAdmin(identity *Identity, ownerUserID int64) error {
	if identity == nil {
		return apperrors.ErrForbidden
	}
	if identity.Role == models.RoleAdmin || identity.UserID == ownerUserID {
		return nil
	}
	return apperrors.ErrForbidden
}
