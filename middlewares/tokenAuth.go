package middlewares

import (
	"HealthcareAPI/apperrors"
	"HealthcareAPI/utils"
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

type contextKey string

const identityKey contextKey = "identity"

// TokenVerifier opens bearer tokens.
type TokenVerifier interface {
	Verify(token string) (*utils.TokenClaims, error)
}

// IdentityLookup re-confirms that a token subject still exists. It returns
// nil when the user is gone.
type IdentityLookup interface {
	LookupIdentity(ctx context.Context, userID int64) (*utils.Identity, error)
}

// TokenAuthMiddleware verifies the bearer token, re-confirms the user and
// stores the identity in the request context.
func TokenAuthMiddleware(verifier TokenVerifier, lookup IdentityLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := ExtractBearerToken(c.GetHeader("Authorization"))
		if err != nil {
			RespondError(c, err)
			return
		}

		claims, err := verifier.Verify(token)
		if err != nil {
			RespondError(c, err)
			return
		}

		identity, err := lookup.LookupIdentity(c.Request.Context(), claims.UserID)
		if err != nil {
			RespondError(c, err)
			return
		}
		if identity == nil || identity.Role != claims.Role {
			RespondError(c, apperrors.New(apperrors.CodeInvalidToken, "user no longer exists"))
			return
		}

		c.Request = c.Request.WithContext(WithIdentity(c.Request.Context(), identity))
		c.Next()
	}
}

// RoleAuthMiddleware restricts the route to the given roles.
func RoleAuthMiddleware(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := IdentityFromContext(c.Request.Context())
		if !ok {
			HttpError(c, http.StatusUnauthorized, apperrors.CodeInvalidToken, "not authenticated", nil)
			return
		}
		if err := utils.RequireRole(identity, roles...); err != nil {
			RespondError(c, err)
			return
		}
		c.Next()
	}
}

func WithIdentity(ctx context.Context, identity *utils.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// IdentityFromContext returns the authenticated caller, if any.
func IdentityFromContext(ctx context.Context) (*utils.Identity, bool) {
	identity, ok := ctx.Value(identityKey).(*utils.Identity)
	return identity, ok && identity != nil
}

// CurrentIdentity is IdentityFromContext for handlers; nil when anonymous.
func CurrentIdentity(c *gin.Context) *utils.Identity {
	identity, _ := IdentityFromContext(c.Request.Context())
	return identity
}
