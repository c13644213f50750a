package middlewares

import (
	"HealthcareAPI/apperrors"
	"strings"
)

const bearerScheme = "Bearer "

// ExtractBearerToken returns the token of an "Authorization: Bearer <token>"
// header value.
func ExtractBearerToken(header string) (string, error) {
	if header == "" {
		return "", apperrors.New(apperrors.CodeInvalidToken, "authorization header is missing")
	}
	if len(header) < len(bearerScheme) || !strings.EqualFold(header[:len(bearerScheme)], bearerScheme) {
		return "", apperrors.New(apperrors.CodeInvalidToken, "invalid authorization header format")
	}
	token := strings.TrimSpace(header[len(bearerScheme):])
	if token == "" {
		return "", apperrors.New(apperrors.CodeInvalidToken, "bearer token is empty")
	}
	return token, nil
}
