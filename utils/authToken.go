package utils

import (
	"HealthcareAPI/apperrors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/o1egl/paseto"
)

const (
	// AccessTokenExpiry is the default lifetime of an issued token.
	AccessTokenExpiry = 24 * time.Hour
	SymmetricKeySize  = 32
)

// TokenClaims is the data sealed inside a token.
type TokenClaims struct {
	UserID   int64     `json:"userId"`
	Role     string    `json:"role"`
	IssuedAt time.Time `json:"issuedAt"`
	Expiry   time.Time `json:"expiry"`
	Jti      string    `json:"jti"`
}

// TokenManager issues and verifies PASETO v2 local tokens.
type TokenManager struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

// NewTokenManager returns a manager sealing tokens with the given 32-byte key.
func NewTokenManager(key []byte, ttl time.Duration) (*TokenManager, error) {
	if len(key) != SymmetricKeySize {
		return nil, fmt.Errorf("symmetric key must be %d bytes long, got %d", SymmetricKeySize, len(key))
	}
	if ttl <= 0 {
		ttl = AccessTokenExpiry
	}
	return &TokenManager{key: key, ttl: ttl, now: time.Now}, nil
}

// WithClock replaces the time source, used by tests.
func (m *TokenManager) WithClock(now func() time.Time) *TokenManager {
	m.now = now
	return m
}

func (m *TokenManager) TTL() time.Duration {
	return m.ttl
}

// Issue seals a token for the user. Every call produces a distinct token.
func (m *TokenManager) Issue(userID int64, role string) (string, time.Time, error) {
	issuedAt := m.now()
	claims := TokenClaims{
		UserID:   userID,
		Role:     role,
		IssuedAt: issuedAt,
		Expiry:   issuedAt.Add(m.ttl),
		Jti:      uuid.NewString(),
	}

	token, err := paseto.NewV2().Encrypt(m.key, claims, nil)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to generate token: %w", err)
	}
	return token, claims.Expiry, nil
}

// Verify opens the token and checks its expiry.
func (m *TokenManager) Verify(token string) (*TokenClaims, error) {
	if token == "" {
		return nil, apperrors.ErrInvalidToken
	}

	var claims TokenClaims
	if err := paseto.NewV2().Decrypt(token, m.key, &claims, nil); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInvalidToken, "invalid token", err)
	}
	if claims.UserID <= 0 || claims.Role == "" {
		return nil, apperrors.ErrInvalidToken
	}
	if m.now().After(claims.Expiry) {
		return nil, apperrors.ErrExpiredToken
	}
	return &claims, nil
}
