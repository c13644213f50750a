package utils

import (
	"HealthcareAPI/apperrors"
	"context"
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"math/big"
	"time"
)

const (
	DefaultResetCodeTTL = 15 * time.Minute
	MaxResetAttempts    = 5

	resetCodePrefix     = "reset_code:"
	resetAttemptsPrefix = "reset_attempts:"
)

// CodeStore is the subset of the redis cache the reset flow needs.
type CodeStore interface {
	Enabled() bool
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	GetDel(ctx context.Context, key string) (string, error)
	Incr(ctx context.Context, key string, expiration time.Duration) (int64, error)
	Delete(ctx context.Context, key string) error
}

// ResetCodeStore keeps one-time password reset codes in redis.
type ResetCodeStore struct {
	store CodeStore
	ttl   time.Duration
}

func NewResetCodeStore(store CodeStore, ttl time.Duration) *ResetCodeStore {
	if ttl <= 0 {
		ttl = DefaultResetCodeTTL
	}
	return &ResetCodeStore{store: store, ttl: ttl}
}

// Enabled reports whether a backing store is configured.
func (s *ResetCodeStore) Enabled() bool {
	return s != nil && s.store != nil && s.store.Enabled()
}

// GenerateResetCode returns a random 6-digit code.
func GenerateResetCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("failed to generate reset code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// Issue generates and stores a fresh code for email, replacing any earlier
// one and clearing its failed attempts.
func (s *ResetCodeStore) Issue(ctx context.Context, email string) (string, error) {
	if !s.Enabled() {
		return "", apperrors.New(apperrors.CodeUnavailable, "password reset is not configured")
	}
	code, err := GenerateResetCode()
	if err != nil {
		return "", err
	}
	if err := s.store.Set(ctx, resetCodePrefix+email, code, s.ttl); err != nil {
		return "", fmt.Errorf("failed to store reset code: %w", err)
	}
	if err := s.store.Delete(ctx, resetAttemptsPrefix+email); err != nil {
		return "", fmt.Errorf("failed to reset attempt counter: %w", err)
	}
	return code, nil
}

// Consume checks code against the stored one and removes it on a match.
// After MaxResetAttempts checks the code is discarded.
func (s *ResetCodeStore) Consume(ctx context.Context, email, code string) error {
	if !s.Enabled() {
		return apperrors.New(apperrors.CodeUnavailable, "password reset is not configured")
	}
	codeKey := resetCodePrefix + email
	attemptsKey := resetAttemptsPrefix + email

	attempts, err := s.store.Incr(ctx, attemptsKey, s.ttl)
	if err != nil {
		return fmt.Errorf("failed to count reset attempts: %w", err)
	}
	if attempts > MaxResetAttempts {
		if err := s.store.Delete(ctx, codeKey); err != nil {
			return fmt.Errorf("failed to discard reset code: %w", err)
		}
		return apperrors.New(apperrors.CodeValidation, "too many attempts, request a new reset code")
	}

	stored, err := s.store.Get(ctx, codeKey)
	if err != nil {
		return fmt.Errorf("failed to read reset code: %w", err)
	}
	if !codesMatch(stored, code) {
		return apperrors.New(apperrors.CodeValidation, "invalid reset code")
	}

	// Only the caller whose GetDel returns the code wins a concurrent race.
	taken, err := s.store.GetDel(ctx, codeKey)
	if err != nil {
		return fmt.Errorf("failed to consume reset code: %w", err)
	}
	if !codesMatch(taken, code) {
		return apperrors.New(apperrors.CodeValidation, "invalid reset code")
	}
	return s.store.Delete(ctx, attemptsKey)
}

func codesMatch(stored, code string) bool {
	return stored != "" && subtle.ConstantTimeCompare([]byte(stored), []byte(code)) == 1
}
