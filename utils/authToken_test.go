package utils

import (
	"HealthcareAPI/apperrors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKey(fill string) []byte {
	return []byte(strings.Repeat(fill, SymmetricKeySize))
}

func TestTokenRoundTrip(t *testing.T) {
	m, err := NewTokenManager(testKey("a"), time.Hour)
	require.NoError(t, err)

	for _, role := range []string{"admin", "doctor", "patient"} {
		token, expiresAt, err := m.Issue(42, role)
		require.NoError(t, err)

		claims, err := m.Verify(token)
		require.NoError(t, err)
		assert.Equal(t, int64(42), claims.UserID)
		assert.Equal(t, role, claims.Role)
		assert.WithinDuration(t, expiresAt, claims.Expiry, time.Second)
	}
}

func TestIssueProducesDistinctTokens(t *testing.T) {
	m, err := NewTokenManager(testKey("a"), time.Hour)
	require.NoError(t, err)

	first, _, err := m.Issue(1, "admin")
	require.NoError(t, err)
	second, _, err := m.Issue(1, "admin")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestVerifyExpiredToken(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	m, err := NewTokenManager(testKey("a"), 24*time.Hour)
	require.NoError(t, err)
	m.WithClock(func() time.Time { return now })

	token, _, err := m.Issue(7, "patient")
	require.NoError(t, err)

	now = now.Add(24*time.Hour - time.Second)
	_, err = m.Verify(token)
	assert.NoError(t, err)

	now = now.Add(2 * time.Second)
	_, err = m.Verify(token)
	assert.ErrorIs(t, err, apperrors.ErrExpiredToken)
}

func TestVerifyRejectsForeignOrMalformedTokens(t *testing.T) {
	m, err := NewTokenManager(testKey("a"), time.Hour)
	require.NoError(t, err)
	other, err := NewTokenManager(testKey("b"), time.Hour)
	require.NoError(t, err)

	foreign, _, err := other.Issue(1, "admin")
	require.NoError(t, err)

	for _, token := range []string{"", "garbage", foreign, foreign[:len(foreign)-4]} {
		_, err := m.Verify(token)
		assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
	}
}

func TestNewTokenManagerRequiresKeySize(t *testing.T) {
	_, err := NewTokenManager([]byte("short"), time.Hour)
	assert.Error(t, err)
}
