package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Setenv("ENV", EnvTest)
	t.Setenv("DB_DRIVER", DriverSQLite)
	t.Setenv("DB_URL", "file::memory:")
	t.Setenv("SYMMETRIC_KEY", strings.Repeat("k", 32))
}

func TestFromEnvDefaults(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PORT", "")
	t.Setenv("TOKEN_TTL", "")
	t.Setenv("CORS_ORIGINS", "")

	cfg := FromEnv()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.False(t, cfg.IsProduction())
}

func TestFromEnvOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("TOKEN_TTL", "2h")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test")
	t.Setenv("DB_MAX_OPEN_CONNS", "not-a-number")

	cfg := FromEnv()
	assert.Equal(t, 2*time.Hour, cfg.TokenTTL)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
	assert.Equal(t, 40, cfg.DBMaxOpenConns)
}

func TestValidateRejectsShortKey(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SYMMETRIC_KEY", "too-short")

	err := FromEnv().Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SYMMETRIC_KEY must be 32 bytes long")
}

func TestValidateRejectsUnknownDriver(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("DB_DRIVER", "mysql")

	assert.Error(t, FromEnv().Validate())
}

func TestValidateDBURLDependsOnDriver(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("DB_URL", "")

	assert.NoError(t, FromEnv().Validate())

	t.Setenv("DB_DRIVER", DriverPostgres)
	err := FromEnv().Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_URL is required for postgres")
}

func TestRedisPoolSettings(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("REDIS_POOL_SIZE", "25")
	t.Setenv("REDIS_READ_TIMEOUT", "bogus")

	cfg := FromEnv()
	assert.Equal(t, 25, cfg.RedisPoolSize)
	assert.Equal(t, 10*time.Second, cfg.RedisReadTimeout)
	assert.Equal(t, 3, cfg.RedisMaxRetries)
}
