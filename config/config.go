package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTest        = "test"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// AppConfig holds the application configuration.
type AppConfig struct {
	Env  string
	Port string

	DBDriver          string
	DBURL             string
	DBMaxOpenConns    int
	DBMaxIdleConns    int
	DBConnMaxLifetime time.Duration

	RedisURL          string
	RedisPoolSize     int
	RedisMinIdleConns int
	RedisDialTimeout  time.Duration
	RedisReadTimeout  time.Duration
	RedisMaxRetries   int

	SymmetricKey string
	TokenTTL     time.Duration

	CORSOrigins    []string
	RateLimitRPS   float64
	RateLimitBurst int

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPass     string
	ResetCodeTTL time.Duration
}

// Load reads an optional .env file and then the process environment.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file found, using system environment variables")
	}

	cfg := FromEnv()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// FromEnv builds the configuration from environment variables with defaults.
func FromEnv() *AppConfig {
	return &AppConfig{
		Env:  getEnv("ENV", EnvDevelopment),
		Port: getEnv("PORT", "8080"),

		DBDriver:          getEnv("DB_DRIVER", DriverPostgres),
		DBURL:             getEnv("DB_URL", ""),
		DBMaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 40),
		DBMaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 20),
		DBConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", 10*time.Minute),

		RedisURL:          getEnv("REDIS_URL", ""),
		RedisPoolSize:     getEnvAsInt("REDIS_POOL_SIZE", 10),
		RedisMinIdleConns: getEnvAsInt("REDIS_MIN_IDLE_CONNS", 5),
		RedisDialTimeout:  getEnvAsDuration("REDIS_DIAL_TIMEOUT", 30*time.Second),
		RedisReadTimeout:  getEnvAsDuration("REDIS_READ_TIMEOUT", 10*time.Second),
		RedisMaxRetries:   getEnvAsInt("REDIS_MAX_RETRIES", 3),

		SymmetricKey: getEnv("SYMMETRIC_KEY", ""),
		TokenTTL:     getEnvAsDuration("TOKEN_TTL", 24*time.Hour),

		CORSOrigins:    getEnvAsList("CORS_ORIGINS", []string{"*"}),
		RateLimitRPS:   getEnvAsFloat("RATE_LIMIT_RPS", 10),
		RateLimitBurst: getEnvAsInt("RATE_LIMIT_BURST", 20),

		SMTPHost:     getEnv("SMTP_HOST", ""),
		SMTPPort:     getEnvAsInt("SMTP_PORT", 587),
		SMTPUser:     getEnv("SMTP_USER", ""),
		SMTPPass:     getEnv("SMTP_PASS", ""),
		ResetCodeTTL: getEnvAsDuration("RESET_CODE_TTL", 15*time.Minute),
	}
}

func (c *AppConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Env, validation.Required, validation.In(EnvDevelopment, EnvProduction, EnvTest)),
		validation.Field(&c.Port, validation.Required, is.Port),
		validation.Field(&c.DBDriver, validation.Required, validation.In(DriverPostgres, DriverSQLite)),
		validation.Field(&c.DBURL, validation.When(c.DBDriver == DriverPostgres,
			validation.Required.Error("DB_URL is required for postgres"))),
		validation.Field(&c.SymmetricKey, validation.Required.Error("SYMMETRIC_KEY is required"),
			validation.Length(32, 32).Error("SYMMETRIC_KEY must be 32 bytes long")),
		validation.Field(&c.TokenTTL, validation.Min(time.Minute)),
		validation.Field(&c.RateLimitRPS, validation.Min(0.0)),
		validation.Field(&c.RateLimitBurst, validation.Min(1)),
	)
}

func (c *AppConfig) IsProduction() bool {
	return c.Env == EnvProduction
}

func (c *AppConfig) IsDevelopment() bool {
	return c.Env == EnvDevelopment
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(name string, defaultValue int) int {
	if value, exists := os.LookupEnv(name); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
		log.Warn().Str("key", name).Int("default", defaultValue).Msg("invalid integer value, using default")
	}
	return defaultValue
}

func getEnvAsFloat(name string, defaultValue float64) float64 {
	if value, exists := os.LookupEnv(name); exists {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
		log.Warn().Str("key", name).Float64("default", defaultValue).Msg("invalid number value, using default")
	}
	return defaultValue
}

func getEnvAsDuration(name string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(name); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		log.Warn().Str("key", name).Dur("default", defaultValue).Msg("invalid duration value, using default")
	}
	return defaultValue
}

func getEnvAsList(name string, defaultValue []string) []string {
	value := os.Getenv(name)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
