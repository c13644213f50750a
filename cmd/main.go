package main

import (
	"HealthcareAPI/cache"
	"HealthcareAPI/config"
	"HealthcareAPI/database"
	"HealthcareAPI/models"
	"HealthcareAPI/repositories"
	"HealthcareAPI/routes"
	"HealthcareAPI/services"
	"HealthcareAPI/utils"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "healthcare-api",
		Short: "Healthcare directory API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(createAdminCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup()
			if err != nil {
				return err
			}
			db, err := openDB(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer database.Close(db)
			log.Info().Str("driver", cfg.DBDriver).Msg("migrations applied")

			redisClient, err := newRedisClient(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			if redisClient == nil {
				return nil
			}
			defer redisClient.Close()
			if err := services.FlushDoctorDirectory(cmd.Context(), cache.New(redisClient)); err != nil {
				return err
			}
			log.Info().Msg("doctor cache flushed")
			return nil
		},
	}
}

func createAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an admin account",
		RunE: func(cmd *cobra.Command, args []string) error {
			name, _ := cmd.Flags().GetString("name")
			email, _ := cmd.Flags().GetString("email")
			password, _ := cmd.Flags().GetString("password")

			creds := models.Credentials{Name: name, Email: email, Password: password}
			if err := utils.ValidateRequest(creds); err != nil {
				return err
			}

			cfg, err := setup()
			if err != nil {
				return err
			}
			db, err := openDB(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer database.Close(db)

			user, err := repositories.NewUserRepository(db).Create(cmd.Context(), models.NewUser{
				Name:     name,
				Email:    email,
				Password: password,
				Role:     models.RoleAdmin,
			})
			if err != nil {
				return err
			}
			log.Info().Int64("userId", user.ID).Str("email", user.Email).Msg("admin created")
			return nil
		},
	}
	cmd.Flags().String("name", "Administrator", "Display name")
	cmd.Flags().String("email", "", "Login email")
	cmd.Flags().String("password", "", "Initial password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

// setup loads configuration and configures the global logger.
func setup() (*config.AppConfig, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if cfg.IsDevelopment() {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).With().Timestamp().Logger()
	} else {
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	}
	return cfg, nil
}

func openDB(ctx context.Context, cfg *config.AppConfig) (*gorm.DB, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	return database.InitDB(ctx, database.Config{
		Driver:          cfg.DBDriver,
		DSN:             cfg.DBURL,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
		LogSQL:          cfg.IsDevelopment(),
	})
}

func newRedisClient(ctx context.Context, cfg *config.AppConfig) (*redis.Client, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	return database.NewRedisClient(ctx, database.RedisConfig{
		URL:          cfg.RedisURL,
		PoolSize:     cfg.RedisPoolSize,
		MinIdleConns: cfg.RedisMinIdleConns,
		DialTimeout:  cfg.RedisDialTimeout,
		ReadTimeout:  cfg.RedisReadTimeout,
		MaxRetries:   cfg.RedisMaxRetries,
	})
}

func runServer() error {
	cfg, err := setup()
	if err != nil {
		return err
	}
	ctx := context.Background()

	db, err := openDB(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close(db)

	redisClient, err := newRedisClient(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize Redis client: %w", err)
	}
	if redisClient == nil {
		log.Warn().Msg("REDIS_URL not set, caching and password reset are disabled")
	} else {
		defer redisClient.Close()
	}

	tokens, err := utils.NewTokenManager([]byte(cfg.SymmetricKey), cfg.TokenTTL)
	if err != nil {
		return err
	}

	deps := routes.Dependencies{
		DB:     db,
		Cache:  cache.New(redisClient),
		Tokens: tokens,
	}
	// A nil *SMTPMailer must not become a non-nil interface.
	if mailer := utils.NewSMTPMailer(utils.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		User:     cfg.SMTPUser,
		Password: cfg.SMTPPass,
	}); mailer != nil {
		deps.Mailer = mailer
	} else {
		log.Warn().Msg("SMTP not configured, password reset is disabled")
	}

	srv := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        routes.SetupRoutes(cfg, deps),
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   30 * time.Second,
		MaxHeaderBytes: 1 << 20,
		IdleTimeout:    30 * time.Second,
	}

	var wg sync.WaitGroup
	wg.Add(1)

	serverErr := make(chan error, 1)
	go func() {
		defer wg.Done()
		log.Info().Str("addr", srv.Addr).Str("env", cfg.Env).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	select {
	case err := <-serverErr:
		return fmt.Errorf("listenAndServe(): %w", err)
	case <-quit:
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	log.Info().Msg("shutting down server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	wg.Wait()
	log.Info().Msg("server exited gracefully")
	return nil
}
