package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// LoadENV loads variables from .env when GO_ENV is unset or "development".
// A missing .env file is not an error in that case.
func LoadENV() error {
	goEnv := os.Getenv("GO_ENV")

	if goEnv == "" || goEnv == "development" {
		err := godotenv.Load()
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}

	return nil
}

type EnviornmentVariable struct {
	GO_ENV   string
	LOG_MODE string
	PORT     int
	// Database Configuration
	DB_DRIVER    string // postgres (pgx), pq (lib/pq) or sqlite
	DB_USER_NAME string
	DB_PASSWORD  string
	DB_NAME      string
	DB_HOST      string
	DB_PORT      string
	DB_SSL_MODE  string
	SQLITE_PATH  string
	// JWT Configuration
	JWT_SECRET string
	JWT_ISSUER string
	// Redis Configuration (optional, enables distributed key locks)
	REDIS_URL string
	// Background jobs
	CRON_ENABLED bool
	// CORS
	ALLOWED_ORIGINS string
	// Media signing (optional, S3 compatible)
	MEDIA_BUCKET     string
	MEDIA_REGION     string
	MEDIA_ENDPOINT   string
	MEDIA_ACCESS_KEY string
	MEDIA_SECRET_KEY string
	MEDIA_URL_TTL    time.Duration
	// Seeding
	SEED_DEMO_DATA bool
}

func Get() (*EnviornmentVariable, error) {

	port, err := strconv.Atoi(os.Getenv("PORT"))
	if err != nil {
		port = 8080
	}

	mediaTTL, err := time.ParseDuration(getEnv("MEDIA_URL_TTL", "15m"))
	if err != nil {
		return nil, fmt.Errorf("invalid MEDIA_URL_TTL: %w", err)
	}

	envVariables := &EnviornmentVariable{
		GO_ENV:   os.Getenv("GO_ENV"),
		LOG_MODE: getEnv("LOG_MODE", "development"),
		PORT:     port,
		// Database
		DB_DRIVER:    strings.ToLower(getEnv("DB_DRIVER", "postgres")),
		DB_USER_NAME: os.Getenv("DB_USER_NAME"),
		DB_PASSWORD:  os.Getenv("DB_PASSWORD"),
		DB_NAME:      os.Getenv("DB_NAME"),
		DB_HOST:      getEnv("DB_HOST", "localhost"),
		DB_PORT:      getEnv("DB_PORT", "5432"),
		DB_SSL_MODE:  getEnv("DB_SSL_MODE", "disable"),
		SQLITE_PATH:  getEnv("SQLITE_PATH", "lms.db"),
		// JWT
		JWT_SECRET: os.Getenv("JWT_SECRET"),
		JWT_ISSUER: getEnv("JWT_ISSUER", "fullstack-lms"),
		// Redis
		REDIS_URL: os.Getenv("REDIS_URL"),
		// Cron, enabled unless explicitly "false"
		CRON_ENABLED: os.Getenv("CRON_ENABLED") != "false",
		// CORS
		ALLOWED_ORIGINS: getEnv("ALLOWED_ORIGINS", "*"),
		// Media
		MEDIA_BUCKET:     os.Getenv("MEDIA_BUCKET"),
		MEDIA_REGION:     getEnv("MEDIA_REGION", "us-east-1"),
		MEDIA_ENDPOINT:   os.Getenv("MEDIA_ENDPOINT"),
		MEDIA_ACCESS_KEY: os.Getenv("MEDIA_ACCESS_KEY"),
		MEDIA_SECRET_KEY: os.Getenv("MEDIA_SECRET_KEY"),
		MEDIA_URL_TTL:    mediaTTL,
		// Seeding
		SEED_DEMO_DATA: os.Getenv("SEED_DEMO_DATA") == "true",
	}

	return envVariables, nil
}

// Validate rejects configurations the server cannot start with.
func (e *EnviornmentVariable) Validate() error {
	if e.JWT_SECRET == "" {
		return errors.New("JWT_SECRET is required")
	}
	switch e.DB_DRIVER {
	case "postgres", "pq", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", e.DB_DRIVER)
	}
	return nil
}

// IsProduction reports whether GO_ENV is "production".
func (e *EnviornmentVariable) IsProduction() bool {
	return e.GO_ENV == "production"
}

// MediaSigningEnabled reports whether presigned media URLs are configured.
func (e *EnviornmentVariable) MediaSigningEnabled() bool {
	return e.MEDIA_BUCKET != "" && e.MEDIA_ACCESS_KEY != "" && e.MEDIA_SECRET_KEY != ""
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}
