package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Database   DatabaseConfig
	JWT        JWTConfig
	App        AppConfig
	Attendance AttendanceConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port     int
	Env      string
	LogLevel string
}

// AttendanceConfig holds the engine-wide attendance defaults. Branch rows
// may override mode, radius and grace per branch; these values apply when a
// branch leaves a field unset. Unknown settings keys are a startup error,
// never silently ignored.
type AttendanceConfig struct {
	DefaultMode         string
	DefaultRadiusMeters int
	DefaultGraceMinutes int
	BatchWorkers        int
}

func Load() (*Config, error) {
	// Missing .env is fine in containerized deployments; env vars win.
	_ = godotenv.Load()

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "attendance_engine"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:     appPort,
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
	}

	radius, err := strconv.Atoi(getEnv("ATTENDANCE_DEFAULT_RADIUS_METERS", "100"))
	if err != nil {
		return nil, fmt.Errorf("invalid ATTENDANCE_DEFAULT_RADIUS_METERS: %w", err)
	}
	grace, err := strconv.Atoi(getEnv("ATTENDANCE_DEFAULT_GRACE_MINUTES", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid ATTENDANCE_DEFAULT_GRACE_MINUTES: %w", err)
	}
	workers, err := strconv.Atoi(getEnv("ATTENDANCE_BATCH_WORKERS", "8"))
	if err != nil {
		return nil, fmt.Errorf("invalid ATTENDANCE_BATCH_WORKERS: %w", err)
	}

	config.Attendance = AttendanceConfig{
		DefaultMode:         getEnv("ATTENDANCE_DEFAULT_MODE", "branch_based"),
		DefaultRadiusMeters: radius,
		DefaultGraceMinutes: grace,
		BatchWorkers:        workers,
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	switch c.Attendance.DefaultMode {
	case "branch_based", "multiple_locations", "flexible":
	default:
		return fmt.Errorf("unknown ATTENDANCE_DEFAULT_MODE %q", c.Attendance.DefaultMode)
	}
	if c.Attendance.DefaultRadiusMeters <= 0 {
		return fmt.Errorf("ATTENDANCE_DEFAULT_RADIUS_METERS must be positive")
	}
	if c.Attendance.BatchWorkers <= 0 {
		return fmt.Errorf("ATTENDANCE_BATCH_WORKERS must be positive")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
