package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/validator"
	"github.com/joho/godotenv"
)

const (
	StoreTypePostgres = "postgres"
	StoreTypeBlob     = "blob"
	StoreTypeMemory   = "memory"
)

type Config struct {
	Database   DatabaseConfig
	JWT        JWTConfig
	App        AppConfig
	Attendance AttendanceConfig
	Storage    StorageConfig
	Workers    WorkersConfig
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
	Port               int
	Env                string
	LogLevel           string
	CORSAllowedOrigins []string
}

// AttendanceConfig holds the registration policy
type AttendanceConfig struct {
	Timezone          string
	EntryDeadlineHour int
	ExitDeadlineHour  int
	AllowReregister   bool
	ExportInterval    time.Duration
}

// StorageConfig selects where ledgers and exported workbooks live
type StorageConfig struct {
	Type     string
	BasePath string
}

// WorkersConfig holds the raw credential table, "name:password,..."
type WorkersConfig struct {
	Credentials string
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	} else if err != nil {
		slog.Debug("no .env file, using process environment")
	}

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
		Name:     getEnv("DB_NAME", "timeclock"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:               appPort,
		Env:                getEnv("APP_ENV", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		CORSAllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS"),
	}
	if len(config.App.CORSAllowedOrigins) == 0 {
		config.App.CORSAllowedOrigins = []string{"http://localhost:3000"}
	}

	// Attendance policy
	entryHour, err := strconv.Atoi(getEnv("ENTRY_DEADLINE_HOUR", "11"))
	if err != nil {
		return nil, fmt.Errorf("invalid ENTRY_DEADLINE_HOUR: %w", err)
	}
	exitHour, err := strconv.Atoi(getEnv("EXIT_DEADLINE_HOUR", "18"))
	if err != nil {
		return nil, fmt.Errorf("invalid EXIT_DEADLINE_HOUR: %w", err)
	}
	allowReregister, err := strconv.ParseBool(getEnv("ALLOW_REREGISTER", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid ALLOW_REREGISTER: %w", err)
	}
	exportInterval, err := time.ParseDuration(getEnv("EXPORT_INTERVAL", "1h"))
	if err != nil {
		return nil, fmt.Errorf("invalid EXPORT_INTERVAL: %w", err)
	}

	config.Attendance = AttendanceConfig{
		Timezone:          getEnv("APP_TIMEZONE", "America/Lima"),
		EntryDeadlineHour: entryHour,
		ExitDeadlineHour:  exitHour,
		AllowReregister:   allowReregister,
		ExportInterval:    exportInterval,
	}

	config.Storage = StorageConfig{
		Type:     getEnv("STORE_TYPE", StoreTypePostgres),
		BasePath: getEnv("STORAGE_BASE_PATH", "./data"),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "12h"),
	}

	config.Workers = WorkersConfig{
		Credentials: getEnv("WORKER_CREDENTIALS", ""),
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if _, err := time.ParseDuration(c.JWT.AccessExpiration); err != nil {
		return fmt.Errorf("invalid JWT_ACCESS_EXPIRATION_TIME: %w", err)
	}
	if c.Workers.Credentials == "" {
		return fmt.Errorf("WORKER_CREDENTIALS is required")
	}

	if !validator.IsInSlice(c.Storage.Type, []string{StoreTypePostgres, StoreTypeBlob, StoreTypeMemory}) {
		return fmt.Errorf("unsupported STORE_TYPE %q", c.Storage.Type)
	}
	if c.Storage.Type == StoreTypePostgres && c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}

	if c.Attendance.EntryDeadlineHour < 0 || c.Attendance.EntryDeadlineHour > 23 {
		return fmt.Errorf("ENTRY_DEADLINE_HOUR must be between 0 and 23")
	}
	if c.Attendance.ExitDeadlineHour < 0 || c.Attendance.ExitDeadlineHour > 23 {
		return fmt.Errorf("EXIT_DEADLINE_HOUR must be between 0 and 23")
	}
	if c.Attendance.ExportInterval <= 0 {
		return fmt.Errorf("EXPORT_INTERVAL must be positive")
	}
	if _, err := time.LoadLocation(c.Attendance.Timezone); err != nil {
		return fmt.Errorf("invalid APP_TIMEZONE: %w", err)
	}
	return nil
}

// SlogLevel maps LOG_LEVEL to a slog level, defaulting to info
func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.App.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
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

func getEnvSlice(env string) []string {
	value := getEnv(env, "")
	if value == "" {
		return []string{}
	}
	var result []string
	for _, v := range strings.Split(value, ",") {
		if v = strings.TrimSpace(v); v != "" {
			result = append(result, v)
		}
	}
	return result
}
