package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/cesargomez89/melodeck/internal/constants"
)

// Config holds all application configuration
type Config struct {
	Port           string
	DBPath         string
	DataDir        string
	StaticDir      string
	MaxUploadBytes int64
	LogLevel       string
	LogFormat      string
	LogFile        string
	LogMaxSizeMB   int
	LogMaxBackups  int
	LogMaxAgeDays  int
}

// Load loads configuration from a .env file (if present) and environment
// variables, with defaults. Variables already set in the environment win.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:           getEnv("PORT", constants.DefaultPort),
		DBPath:         getEnv("DB_PATH", constants.DefaultDBPath),
		DataDir:        getEnv("DATA_DIR", constants.DefaultDataDir),
		StaticDir:      getEnv("STATIC_DIR", ""),
		MaxUploadBytes: getEnvInt64("MAX_UPLOAD_BYTES", constants.MaxUploadSize),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "text"),
		LogFile:        getEnv("LOG_FILE", ""),
		LogMaxSizeMB:   getEnvInt("LOG_MAX_SIZE_MB", constants.DefaultLogMaxSizeMB),
		LogMaxBackups:  getEnvInt("LOG_MAX_BACKUPS", constants.DefaultLogMaxBackups),
		LogMaxAgeDays:  getEnvInt("LOG_MAX_AGE_DAYS", constants.DefaultLogMaxAgeDays),
	}
}

// Validate validates the configuration and returns detailed errors
func (c *Config) Validate() error {
	var errors []string

	// Validate Port
	if c.Port == "" {
		errors = append(errors, "PORT cannot be empty")
	} else {
		port, err := strconv.Atoi(c.Port)
		if err != nil {
			errors = append(errors, fmt.Sprintf("PORT must be a valid number, got: %s", c.Port))
		} else if port < 1 || port > 65535 {
			errors = append(errors, fmt.Sprintf("PORT must be between 1 and 65535, got: %d", port))
		}
	}

	if c.DBPath == "" {
		errors = append(errors, "DB_PATH cannot be empty")
	}

	if c.DataDir == "" {
		errors = append(errors, "DATA_DIR cannot be empty")
	}

	if c.MaxUploadBytes <= 0 {
		errors = append(errors, fmt.Sprintf("MAX_UPLOAD_BYTES must be positive, got: %d", c.MaxUploadBytes))
	}

	// Validate LogLevel
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		errors = append(errors, fmt.Sprintf("LOG_LEVEL must be one of: debug, info, warn, error, got: %s", c.LogLevel))
	}

	// Validate LogFormat
	validLogFormats := map[string]bool{
		"text": true,
		"json": true,
	}
	if !validLogFormats[c.LogFormat] {
		errors = append(errors, fmt.Sprintf("LOG_FORMAT must be one of: text, json, got: %s", c.LogFormat))
	}

	if c.LogFile != "" {
		if c.LogMaxSizeMB <= 0 {
			errors = append(errors, fmt.Sprintf("LOG_MAX_SIZE_MB must be positive, got: %d", c.LogMaxSizeMB))
		}
		if c.LogMaxBackups < 0 {
			errors = append(errors, fmt.Sprintf("LOG_MAX_BACKUPS cannot be negative, got: %d", c.LogMaxBackups))
		}
		if c.LogMaxAgeDays < 0 {
			errors = append(errors, fmt.Sprintf("LOG_MAX_AGE_DAYS cannot be negative, got: %d", c.LogMaxAgeDays))
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}

// getEnv retrieves an environment variable with a fallback default
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// getEnvInt retrieves an integer environment variable, falling back when unset or malformed
func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	if value, ok := os.LookupEnv(key); ok {
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}
