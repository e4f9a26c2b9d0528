package config

import (
	"os"
	"strconv"
	"time"
	"unicode/utf8"

	"statadvisor/internal/apperr"
)

// Config represents the complete application configuration
type Config struct {
	Server  ServerConfig
	Data    DataConfig
	Engine  EngineConfig
	Offload OffloadConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// DataConfig holds dataset ingestion settings
type DataConfig struct {
	FilePath   string
	MaxRows    int
	MaxColumns int
	// DecimalSeparator is the non-ASCII separator accepted as a decimal
	// point in addition to '.'; comma is always the final fallback.
	DecimalSeparator rune
}

// EngineConfig holds computation settings
type EngineConfig struct {
	AssumptionCacheTTL time.Duration
}

// OffloadConfig holds worker dispatch settings
type OffloadConfig struct {
	Enabled bool
	Timeout time.Duration
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:    getEnvOrDefault("PORT", "8080"),
			GinMode: getEnvOrDefault("GIN_MODE", "release"),
		},
		Data: DataConfig{
			FilePath:         getEnvOrDefault("DATA_FILE", ""),
			MaxRows:          getEnvIntOrDefault("MAX_ROWS", 100000),
			MaxColumns:       getEnvIntOrDefault("MAX_COLUMNS", 200),
			DecimalSeparator: getEnvRuneOrDefault("DECIMAL_SEPARATOR", '٫'),
		},
		Engine: EngineConfig{
			AssumptionCacheTTL: getEnvDurationOrDefault("ASSUMPTION_CACHE_TTL", 5*time.Minute),
		},
		Offload: OffloadConfig{
			Enabled: getEnvBoolOrDefault("OFFLOAD_ENABLED", true),
			Timeout: getEnvDurationOrDefault("OFFLOAD_TIMEOUT", 30*time.Second),
		},
	}

	if err := validate(cfg); err != nil {
		return nil, apperr.Wrap(err, "configuration validation failed")
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.Data.MaxRows <= 0 {
		return apperr.ConfigInvalid("MAX_ROWS must be positive")
	}
	if cfg.Data.MaxColumns <= 0 {
		return apperr.ConfigInvalid("MAX_COLUMNS must be positive")
	}
	if cfg.Offload.Timeout <= 0 {
		return apperr.ConfigInvalid("OFFLOAD_TIMEOUT must be positive")
	}
	if cfg.Engine.AssumptionCacheTTL <= 0 {
		return apperr.ConfigInvalid("ASSUMPTION_CACHE_TTL must be positive")
	}
	return nil
}

// Helper functions for environment variable parsing

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvRuneOrDefault(key string, defaultValue rune) rune {
	if value := os.Getenv(key); value != "" {
		r, _ := utf8.DecodeRuneInString(value)
		if r != utf8.RuneError {
			return r
		}
	}
	return defaultValue
}
