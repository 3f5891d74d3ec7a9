package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"nfl-pickem-go/logging"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Logging  LoggingConfig
	Cache    CacheConfig
	Auth     AuthConfig
	App      AppConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Host string
	Port string
}

// DatabaseConfig holds MongoDB configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	Database string
	Timeout  time.Duration
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level       string
	EnableColor bool
}

// CacheConfig holds result-cache configuration
type CacheConfig struct {
	Enabled    bool
	TTL        time.Duration
	MaxEntries int
}

// AuthConfig holds token-verification configuration
type AuthConfig struct {
	JWTSecret string
}

// AppConfig holds application-specific configuration
type AppConfig struct {
	CurrentSeason int
}

// Load loads configuration from environment variables and an optional .env file
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		// Missing .env is fine; real deployments set the environment directly
		logging.Debugf("No .env file loaded: %v", err)
	}

	return &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "127.0.0.1"),
			Port: getEnv("SERVER_PORT", "8080"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "27017"),
			Username: getEnv("DB_USERNAME", ""),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "nfl_pickem"),
			Timeout:  getEnvDuration("DB_TIMEOUT", 10*time.Second),
		},
		Logging: LoggingConfig{
			Level:       getEnv("LOG_LEVEL", "info"),
			EnableColor: getEnvBool("LOG_COLOR", true),
		},
		Cache: CacheConfig{
			Enabled:    getEnvBool("CACHE_ENABLED", true),
			TTL:        getEnvDuration("CACHE_TTL", 5*time.Minute),
			MaxEntries: getEnvInt("CACHE_MAX_ENTRIES", 10000),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", ""),
		},
		App: AppConfig{
			CurrentSeason: getEnvInt("CURRENT_SEASON", time.Now().Year()),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
		logging.Warnf("Invalid integer for %s, using default %d", key, defaultValue)
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
		logging.Warnf("Invalid boolean for %s, using default %t", key, defaultValue)
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
		logging.Warnf("Invalid duration for %s, using default %s", key, defaultValue)
	}
	return defaultValue
}
