package configs

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the application. It is loaded once at
// startup and passed explicitly to constructors; nothing reads the
// environment at call time.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Copier   CopierConfig
}

// ServerConfig holds HTTP listener configuration.
type ServerConfig struct {
	Port    string
	OpsPort string
	Env     string
}

// DatabaseConfig holds database configuration.
type DatabaseConfig struct {
	URL string
}

// AuthConfig holds the credential-signing secret and token lifetime.
type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

// CopierConfig holds the remote copier service endpoint and credentials.
type CopierConfig struct {
	BaseURL      string
	AuthUsername string
	AuthToken    string
	Timeout      time.Duration
}

// Load loads configuration from environment variables.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:    getEnv("PORT", "8080"),
			OpsPort: getEnv("OPS_PORT", "8081"),
			Env:     getEnv("GO_ENV", "development"),
		},
		Database: DatabaseConfig{
			URL: getEnv("DATABASE_URL", ""),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("ACCESS_TOKEN_SECRET", ""),
			TokenTTL:  getDuration("TOKEN_TTL", 24*time.Hour),
		},
		Copier: CopierConfig{
			BaseURL:      getEnv("COPIER_BASE_URL", "https://www.trade-copier.com/webservice/v4"),
			AuthUsername: getEnv("COPIER_AUTH_USERNAME", ""),
			AuthToken:    getEnv("COPIER_AUTH_TOKEN", ""),
			Timeout:      getDuration("COPIER_TIMEOUT", 30*time.Second),
		},
	}
}

// Validate checks the mandatory startup values. A missing store URL, signing
// secret or copier credential is a fatal startup condition, not a per-call
// error: the process must exit before binding a listener.
func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("ACCESS_TOKEN_SECRET is required")
	}
	if c.Copier.AuthUsername == "" {
		return fmt.Errorf("COPIER_AUTH_USERNAME is required")
	}
	if c.Copier.AuthToken == "" {
		return fmt.Errorf("COPIER_AUTH_TOKEN is required")
	}
	return nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getDuration parses a duration in seconds from the environment.
func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if secs, err := strconv.Atoi(value); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultValue
}
