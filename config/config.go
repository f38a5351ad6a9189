package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// AuthMode selects which auth provider variant backs the session
// context. There is no automatic fallback between modes.
type AuthMode string

const (
	// AuthModeKratos signs in against the real identity backend.
	AuthModeKratos AuthMode = "kratos"
	// AuthModeFixed serves a fixed development identity and never
	// touches the backend. Local development only.
	AuthModeFixed AuthMode = "fixed"
)

// Config holds the application configuration
type Config struct {
	KratosURL      string `validate:"required,url"`  // Kratos Frontend API (port 4433)
	KratosAdminURL string `validate:"omitempty,url"` // Kratos Admin API (port 4434), bootstrap only
	DatabaseDSN    string `validate:"required"`
	Port           string `validate:"required"`
	AuthMode       AuthMode

	ProfileCacheTTL time.Duration `validate:"gt=0"`

	SessionTokenSecret   string        `validate:"required,min=32"`
	SessionTokenIssuer   string        `validate:"required"`
	SessionTokenAudience string        `validate:"required"`
	SessionTokenTTL      time.Duration `validate:"gt=0"`

	CSRFSecret string `validate:"required,min=16"`
}

// Load reads configuration from environment variables with sensible defaults
func Load() (*Config, error) {
	config := &Config{
		KratosURL:            getEnv("KRATOS_URL", "http://kratos:4433"),
		KratosAdminURL:       getEnv("KRATOS_ADMIN_URL", ""),
		DatabaseDSN:          getEnv("DATABASE_DSN", ""),
		Port:                 getEnv("PORT", "8888"),
		ProfileCacheTTL:      5 * time.Minute,
		SessionTokenSecret:   getEnv("SESSION_TOKEN_SECRET", ""),
		SessionTokenIssuer:   getEnv("SESSION_TOKEN_ISSUER", "ops-hub"),
		SessionTokenAudience: getEnv("SESSION_TOKEN_AUDIENCE", "ops-dashboard"),
		SessionTokenTTL:      12 * time.Hour,
		CSRFSecret:           getEnv("CSRF_SECRET", ""),
	}

	mode, err := parseAuthMode(getEnv("AUTH_MODE", string(AuthModeKratos)))
	if err != nil {
		return nil, err
	}
	config.AuthMode = mode

	if ttlStr := os.Getenv("PROFILE_CACHE_TTL"); ttlStr != "" {
		duration, err := time.ParseDuration(ttlStr)
		if err != nil {
			return nil, fmt.Errorf("invalid PROFILE_CACHE_TTL format: %w", err)
		}
		config.ProfileCacheTTL = duration
	}

	if ttlStr := os.Getenv("SESSION_TOKEN_TTL"); ttlStr != "" {
		duration, err := time.ParseDuration(ttlStr)
		if err != nil {
			return nil, fmt.Errorf("invalid SESSION_TOKEN_TTL format: %w", err)
		}
		config.SessionTokenTTL = duration
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// parseAuthMode rejects anything but the two known provider variants.
func parseAuthMode(raw string) (AuthMode, error) {
	switch AuthMode(strings.ToLower(strings.TrimSpace(raw))) {
	case AuthModeKratos:
		return AuthModeKratos, nil
	case AuthModeFixed:
		return AuthModeFixed, nil
	default:
		return "", fmt.Errorf("invalid AUTH_MODE %q: must be %q or %q", raw, AuthModeKratos, AuthModeFixed)
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var invalid []string
		for _, fieldErr := range err.(validator.ValidationErrors) {
			invalid = append(invalid, fieldErr.Field())
		}
		return fmt.Errorf("invalid configuration: %s", strings.Join(invalid, ", "))
	}
	return nil
}

// getEnv retrieves an environment variable or returns a fallback value
func getEnv(key, fallback string) string {
	// Check for _FILE suffix
	if fileValue := os.Getenv(key + "_FILE"); fileValue != "" {
		content, err := os.ReadFile(fileValue)
		if err == nil {
			return strings.TrimSpace(string(content))
		}
	}

	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
