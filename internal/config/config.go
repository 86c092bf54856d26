package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"recoverydesk/internal/validation"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// Environment
	Env string // "development", "production", etc.

	// Server
	ServerAddr string
	BaseURL    string

	// Database
	DatabaseURL string

	// Redis (optional). When set, sessions, rate limiting and the
	// recommendation cache share it.
	RedisURL string

	// TLS
	TLSEnabled  bool
	TLSCertFile string
	TLSKeyFile  string

	// OIDC
	OIDCIssuer        string
	OIDCClientID      string
	OIDCClientSecret  string
	OIDCRedirectURL   string
	OIDCGroupsClaim   string // claim holding the user's groups
	OIDCAdminGroup    string // members become admin
	OIDCOperatorGroup string // members become operator

	// Session
	SessionSecret string // Used for signing cookies (min 32 chars)

	// CORS
	CORSOrigins string // Comma-separated allowed origins

	// Rate limiting
	RateLimitPerMinute int

	// Recovery backend
	BackendURL             string
	BackendAPIKey          string
	BackendTimeout         time.Duration
	RecommendationPath     string
	LaunchPath             string
	EventStreamPath        string
	RecommendationCacheTTL time.Duration // 0 disables caching

	// Email (SMTP)
	SMTPEnabled  bool
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string
	SMTPFromName string
	SMTPTLS      string // "none", "tls" or "starttls"

	EmailNotifyOnLaunchFailure bool
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		Env:                getEnv("ENV", "development"),
		ServerAddr:         getEnv("SERVER_ADDR", ":3000"),
		BaseURL:            getEnv("BASE_URL", "http://localhost:3000"),
		DatabaseURL:        getEnv("DATABASE_URL", "postgres://localhost:5432/recoverydesk?sslmode=disable"),
		RedisURL:           getEnv("REDIS_URL", ""),
		TLSEnabled:         getEnv("TLS_ENABLED", "") != "",
		TLSCertFile:        getEnv("TLS_CERT_FILE", ""),
		TLSKeyFile:         getEnv("TLS_KEY_FILE", ""),
		OIDCIssuer:         getEnv("OIDC_ISSUER", ""),
		OIDCClientID:       getEnv("OIDC_CLIENT_ID", ""),
		OIDCClientSecret:   getEnv("OIDC_CLIENT_SECRET", ""),
		OIDCRedirectURL:    getEnv("OIDC_REDIRECT_URL", "http://localhost:3000/auth/callback"),
		OIDCGroupsClaim:    getEnv("OIDC_GROUPS_CLAIM", "groups"),
		OIDCAdminGroup:     getEnv("OIDC_ADMIN_GROUP", ""),
		OIDCOperatorGroup:  getEnv("OIDC_OPERATOR_GROUP", ""),
		SessionSecret:      getEnv("SESSION_SECRET", "change-me-in-production-min-32-chars"),
		CORSOrigins:        getEnv("CORS_ORIGINS", ""),
		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 100),

		BackendURL:             getEnv("BACKEND_URL", "http://localhost:8000"),
		BackendAPIKey:          getEnv("BACKEND_API_KEY", ""),
		BackendTimeout:         getEnvDuration("BACKEND_TIMEOUT", 10*time.Second),
		RecommendationPath:     getEnv("BACKEND_RECOMMENDATION_PATH", "/api/recovery/recommendation"),
		LaunchPath:             getEnv("BACKEND_LAUNCH_PATH", "/api/broadcasts"),
		EventStreamPath:        getEnv("BACKEND_EVENTS_PATH", "/api/events/stream"),
		RecommendationCacheTTL: getEnvDuration("RECOMMENDATION_CACHE_TTL", 30*time.Second),

		SMTPEnabled:  getEnvBool("SMTP_ENABLED", false),
		SMTPHost:     getEnv("SMTP_HOST", ""),
		SMTPPort:     getEnvInt("SMTP_PORT", 587),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		SMTPFrom:     getEnv("SMTP_FROM", ""),
		SMTPFromName: getEnv("SMTP_FROM_NAME", "Recovery Desk"),
		SMTPTLS:      getEnv("SMTP_TLS", "starttls"),

		EmailNotifyOnLaunchFailure: getEnvBool("EMAIL_NOTIFY_ON_LAUNCH_FAILURE", true),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

// IsDev returns true if the environment is set to development.
func (c *Config) IsDev() bool {
	return c.Env == "development" || c.Env == "dev"
}

// IsOIDCEnabled returns true if an OIDC issuer is configured.
func (c *Config) IsOIDCEnabled() bool {
	return c.OIDCIssuer != ""
}

// IsEmailEnabled returns true if SMTP is enabled and configured.
func (c *Config) IsEmailEnabled() bool {
	return c.SMTPEnabled && c.SMTPHost != "" && c.SMTPFrom != ""
}

// Validate reports configuration the server cannot start with.
func (c *Config) Validate() error {
	if valid, msg := validation.ValidateURL(c.BackendURL); !valid {
		return fmt.Errorf("BACKEND_URL: %s", msg)
	}
	if !c.IsDev() {
		if !c.IsOIDCEnabled() {
			return fmt.Errorf("OIDC_ISSUER is required outside development")
		}
		if len(c.SessionSecret) < 32 {
			return fmt.Errorf("SESSION_SECRET must be at least 32 characters")
		}
	}
	if c.TLSEnabled && (c.TLSCertFile == "" || c.TLSKeyFile == "") {
		return fmt.Errorf("TLS_CERT_FILE and TLS_KEY_FILE are required when TLS is enabled")
	}
	if c.RateLimitPerMinute <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive")
	}
	return nil
}
