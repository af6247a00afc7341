package app

import (
	"os"
	"strconv"
	"time"
)

// DefaultJWTSecret is the development fallback signing secret. Deployments
// must override JWT_SECRET; a prod environment running on this value gets a
// loud warning at startup.
const DefaultJWTSecret = "dev_insecure_secret_change_me"

type Config struct {
	Issuer    string // Issuer claim for tokens (default: openshelf)
	JWTSecret string // HS256 signing secret (default: DefaultJWTSecret)

	DatabaseFile string // Path to SQLite database file (default: ./openshelf.db)

	Env       string // Environment (dev, staging, prod) (default: dev)
	LogLevel  string // Log level (debug, info, warn, error) (default: info)
	LogFormat string // Log format (json, text) (default: json)
	Port      int    // HTTP server port (default: 5000)

	SessionTokenTTL time.Duration // Full session token lifetime (default: 1h)
	MFATokenTTL     time.Duration // MFA challenge token lifetime (default: 5m)

	// MFATestMode exposes the current-code diagnostic endpoint. Ignored
	// when Env is prod.
	MFATestMode bool

	ShutdownGracePeriod   time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval  time.Duration // Housekeeping interval (default: 1h)
	NotificationRetention time.Duration // Read-notification retention (default: 720h)
}

func LoadConfig() Config {
	return Config{
		Issuer:    getEnvOrDefault("OPENSHELF_ISSUER", "openshelf"),
		JWTSecret: getEnvOrDefault("JWT_SECRET", DefaultJWTSecret),

		DatabaseFile: getEnvOrDefault("OPENSHELF_DATABASE_FILE", "openshelf.db"),

		Env:       getEnvOrDefault("ENV", "dev"),
		LogLevel:  getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "json"),
		Port:      getEnvIntOrDefault("PORT", 5000),

		SessionTokenTTL: getEnvDurationOrDefault("SESSION_TOKEN_TTL", 1*time.Hour),
		MFATokenTTL:     getEnvDurationOrDefault("MFA_TOKEN_TTL", 5*time.Minute),

		MFATestMode: getEnvBoolOrDefault("MFA_TEST_MODE", false),

		ShutdownGracePeriod:   getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval:  getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
		NotificationRetention: getEnvDurationOrDefault("NOTIFICATION_RETENTION", 30*24*time.Hour),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if boolValue, err := strconv.ParseBool(value); err == nil {
		return boolValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Accept durations ("1h", "30m", "90s") or bare integer minutes.
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
