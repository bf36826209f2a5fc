// Package config loads and validates application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// minSessionSecret is the shortest SESSION_SECRET accepted; gorilla/securecookie
// needs at least 32 bytes for its HMAC key.
const minSessionSecret = 32

// Config holds all configuration values for the API server.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// DatabaseURL is the Postgres connection string. Required.
	DatabaseURL string

	// SessionSecret signs the session cookie. Required, at least 32 bytes.
	SessionSecret []byte

	// SecureCookies marks the session cookie Secure (HTTPS only). Defaults to false.
	SecureCookies bool

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to ["http://localhost:5173"]; CORS_ORIGINS is comma-separated.
	CORSOrigins []string

	// MaxBodyBytes caps request bodies. Defaults to 1 MiB.
	MaxBodyBytes int64

	// DefaultCurrency is used for bookings that name no currency. Defaults to "INR".
	DefaultCurrency string
}

// Load reads configuration from environment variables and returns a Config.
// Returns an error listing every required variable that is missing or invalid.
func Load() (Config, error) {
	cfg := Config{
		Port:            getEnv("PORT", "8080"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		CORSOrigins:     splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		DefaultCurrency: strings.ToUpper(getEnv("DEFAULT_CURRENCY", "INR")),
	}

	var problems []string

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		problems = append(problems, "DATABASE_URL is not set")
	}

	switch secret := os.Getenv("SESSION_SECRET"); {
	case secret == "":
		problems = append(problems, "SESSION_SECRET is not set")
	case len(secret) < minSessionSecret:
		problems = append(problems, fmt.Sprintf("SESSION_SECRET must be at least %d bytes", minSessionSecret))
	default:
		cfg.SessionSecret = []byte(secret)
	}

	maxBody, err := strconv.ParseInt(getEnv("MAX_BODY_BYTES", "1048576"), 10, 64)
	if err != nil || maxBody <= 0 {
		problems = append(problems, "MAX_BODY_BYTES must be a positive integer")
	}
	cfg.MaxBodyBytes = maxBody

	secure, err := strconv.ParseBool(getEnv("SECURE_COOKIES", "false"))
	if err != nil {
		problems = append(problems, "SECURE_COOKIES must be a boolean")
	}
	cfg.SecureCookies = secure

	if len(problems) > 0 {
		return Config{}, fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}

	return cfg, nil
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
