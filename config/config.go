// config.go - Handles configuration for the project

package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every setting the server reads from the environment.
type Config struct {
	Port string // HTTP listen port

	DBDriver    string // "sqlite" (default) or "postgres"
	DBPath      string // Path to the SQLite database file
	DatabaseURL string // PostgreSQL DSN, used when DBDriver is "postgres"

	JWTSecret    string        // Secret key for access tokens
	TokenTTL     time.Duration // Lifetime of an access token
	CookieSecure bool          // Mark the access_token cookie Secure
	SessionKey   string        // Secret for the admin session cookie

	RedisAddr     string // Response cache; empty disables caching
	RedisPassword string

	SMTPHost          string
	SMTPPort          int
	SMTPUser          string
	SMTPPass          string
	MailOverrideTo    string // Deliver every message here instead of the booking owner
	MailMaxAttempts   int
	MailRetryBackoff  time.Duration
	MailRetrySchedule string // cron spec for the retry sweep

	MQTTBroker string // Booking events; empty disables publishing
	MQTTTopic  string

	CORSOrigins []string

	AdminEmail    string // Seeded on startup when both are set
	AdminPassword string
}

// Load reads config from environment variables (and an optional .env file) or uses defaults.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Println("[config] could not load .env:", err)
	}

	return &Config{
		Port: getEnv("PORT", "8080"),

		DBDriver:    getEnv("DB_DRIVER", "sqlite"),
		DBPath:      getEnv("DB_PATH", "data.db"),
		DatabaseURL: os.Getenv("DATABASE_URL"),

		JWTSecret:    getEnv("JWT_SECRET", "supersecret"),
		TokenTTL:     getDuration("TOKEN_TTL", 30*time.Minute),
		CookieSecure: getBool("COOKIE_SECURE", false),
		SessionKey:   getEnv("SESSION_SECRET", "supersecret-session"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		SMTPHost:          os.Getenv("SMTP_HOST"),
		SMTPPort:          getInt("SMTP_PORT", 587),
		SMTPUser:          os.Getenv("SMTP_USER"),
		SMTPPass:          os.Getenv("SMTP_PASS"),
		MailOverrideTo:    os.Getenv("MAIL_OVERRIDE_RECIPIENT"),
		MailMaxAttempts:   getInt("MAIL_MAX_ATTEMPTS", 3),
		MailRetryBackoff:  getDuration("MAIL_RETRY_BACKOFF", time.Minute),
		MailRetrySchedule: getEnv("MAIL_RETRY_SPEC", "@every 1m"),

		MQTTBroker: os.Getenv("MQTT_BROKER"),
		MQTTTopic:  getEnv("MQTT_TOPIC", "hotels/bookings"),

		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "http://localhost:3000")),

		AdminEmail:    os.Getenv("ADMIN_EMAIL"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
	}
}

// CreateAdmin reports whether a default admin account should be seeded.
func (c *Config) CreateAdmin() bool {
	return c.AdminEmail != "" && c.AdminPassword != ""
}

func getEnv(key, fallback string) string { // Helper to get env var or fallback
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimRight(strings.TrimSpace(p), "/"); p != "" {
			out = append(out, p)
		}
	}
	return out
}
