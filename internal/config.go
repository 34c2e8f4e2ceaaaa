package internal

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// DefaultNotificationEmail receives lead notifications when
// NOTIFICATION_EMAIL is not set.
const DefaultNotificationEmail = "kyle@lmktreeservices.com.au"

type Config struct {
	Env      string
	Port     int
	LogLevel string

	// Public base URL (canonical links in pages and emails)
	BaseURL string

	// Mail provider: "smtp" or "sendgrid"
	MailProvider string

	// SMTP Configuration
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string
	SMTPFromName string

	// SendGrid (used when MailProvider is "sendgrid")
	SendGridAPIKey string

	// Where lead notifications are delivered
	NotificationEmail string

	// Metrics endpoint authentication
	// If both are empty, the /metrics endpoint will be unprotected (not recommended)
	MetricsUsername string
	MetricsPassword string
}

func NewConfig() (*Config, error) {
	// Load .env file if it exists (ignored in production)
	_ = godotenv.Load()

	cfg := &Config{
		Env:      getEnv("ENV", "development"),
		Port:     getEnvInt("PORT", 8080),
		LogLevel: getEnv("LOG_LEVEL", "debug"),

		BaseURL: getEnv("BASE_URL", "http://localhost:8080"),

		MailProvider: getEnv("MAIL_PROVIDER", "smtp"),

		// SMTP defaults for Mailhog (development). Production uses
		// smtp.gmail.com:465 with an app password.
		SMTPHost:     getEnv("SMTP_HOST", "localhost"),
		SMTPPort:     getEnvInt("SMTP_PORT", 1025),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		SMTPFrom:     getEnv("SMTP_FROM", "quotes@lmktreeservices.com.au"),
		SMTPFromName: getEnv("SMTP_FROM_NAME", "LMK Tree Services"),

		SendGridAPIKey: getEnv("SENDGRID_API_KEY", ""),

		NotificationEmail: getEnv("NOTIFICATION_EMAIL", DefaultNotificationEmail),

		MetricsUsername: getEnv("METRICS_USERNAME", ""),
		MetricsPassword: getEnv("METRICS_PASSWORD", ""),
	}

	return cfg, nil
}

// MailConfigured reports whether the selected mail provider has the
// credentials it needs. When false the consultation endpoint reports
// a "service not configured" error instead of attempting delivery.
func (c *Config) MailConfigured() bool {
	switch c.MailProvider {
	case "sendgrid":
		return c.SendGridAPIKey != ""
	default:
		// Mailhog in development needs no credentials
		if c.Env == "development" {
			return true
		}
		return c.SMTPUsername != "" && c.SMTPPassword != ""
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
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}
