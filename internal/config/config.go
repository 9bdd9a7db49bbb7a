package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application configuration. It is constructed once per process
// and handed to components through their constructors; there is no ambient
// global configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	LogLevel    string
	HTTPAddr    string

	DBType     string
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string
	DBPath     string

	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string

	ERPNextURL       string
	ERPNextAPIKey    string
	ERPNextAPISecret string

	UploadWebhookURL string
}

// Load loads configuration from environment variables and a .env file.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		AppName:     getenv("APP_SERVICE", "wattlens"),
		AppVersion:  getenv("APP_VERSION", "0.1.0"),
		Environment: getenv("ENVIRONMENT", "development"),
		LogLevel:    getenv("LOG_LEVEL", "info"),
		HTTPAddr:    getenv("HTTP_ADDR", ":8080"),

		DBType:     getenv("DATABASE_TYPE", "sqlite"),
		DBHost:     getenv("DATABASE_HOST", "localhost"),
		DBPort:     getenv("DATABASE_PORT", "5432"),
		DBName:     getenv("DATABASE_NAME", "wattlens"),
		DBUser:     getenv("DATABASE_USER", "postgres"),
		DBPassword: getenv("DATABASE_PASSWORD", ""),
		DBSSLMode:  getenv("DATABASE_SSLMODE", "disable"),
		DBPath:     getenv("DATABASE_PATH", "wattlens.db"),

		OpenAIAPIKey:  strings.TrimSpace(getenv("OPENAI_API_KEY", "")),
		OpenAIBaseURL: strings.TrimSpace(getenv("OPENAI_BASE_URL", "")),
		OpenAIModel:   getenv("OPENAI_MODEL", "gpt-4"),

		ERPNextURL:       strings.TrimRight(strings.TrimSpace(getenv("ERPNEXT_URL", "")), "/"),
		ERPNextAPIKey:    strings.TrimSpace(getenv("ERPNEXT_API_KEY", "")),
		ERPNextAPISecret: strings.TrimSpace(getenv("ERPNEXT_API_SECRET", "")),

		UploadWebhookURL: strings.TrimSpace(getenv("UPLOAD_WEBHOOK_URL", "")),
	}
}

func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
