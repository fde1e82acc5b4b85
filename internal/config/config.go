package config

import (
	"os"
	"strconv"
)

type Config struct {
	Port        string
	Environment string
	DatabaseURL string
	CORSOrigins string
	TablePrefix string
	// CRM delivery
	WebhookURL string
	BeaconURL  string // defaults to WebhookURL when unset
	// Widget embed authentication (optional; disabled when empty)
	EmbedJWKSURL string
	// Upstream responder
	ResponderProvider string // "anthropic" or "lorem"
	AnthropicAPIKey   string
	ResponderModel    string
	DefaultLanguage   string
	// File logging (optional; stdout only when empty)
	LogDir      string
	LogMaxFiles int
	// Debug flags
	Debug bool
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")
	webhookURL := getEnv("CRM_WEBHOOK_URL", "")

	return &Config{
		Port:         getEnv("PORT", "8080"),
		Environment:  env,
		DatabaseURL:  getEnv("DATABASE_URL", ""),
		CORSOrigins:  getEnv("CORS_ORIGINS", "http://localhost:3000"),
		TablePrefix:  getTablePrefix(env),
		WebhookURL:   webhookURL,
		BeaconURL:    getEnv("CRM_BEACON_URL", webhookURL),
		EmbedJWKSURL: getEnv("EMBED_JWKS_URL", ""),
		// Responder configuration
		ResponderProvider: getEnv("RESPONDER_PROVIDER", "anthropic"),
		AnthropicAPIKey:   getEnv("ANTHROPIC_API_KEY", ""),
		ResponderModel:    getEnv("RESPONDER_MODEL", "claude-haiku-4-5-20251001"),
		DefaultLanguage:   getEnv("DEFAULT_LANGUAGE", "en"),
		LogDir:            getEnv("LOG_DIR", ""),
		LogMaxFiles:       getEnvInt("LOG_MAX_FILES", 10),
		// Debug flags - default to true in dev/test, false in production
		Debug: getEnv("DEBUG", getDefaultDebug(env)) == "true",
	}
}

// getDefaultDebug returns the default debug setting based on environment
func getDefaultDebug(env string) string {
	if env == "prod" {
		return "false"
	}
	return "true"
}

// getTablePrefix returns the table prefix based on environment
func getTablePrefix(env string) string {
	// Allow manual override via TABLE_PREFIX env var
	if prefix := os.Getenv("TABLE_PREFIX"); prefix != "" {
		return prefix
	}

	switch env {
	case "prod":
		return "prod_"
	case "test":
		return "test_"
	default:
		return "dev_"
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
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
