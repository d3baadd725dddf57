package config

import (
	"log"
	"os"
	"strconv"
	"strings"
)

// Config holds application configuration.
type Config struct {
	BotToken        string
	DatabaseURL     string
	ExportsDir      string
	AssetsDir       string
	OwnerID         int64
	OwnerUsername   string
	UpgradeURL      string
	DocRaptorAPIKey string
	EnableLocalPDF  bool
	QuotaPolicy     string
	QuotaDailyLimit int
	Port            string
	Env             string
}

// Load reads configuration from environment variables with sensible defaults.
// A missing BOT_TOKEN is fatal; everything else degrades at the point of use.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	token := strings.TrimSpace(os.Getenv("BOT_TOKEN"))
	if token == "" {
		log.Fatal("BOT_TOKEN is required")
	}

	return Config{
		BotToken:        token,
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		ExportsDir:      getEnv("EXPORTS_DIR", "./exports"),
		AssetsDir:       getEnv("ASSETS_DIR", "./assets"),
		OwnerID:         getEnvInt64("OWNER_ID", 0),
		OwnerUsername:   strings.TrimPrefix(getEnv("OWNER_USERNAME", ""), "@"),
		UpgradeURL:      getEnv("PAYLINK_UPGRADE_URL", ""),
		DocRaptorAPIKey: os.Getenv("DOCRAPTOR_API_KEY"),
		EnableLocalPDF:  getEnv("ENABLE_LOCAL_PDF", "0") == "1",
		QuotaPolicy:     normalizeQuotaPolicy(getEnv("QUOTA_POLICY", "lifetime")),
		QuotaDailyLimit: getEnvInt("QUOTA_DAILY_LIMIT", 1),
		Port:            getEnv("PORT", getEnv("RENDER_PORT", "10000")),
		Env:             normalizeEnv(getEnv("ENV", "dev")),
	}
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return parsed
}

func getEnvInt64(key string, def int64) int64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	parsed, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return def
	}
	return parsed
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	default:
		return "dev"
	}
}

func normalizeQuotaPolicy(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "daily":
		return "daily"
	default:
		return "lifetime"
	}
}
