package config

import (
	"errors"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Profile store backends selectable with PROFILE_STORE
const (
	StoreMemory    = "memory"
	StoreFile      = "file"
	StoreSQLite    = "sqlite"
	StoreRedis     = "redis"
	StoreFirestore = "firestore"
)

// AppConfig holds the settings of the API server and the networked CLI commands.
// The values are loaded from environment variables.
type AppConfig struct {
	// Core settings
	Port          string
	LogLevel      string
	LogFormat     string
	RiskModelPath string

	// Profile store
	ProfileStore    string
	ProfileFilePath string
	DatabasePath    string
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	FirestoreProject string

	// AI advisor
	OpenRouterAPIKey     string
	OpenRouterBaseURL    string
	OpenRouterModel      string
	AdvisorTimeout       time.Duration
	AdvisorRatePerMinute int

	// NAV lookups
	MFAPIBaseURL string
	NAVCacheTTL  time.Duration
}

// LoadAppConfig loads configuration from a .env file, if present, and the environment
func LoadAppConfig() *AppConfig {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("error loading .env file, relying on OS environment", "error", err)
	}
	return AppConfigFromEnv()
}

// AppConfigFromEnv reads the configuration from the process environment only
func AppConfigFromEnv() *AppConfig {
	return &AppConfig{
		Port:          getEnv("PORT", "8080"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFormat:     getEnv("LOG_FORMAT", "json"),
		RiskModelPath: getEnv("RISK_MODEL_PATH", ""),

		ProfileStore:     strings.ToLower(getEnv("PROFILE_STORE", StoreMemory)),
		ProfileFilePath:  getEnv("PROFILE_FILE_PATH", "profiles.yaml"),
		DatabasePath:     getEnv("DATABASE_PATH", "sipgo.db"),
		RedisAddr:        getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:    getEnv("REDIS_PASSWORD", ""),
		RedisDB:          getEnvAsInt("REDIS_DB", 0),
		FirestoreProject: getEnv("FIRESTORE_PROJECT_ID", ""),

		OpenRouterAPIKey:     getEnv("OPENROUTER_API_KEY", ""),
		OpenRouterBaseURL:    getEnv("OPENROUTER_BASE_URL", "https://openrouter.ai/api/v1"),
		OpenRouterModel:      getEnv("OPENROUTER_MODEL", "deepseek/deepseek-chat-v3-0324:free"),
		AdvisorTimeout:       getEnvAsDuration("ADVISOR_TIMEOUT", 30*time.Second),
		AdvisorRatePerMinute: getEnvAsInt("ADVISOR_RATE_PER_MINUTE", 20),

		MFAPIBaseURL: getEnv("MFAPI_BASE_URL", "https://api.mfapi.in"),
		NAVCacheTTL:  getEnvAsDuration("NAV_CACHE_TTL", 6*time.Hour),
	}
}

// AdvisorEnabled reports whether an API key is configured
func (c *AppConfig) AdvisorEnabled() bool {
	return c.OpenRouterAPIKey != ""
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		slog.Warn("invalid integer in environment, using default", "key", key, "value", valueStr, "default", defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		slog.Warn("invalid duration in environment, using default", "key", key, "value", valueStr, "default", defaultValue)
		return defaultValue
	}
	return value
}
