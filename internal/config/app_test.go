package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAppConfigFromEnv_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "LOG_LEVEL", "PROFILE_STORE", "OPENROUTER_API_KEY", "NAV_CACHE_TTL", "ADVISOR_RATE_PER_MINUTE", "ADVISOR_TIMEOUT", "MFAPI_BASE_URL", "OPENROUTER_MODEL"} {
		t.Setenv(key, "")
	}

	cfg := AppConfigFromEnv()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, StoreMemory, cfg.ProfileStore)
	assert.Equal(t, "https://api.mfapi.in", cfg.MFAPIBaseURL)
	assert.Equal(t, "deepseek/deepseek-chat-v3-0324:free", cfg.OpenRouterModel)
	assert.Equal(t, 6*time.Hour, cfg.NAVCacheTTL)
	assert.Equal(t, 30*time.Second, cfg.AdvisorTimeout)
	assert.Equal(t, 20, cfg.AdvisorRatePerMinute)
	assert.False(t, cfg.AdvisorEnabled())
}

func TestAppConfigFromEnv_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("PROFILE_STORE", "SQLite")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("ADVISOR_TIMEOUT", "5s")
	t.Setenv("OPENROUTER_API_KEY", "sk-test")

	cfg := AppConfigFromEnv()

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, StoreSQLite, cfg.ProfileStore, "Should lower-case the backend name")
	assert.Equal(t, 3, cfg.RedisDB)
	assert.Equal(t, 5*time.Second, cfg.AdvisorTimeout)
	assert.True(t, cfg.AdvisorEnabled())
}

func TestAppConfigFromEnv_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("REDIS_DB", "three")
	t.Setenv("NAV_CACHE_TTL", "forever")

	cfg := AppConfigFromEnv()

	assert.Equal(t, 0, cfg.RedisDB)
	assert.Equal(t, 6*time.Hour, cfg.NAVCacheTTL)
}
