package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"APP_ENV", "PORT", "APP_URL", "SESSION_STORE", "REDIS_URL",
		"SQLITE_PATH", "SESSION_EVICT_SCHEDULE", "SESSION_IDLE_TTL", "AI_SERVICE_URL", "AI_TIMEOUT",
		"CLERK_API_URL", "CLERK_SECRET_KEY", "CLERK_JWT_KEY", "ADMIN_EMAILS", "STRIPE_SECRET_KEY",
		"STRIPE_WEBHOOK_SECRET", "STRIPE_TEMPLATES_PRICE_ID", "STRIPE_PRO_PRICE_ID", "PDF_ENGINE",
		"CHROME_PATH", "EXPORT_ARCHIVE_DIR", "JOBS_DATABASE_URL", "SESSION_COOKIE_SECURE"} {
		t.Setenv(k, "")
	}
	// godotenv must not pick up a developer's .env.
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "memory", cfg.Session.Store)
	assert.Equal(t, 30*time.Minute, cfg.Session.IdleTTL)
	assert.Equal(t, "http://ai-service:8000", cfg.AI.BaseURL)
	assert.Equal(t, 60*time.Second, cfg.AI.Timeout)
	assert.Equal(t, "chromedp", cfg.Export.Engine)
}

func TestLoadYAMLThenEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: "8080"
session:
  store: sqlite
  idle_ttl: 10m
export:
  engine: playwright
`), 0o644))
	t.Setenv("PORT", "9090")
	t.Setenv("ADMIN_EMAILS", " a@x.io, ,B@x.io ")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "sqlite", cfg.Session.Store)
	assert.Equal(t, 10*time.Minute, cfg.Session.IdleTTL)
	assert.Equal(t, "playwright", cfg.Export.Engine)
	assert.Equal(t, []string{"a@x.io", "B@x.io"}, cfg.Identity.AdminEmails)
	assert.True(t, cfg.IsAdmin("b@x.io"))
	assert.False(t, cfg.IsAdmin(""))
}

func TestLoadRejectsInvalid(t *testing.T) {
	clearEnv(t)
	t.Setenv("SESSION_STORE", "redis")
	_, err := Load("")
	assert.Error(t, err)

	t.Setenv("SESSION_STORE", "")
	t.Setenv("PDF_ENGINE", "wkhtml")
	_, err = Load("")
	assert.Error(t, err)

	t.Setenv("PDF_ENGINE", "")
	t.Setenv("AI_TIMEOUT", "soon")
	_, err = Load("")
	assert.Error(t, err)
}

func TestLogConfigRedactsSecrets(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	cfg := &Config{Stripe: StripeConfig{SecretKey: "sk_live_123"}, Identity: IdentityConfig{SecretKey: "sk_clerk"}}
	cfg.LogConfig(zap.New(core))

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "[REDACTED]", fields["stripe_secret_key"])
	assert.Equal(t, "[REDACTED]", fields["identity_secret_key"])
	assert.Equal(t, "", fields["stripe_webhook_secret"])
}
