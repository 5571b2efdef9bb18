// Load envs from .env, then an optional YAML file, then environment
// overrides. Defaults fill what is still empty; Validate rejects the rest.

package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment"`
	Port        string `yaml:"port"`
	AppURL      string `yaml:"app_url"`

	Session  SessionConfig  `yaml:"session"`
	AI       AIConfig       `yaml:"ai"`
	Identity IdentityConfig `yaml:"identity"`
	Stripe   StripeConfig   `yaml:"stripe"`
	Export   ExportConfig   `yaml:"export"`
}

type SessionConfig struct {
	// Store is one of "memory", "redis" or "sqlite".
	Store      string        `yaml:"store"`
	RedisURL   string        `yaml:"redis_url"`
	SQLitePath string        `yaml:"sqlite_path"`
	IdleTTL    time.Duration `yaml:"idle_ttl"`
	// EvictSchedule is a cron spec, e.g. "@every 5m".
	EvictSchedule string `yaml:"evict_schedule"`
	CookieSecure  bool   `yaml:"cookie_secure"`
}

type AIConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

type IdentityConfig struct {
	APIURL    string `yaml:"api_url"`
	SecretKey string `yaml:"secret_key"`
	// JWTKey is the PEM encoded RSA public key session tokens are signed with.
	JWTKey      string   `yaml:"jwt_key"`
	AdminEmails []string `yaml:"admin_emails"`
}

type StripeConfig struct {
	SecretKey        string `yaml:"secret_key"`
	WebhookSecret    string `yaml:"webhook_secret"`
	TemplatesPriceID string `yaml:"templates_price_id"`
	ProPriceID       string `yaml:"pro_price_id"`
}

type ExportConfig struct {
	// Engine is "chromedp" or "playwright".
	Engine      string `yaml:"engine"`
	ChromePath  string `yaml:"chrome_path"`
	ArchiveDir  string `yaml:"archive_dir"`
	DatabaseURL string `yaml:"database_url"`
}

// Load reads .env (if present) and the YAML file at path (if path is
// non-empty and the file exists), applies environment overrides and
// defaults, and validates the result.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	str := map[string]*string{
		"APP_ENV":                   &c.Environment,
		"PORT":                      &c.Port,
		"APP_URL":                   &c.AppURL,
		"SESSION_STORE":             &c.Session.Store,
		"REDIS_URL":                 &c.Session.RedisURL,
		"SQLITE_PATH":               &c.Session.SQLitePath,
		"SESSION_EVICT_SCHEDULE":    &c.Session.EvictSchedule,
		"AI_SERVICE_URL":            &c.AI.BaseURL,
		"CLERK_API_URL":             &c.Identity.APIURL,
		"CLERK_SECRET_KEY":          &c.Identity.SecretKey,
		"CLERK_JWT_KEY":             &c.Identity.JWTKey,
		"STRIPE_SECRET_KEY":         &c.Stripe.SecretKey,
		"STRIPE_WEBHOOK_SECRET":     &c.Stripe.WebhookSecret,
		"STRIPE_TEMPLATES_PRICE_ID": &c.Stripe.TemplatesPriceID,
		"STRIPE_PRO_PRICE_ID":       &c.Stripe.ProPriceID,
		"PDF_ENGINE":                &c.Export.Engine,
		"CHROME_PATH":               &c.Export.ChromePath,
		"EXPORT_ARCHIVE_DIR":        &c.Export.ArchiveDir,
		"JOBS_DATABASE_URL":         &c.Export.DatabaseURL,
	}
	for key, dst := range str {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	durations := map[string]*time.Duration{
		"SESSION_IDLE_TTL": &c.Session.IdleTTL,
		"AI_TIMEOUT":       &c.AI.Timeout,
	}
	for key, dst := range durations {
		if v := os.Getenv(key); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("invalid %s: %w", key, err)
			}
			*dst = d
		}
	}

	if v := os.Getenv("SESSION_COOKIE_SECURE"); v != "" {
		c.Session.CookieSecure = v == "true" || v == "1"
	}
	if v := os.Getenv("ADMIN_EMAILS"); v != "" {
		c.Identity.AdminEmails = splitList(v)
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Port == "" {
		c.Port = "3000"
	}
	if c.AppURL == "" {
		c.AppURL = "http://localhost:3000"
	}
	if c.Session.Store == "" {
		c.Session.Store = "memory"
	}
	if c.Session.SQLitePath == "" {
		c.Session.SQLitePath = "resume-data/sessions.db"
	}
	if c.Session.IdleTTL == 0 {
		c.Session.IdleTTL = 30 * time.Minute
	}
	if c.Session.EvictSchedule == "" {
		c.Session.EvictSchedule = "@every 5m"
	}
	if c.AI.BaseURL == "" {
		c.AI.BaseURL = "http://ai-service:8000"
	}
	if c.AI.Timeout == 0 {
		c.AI.Timeout = 60 * time.Second
	}
	if c.Identity.APIURL == "" {
		c.Identity.APIURL = "https://api.clerk.com"
	}
	if c.Export.Engine == "" {
		c.Export.Engine = "chromedp"
	}
}

// Validate checks enumerations and the settings each choice depends on.
// Missing collaborator credentials are not errors: the matching features
// report themselves unavailable at request time.
func (c *Config) Validate() error {
	switch c.Session.Store {
	case "memory", "sqlite":
	case "redis":
		if c.Session.RedisURL == "" {
			return errors.New("REDIS_URL is required when SESSION_STORE=redis")
		}
	default:
		return fmt.Errorf("unknown session store %q", c.Session.Store)
	}
	switch c.Export.Engine {
	case "chromedp", "playwright":
	default:
		return fmt.Errorf("unknown pdf engine %q", c.Export.Engine)
	}
	if c.Session.IdleTTL < 0 {
		return errors.New("session idle ttl must be positive")
	}
	return nil
}

// IsAdmin reports whether email is listed in ADMIN_EMAILS (case-insensitive).
func (c *Config) IsAdmin(email string) bool {
	email = strings.TrimSpace(email)
	if email == "" {
		return false
	}
	for _, a := range c.Identity.AdminEmails {
		if strings.EqualFold(a, email) {
			return true
		}
	}
	return false
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func redact(s string) string {
	if s == "" {
		return ""
	}
	return "[REDACTED]"
}

// LogConfig logs the effective configuration with secrets redacted.
func (c *Config) LogConfig(logger *zap.Logger) {
	logger.Info("Application configuration",
		zap.String("environment", c.Environment),
		zap.String("port", c.Port),
		zap.String("app_url", c.AppURL),
		zap.String("session_store", c.Session.Store),
		zap.Duration("session_idle_ttl", c.Session.IdleTTL),
		zap.String("session_evict_schedule", c.Session.EvictSchedule),
		zap.String("ai_base_url", c.AI.BaseURL),
		zap.Duration("ai_timeout", c.AI.Timeout),
		zap.String("identity_api_url", c.Identity.APIURL),
		zap.String("identity_secret_key", redact(c.Identity.SecretKey)),
		zap.Int("admin_emails", len(c.Identity.AdminEmails)),
		zap.String("stripe_secret_key", redact(c.Stripe.SecretKey)),
		zap.String("stripe_webhook_secret", redact(c.Stripe.WebhookSecret)),
		zap.String("pdf_engine", c.Export.Engine),
		zap.String("export_archive_dir", c.Export.ArchiveDir),
		zap.Bool("export_history", c.Export.DatabaseURL != ""),
	)
}
