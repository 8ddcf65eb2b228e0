package internal

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the full runtime configuration, resolved once at startup from
// environment variables (optionally seeded from a .env file).
type Config struct {
	Env      string
	LogLevel string
	Port     uint16

	// AllowedOrigins are the browser origins permitted to call the API.
	AllowedOrigins []string

	// BaseCurrency is the settlement currency all catalog prices are in.
	BaseCurrency string

	Commerce CommerceConfig
	Redis    RedisConfig
	Contact  ContactConfig
	Sentry   SentryConfig
}

// CommerceConfig connects the storefront to the remote commerce platform.
type CommerceConfig struct {
	StoreDomain string
	AccessToken string
	APIVersion  string
	Timeout     time.Duration
}

// RedisConfig selects the session state backend. An empty URL falls back to
// the in-process store, which only suits single-node development.
type RedisConfig struct {
	URL    string
	Prefix string
}

// ContactConfig points at the external inquiry-form backend. SiteKey and
// Number are public values handed to the front end: the bot-verification
// widget's site key and the phone number behind the "call us" link.
type ContactConfig struct {
	Endpoint string
	Timeout  time.Duration
	SiteKey  string
	Number   string
}

// SentryConfig holds configuration for Sentry error tracking.
type SentryConfig struct {
	DSN         string
	Enabled     bool
	Environment string
	Release     string
	SampleRate  float64
}

// NewConfig loads configuration from the environment. A .env file in the
// working directory is loaded first if present; real environment variables
// win over it.
func NewConfig() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("ENV", "dev")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("PORT", 3000)
	v.SetDefault("ALLOWED_ORIGINS", "*")
	v.SetDefault("BASE_CURRENCY", "AED")
	v.SetDefault("COMMERCE_API_VERSION", "2024-07")
	v.SetDefault("COMMERCE_TIMEOUT", "10s")
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("REDIS_PREFIX", "wayfarer")
	v.SetDefault("CONTACT_ENDPOINT", "")
	v.SetDefault("CONTACT_TIMEOUT", "10s")
	v.SetDefault("CONTACT_SITE_KEY", "")
	v.SetDefault("CONTACT_NUMBER", "")
	v.SetDefault("SENTRY_DSN", "")
	v.SetDefault("SENTRY_ENABLED", false)
	v.SetDefault("SENTRY_ENVIRONMENT", "development")
	v.SetDefault("SENTRY_RELEASE", "")
	v.SetDefault("SENTRY_SAMPLE_RATE", 1.0)

	cfg := &Config{
		Env:            v.GetString("ENV"),
		LogLevel:       v.GetString("LOG_LEVEL"),
		Port:           uint16(v.GetUint32("PORT")),
		AllowedOrigins: splitOrigins(v.GetString("ALLOWED_ORIGINS")),
		BaseCurrency:   v.GetString("BASE_CURRENCY"),
		Commerce: CommerceConfig{
			StoreDomain: v.GetString("COMMERCE_STORE_DOMAIN"),
			AccessToken: v.GetString("COMMERCE_ACCESS_TOKEN"),
			APIVersion:  v.GetString("COMMERCE_API_VERSION"),
			Timeout:     v.GetDuration("COMMERCE_TIMEOUT"),
		},
		Redis: RedisConfig{
			URL:    v.GetString("REDIS_URL"),
			Prefix: v.GetString("REDIS_PREFIX"),
		},
		Contact: ContactConfig{
			Endpoint: v.GetString("CONTACT_ENDPOINT"),
			Timeout:  v.GetDuration("CONTACT_TIMEOUT"),
			SiteKey:  v.GetString("CONTACT_SITE_KEY"),
			Number:   v.GetString("CONTACT_NUMBER"),
		},
		Sentry: SentryConfig{
			DSN:         v.GetString("SENTRY_DSN"),
			Enabled:     v.GetBool("SENTRY_ENABLED"),
			Environment: v.GetString("SENTRY_ENVIRONMENT"),
			Release:     v.GetString("SENTRY_RELEASE"),
			SampleRate:  v.GetFloat64("SENTRY_SAMPLE_RATE"),
		},
	}

	if cfg.Env != "dev" && cfg.Env != "prod" {
		return nil, fmt.Errorf("ENV must be dev or prod, got %q", cfg.Env)
	}

	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		cfg.LogLevel = "info"
	}

	if cfg.Commerce.StoreDomain == "" {
		return nil, fmt.Errorf("COMMERCE_STORE_DOMAIN is required")
	}
	if cfg.Commerce.AccessToken == "" {
		return nil, fmt.Errorf("COMMERCE_ACCESS_TOKEN is required")
	}

	if cfg.Env == "prod" && cfg.Redis.URL == "" {
		return nil, fmt.Errorf("REDIS_URL is required in production; the in-memory store loses sessions on restart")
	}

	return cfg, nil
}

func splitOrigins(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
