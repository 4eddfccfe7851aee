// Package config provides application configuration management using Viper.
// Configuration is loaded from YAML files and environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Store     StoreConfig     `mapstructure:"store"`
	Admin     AdminConfig     `mapstructure:"admin"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	Translate TranslateConfig `mapstructure:"translate"`
	Captcha   CaptchaConfig   `mapstructure:"captcha"`
	Presence  PresenceConfig  `mapstructure:"presence"`
	Reconcile ReconcileConfig `mapstructure:"reconcile"`
	Logger    LoggerConfig    `mapstructure:"logger"`
	Sentry    SentryConfig    `mapstructure:"sentry"`
	Redis     RedisConfig     `mapstructure:"redis"`
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Name           string `mapstructure:"name"`
	Env            string `mapstructure:"env"` // development, staging, production
	Port           int    `mapstructure:"port"`
	Debug          bool   `mapstructure:"debug"`
	DefaultCountry string `mapstructure:"default_country"`
}

// StoreConfig holds document store settings.
type StoreConfig struct {
	DataDir     string        `mapstructure:"data_dir"`
	CacheTTL    time.Duration `mapstructure:"cache_ttl"`
	LockTimeout time.Duration `mapstructure:"lock_timeout"`
}

// AdminConfig holds moderation credentials. Passwords maps a country name
// to its moderator password; SuperPassword grants access to every country.
type AdminConfig struct {
	Passwords     map[string]string `mapstructure:"passwords"`
	SuperPassword string            `mapstructure:"super_password"`
}

// TelegramConfig holds Bot API settings for notifications and photo storage.
type TelegramConfig struct {
	BotToken     string        `mapstructure:"bot_token"`
	BaseURL      string        `mapstructure:"base_url"`
	NotifyChatID string        `mapstructure:"notify_chat_id"`
	PhotoChannel string        `mapstructure:"photo_channel"`
	Timeout      time.Duration `mapstructure:"timeout"`
	Retry        RetryConfig   `mapstructure:"retry"`
	CB           CBConfig      `mapstructure:"circuit_breaker"`
}

// TranslateConfig holds machine translation settings.
type TranslateConfig struct {
	APIKey   string        `mapstructure:"api_key"`
	BaseURL  string        `mapstructure:"base_url"`
	Model    string        `mapstructure:"model"`
	Timeout  time.Duration `mapstructure:"timeout"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

// CaptchaConfig holds submission captcha settings.
type CaptchaConfig struct {
	TTL        time.Duration `mapstructure:"ttl"`
	MaxPending int           `mapstructure:"max_pending"`
}

// PresenceConfig holds online visitor tracking settings.
type PresenceConfig struct {
	Window time.Duration `mapstructure:"window"`
}

// ReconcileConfig holds background aggregate reconcile settings.
type ReconcileConfig struct {
	Interval  time.Duration `mapstructure:"interval"`
	OnStartup bool          `mapstructure:"on_startup"`
}

// RetryConfig holds retry settings.
type RetryConfig struct {
	MaxAttempts int           `mapstructure:"max_attempts"`
	WaitTime    time.Duration `mapstructure:"wait_time"`
	MaxWaitTime time.Duration `mapstructure:"max_wait_time"`
}

// CBConfig holds circuit breaker settings.
type CBConfig struct {
	MaxRequests  uint32        `mapstructure:"max_requests"`
	Interval     time.Duration `mapstructure:"interval"`
	Timeout      time.Duration `mapstructure:"timeout"`
	FailureRatio float64       `mapstructure:"failure_ratio"`
}

// LoggerConfig holds logging settings.
type LoggerConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, console
	Output string `mapstructure:"output"` // stdout, stderr, file path
}

// SentryConfig holds Sentry error tracking settings.
type SentryConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	DSN         string  `mapstructure:"dsn"`
	Environment string  `mapstructure:"environment"`
	SampleRate  float64 `mapstructure:"sample_rate"`
}

// RedisConfig holds Redis connection settings for the translation cache
// and distributed locking.
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Load reads configuration from file and environment variables.
// Priority: env vars > config file > defaults
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Config file settings
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Config file not found, continue with defaults + env vars
	}

	// Environment variable settings
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Unmarshal config
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "classifieds-service")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", 8080)
	v.SetDefault("app.debug", true)
	v.SetDefault("app.default_country", "vietnam")

	// Store defaults
	v.SetDefault("store.data_dir", "./data")
	v.SetDefault("store.cache_ttl", "30s")
	v.SetDefault("store.lock_timeout", "5s")

	// Admin defaults
	v.SetDefault("admin.passwords", map[string]string{})
	v.SetDefault("admin.super_password", "")

	// Telegram defaults
	v.SetDefault("telegram.bot_token", "")
	v.SetDefault("telegram.base_url", "https://api.telegram.org")
	v.SetDefault("telegram.notify_chat_id", "")
	v.SetDefault("telegram.photo_channel", "")
	v.SetDefault("telegram.timeout", "10s")
	v.SetDefault("telegram.retry.max_attempts", 3)
	v.SetDefault("telegram.retry.wait_time", "1s")
	v.SetDefault("telegram.retry.max_wait_time", "5s")
	v.SetDefault("telegram.circuit_breaker.max_requests", 3)
	v.SetDefault("telegram.circuit_breaker.interval", "60s")
	v.SetDefault("telegram.circuit_breaker.timeout", "30s")
	v.SetDefault("telegram.circuit_breaker.failure_ratio", 0.5)

	// Translate defaults
	v.SetDefault("translate.api_key", "")
	v.SetDefault("translate.base_url", "https://generativelanguage.googleapis.com")
	v.SetDefault("translate.model", "gemini-2.0-flash")
	v.SetDefault("translate.timeout", "15s")
	v.SetDefault("translate.cache_ttl", "720h")

	// Captcha defaults
	v.SetDefault("captcha.ttl", "10m")
	v.SetDefault("captcha.max_pending", 1000)

	// Presence defaults
	v.SetDefault("presence.window", "60s")

	// Reconcile defaults
	v.SetDefault("reconcile.interval", "5m")
	v.SetDefault("reconcile.on_startup", true)

	// Logger defaults
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.output", "stdout")

	// Sentry defaults
	v.SetDefault("sentry.enabled", false)
	v.SetDefault("sentry.dsn", "")
	v.SetDefault("sentry.environment", "development")
	v.SetDefault("sentry.sample_rate", 1.0)

	// Redis defaults
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
}
