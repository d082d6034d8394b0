// Package config loads and validates console config from env and an optional .env file using Viper.
package config

import (
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds console configuration loaded from the environment.
type Config struct {
	// APIBaseURL is the REST backend base URL (e.g. https://api.example.com/v1). Required.
	APIBaseURL string `mapstructure:"API_BASE_URL"`
	// APITimeout is the per-request deadline (e.g. "30s").
	APITimeout string `mapstructure:"API_TIMEOUT"`
	// DefaultLocale is the language tag used when neither the UI nor the stored preference has one.
	DefaultLocale string `mapstructure:"DEFAULT_LOCALE"`

	// StateBackend selects where persisted client state lives: file, sqlite, redis or memory.
	StateBackend string `mapstructure:"STATE_BACKEND"`
	// StatePath is the YAML file (file backend) or sqlite database path (sqlite backend).
	StatePath string `mapstructure:"STATE_PATH"`
	// StateSecret, when set, seals persisted values at rest.
	StateSecret string `mapstructure:"STATE_SECRET"`
	// RedisAddr is the Redis address for the redis backend (e.g. localhost:6379).
	RedisAddr string `mapstructure:"REDIS_ADDR"`
	// RedisPrefix namespaces console keys inside a shared Redis.
	RedisPrefix string `mapstructure:"REDIS_PREFIX"`

	// OTPWindow is the resend countdown after an OTP was sent (e.g. "600s").
	OTPWindow string `mapstructure:"OTP_WINDOW"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `mapstructure:"LOG_LEVEL"`
	// LogFormat is text or json.
	LogFormat string `mapstructure:"LOG_FORMAT"`

	// OTLPEndpoint is the OTLP gRPC collector; empty disables export.
	OTLPEndpoint string `mapstructure:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	// OTLPInsecure forces plaintext gRPC to the collector.
	OTLPInsecure bool `mapstructure:"OTEL_EXPORTER_OTLP_INSECURE"`
	// LokiURL is where client events are pushed when set (e.g. http://localhost:3100).
	LokiURL string `mapstructure:"LOKI_URL"`

	// PolicyDir, when set, holds *.rego route guard policies that replace the built-in one.
	PolicyDir string `mapstructure:"POLICY_DIR"`

	// Env is the application environment (e.g. "development", "production").
	Env string `mapstructure:"APP_ENV"`
}

var stateBackends = map[string]bool{"file": true, "sqlite": true, "redis": true, "memory": true}

// Load reads .env (if present), then builds and validates Config from the environment via Viper.
// flags may be nil; when set, flag values override env for the keys they are bound to.
func Load(flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // ignore ErrConfigFileNotFound

	v.AutomaticEnv()

	v.SetDefault("API_BASE_URL", "")
	v.SetDefault("API_TIMEOUT", "30s")
	v.SetDefault("DEFAULT_LOCALE", "en-US")
	v.SetDefault("STATE_BACKEND", "file")
	v.SetDefault("STATE_PATH", "console-state.yaml")
	v.SetDefault("STATE_SECRET", "")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PREFIX", "console:")
	v.SetDefault("OTP_WINDOW", "600s")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	v.SetDefault("OTEL_EXPORTER_OTLP_INSECURE", false)
	v.SetDefault("LOKI_URL", "")
	v.SetDefault("POLICY_DIR", "")
	v.SetDefault("APP_ENV", "")

	if flags != nil {
		bindFlag(v, flags, "API_BASE_URL", "api")
		bindFlag(v, flags, "STATE_BACKEND", "state-backend")
		bindFlag(v, flags, "STATE_PATH", "state-path")
		bindFlag(v, flags, "LOG_LEVEL", "log-level")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	cfg.APIBaseURL = strings.TrimRight(strings.TrimSpace(cfg.APIBaseURL), "/")
	if cfg.APIBaseURL == "" {
		return nil, errors.New("config: API_BASE_URL must be set")
	}
	u, err := url.Parse(cfg.APIBaseURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, errors.New("config: API_BASE_URL must be an absolute http(s) URL")
	}

	cfg.StateBackend = strings.ToLower(strings.TrimSpace(cfg.StateBackend))
	if !stateBackends[cfg.StateBackend] {
		return nil, errors.New("config: STATE_BACKEND must be one of file, sqlite, redis, memory")
	}
	if (cfg.StateBackend == "file" || cfg.StateBackend == "sqlite") && cfg.StatePath == "" {
		return nil, errors.New("config: STATE_PATH must be set for the file and sqlite backends")
	}
	if cfg.Env == "production" && cfg.StateBackend != "memory" && cfg.StateSecret == "" {
		return nil, errors.New("config: STATE_SECRET is required when APP_ENV=production")
	}

	return &cfg, nil
}

func bindFlag(v *viper.Viper, flags *pflag.FlagSet, key, name string) {
	if f := flags.Lookup(name); f != nil {
		_ = v.BindPFlag(key, f)
	}
}

// Timeout parses APITimeout as a time.Duration. Returns 30s if unset or invalid.
func (c *Config) Timeout() time.Duration {
	d, err := time.ParseDuration(c.APITimeout)
	if err != nil || d <= 0 {
		return 30 * time.Second
	}
	return d
}

// OTPCountdown parses OTPWindow as a time.Duration. Returns 600s if unset or invalid.
func (c *Config) OTPCountdown() time.Duration {
	d, err := time.ParseDuration(c.OTPWindow)
	if err != nil || d <= 0 {
		return 600 * time.Second
	}
	return d
}
