package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	// Log configuration
	Log LogConfig `mapstructure:"log"`

	// Server configuration
	Server ServerConfig `mapstructure:"server"`

	// Avatar client configuration
	Avatar AvatarConfig `mapstructure:"avatar"`

	// CircuitBreaker configuration
	CircuitBreaker CircuitBreakerConfig `mapstructure:"circuit_breaker"`

	// Alert configuration
	Alert AlertConfig `mapstructure:"alert"`

	// Telemetry configuration
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // gin mode: debug, release, test
}

// AvatarConfig holds configuration for the avatar communication client
type AvatarConfig struct {
	// AvatarID identifies the avatar on whose behalf requests are made
	AvatarID string `mapstructure:"avatar_id"`

	// PrimaryProvider is tried first on every call
	PrimaryProvider string `mapstructure:"primary_provider"`

	// FallbackProviders are tried in order after the primary
	FallbackProviders []string `mapstructure:"fallback_providers"`

	// Endpoints maps provider IDs to their API URLs; unset providers use
	// their built-in default endpoint
	Endpoints map[string]string `mapstructure:"endpoints"`

	// APIKeys maps provider IDs to credentials.
	// Excluded from JSON serialization to prevent accidental exposure.
	APIKeys map[string]string `json:"-" mapstructure:"api_keys"`

	// DefaultTimeoutSeconds bounds every wire call
	DefaultTimeoutSeconds int `mapstructure:"default_timeout_seconds"`

	// MaxRetries is informational: resilience is expressed as failover
	// across providers, not same-provider retry
	MaxRetries int `mapstructure:"max_retries"`

	// RateLimits maps provider IDs to requests per minute; absent means
	// unlimited
	RateLimits map[string]int `mapstructure:"rate_limits"`

	// CacheEnabled toggles the response cache
	CacheEnabled bool `mapstructure:"cache_enabled"`

	// CacheTTLSeconds bounds how long a cached response may be served
	CacheTTLSeconds int `mapstructure:"cache_ttl_seconds"`

	// CacheMaxEntries caps the cache before oldest-first eviction kicks in
	CacheMaxEntries int `mapstructure:"cache_max_entries"`
}

// CircuitBreakerConfig holds configuration for per-provider circuit breaking
type CircuitBreakerConfig struct {
	Enabled          bool    `mapstructure:"enabled"`
	MaxRequests      uint32  `mapstructure:"max_requests"`
	Interval         int     `mapstructure:"interval"` // in seconds
	Timeout          int     `mapstructure:"timeout"`  // in seconds
	ReadyToTripRatio float64 `mapstructure:"ready_to_trip_ratio"`
}

// AlertConfig holds configuration for alerting
type AlertConfig struct {
	Enabled  bool     `mapstructure:"enabled"`
	SMTPHost string   `mapstructure:"smtp_host"`
	SMTPPort int      `mapstructure:"smtp_port"`
	Username string   `mapstructure:"username"`
	Password string   `mapstructure:"password"`
	From     string   `mapstructure:"from"`
	To       []string `mapstructure:"to"`
}

// TelemetryConfig holds telemetry configuration
type TelemetryConfig struct {
	ParquetPath string `mapstructure:"parquet_path"`
}

// Load loads configuration from file and environment variables
func Load() (*Config, error) {
	setDefaults()

	config := &Config{}
	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	overrideWithEnv(config)

	return config, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	// Log defaults
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "text")

	// Server defaults
	viper.SetDefault("server.host", "localhost")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.mode", "debug")

	// Avatar client defaults
	viper.SetDefault("avatar.avatar_id", "default")
	viper.SetDefault("avatar.primary_provider", "local")
	viper.SetDefault("avatar.fallback_providers", []string{})
	viper.SetDefault("avatar.default_timeout_seconds", 30)
	viper.SetDefault("avatar.max_retries", 3)
	viper.SetDefault("avatar.cache_enabled", true)
	viper.SetDefault("avatar.cache_ttl_seconds", 300)
	viper.SetDefault("avatar.cache_max_entries", 1000)

	// Circuit breaker defaults
	viper.SetDefault("circuit_breaker.enabled", false)
	viper.SetDefault("circuit_breaker.max_requests", 1)
	viper.SetDefault("circuit_breaker.interval", 60)
	viper.SetDefault("circuit_breaker.timeout", 60)
	viper.SetDefault("circuit_breaker.ready_to_trip_ratio", 0.6)

	// Telemetry defaults
	home, err := os.UserHomeDir()
	if err == nil {
		viper.SetDefault("telemetry.parquet_path", fmt.Sprintf("%s/.mouthpiece/telemetry", home))
	}
}

// overrideWithEnv overrides config with environment variables
func overrideWithEnv(config *Config) {
	if config.Avatar.APIKeys == nil {
		config.Avatar.APIKeys = make(map[string]string)
	}

	// Provider credentials are usually injected through the environment
	// rather than checked into config files.
	if key := os.Getenv("DUIX_API_KEY"); key != "" {
		config.Avatar.APIKeys["duix"] = key
	}
	if key := os.Getenv("SENSE_AVATAR_API_KEY"); key != "" {
		config.Avatar.APIKeys["sense_avatar"] = key
	}
	if key := os.Getenv("AKOOL_API_KEY"); key != "" {
		config.Avatar.APIKeys["akool"] = key
	}

	if id := os.Getenv("AVATAR_ID"); id != "" {
		config.Avatar.AvatarID = id
	}
	if provider := os.Getenv("AVATAR_PRIMARY_PROVIDER"); provider != "" {
		config.Avatar.PrimaryProvider = provider
	}
}
