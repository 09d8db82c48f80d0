package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	AppPort      int    `mapstructure:"APP_PORT"`
	DatabasePath string `mapstructure:"DATABASE_PATH"`
	LogLevel     string `mapstructure:"LOG_LEVEL"`
	StaticDir    string `mapstructure:"STATIC_DIR"`

	GatewayURL    string `mapstructure:"GATEWAY_URL"`
	GatewayAPIKey string `mapstructure:"GATEWAY_API_KEY"`
	GatewayModel  string `mapstructure:"GATEWAY_MODEL"`

	// APIToken is the bearer token clients must present on protected routes.
	// Empty disables the check.
	APIToken string `mapstructure:"API_TOKEN"`

	// RedisAddr selects the shared rate limiter. Empty keeps limits in memory.
	RedisAddr         string        `mapstructure:"REDIS_ADDR"`
	RateLimitRequests int           `mapstructure:"RATE_LIMIT_REQUESTS"`
	RateLimitWindow   time.Duration `mapstructure:"RATE_LIMIT_WINDOW"`

	DefaultTier string `mapstructure:"DEFAULT_TIER"`

	source string
}

// Source is the config file that was read, empty when only the environment
// and defaults were used.
func (c *Config) Source() string { return c.source }

// Defaults registers every key's default on v.
func Defaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", 8000)
	v.SetDefault("DATABASE_PATH", "/data/studio.db")
	v.SetDefault("LOG_LEVEL", "INFO")
	v.SetDefault("STATIC_DIR", "./frontend/dist")
	v.SetDefault("GATEWAY_URL", "https://ai.gateway.lovable.dev/v1")
	v.SetDefault("GATEWAY_API_KEY", "")
	v.SetDefault("GATEWAY_MODEL", "google/gemini-2.5-flash")
	v.SetDefault("API_TOKEN", "")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("RATE_LIMIT_REQUESTS", 10)
	v.SetDefault("RATE_LIMIT_WINDOW", time.Minute)
	v.SetDefault("DEFAULT_TIER", "basic")
}

// LoadConfig reads configuration from an optional .env file and the
// environment, environment winning.
func LoadConfig() (*Config, error) {
	v := viper.New()
	Defaults(v)

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("./backend")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	return FromViper(v)
}

// FromViper decodes and validates a populated viper instance.
func FromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.source = v.ConfigFileUsed()
	return &cfg, nil
}

// Validate rejects values the server cannot run with.
func (c *Config) Validate() error {
	switch {
	case c.AppPort <= 0 || c.AppPort > 65535:
		return fmt.Errorf("invalid APP_PORT %d", c.AppPort)
	case c.RateLimitRequests <= 0:
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be positive, got %d", c.RateLimitRequests)
	case c.RateLimitWindow <= 0:
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive, got %s", c.RateLimitWindow)
	case c.GatewayURL == "":
		return errors.New("GATEWAY_URL is required")
	}
	return nil
}
