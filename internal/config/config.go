package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type Config struct {
	Port             string        `mapstructure:"port"`
	SessionSecret    string        `mapstructure:"session_secret"`
	SessionTTL       time.Duration `mapstructure:"session_ttl"`
	CatalogFile      string        `mapstructure:"catalog_file"`
	TrackingInterval time.Duration `mapstructure:"tracking_interval"`
	PlaceOrderDelay  time.Duration `mapstructure:"place_order_delay"`
	RedirectDelay    time.Duration `mapstructure:"redirect_delay"`
	AMQPURL          string        `mapstructure:"amqp_url"`
	AllowedOrigins   []string      `mapstructure:"allowed_origins"`
	LogLevel         string        `mapstructure:"log_level"`
}

const devSecret = "dev-secret-change-in-production"

// SetDefaults registers every key so environment variables are picked up
// by Unmarshal.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("port", "8081")
	v.SetDefault("session_secret", devSecret)
	v.SetDefault("session_ttl", 7*24*time.Hour)
	v.SetDefault("catalog_file", "")
	v.SetDefault("tracking_interval", 5*time.Second)
	v.SetDefault("place_order_delay", time.Second)
	v.SetDefault("redirect_delay", 2*time.Second)
	v.SetDefault("amqp_url", "")
	v.SetDefault("allowed_origins", []string{"http://localhost:5173"})
	v.SetDefault("log_level", "info")
}

// Load resolves the configuration: defaults, then the optional YAML file,
// then environment variables (PORT, TRACKING_INTERVAL, ...), then any flags
// already bound to v.
func Load(v *viper.Viper, cfgFile string) (*Config, error) {
	SetDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	hooks := viper.DecoderConfigOption(func(dc *mapstructure.DecoderConfig) {
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	})
	if err := v.Unmarshal(&cfg, hooks); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Port == "" {
		return errors.New("port is required")
	}
	if c.SessionSecret == "" {
		return errors.New("session_secret is required")
	}
	if c.TrackingInterval <= 0 {
		return fmt.Errorf("tracking_interval must be > 0, got %s", c.TrackingInterval)
	}
	if c.PlaceOrderDelay < 0 || c.RedirectDelay < 0 {
		return errors.New("delays must not be negative")
	}
	return nil
}

// UsingDevSecret reports whether the built-in development secret is in use.
func (c *Config) UsingDevSecret() bool {
	return c.SessionSecret == devSecret
}
