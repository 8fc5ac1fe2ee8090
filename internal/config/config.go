package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds the resolved application configuration.
type Config struct {
	// APIBaseURL is the survey backend, e.g. "http://localhost:8000".
	APIBaseURL string `mapstructure:"api_base_url"`
	// DataFile, when set, serves surveys from a local JSON file instead of the API.
	DataFile string `mapstructure:"data_file"`
	// RequestTimeout bounds each backend call.
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	// CacheTTL deduplicates reads within one refresh cycle. 0 disables it.
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
	// PageSize is the initial rows-per-page of the survey table.
	PageSize int `mapstructure:"page_size"`
	// SearchField is the initial search field: "name" or "category".
	SearchField string `mapstructure:"search_field"`
	// ToastSeconds is how long success toasts stay visible. Errors stay longer.
	ToastSeconds int `mapstructure:"toast_seconds"`
	// LogFile receives structured logs. Empty disables logging.
	LogFile string `mapstructure:"log_file"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `mapstructure:"log_level"`
	// Theme is "dark" or "light".
	Theme string `mapstructure:"theme"`
}

// Load reads configuration from ~/.config/sdash/config.yaml (or TOML/JSON),
// or from path when it is non-empty. Environment variables prefixed SDASH_
// override the file.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("SDASH")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(configDirectory())
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		// A missing default file means defaults. An explicit path must exist.
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values the app cannot start with.
func (c *Config) Validate() error {
	if c.DataFile == "" && c.APIBaseURL == "" {
		return errors.New("config: api_base_url or data_file is required")
	}
	if c.PageSize < 1 {
		return fmt.Errorf("config: page_size must be positive, got %d", c.PageSize)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("config: request_timeout must be positive, got %s", c.RequestTimeout)
	}
	switch c.SearchField {
	case "name", "category":
	default:
		return fmt.Errorf("config: search_field must be name or category, got %q", c.SearchField)
	}
	if c.Theme != "dark" && c.Theme != "light" {
		return fmt.Errorf("config: theme must be dark or light, got %q", c.Theme)
	}
	return nil
}

// ToastDuration is ToastSeconds as a duration.
func (c *Config) ToastDuration() time.Duration {
	return time.Duration(c.ToastSeconds) * time.Second
}

func configDirectory() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "sdash")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "sdash")
}
