package config

import (
	"time"

	"github.com/spf13/viper"
)

// Defaults used when neither the config file nor the environment sets a key.
const (
	DefaultAPIBaseURL     = "http://localhost:8000"
	DefaultRequestTimeout = 10 * time.Second
	DefaultCacheTTL       = 2 * time.Second
	DefaultPageSize       = 10
	DefaultToastSeconds   = 3
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("api_base_url", DefaultAPIBaseURL)
	v.SetDefault("data_file", "")
	v.SetDefault("request_timeout", DefaultRequestTimeout)
	v.SetDefault("cache_ttl", DefaultCacheTTL)
	v.SetDefault("page_size", DefaultPageSize)
	v.SetDefault("search_field", "name")
	v.SetDefault("toast_seconds", DefaultToastSeconds)
	v.SetDefault("log_file", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("theme", "dark")
}
