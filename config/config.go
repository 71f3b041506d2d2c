package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Sources  SourcesConfig
	Resolver ResolverConfig
	Cache    CacheConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// SourcesConfig holds the marketplace adapter configuration. The base
// URLs are overridable so integration tests can point the scrapers at a
// local server.
type SourcesConfig struct {
	AmazonBaseURL  string        `mapstructure:"amazon_base_url"`
	EbayBaseURL    string        `mapstructure:"ebay_base_url"`
	AffiliateTag   string        `mapstructure:"affiliate_tag"`
	AmazonTimeout  time.Duration `mapstructure:"amazon_timeout"`
	EbayTimeout    time.Duration `mapstructure:"ebay_timeout"`
	AmazonMaxItems int           `mapstructure:"amazon_max_items"`
	EbayMaxItems   int           `mapstructure:"ebay_max_items"`
}

// ResolverConfig holds price-resolution configuration
type ResolverConfig struct {
	DetailTimeout time.Duration `mapstructure:"detail_timeout"`
	MaxDepth      int           `mapstructure:"max_depth"`
	Throttle      time.Duration `mapstructure:"throttle"`
}

// CacheConfig holds response-cache configuration
type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	TTL     time.Duration `mapstructure:"ttl"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/shopscout/")

	// Environment variable settings
	v.SetEnvPrefix("SHOPSCOUT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})

	// Source defaults
	v.SetDefault("sources.amazon_base_url", "https://www.amazon.com")
	v.SetDefault("sources.ebay_base_url", "https://www.ebay.com")
	v.SetDefault("sources.affiliate_tag", "shopai0c6-20")
	v.SetDefault("sources.amazon_timeout", "10s")
	v.SetDefault("sources.ebay_timeout", "8s")
	v.SetDefault("sources.amazon_max_items", 25)
	v.SetDefault("sources.ebay_max_items", 10)

	// Resolver defaults
	v.SetDefault("resolver.detail_timeout", "10s")
	v.SetDefault("resolver.max_depth", 2)
	v.SetDefault("resolver.throttle", "300ms")

	// Cache defaults
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.ttl", "15m")
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Sources.AmazonBaseURL == "" {
		return fmt.Errorf("amazon base URL is required (set SHOPSCOUT_SOURCES_AMAZON_BASE_URL)")
	}

	if config.Sources.EbayBaseURL == "" {
		return fmt.Errorf("ebay base URL is required (set SHOPSCOUT_SOURCES_EBAY_BASE_URL)")
	}

	if config.Resolver.MaxDepth < 0 {
		return fmt.Errorf("resolver max depth must be non-negative, got: %d", config.Resolver.MaxDepth)
	}

	if config.Resolver.Throttle < 0 {
		return fmt.Errorf("resolver throttle must be non-negative, got: %s", config.Resolver.Throttle)
	}

	return nil
}
