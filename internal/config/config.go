package config

import (
	"fmt"
	"strings"

	"gorodskoybaton/bot/internal/domain"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Telegram TelegramConfig          `mapstructure:"telegram"`
	Site     SiteConfig              `mapstructure:"site"`
	Session  SessionConfig           `mapstructure:"session"`
	Database DatabaseConfig          `mapstructure:"database"`
	Ledger   LedgerConfig            `mapstructure:"ledger"`
	Delivery []domain.DeliveryOption `mapstructure:"delivery"`
}

// TelegramConfig holds bot and payment-provider credentials
type TelegramConfig struct {
	Token         string `mapstructure:"token"`
	ProviderToken string `mapstructure:"provider_token"`
	Currency      string `mapstructure:"currency"`
	AdminID       int64  `mapstructure:"admin_id"`
	UpdateTimeout int    `mapstructure:"update_timeout"`
}

// SiteConfig holds storefront scraping configuration
type SiteConfig struct {
	BaseURL              string   `mapstructure:"base_url"`
	Timeout              int      `mapstructure:"timeout"`
	MaxRetries           int      `mapstructure:"max_retries"`
	MaxRequestsPerSecond int      `mapstructure:"max_requests_per_second"`
	Categories           []string `mapstructure:"categories"`
	CacheFile            string   `mapstructure:"cache_file"`
	CacheTTL             int      `mapstructure:"cache_ttl"` // seconds
}

// SessionConfig selects the session store backend
type SessionConfig struct {
	Backend  string `mapstructure:"backend"` // "memory" or "redis"
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	Database int    `mapstructure:"database"`
	TTL      int    `mapstructure:"ttl"` // seconds, 0 = no expiration
}

// DatabaseConfig holds the optional completed-order archive database
type DatabaseConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Name     string `mapstructure:"name"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
}

// LedgerConfig holds the sheet-bridge webhook for order rows
type LedgerConfig struct {
	WebhookURL string `mapstructure:"webhook_url"`
	Timeout    int    `mapstructure:"timeout"`
}

// Load loads configuration from YAML file with environment variable overrides
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	setDefaults()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil, fmt.Errorf("config.yaml file not found in current directory")
		}
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks the credentials the process cannot run without. These
// are the only errors that abort startup.
func (c *Config) Validate() error {
	if c.Telegram.Token == "" {
		return fmt.Errorf("telegram.token is required")
	}
	if c.Telegram.ProviderToken == "" {
		return fmt.Errorf("telegram.provider_token is required")
	}
	if len(c.Delivery) == 0 {
		return fmt.Errorf("at least one delivery option is required")
	}
	return nil
}

// DeliveryByKey returns the configured delivery option for a key.
func (c *Config) DeliveryByKey(key string) (domain.DeliveryOption, bool) {
	for _, opt := range c.Delivery {
		if opt.Key == key {
			return opt, true
		}
	}
	return domain.DeliveryOption{}, false
}

func setDefaults() {
	viper.SetDefault("telegram.currency", "RUB")
	viper.SetDefault("telegram.admin_id", 0)
	viper.SetDefault("telegram.update_timeout", 30)

	viper.SetDefault("site.base_url", "https://gorodskoybaton.ru")
	viper.SetDefault("site.timeout", 60)
	viper.SetDefault("site.max_retries", 3)
	viper.SetDefault("site.max_requests_per_second", 2)
	viper.SetDefault("site.categories", []string{"Белый хлеб", "Серый хлеб", "Хлеб с добавками"})
	viper.SetDefault("site.cache_file", "catalog.json")
	viper.SetDefault("site.cache_ttl", 3600)

	viper.SetDefault("session.backend", "memory")
	viper.SetDefault("session.host", "localhost")
	viper.SetDefault("session.port", 6379)
	viper.SetDefault("session.password", "")
	viper.SetDefault("session.database", 0)
	viper.SetDefault("session.ttl", 0)

	viper.SetDefault("database.enabled", false)
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.name", "baton")
	viper.SetDefault("database.user", "baton_user")
	viper.SetDefault("database.password", "baton_pass")

	viper.SetDefault("ledger.webhook_url", "")
	viper.SetDefault("ledger.timeout", 15)

	viper.SetDefault("delivery", []map[string]interface{}{
		{"key": "inside_mkad", "name": "Внутри МКАД", "price": 45000},
		{"key": "outside_mkad", "name": "За МКАД (до 10 км)", "price": 75000},
		{"key": "pickup", "name": "Забрать с производства", "price": 0},
	})
}
