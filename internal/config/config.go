package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds the application settings.
type Config struct {
	AppPort     string
	Database    DatabaseConfig
	JWTSecret   string
	AdminToken  string
	RabbitMQURL string // empty disables order events
	CartTTL     time.Duration
	LogLevel    string
	SeedCatalog bool
}

// DatabaseConfig selects the GORM driver and its DSN.
type DatabaseConfig struct {
	Driver string // "sqlite" or "postgres"
	DSN    string
}

// SetDefaults registers the default value of every setting on v. JWT_SECRET
// has no default and must always be supplied.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("DATABASE_DRIVER", "sqlite")
	v.SetDefault("DATABASE_DSN", "file:storefront.db?cache=shared")
	v.SetDefault("ADMIN_TOKEN", "")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("CART_TTL", "168h") // carts older than a week are discarded
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("SEED_CATALOG", false)
}

// Load reads the configuration from the environment and, when CONFIG_FILE is
// set, from that file. Environment variables win over the file.
func Load() (*Config, error) {
	v := viper.New()
	SetDefaults(v)
	v.AutomaticEnv()

	if file := v.GetString("CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", file, err)
		}
	}
	return FromViper(v)
}

// FromViper builds a Config from an already populated viper instance.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		AppPort: v.GetString("APP_PORT"),
		Database: DatabaseConfig{
			Driver: v.GetString("DATABASE_DRIVER"),
			DSN:    v.GetString("DATABASE_DSN"),
		},
		JWTSecret:   v.GetString("JWT_SECRET"),
		AdminToken:  v.GetString("ADMIN_TOKEN"),
		RabbitMQURL: v.GetString("RABBITMQ_URL"),
		CartTTL:     v.GetDuration("CART_TTL"),
		LogLevel:    v.GetString("LOG_LEVEL"),
		SeedCatalog: v.GetBool("SEED_CATALOG"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported DATABASE_DRIVER %q", c.Database.Driver)
	}
	if c.Database.DSN == "" {
		return fmt.Errorf("DATABASE_DSN is required")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.CartTTL <= 0 {
		return fmt.Errorf("CART_TTL must be positive, got %s", c.CartTTL)
	}
	return nil
}
