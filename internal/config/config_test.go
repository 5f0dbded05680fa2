package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/config"
)

func TestFromViper_Defaults(t *testing.T) {
	v := viper.New()
	config.SetDefaults(v)
	v.Set("JWT_SECRET", "test_jwt_secret")

	cfg, err := config.FromViper(v)
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.AppPort)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 7*24*time.Hour, cfg.CartTTL)
	assert.Empty(t, cfg.RabbitMQURL)
	assert.False(t, cfg.SeedCatalog)
	assert.Equal(t, "test_jwt_secret", cfg.JWTSecret)
}

func TestFromViper_SecretHasNoDefault(t *testing.T) {
	v := viper.New()
	config.SetDefaults(v)

	_, err := config.FromViper(v)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET is required")
}

func TestFromViper_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  interface{}
		want string
	}{
		{"driver", "DATABASE_DRIVER", "mysql", "unsupported DATABASE_DRIVER"},
		{"dsn", "DATABASE_DSN", "", "DATABASE_DSN is required"},
		{"secret", "JWT_SECRET", "", "JWT_SECRET is required"},
		{"ttl", "CART_TTL", "-1h", "CART_TTL must be positive"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viper.New()
			config.SetDefaults(v)
			v.Set("JWT_SECRET", "test_jwt_secret")
			v.Set(tt.key, tt.val)

			_, err := config.FromViper(v)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad_EnvAndFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "storefront.yaml")
	require.NoError(t, os.WriteFile(file, []byte("APP_PORT: \":9090\"\nCART_TTL: 48h\n"), 0o600))

	t.Setenv("CONFIG_FILE", file)
	t.Setenv("ADMIN_TOKEN", "secret-admin")
	t.Setenv("JWT_SECRET", "env-secret")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.AppPort)
	assert.Equal(t, 48*time.Hour, cfg.CartTTL)
	assert.Equal(t, "secret-admin", cfg.AdminToken)
	assert.Equal(t, "env-secret", cfg.JWTSecret)
}

func TestLoad_MissingSecret(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("JWT_SECRET", "")

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET is required")
}
