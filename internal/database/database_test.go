package database_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/models"
)

func TestOpen_SQLite(t *testing.T) {
	db, err := database.Open(config.DatabaseConfig{Driver: "sqlite", DSN: "file:" + t.Name() + "?mode=memory&cache=shared"})
	require.NoError(t, err)

	for _, model := range []interface{}{&models.Order{}, &models.OrderItem{}, &models.Payment{}, &models.Product{}, &models.Category{}, &models.Comment{}, &models.User{}, &models.ContactMessage{}} {
		assert.True(t, db.Migrator().HasTable(model))
	}
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := database.Open(config.DatabaseConfig{Driver: "oracle", DSN: "x"})
	assert.Error(t, err)
}
