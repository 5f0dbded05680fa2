package database

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"storefront/internal/config"
	"storefront/internal/models"
)

func TestGormLogger_SkipsRecordNotFound(t *testing.T) {
	var buf bytes.Buffer
	db, err := open(config.DatabaseConfig{Driver: "sqlite", DSN: "file:" + t.Name() + "?mode=memory&cache=shared"}, newGormLogger(&buf))
	require.NoError(t, err)

	var cart models.Order
	err = db.Where("user_id = ? AND status = ?", "user-1", models.OrderStatusCart).First(&cart).Error
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.NotContains(t, buf.String(), "record not found")

	err = db.Exec("SELECT * FROM missing_table").Error
	require.Error(t, err)
	assert.Contains(t, buf.String(), "missing_table", "real failures are still logged")
}
