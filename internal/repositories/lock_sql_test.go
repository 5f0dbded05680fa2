package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newPostgresDryRun(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN: "host=localhost user=shop dbname=shop sslmode=disable",
	}), &gorm.Config{DisableAutomaticPing: true})
	require.NoError(t, err)
	return db
}

func TestLockUserRow_LocksUsersTable(t *testing.T) {
	db := newPostgresDryRun(t)

	sql := db.ToSQL(func(tx *gorm.DB) *gorm.DB {
		var ids []string
		return lockUserRow(tx, "user-1").Pluck("id", &ids)
	})

	assert.Contains(t, sql, `FROM "users"`)
	assert.Contains(t, sql, "'user-1'")
	assert.Contains(t, sql, "FOR UPDATE")
}

func TestLockOrderRows_LocksOrdersOfUser(t *testing.T) {
	db := newPostgresDryRun(t)

	sql := db.ToSQL(func(tx *gorm.DB) *gorm.DB {
		var ids []uint
		return lockOrderRows(tx, "user-1").Pluck("id", &ids)
	})

	assert.Contains(t, sql, `FROM "orders"`)
	assert.Contains(t, sql, "user_id")
	assert.Contains(t, sql, "FOR UPDATE")
}
