package notification

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/CargoLink-Admin/CargoLink-Admin/internal/db/models"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	// Migrate the schema
	err = db.AutoMigrate(&models.Notification{})
	require.NoError(t, err, "failed to migrate test database")

	return db
}

func TestRecord(t *testing.T) {
	t.Run("nil database", func(t *testing.T) {
		err := Record(nil, "evt-1", models.NotificationKindPost, "s", "b")
		assert.ErrorIs(t, err, ErrDBNil)
	})

	t.Run("empty event id", func(t *testing.T) {
		db := setupTestDB(t)

		err := Record(db, "", models.NotificationKindPost, "s", "b")
		assert.ErrorIs(t, err, ErrEventIDEmpty)
	})

	t.Run("redelivery does not duplicate", func(t *testing.T) {
		db := setupTestDB(t)

		require.NoError(t, Record(db, "evt-1", models.NotificationKindApplication, "New application", "first"))
		require.NoError(t, Record(db, "evt-1", models.NotificationKindApplication, "New application", "redelivered"))

		entries, err := GetAll(db, 0)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "first", entries[0].Body)
	})
}

func TestGetAll(t *testing.T) {
	t.Run("nil database", func(t *testing.T) {
		_, err := GetAll(nil, 0)
		assert.ErrorIs(t, err, ErrDBNil)
	})

	t.Run("limit caps results", func(t *testing.T) {
		db := setupTestDB(t)
		require.NoError(t, Record(db, "evt-1", models.NotificationKindPost, "a", ""))
		require.NoError(t, Record(db, "evt-2", models.NotificationKindPost, "b", ""))
		require.NoError(t, Record(db, "evt-3", models.NotificationKindContact, "c", ""))

		entries, err := GetAll(db, 2)
		require.NoError(t, err)
		assert.Len(t, entries, 2)
	})
}

func TestMarkRead(t *testing.T) {
	t.Run("nil database", func(t *testing.T) {
		assert.ErrorIs(t, MarkRead(nil, 1), ErrDBNil)
	})

	t.Run("notification not found", func(t *testing.T) {
		db := setupTestDB(t)
		assert.ErrorIs(t, MarkRead(db, 99), ErrNotificationNotFound)
	})

	t.Run("marks unread and keeps first timestamp", func(t *testing.T) {
		db := setupTestDB(t)
		require.NoError(t, Record(db, "evt-1", models.NotificationKindContact, "s", ""))

		entries, err := GetAll(db, 0)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		id := entries[0].ID

		require.NoError(t, MarkRead(db, id))

		entries, err = GetAll(db, 0)
		require.NoError(t, err)
		require.NotNil(t, entries[0].ReadAt)
		first := *entries[0].ReadAt

		require.NoError(t, MarkRead(db, id))

		entries, err = GetAll(db, 0)
		require.NoError(t, err)
		assert.Equal(t, first, *entries[0].ReadAt)
	})
}

func TestUnreadCountAndMarkAllRead(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, Record(db, "evt-1", models.NotificationKindPost, "a", ""))
	require.NoError(t, Record(db, "evt-2", models.NotificationKindPost, "b", ""))

	count, err := UnreadCount(db)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	require.NoError(t, MarkAllRead(db))

	count, err = UnreadCount(db)
	require.NoError(t, err)
	assert.Zero(t, count)

	assert.ErrorIs(t, MarkAllRead(nil), ErrDBNil)
	_, err = UnreadCount(nil)
	assert.ErrorIs(t, err, ErrDBNil)
}
