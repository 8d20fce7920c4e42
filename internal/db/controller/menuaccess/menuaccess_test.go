package menuaccess

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/CargoLink-Admin/CargoLink-Admin/internal/db/models"
	"github.com/CargoLink-Admin/CargoLink-Admin/internal/web/navigation"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	// Migrate the schema
	err = db.AutoMigrate(&models.MenuAccess{})
	require.NoError(t, err, "failed to migrate test database")

	return db
}

func TestGet(t *testing.T) {
	t.Run("nil database", func(t *testing.T) {
		got, err := Get(nil, 1)
		assert.ErrorIs(t, err, ErrDBNil)
		assert.Nil(t, got)
	})

	t.Run("absent user yields empty set", func(t *testing.T) {
		db := setupTestDB(t)

		got, err := Get(db, 42)
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("stored set comes back canonical", func(t *testing.T) {
		db := setupTestDB(t)
		entry := models.MenuAccess{
			UserID: 1,
			Items:  []string{"posts", "dashboard", "posts"},
		}
		require.NoError(t, db.Create(&entry).Error)

		got, err := Get(db, 1)
		require.NoError(t, err)
		assert.Equal(t, []string{"dashboard", "posts"}, got)
	})
}

func TestToggle(t *testing.T) {
	testCases := []struct {
		name     string
		items    []string
		key      string
		included bool
		expected []string
	}{
		{
			name:     "add to empty set",
			items:    nil,
			key:      "posts",
			included: true,
			expected: []string{"posts"},
		},
		{
			name:     "add existing key is idempotent",
			items:    []string{"posts"},
			key:      "posts",
			included: true,
			expected: []string{"posts"},
		},
		{
			name:     "remove present key",
			items:    []string{"dashboard", "posts"},
			key:      "posts",
			included: false,
			expected: []string{"dashboard"},
		},
		{
			name:     "remove absent key is idempotent",
			items:    []string{"dashboard"},
			key:      "posts",
			included: false,
			expected: []string{"dashboard"},
		},
		{
			name:     "result is sorted",
			items:    []string{"posts"},
			key:      "dashboard",
			included: true,
			expected: []string{"dashboard", "posts"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := Toggle(tc.items, tc.key, tc.included)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestSave(t *testing.T) {
	t.Run("nil database", func(t *testing.T) {
		assert.ErrorIs(t, Save(nil, 1, nil), ErrDBNil)
	})

	t.Run("unknown key is rejected", func(t *testing.T) {
		db := setupTestDB(t)

		err := Save(db, 1, []string{"dashboard", "bogus"})
		assert.ErrorIs(t, err, ErrUnknownMenuKey)

		// Nothing may have been written.
		got, err := Get(db, 1)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("round trip preserves the set", func(t *testing.T) {
		db := setupTestDB(t)
		items := []string{"posts", "jobs", "dashboard"}

		require.NoError(t, Save(db, 1, items))

		got, err := Get(db, 1)
		require.NoError(t, err)
		assert.Equal(t, Canonical(items), got)
	})

	t.Run("saving twice is idempotent", func(t *testing.T) {
		db := setupTestDB(t)
		items := []string{"dashboard", "settings"}

		require.NoError(t, Save(db, 1, items))
		first, err := Get(db, 1)
		require.NoError(t, err)

		require.NoError(t, Save(db, 1, items))
		second, err := Get(db, 1)
		require.NoError(t, err)

		assert.Equal(t, first, second)

		var count int64
		require.NoError(t, db.Model(&models.MenuAccess{}).Where("user_id = ?", 1).Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})

	t.Run("save replaces the whole set", func(t *testing.T) {
		db := setupTestDB(t)

		require.NoError(t, Save(db, 1, []string{"dashboard", "posts"}))
		require.NoError(t, Save(db, 1, []string{"jobs"}))

		got, err := Get(db, 1)
		require.NoError(t, err)
		assert.Equal(t, []string{"jobs"}, got)
	})

	t.Run("users do not interfere", func(t *testing.T) {
		db := setupTestDB(t)

		require.NoError(t, Save(db, 1, []string{"dashboard"}))
		require.NoError(t, Save(db, 2, []string{"posts"}))

		one, err := Get(db, 1)
		require.NoError(t, err)
		assert.Equal(t, []string{"dashboard"}, one)

		two, err := Get(db, 2)
		require.NoError(t, err)
		assert.Equal(t, []string{"posts"}, two)
	})

	t.Run("full catalog is accepted", func(t *testing.T) {
		db := setupTestDB(t)

		keys := navigation.Keys()

		require.NoError(t, Save(db, 1, keys))

		got, err := Get(db, 1)
		require.NoError(t, err)
		assert.Len(t, got, len(keys))
	})
}

func TestCanonical(t *testing.T) {
	testCases := []struct {
		name     string
		items    []string
		expected []string
	}{
		{
			name:     "nil input",
			items:    nil,
			expected: []string{},
		},
		{
			name:     "already canonical",
			items:    []string{"a", "b"},
			expected: []string{"a", "b"},
		},
		{
			name:     "unsorted with duplicates",
			items:    []string{"b", "a", "b", "a"},
			expected: []string{"a", "b"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Canonical(tc.items))
		})
	}
}
