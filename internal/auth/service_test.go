package auth

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/CargoLink-Admin/CargoLink-Admin/internal/db/controller/menuaccess"
	"github.com/CargoLink-Admin/CargoLink-Admin/internal/db/models"
	"github.com/CargoLink-Admin/CargoLink-Admin/internal/web/navigation"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	// Migrate the schema
	err = db.AutoMigrate(&models.User{}, &models.Role{}, &models.UserRole{}, &models.MenuAccess{})
	require.NoError(t, err, "failed to migrate test database")

	return db
}

func seedAccounts(t *testing.T, db *gorm.DB) {
	t.Helper()

	require.NoError(t, db.Create(&models.Role{ID: 1, Name: "admin", IsAdmin: true}).Error)
	require.NoError(t, db.Create(&models.Role{ID: 2, Name: "user"}).Error)

	require.NoError(t, db.Create(&models.User{ID: 1, Email: "admin@cargolink.test", Active: true}).Error)
	require.NoError(t, db.Create(&models.User{ID: 2, Email: "staff@cargolink.test", Active: true}).Error)
	require.NoError(t, db.Create(&models.User{ID: 3, Email: "new@cargolink.test", Active: true}).Error)

	require.NoError(t, db.Create(&models.UserRole{UserID: 1, RoleID: 1}).Error)
	require.NoError(t, db.Create(&models.UserRole{UserID: 2, RoleID: 2}).Error)
}

func TestService_IsAdmin(t *testing.T) {
	db := setupTestDB(t)
	seedAccounts(t, db)
	svc := NewService(db)

	admin, err := svc.IsAdmin(1)
	require.NoError(t, err)
	assert.True(t, admin)

	admin, err = svc.IsAdmin(2)
	require.NoError(t, err)
	assert.False(t, admin)

	// Unassigned user is not an admin.
	admin, err = svc.IsAdmin(3)
	require.NoError(t, err)
	assert.False(t, admin)
}

func TestService_CurrentRole(t *testing.T) {
	db := setupTestDB(t)
	seedAccounts(t, db)
	svc := NewService(db)

	role, err := svc.CurrentRole(2)
	require.NoError(t, err)
	require.NotNil(t, role)
	assert.Equal(t, "user", role.Name)

	role, err = svc.CurrentRole(3)
	require.NoError(t, err)
	assert.Nil(t, role)
}

func TestService_CanSeeMenu(t *testing.T) {
	db := setupTestDB(t)
	seedAccounts(t, db)
	require.NoError(t, menuaccess.Save(db, 2, []string{string(navigation.KeyPosts)}))
	svc := NewService(db)

	testCases := []struct {
		name     string
		userID   uint64
		key      navigation.Key
		expected bool
	}{
		{
			name:     "admin sees any entry",
			userID:   1,
			key:      navigation.KeySettings,
			expected: true,
		},
		{
			name:     "staff sees allow-listed entry",
			userID:   2,
			key:      navigation.KeyPosts,
			expected: true,
		},
		{
			name:     "staff blocked from entry off the list",
			userID:   2,
			key:      navigation.KeySettings,
			expected: false,
		},
		{
			name:     "unassigned user sees nothing",
			userID:   3,
			key:      navigation.KeyDashboard,
			expected: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			allowed, err := svc.CanSeeMenu(tc.userID, tc.key)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, allowed)
		})
	}
}

func TestService_VisibleMenu(t *testing.T) {
	db := setupTestDB(t)
	seedAccounts(t, db)
	require.NoError(t, menuaccess.Save(db, 2, []string{
		string(navigation.KeyPosts),
		string(navigation.KeyDashboard),
	}))
	svc := NewService(db)

	t.Run("admin gets the full catalog", func(t *testing.T) {
		items, err := svc.VisibleMenu(1)
		require.NoError(t, err)
		assert.Len(t, items, len(navigation.Keys()))
	})

	t.Run("staff gets allow-listed entries in catalog order", func(t *testing.T) {
		items, err := svc.VisibleMenu(2)
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, navigation.KeyDashboard, items[0].Key)
		assert.Equal(t, navigation.KeyPosts, items[1].Key)
	})

	t.Run("unassigned user gets an empty menu", func(t *testing.T) {
		items, err := svc.VisibleMenu(3)
		require.NoError(t, err)
		assert.Empty(t, items)
	})
}
