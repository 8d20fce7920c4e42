package role

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
	err = db.AutoMigrate(&models.Role{})
	require.NoError(t, err, "failed to migrate test database")

	return db
}

// seedRoles inserts test data into the database.
func seedRoles(t *testing.T, db *gorm.DB, roles []models.Role) {
	t.Helper()
	for _, r := range roles {
		err := db.Create(&r).Error
		require.NoError(t, err, "failed to seed test data")
	}
}

func TestGetAll(t *testing.T) {
	t.Run("nil database", func(t *testing.T) {
		roles, err := GetAll(nil)
		assert.ErrorIs(t, err, ErrDBNil)
		assert.Nil(t, roles)
	})

	t.Run("empty table", func(t *testing.T) {
		db := setupTestDB(t)

		roles, err := GetAll(db)
		require.NoError(t, err)
		assert.Empty(t, roles)
	})

	t.Run("returns all roles", func(t *testing.T) {
		db := setupTestDB(t)
		seedRoles(t, db, []models.Role{
			{Name: "admin", IsSystem: true, IsAdmin: true},
			{Name: "user", IsSystem: true},
			{Name: "partner", IsSystem: true},
		})

		roles, err := GetAll(db)
		require.NoError(t, err)
		assert.Len(t, roles, 3)
	})
}

func TestGetByID(t *testing.T) {
	db := setupTestDB(t)
	seedRoles(t, db, []models.Role{
		{ID: 1, Name: "admin", IsAdmin: true},
	})

	testCases := []struct {
		name          string
		dbParam       *gorm.DB
		id            uint
		expectedError error
		expectedName  string
	}{
		{
			name:          "nil database",
			dbParam:       nil,
			id:            1,
			expectedError: ErrDBNil,
		},
		{
			name:          "role not found",
			dbParam:       db,
			id:            99,
			expectedError: ErrRoleNotFound,
		},
		{
			name:         "successful get",
			dbParam:      db,
			id:           1,
			expectedName: "admin",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := GetByID(tc.dbParam, tc.id)

			if tc.expectedError != nil {
				assert.ErrorIs(t, err, tc.expectedError)
				assert.Nil(t, got)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, got)
			assert.Equal(t, tc.expectedName, got.Name)
		})
	}
}

func TestGetByName(t *testing.T) {
	db := setupTestDB(t)
	seedRoles(t, db, []models.Role{
		{Name: "partner", Description: "partner companies"},
	})

	testCases := []struct {
		name          string
		dbParam       *gorm.DB
		roleName      string
		expectedError error
	}{
		{
			name:          "nil database",
			dbParam:       nil,
			roleName:      "partner",
			expectedError: ErrDBNil,
		},
		{
			name:          "empty name",
			dbParam:       db,
			roleName:      "",
			expectedError: ErrRoleNameEmpty,
		},
		{
			name:          "role not found",
			dbParam:       db,
			roleName:      "nonexistent",
			expectedError: ErrRoleNotFound,
		},
		{
			name:     "successful get",
			dbParam:  db,
			roleName: "partner",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := GetByName(tc.dbParam, tc.roleName)

			if tc.expectedError != nil {
				assert.ErrorIs(t, err, tc.expectedError)
				assert.Nil(t, got)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, got)
			assert.Equal(t, tc.roleName, got.Name)
			assert.Equal(t, "partner companies", got.Description)
		})
	}
}

func TestCreate(t *testing.T) {
	testCases := []struct {
		name          string
		useNilDB      bool
		roleName      string
		seedData      []models.Role
		expectedError error
	}{
		{
			name:          "nil database",
			useNilDB:      true,
			roleName:      "admin",
			expectedError: ErrDBNil,
		},
		{
			name:          "empty name",
			roleName:      "",
			expectedError: ErrRoleNameEmpty,
		},
		{
			name:     "duplicate name",
			roleName: "admin",
			seedData: []models.Role{
				{Name: "admin", IsAdmin: true},
			},
			expectedError: ErrRoleAlreadyExists,
		},
		{
			name:     "successful create",
			roleName: "editor",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var db *gorm.DB
			if !tc.useNilDB {
				db = setupTestDB(t)
				seedRoles(t, db, tc.seedData)
			}

			got, err := Create(db, tc.roleName, "test role", false, false, 1)

			if tc.expectedError != nil {
				assert.ErrorIs(t, err, tc.expectedError)
				assert.Nil(t, got)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, got)
			assert.NotZero(t, got.ID)
			assert.Equal(t, tc.roleName, got.Name)
			assert.Equal(t, uint64(1), got.CreatedBy)
		})
	}
}

func TestUpdate(t *testing.T) {
	t.Run("nil database", func(t *testing.T) {
		_, err := Update(nil, 1, "admin", "")
		assert.ErrorIs(t, err, ErrDBNil)
	})

	t.Run("empty name", func(t *testing.T) {
		db := setupTestDB(t)

		_, err := Update(db, 1, "", "")
		assert.ErrorIs(t, err, ErrRoleNameEmpty)
	})

	t.Run("role not found", func(t *testing.T) {
		db := setupTestDB(t)

		_, err := Update(db, 42, "ghost", "")
		assert.ErrorIs(t, err, ErrRoleNotFound)
	})

	t.Run("flags survive update", func(t *testing.T) {
		db := setupTestDB(t)
		seedRoles(t, db, []models.Role{
			{ID: 1, Name: "admin", IsSystem: true, IsAdmin: true},
		})

		got, err := Update(db, 1, "administrator", "full access")
		require.NoError(t, err)
		assert.Equal(t, "administrator", got.Name)
		assert.Equal(t, "full access", got.Description)
		assert.True(t, got.IsSystem)
		assert.True(t, got.IsAdmin)
	})
}
