package authz

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/CargoLink-Admin/CargoLink-Admin/internal/db/controller/menuaccess"
	"github.com/CargoLink-Admin/CargoLink-Admin/internal/db/controller/userrole"
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

	require.NoError(t, db.Create(&models.UserRole{UserID: 1, RoleID: 1}).Error)
	require.NoError(t, db.Create(&models.UserRole{UserID: 2, RoleID: 2}).Error)
}

func newReadyFacade(t *testing.T, db *gorm.DB, userID uint64) *Facade {
	t.Helper()

	f, err := New(db)
	require.NoError(t, err)
	require.NoError(t, f.Select(userID))
	require.Equal(t, StateReady, f.Snapshot().State)

	return f
}

func TestNew(t *testing.T) {
	t.Run("nil database", func(t *testing.T) {
		_, err := New(nil)
		assert.ErrorIs(t, err, ErrDBNil)
	})

	t.Run("starts idle", func(t *testing.T) {
		f, err := New(setupTestDB(t))
		require.NoError(t, err)
		assert.Equal(t, StateIdle, f.Snapshot().State)
	})
}

func TestFacade_Select(t *testing.T) {
	db := setupTestDB(t)
	seedAccounts(t, db)
	require.NoError(t, menuaccess.Save(db, 2, []string{"dashboard", "posts"}))

	f, err := New(db)
	require.NoError(t, err)

	require.NoError(t, f.Select(2))

	view := f.Snapshot()
	assert.Equal(t, StateReady, view.State)
	assert.Equal(t, uint64(2), view.UserID)
	require.NotNil(t, view.Role)
	assert.Equal(t, "user", view.Role.Name)
	assert.Equal(t, []string{"dashboard", "posts"}, view.MenuItems)
	assert.False(t, view.Dirty)
}

func TestFacade_Select_UnassignedUser(t *testing.T) {
	db := setupTestDB(t)
	seedAccounts(t, db)
	require.NoError(t, db.Create(&models.User{ID: 3, Email: "new@cargolink.test", Active: true}).Error)

	f, err := New(db)
	require.NoError(t, err)
	require.NoError(t, f.Select(3))

	view := f.Snapshot()
	assert.Equal(t, StateReady, view.State)
	assert.Nil(t, view.Role)
	assert.Empty(t, view.MenuItems)
}

// TestFacade_StaleLoadDiscarded drives the selection protocol directly: a
// fetch finishing after a newer selection began must not be installed.
func TestFacade_StaleLoadDiscarded(t *testing.T) {
	db := setupTestDB(t)
	seedAccounts(t, db)
	require.NoError(t, menuaccess.Save(db, 2, []string{"posts"}))

	f, err := New(db)
	require.NoError(t, err)

	// First selection starts, then a second one begins before the first
	// fetch lands.
	gen1 := f.beginSelect(1)
	data1, err := f.load(1)
	require.NoError(t, err)

	gen2 := f.beginSelect(2)
	data2, err := f.load(2)
	require.NoError(t, err)

	assert.False(t, f.applyLoad(gen1, data1), "stale load must be discarded")
	assert.True(t, f.applyLoad(gen2, data2))

	view := f.Snapshot()
	assert.Equal(t, uint64(2), view.UserID)
	require.NotNil(t, view.Role)
	assert.Equal(t, "user", view.Role.Name)
	assert.Equal(t, []string{"posts"}, view.MenuItems)
}

func TestFacade_EditsRequireReady(t *testing.T) {
	db := setupTestDB(t)
	seedAccounts(t, db)

	f, err := New(db)
	require.NoError(t, err)

	assert.ErrorIs(t, f.ToggleMenu("posts", true), ErrNotReady)
	assert.ErrorIs(t, f.SaveMenu(), ErrNotReady)
	assert.ErrorIs(t, f.AssignRole(1), ErrNotReady)
	assert.ErrorIs(t, f.RevokeRole(), ErrNotReady)
	_, err = f.VisibleMenu()
	assert.ErrorIs(t, err, ErrNotReady)
}

func TestFacade_ToggleAndSaveMenu(t *testing.T) {
	db := setupTestDB(t)
	seedAccounts(t, db)
	f := newReadyFacade(t, db, 2)

	require.NoError(t, f.ToggleMenu("posts", true))
	require.NoError(t, f.ToggleMenu("jobs", true))
	require.NoError(t, f.ToggleMenu("posts", false))

	view := f.Snapshot()
	assert.True(t, view.Dirty, "toggles must mark the selection dirty")
	assert.Equal(t, []string{"jobs"}, view.MenuItems)

	// Nothing hits the database until SaveMenu.
	stored, err := menuaccess.Get(db, 2)
	require.NoError(t, err)
	assert.Empty(t, stored)

	require.NoError(t, f.SaveMenu())

	view = f.Snapshot()
	assert.False(t, view.Dirty)
	assert.Equal(t, StateReady, view.State)

	stored, err = menuaccess.Get(db, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"jobs"}, stored)
}

func TestFacade_SaveMenuIdempotent(t *testing.T) {
	db := setupTestDB(t)
	seedAccounts(t, db)
	f := newReadyFacade(t, db, 2)

	require.NoError(t, f.ToggleMenu("dashboard", true))
	require.NoError(t, f.SaveMenu())

	first, err := menuaccess.Get(db, 2)
	require.NoError(t, err)

	require.NoError(t, f.SaveMenu())

	second, err := menuaccess.Get(db, 2)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestFacade_ToggleUnknownKey(t *testing.T) {
	db := setupTestDB(t)
	seedAccounts(t, db)
	f := newReadyFacade(t, db, 2)

	assert.ErrorIs(t, f.ToggleMenu("bogus", true), menuaccess.ErrUnknownMenuKey)
	assert.False(t, f.Snapshot().Dirty)
}

func TestFacade_AssignRole(t *testing.T) {
	db := setupTestDB(t)
	seedAccounts(t, db)
	require.NoError(t, db.Create(&models.User{ID: 3, Email: "new@cargolink.test", Active: true}).Error)

	f := newReadyFacade(t, db, 3)

	require.NoError(t, f.AssignRole(2))

	view := f.Snapshot()
	assert.Equal(t, StateReady, view.State)
	require.NotNil(t, view.Role)
	assert.Equal(t, "user", view.Role.Name)

	link, err := userrole.Current(db, 3)
	require.NoError(t, err)
	require.NotNil(t, link)
	assert.Equal(t, uint(2), link.RoleID)
}

func TestFacade_LastAdminGuardSurfaces(t *testing.T) {
	db := setupTestDB(t)
	seedAccounts(t, db)

	f := newReadyFacade(t, db, 1)

	// User 1 is the only admin; demotion and revocation must both fail and
	// leave the facade usable.
	assert.ErrorIs(t, f.AssignRole(2), userrole.ErrLastAdmin)
	assert.ErrorIs(t, f.RevokeRole(), userrole.ErrLastAdmin)

	view := f.Snapshot()
	assert.Equal(t, StateReady, view.State)
	require.NotNil(t, view.Role)
	assert.True(t, view.Role.IsAdmin)
}

func TestFacade_RevokeRole(t *testing.T) {
	db := setupTestDB(t)
	seedAccounts(t, db)

	f := newReadyFacade(t, db, 2)

	require.NoError(t, f.RevokeRole())

	view := f.Snapshot()
	assert.Nil(t, view.Role)
	assert.Equal(t, StateReady, view.State)

	link, err := userrole.Current(db, 2)
	require.NoError(t, err)
	assert.Nil(t, link)
}

func TestFacade_VisibleMenu(t *testing.T) {
	db := setupTestDB(t)
	seedAccounts(t, db)

	t.Run("admin sees full catalog", func(t *testing.T) {
		f := newReadyFacade(t, db, 1)

		items, err := f.VisibleMenu()
		require.NoError(t, err)
		assert.Len(t, items, len(navigation.Keys()))
	})

	t.Run("staff sees buffered allow-list", func(t *testing.T) {
		f := newReadyFacade(t, db, 2)
		require.NoError(t, f.ToggleMenu("posts", true))

		items, err := f.VisibleMenu()
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, navigation.KeyPosts, items[0].Key)
	})
}

func TestFacade_Deselect(t *testing.T) {
	db := setupTestDB(t)
	seedAccounts(t, db)

	f := newReadyFacade(t, db, 2)
	require.NoError(t, f.ToggleMenu("posts", true))

	f.Deselect()

	view := f.Snapshot()
	assert.Equal(t, StateIdle, view.State)
	assert.Zero(t, view.UserID)
	assert.False(t, view.Dirty)

	// Discarded toggles never reach the database.
	stored, err := menuaccess.Get(db, 2)
	require.NoError(t, err)
	assert.Empty(t, stored)
}
