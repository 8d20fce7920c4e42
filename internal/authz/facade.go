// Package authz coordinates the admin screen that edits a user's role and
// menu visibility.
//
// The Facade holds the editing state for one selected user at a time and
// moves through four phases: Idle (nothing selected), Loading (a selection's
// data is being fetched), Ready (loaded, edits accepted) and Saving (a write
// is in flight). Menu toggles are buffered in memory behind a dirty flag and
// written in one batch on SaveMenu.
//
// Each selection increments a generation counter. A load that finishes after
// a newer selection started is discarded, so a slow fetch for the previous
// user can never overwrite the current one.
package authz

import (
	"errors"
	"sync"

	"gorm.io/gorm"

	"github.com/CargoLink-Admin/CargoLink-Admin/internal/db/controller/menuaccess"
	"github.com/CargoLink-Admin/CargoLink-Admin/internal/db/controller/userrole"
	"github.com/CargoLink-Admin/CargoLink-Admin/internal/db/models"
	"github.com/CargoLink-Admin/CargoLink-Admin/internal/web/navigation"
)

// State is the phase the facade is in.
type State int

// The facade phases.
const (
	StateIdle State = iota
	StateLoading
	StateReady
	StateSaving
)

// String returns the stable identifier of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateSaving:
		return "saving"
	default:
		return "unknown"
	}
}

var (
	// ErrNotReady is returned when an edit or save is attempted outside the
	// Ready phase.
	ErrNotReady = errors.New("no user selection is loaded")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// View is a read-only snapshot of the facade for rendering.
type View struct {
	// State is the current phase.
	State State `json:"state"`
	// UserID is the selected user (0 when idle).
	UserID uint64 `json:"user_id"`
	// Role is the selected user's role, nil when unassigned.
	Role *models.Role `json:"role"`
	// MenuItems is the in-memory allow-list including unsaved toggles.
	MenuItems []string `json:"menu_items"`
	// Dirty reports whether menu toggles are pending a save.
	Dirty bool `json:"dirty"`
	// Generation identifies the selection the snapshot belongs to.
	Generation uint64 `json:"generation"`
}

// Facade is the stateful editor for one selected user. Safe for concurrent
// use.
type Facade struct {
	db *gorm.DB

	mu         sync.Mutex
	state      State
	generation uint64
	userID     uint64
	role       *models.Role
	menuItems  []string
	dirty      bool
}

// New creates a facade in the Idle state.
func New(db *gorm.DB) (*Facade, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	return &Facade{db: db, state: StateIdle}, nil
}

// loaded carries the result of one selection fetch.
type loaded struct {
	role  *models.Role
	items []string
}

// Select loads the role and menu allow-list of a user and makes it the
// current selection. When selections race, the latest one wins: a fetch that
// completes after a newer Select started is thrown away.
func (f *Facade) Select(userID uint64) error {
	gen := f.beginSelect(userID)

	data, err := f.load(userID)
	if err != nil {
		f.failLoad(gen)
		return err
	}

	f.applyLoad(gen, data)

	return nil
}

// beginSelect enters the Loading phase and stamps a new generation.
func (f *Facade) beginSelect(userID uint64) uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.generation++
	f.state = StateLoading
	f.userID = userID
	f.role = nil
	f.menuItems = nil
	f.dirty = false

	return f.generation
}

func (f *Facade) load(userID uint64) (loaded, error) {
	link, err := userrole.Current(f.db, userID)
	if err != nil {
		return loaded{}, err
	}

	items, err := menuaccess.Get(f.db, userID)
	if err != nil {
		return loaded{}, err
	}

	var role *models.Role
	if link != nil {
		role = &link.Role
	}

	return loaded{role: role, items: items}, nil
}

// applyLoad installs a fetch result unless a newer selection superseded it.
// It reports whether the result was applied.
func (f *Facade) applyLoad(gen uint64, data loaded) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if gen != f.generation {
		// A newer Select started while this fetch ran.
		return false
	}

	f.role = data.role
	f.menuItems = data.items
	f.dirty = false
	f.state = StateReady

	return true
}

// failLoad returns to Idle after a failed fetch, unless superseded.
func (f *Facade) failLoad(gen uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if gen != f.generation {
		return
	}

	f.state = StateIdle
	f.userID = 0
}

// Deselect drops the current selection and returns to Idle. Pending menu
// toggles are discarded.
func (f *Facade) Deselect() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.generation++
	f.state = StateIdle
	f.userID = 0
	f.role = nil
	f.menuItems = nil
	f.dirty = false
}

// Snapshot returns a copy of the current facade state.
func (f *Facade) Snapshot() View {
	f.mu.Lock()
	defer f.mu.Unlock()

	items := make([]string, len(f.menuItems))
	copy(items, f.menuItems)

	return View{
		State:      f.state,
		UserID:     f.userID,
		Role:       f.role,
		MenuItems:  items,
		Dirty:      f.dirty,
		Generation: f.generation,
	}
}

// AssignRole gives the selected user a role, replacing the one they hold.
// The change is written immediately; the last-administrator guard applies.
func (f *Facade) AssignRole(roleID uint) error {
	userID, gen, err := f.beginSave()
	if err != nil {
		return err
	}

	link, err := userrole.Assign(f.db, userID, roleID)

	f.mu.Lock()
	defer f.mu.Unlock()

	if gen == f.generation && f.state == StateSaving {
		f.state = StateReady
		if err == nil {
			f.role = &link.Role
		}
	}

	return err
}

// RevokeRole removes the selected user's role. The last-administrator guard
// applies.
func (f *Facade) RevokeRole() error {
	userID, gen, err := f.beginSave()
	if err != nil {
		return err
	}

	err = userrole.Revoke(f.db, userID)

	f.mu.Lock()
	defer f.mu.Unlock()

	if gen == f.generation && f.state == StateSaving {
		f.state = StateReady
		if err == nil {
			f.role = nil
		}
	}

	return err
}

// ToggleMenu flips one menu key in memory and marks the selection dirty.
// Nothing is written until SaveMenu.
func (f *Facade) ToggleMenu(key string, included bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != StateReady {
		return ErrNotReady
	}
	if !navigation.IsValidKey(key) {
		return menuaccess.ErrUnknownMenuKey
	}

	f.menuItems = menuaccess.Toggle(f.menuItems, key, included)
	f.dirty = true

	return nil
}

// SaveMenu writes the buffered allow-list in one batch and clears the dirty
// flag. Saving with no pending toggles is a harmless rewrite of the same set.
func (f *Facade) SaveMenu() error {
	userID, gen, err := f.beginSave()
	if err != nil {
		return err
	}

	f.mu.Lock()
	items := make([]string, len(f.menuItems))
	copy(items, f.menuItems)
	f.mu.Unlock()

	err = menuaccess.Save(f.db, userID, items)

	f.mu.Lock()
	defer f.mu.Unlock()

	if gen == f.generation && f.state == StateSaving {
		f.state = StateReady
		if err == nil {
			f.dirty = false
		}
	}

	return err
}

// beginSave enters the Saving phase, or fails when no selection is loaded.
func (f *Facade) beginSave() (uint64, uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != StateReady {
		return 0, 0, ErrNotReady
	}

	f.state = StateSaving

	return f.userID, f.generation, nil
}

// VisibleMenu resolves the selection's effective navigation entries. Holders
// of an admin role see the full catalog; everyone else sees the allow-list,
// unsaved toggles included.
func (f *Facade) VisibleMenu() ([]navigation.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != StateReady && f.state != StateSaving {
		return nil, ErrNotReady
	}

	if f.role != nil && f.role.IsAdmin {
		return navigation.AllItems(), nil
	}

	return navigation.Items(f.menuItems), nil
}
