// Package menuaccess maintains the per-user allow-list of visible admin menu keys.
//
// Edits follow a dirty-flag pattern: Toggle is pure and only computes the next
// in-memory set, so several checkbox flips can be batched into one Save.
// Save replaces the whole stored set (upsert keyed by user), which makes it
// idempotent.
package menuaccess

import (
	"errors"
	"fmt"
	"sort"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/CargoLink-Admin/CargoLink-Admin/internal/db/models"
	"github.com/CargoLink-Admin/CargoLink-Admin/internal/web/navigation"
)

const whereUserIs = "user_id = ?"

var (
	// ErrUnknownMenuKey is returned when a key outside the navigation catalog is saved.
	ErrUnknownMenuKey = errors.New("unknown menu key")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Get returns the stored menu set for a user.
// Absence of an entry yields an empty set, not an error.
func Get(db *gorm.DB, userID uint64) ([]string, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var entry models.MenuAccess
	result := db.Where(whereUserIs, userID).First(&entry)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return []string{}, nil
		}
		return nil, result.Error
	}

	return Canonical(entry.Items), nil
}

// Toggle returns the set with key added (included=true) or removed
// (included=false). It never persists; callers batch toggles and Save once.
func Toggle(items []string, key string, included bool) []string {
	out := make([]string, 0, len(items)+1)

	for _, item := range items {
		if item != key {
			out = append(out, item)
		}
	}

	if included {
		out = append(out, key)
	}

	return Canonical(out)
}

// Save replaces the whole stored set for a user (upsert keyed by user_id).
// Every key must belong to the navigation catalog.
func Save(db *gorm.DB, userID uint64, items []string) error {
	if db == nil {
		return ErrDBNil
	}

	for _, key := range items {
		if !navigation.IsValidKey(key) {
			return fmt.Errorf("%w: %q", ErrUnknownMenuKey, key)
		}
	}

	entry := models.MenuAccess{
		UserID: userID,
		Items:  Canonical(items),
	}

	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"items", "updated_at"}),
	}).Create(&entry).Error
}

// Canonical returns the sorted, deduplicated form of a menu set.
// Menu keys carry no ordering significance; storing the canonical form keeps
// round-trips comparable with plain equality.
func Canonical(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))

	for _, item := range items {
		if !seen[item] {
			seen[item] = true
			out = append(out, item)
		}
	}

	sort.Strings(out)

	return out
}
