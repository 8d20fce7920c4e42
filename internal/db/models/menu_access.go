package models

import "time"

// MenuAccess is the per-user allow-list of admin navigation keys.
// Items holds opaque menu keys drawn from the fixed catalog in the navigation
// package; it is replaced wholesale on save (upsert keyed by UserID). Absence
// of a row means no custom restriction has been stored for the user yet.
type MenuAccess struct {
	// ID is the unique identifier for the entry.
	ID uint64 `gorm:"primaryKey"`
	// UserID is the ID of the user the allow-list belongs to.
	UserID uint64 `gorm:"not null;uniqueIndex"`
	// Items is the set of visible menu keys, stored as a JSON array in
	// canonical (sorted, deduplicated) form.
	Items []string `gorm:"serializer:json"`
	// CreatedAt is the timestamp when the entry was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the entry was last replaced (managed by GORM).
	UpdatedAt time.Time
}

// TableName specifies the database table name for the MenuAccess model.
// This overrides GORM's default pluralized table naming.
func (MenuAccess) TableName() string {
	return "user_menu_access"
}
