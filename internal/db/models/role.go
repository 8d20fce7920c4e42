// Package models contains database model definitions.
package models

import "time"

// Role represents a named capability bundle assignable to a user.
// Roles flagged IsAdmin grant full administrative capability; roles flagged
// IsSystem are built in and cannot be removed through the admin surface.
// This subsystem exposes no delete operation for roles.
type Role struct {
	// ID is the unique identifier for the role.
	ID uint `gorm:"primaryKey"`
	// Name is the unique name of the role (e.g., "admin", "user", "partner").
	Name string `gorm:"unique;size:100;not null"`
	// Description provides a human-readable description of the role's purpose.
	Description string `gorm:"size:255"`
	// IsSystem indicates if this is a built-in role that cannot be deleted.
	IsSystem bool `gorm:"default:false"`
	// IsAdmin indicates if this role grants administrative capability.
	IsAdmin bool `gorm:"default:false"`
	// CreatedBy is the ID of the user who created the role (0 for seeded roles).
	CreatedBy uint64
	// CreatedAt is the timestamp when the role was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the role was last updated (managed by GORM).
	UpdatedAt time.Time
}

// TableName specifies the database table name for the Role model.
// This overrides GORM's default pluralized table naming.
func (Role) TableName() string {
	return "roles"
}
