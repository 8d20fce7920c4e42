package models

import "time"

// UserRole is the join record linking one user to one role.
// The table is shaped many-to-many, but the unique index on UserID enforces
// the assignment policy of at most one active role per user: reassignment
// updates the existing row instead of appending a second one.
type UserRole struct {
	// ID is the unique identifier for the link.
	ID uint64 `gorm:"primaryKey"`
	// UserID is the ID of the linked user. Unique so a user holds one role.
	UserID uint64 `gorm:"not null;uniqueIndex"`
	// RoleID is the ID of the linked role.
	RoleID uint `gorm:"not null"`
	// User is the associated user (loaded via foreign key).
	// When a user is deleted, their role link is automatically removed (CASCADE).
	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	// Role is the associated role (loaded via foreign key).
	// Roles with links cannot be deleted (RESTRICT).
	Role Role `gorm:"foreignKey:RoleID;constraint:OnDelete:RESTRICT"`
	// CreatedAt is the timestamp when the link was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the link was last reassigned (managed by GORM).
	UpdatedAt time.Time
}

// TableName specifies the database table name for the UserRole model.
// This overrides GORM's default pluralized table naming.
func (UserRole) TableName() string {
	return "user_roles"
}
