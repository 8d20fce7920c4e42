package models

import "time"

// SiteSetting is one key/value pair of public site configuration,
// e.g. the contact email, office address or map embed URL.
type SiteSetting struct {
	// ID is the unique identifier for the setting.
	ID uint64 `gorm:"primaryKey"`
	// Key is the unique setting name.
	Key string `gorm:"unique;size:100;not null"`
	// Value is the setting content.
	Value string `gorm:"type:text"`
	// UpdatedAt is the timestamp when the setting was last changed (managed by GORM).
	UpdatedAt time.Time
}

// TableName specifies the database table name for the SiteSetting model.
func (SiteSetting) TableName() string {
	return "site_settings"
}
