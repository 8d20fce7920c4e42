package models

import "time"

// Post represents a news feed entry on the public site.
type Post struct {
	// ID is the unique identifier for the post.
	ID uint64 `gorm:"primaryKey"`
	// Title is the headline shown in the feed.
	Title string `gorm:"size:255;not null"`
	// Slug is the unique URL fragment for the post.
	Slug string `gorm:"unique;size:255;not null"`
	// Body is the post content.
	Body string `gorm:"type:text"`
	// CoverKey is the object-store key of the cover image (empty if none).
	CoverKey string `gorm:"size:255"`
	// Published controls visibility on the public feed.
	Published bool `gorm:"default:false"`
	// CreatedBy is the ID of the admin user who authored the post.
	CreatedBy uint64
	// CreatedAt is the timestamp when the post was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the post was last updated (managed by GORM).
	UpdatedAt time.Time
}

// TableName specifies the database table name for the Post model.
func (Post) TableName() string {
	return "posts"
}
