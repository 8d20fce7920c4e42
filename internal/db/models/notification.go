package models

import "time"

// NotificationKind enumerates the site events aggregated for admins.
type NotificationKind string

const (
	// NotificationKindApplication signals a new job application.
	NotificationKindApplication NotificationKind = "application"
	// NotificationKindPost signals a newly published post.
	NotificationKindPost NotificationKind = "post"
	// NotificationKindContact signals a message from the contact form.
	NotificationKindContact NotificationKind = "contact"
)

// Notification is one entry on the admin notification page.
// Rows are written by the queue consumer from site events and marked read
// by administrators.
type Notification struct {
	// ID is the unique identifier for the notification.
	ID uint64 `gorm:"primaryKey"`
	// EventID is the idempotency key of the originating event.
	EventID string `gorm:"size:64;uniqueIndex"`
	// Kind categorizes the notification.
	Kind NotificationKind `gorm:"type:varchar(30);not null"`
	// Subject is the short line shown in the list.
	Subject string `gorm:"size:255;not null"`
	// Body carries the event details.
	Body string `gorm:"type:text"`
	// ReadAt is set when an admin marks the notification read (nil = unread).
	ReadAt *time.Time
	// CreatedAt is the timestamp when the notification was written (managed by GORM).
	CreatedAt time.Time
}

// TableName specifies the database table name for the Notification model.
func (Notification) TableName() string {
	return "notifications"
}
