// Package notification records site events for the admin notification page.
//
// Rows are written by the queue consumer and read by the admin handler.
// Record is idempotent on the event ID so redelivered queue messages do not
// produce duplicate entries.
package notification

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/CargoLink-Admin/CargoLink-Admin/internal/db/models"
)

var (
	// ErrNotificationNotFound is returned when a notification is not found.
	ErrNotificationNotFound = errors.New("notification not found")
	// ErrEventIDEmpty is returned when recording an event without an ID.
	ErrEventIDEmpty = errors.New("event id cannot be empty")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Record stores a notification for an event. Recording the same event ID
// twice leaves the original row untouched.
func Record(db *gorm.DB, eventID string, kind models.NotificationKind, subject, body string) error {
	if db == nil {
		return ErrDBNil
	}
	if eventID == "" {
		return ErrEventIDEmpty
	}

	entry := models.Notification{
		EventID: eventID,
		Kind:    kind,
		Subject: subject,
		Body:    body,
	}

	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "event_id"}},
		DoNothing: true,
	}).Create(&entry).Error
}

// GetAll retrieves notifications newest first, unread included.
func GetAll(db *gorm.DB, limit int) ([]models.Notification, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var entries []models.Notification
	tx := db.Order("created_at DESC")
	if limit > 0 {
		tx = tx.Limit(limit)
	}

	result := tx.Find(&entries)
	if result.Error != nil {
		return nil, result.Error
	}

	return entries, nil
}

// UnreadCount returns the number of unread notifications.
func UnreadCount(db *gorm.DB) (int64, error) {
	if db == nil {
		return 0, ErrDBNil
	}

	var count int64
	result := db.Model(&models.Notification{}).Where("read_at IS NULL").Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}

	return count, nil
}

// MarkRead stamps a notification as read. Marking an already-read
// notification again keeps the original timestamp.
func MarkRead(db *gorm.DB, id uint64) error {
	if db == nil {
		return ErrDBNil
	}

	var entry models.Notification
	result := db.First(&entry, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return ErrNotificationNotFound
		}
		return result.Error
	}

	if entry.ReadAt != nil {
		return nil
	}

	now := time.Now()
	entry.ReadAt = &now

	return db.Save(&entry).Error
}

// MarkAllRead stamps every unread notification as read.
func MarkAllRead(db *gorm.DB) error {
	if db == nil {
		return ErrDBNil
	}

	return db.Model(&models.Notification{}).
		Where("read_at IS NULL").
		Update("read_at", time.Now()).Error
}
