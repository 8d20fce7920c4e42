package queue

import (
	"gorm.io/gorm"

	"github.com/CargoLink-Admin/CargoLink-Admin/internal/db/controller/notification"
)

// Notifier is the EventHandler that turns site events into notification rows.
type Notifier struct {
	db *gorm.DB
}

// NewNotifier creates a notifier writing to the given database.
func NewNotifier(db *gorm.DB) *Notifier {
	return &Notifier{db: db}
}

// HandleEvent records the event as a notification. The event ID keys the
// write, so a redelivered event never produces a second row.
func (n *Notifier) HandleEvent(event Event) error {
	return notification.Record(n.db, event.ID, event.Kind, event.Subject, event.Body)
}
