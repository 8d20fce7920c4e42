package queue

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/CargoLink-Admin/CargoLink-Admin/internal/config"
	"github.com/CargoLink-Admin/CargoLink-Admin/internal/db/controller/notification"
	"github.com/CargoLink-Admin/CargoLink-Admin/internal/db/models"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	// Migrate the schema
	err = db.AutoMigrate(&models.Notification{})
	require.NoError(t, err, "failed to migrate test database")

	return db
}

func TestEventConstructors(t *testing.T) {
	app := NewApplicationEvent("Dispatcher", "Jan Kowalski")
	assert.NotEmpty(t, app.ID)
	assert.Equal(t, models.NotificationKindApplication, app.Kind)
	assert.Contains(t, app.Subject, "Dispatcher")
	assert.Contains(t, app.Body, "Jan Kowalski")

	post := NewPostEvent("New warehouse opened")
	assert.Equal(t, models.NotificationKindPost, post.Kind)
	assert.Contains(t, post.Subject, "New warehouse opened")

	contact := NewContactEvent("Anna", "anna@example.com", "Hello")
	assert.Equal(t, models.NotificationKindContact, contact.Kind)
	assert.Contains(t, contact.Body, "anna@example.com")

	// IDs must be unique per occurrence.
	assert.NotEqual(t, app.ID, NewApplicationEvent("Dispatcher", "Jan Kowalski").ID)
}

func TestNotifier_HandleEvent(t *testing.T) {
	db := setupTestDB(t)
	n := NewNotifier(db)

	event := NewContactEvent("Anna", "anna@example.com", "Hello")

	require.NoError(t, n.HandleEvent(event))

	// Redelivery of the same event must not duplicate the row.
	require.NoError(t, n.HandleEvent(event))

	entries, err := notification.GetAll(db, 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, event.ID, entries[0].EventID)
	assert.Equal(t, models.NotificationKindContact, entries[0].Kind)
}

func TestDisabledQueue(t *testing.T) {
	cfg := config.Queue{Enabled: false}

	producer := NewProducer(cfg)
	assert.Nil(t, producer)

	// Publishing and closing on a nil producer must be safe no-ops.
	assert.NoError(t, producer.Publish(context.Background(), NewPostEvent("x")))
	assert.NoError(t, producer.Close())

	consumer := NewConsumer(cfg, NewNotifier(nil))
	assert.Nil(t, consumer)

	consumer.Listen(context.Background())
	assert.NoError(t, consumer.Close())
}
