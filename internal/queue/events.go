// Package queue carries site events from the public endpoints to the admin
// notification page over Kafka. Every event has a unique ID used as the
// idempotency key when the consumer records it, so redelivery is harmless.
package queue

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/CargoLink-Admin/CargoLink-Admin/internal/db/models"
)

// Event is one site occurrence published to the notification stream.
type Event struct {
	// ID is the idempotency key, unique per occurrence.
	ID string `json:"id"`
	// Kind categorizes the event.
	Kind models.NotificationKind `json:"kind"`
	// Subject is the short line shown on the notification page.
	Subject string `json:"subject"`
	// Body carries the event details.
	Body string `json:"body"`
	// OccurredAt is when the event happened.
	OccurredAt time.Time `json:"occurred_at"`
}

// NewApplicationEvent builds the event for a submitted job application.
func NewApplicationEvent(offerTitle, candidateName string) Event {
	return Event{
		ID:         uuid.NewString(),
		Kind:       models.NotificationKindApplication,
		Subject:    fmt.Sprintf("New application for %s", offerTitle),
		Body:       fmt.Sprintf("%s applied for the position %q.", candidateName, offerTitle),
		OccurredAt: time.Now(),
	}
}

// NewPostEvent builds the event for a newly published post.
func NewPostEvent(title string) Event {
	return Event{
		ID:         uuid.NewString(),
		Kind:       models.NotificationKindPost,
		Subject:    fmt.Sprintf("Post published: %s", title),
		Body:       fmt.Sprintf("The post %q is now live on the public site.", title),
		OccurredAt: time.Now(),
	}
}

// NewContactEvent builds the event for a contact form message.
func NewContactEvent(senderName, senderEmail, message string) Event {
	return Event{
		ID:         uuid.NewString(),
		Kind:       models.NotificationKindContact,
		Subject:    fmt.Sprintf("Contact message from %s", senderName),
		Body:       fmt.Sprintf("From: %s <%s>\n\n%s", senderName, senderEmail, message),
		OccurredAt: time.Now(),
	}
}
