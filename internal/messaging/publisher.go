package messaging

import (
	"context"
	"time"
)

// UserEvent is the bus message published after an identity-provider event
// has been synced into the local store
type UserEvent struct {
	// EventID is a unique identifier for this event (ULID for time-sortable uniqueness)
	EventID string `json:"event_id"`
	// EventType is the synced lifecycle event (e.g. "user.created")
	EventType string `json:"event_type"`
	// ProviderUserID is the identity provider's id of the affected user
	ProviderUserID string `json:"provider_user_id"`
	// Timestamp is when the sync completed
	Timestamp time.Time `json:"timestamp"`
}

// Publisher defines the interface for publishing events to the message bus
type Publisher interface {
	// PublishUserEvent publishes a synced identity event to the message broker
	PublishUserEvent(ctx context.Context, event *UserEvent) error
	// Close closes the connection
	Close()
}
