package schema

import (
	"time"

	"gorm.io/datatypes"
)

// IdentityEvent represents the identity_events table - an audit log of
// processed identity-provider webhook deliveries. Writes are best effort;
// a failed insert never fails the webhook itself.
type IdentityEvent struct {
	// ID is an auto-incrementing sequence number
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	// EventID is the provider's delivery identifier, when present
	EventID string `gorm:"column:event_id;not null;type:text;index"`
	// EventType is the provider event type (e.g. "user.created")
	EventType string `gorm:"column:event_type;not null;type:text"`
	// ProviderUserID is the subject user of the event
	ProviderUserID string `gorm:"column:provider_user_id;not null;type:text;index"`
	// Payload is the raw delivery body as received
	Payload datatypes.JSON `gorm:"column:payload;not null;type:jsonb"`
	// ReceivedAt is when the delivery was processed
	ReceivedAt time.Time `gorm:"column:received_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the IdentityEvent model
func (IdentityEvent) TableName() string {
	return "identity_events"
}
