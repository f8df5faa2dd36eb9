package identity

// EventType classifies identity-provider webhook deliveries. Anything
// outside the known lifecycle events maps to EventTypeUnknown, which is
// accepted and ignored rather than rejected.
type EventType string

const (
	// EventTypeUserCreated is delivered when a provider account is created
	EventTypeUserCreated EventType = "user.created"
	// EventTypeUserUpdated is delivered when a provider account changes
	EventTypeUserUpdated EventType = "user.updated"
	// EventTypeUserDeleted is delivered when a provider account is removed
	EventTypeUserDeleted EventType = "user.deleted"
	// EventTypeUnknown covers every other delivery type
	EventTypeUnknown EventType = ""
)

// ParseEventType maps a raw envelope type onto a known lifecycle event
func ParseEventType(s string) EventType {
	switch EventType(s) {
	case EventTypeUserCreated, EventTypeUserUpdated, EventTypeUserDeleted:
		return EventType(s)
	}
	return EventTypeUnknown
}

// EmailAddress is one entry of the provider's email address array
type EmailAddress struct {
	ID           string `json:"id"`
	EmailAddress string `json:"email_address"`
}

// ProviderUser is the provider-supplied user object carried in webhook
// payloads. Timestamps are milliseconds since the Unix epoch.
type ProviderUser struct {
	ID                    string         `json:"id"`
	EmailAddresses        []EmailAddress `json:"email_addresses"`
	PrimaryEmailAddressID string         `json:"primary_email_address_id"`
	FirstName             *string        `json:"first_name"`
	LastName              *string        `json:"last_name"`
	ImageURL              string         `json:"image_url"`
	ProfileImageURL       string         `json:"profile_image_url"`
	CreatedAt             int64          `json:"created_at"`
	UpdatedAt             int64          `json:"updated_at"`
}

// PrimaryEmail resolves the payload's primary email address: the entry
// matching the primary email id wins, then the first entry, then the
// empty string when the array is empty.
func (u *ProviderUser) PrimaryEmail() string {
	for _, email := range u.EmailAddresses {
		if email.ID == u.PrimaryEmailAddressID {
			return email.EmailAddress
		}
	}
	if len(u.EmailAddresses) > 0 {
		return u.EmailAddresses[0].EmailAddress
	}
	return ""
}

// Image resolves the profile image, preferring the primary image field
// over the legacy one. Returns nil when neither is set.
func (u *ProviderUser) Image() *string {
	if u.ImageURL != "" {
		return &u.ImageURL
	}
	if u.ProfileImageURL != "" {
		return &u.ProfileImageURL
	}
	return nil
}

// Envelope is the verified webhook envelope: an event type plus the
// provider user object it concerns
type Envelope struct {
	Type string       `json:"type"`
	Data ProviderUser `json:"data"`
}
